package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mementomori/mementobot/internal/trigger"
)

func triggersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "triggers",
		Short: "Inspect and edit the trigger store offline",
	}
	cmd.AddCommand(triggersListCmd())
	cmd.AddCommand(triggersRemoveCmd())
	cmd.AddCommand(triggersExportCmd())
	return cmd
}

func triggersListCmd() *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "list [guildID]",
		Short: "List registered triggers, all guilds or one",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			svc := loadTriggerStore()

			guilds := svc.Guilds()
			if len(args) == 1 {
				guilds = []string{args[0]}
			}
			printTriggers(svc, guilds, jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func triggersRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [guildID] [phrase]",
		Short: "Delete a trigger phrase from a guild",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			svc := loadTriggerStore()
			removed, err := svc.RemoveTrigger(args[0], args[1])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %s\n", err)
				os.Exit(1)
			}
			if !removed {
				fmt.Fprintln(os.Stderr, "That phrase was not registered.")
				os.Exit(1)
			}
			fmt.Printf("Removed %q from guild %s\n", trigger.NormalizePhrase(args[1]), args[0])
		},
	}
}

func triggersExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the full trigger store as JSON",
		Run: func(cmd *cobra.Command, args []string) {
			svc := loadTriggerStore()
			data, err := svc.Export()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %s\n", err)
				os.Exit(1)
			}
			fmt.Println(string(data))
		},
	}
}

func loadTriggerStore() *trigger.Service {
	cfg := loadConfig()
	svc := trigger.NewService(cfg.StorePath(), cfg.PhraseLimit)
	svc.Load()
	return svc
}

type triggerRow struct {
	Guild   string `json:"guild"`
	Phrase  string `json:"phrase"`
	Type    string `json:"type"`
	Payload string `json:"payload"`
}

func printTriggers(svc *trigger.Service, guilds []string, jsonOutput bool) {
	var rows []triggerRow
	for _, g := range guilds {
		for _, e := range svc.ListTriggers(g) {
			payload := e.Trigger.Response
			if e.Trigger.Kind == trigger.KindReaction {
				payload = e.Trigger.Emoji
			}
			rows = append(rows, triggerRow{
				Guild:   g,
				Phrase:  e.Phrase,
				Type:    string(e.Trigger.Kind),
				Payload: payload,
			})
		}
	}

	if jsonOutput {
		data, _ := json.MarshalIndent(rows, "", "  ")
		fmt.Println(string(data))
		return
	}

	if len(rows) == 0 {
		fmt.Println("No triggers set.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GUILD\tPHRASE\tACTION\tPAYLOAD")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Guild, r.Phrase, r.Type, r.Payload)
	}
	w.Flush()
}
