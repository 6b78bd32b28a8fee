package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/mementomori/mementobot/internal/config"
	"github.com/mementomori/mementobot/internal/trigger"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check environment and trigger store health",
		Run: func(cmd *cobra.Command, args []string) {
			runDoctor()
		},
	}
}

func runDoctor() {
	fmt.Println("mementobot doctor")
	fmt.Printf("  Version:  %s\n", version)
	fmt.Printf("  OS:       %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("  Go:       %s\n", runtime.Version())
	fmt.Println()

	cfgPath := resolveConfigPath()
	fmt.Printf("  Config:   %s", cfgPath)
	if _, err := os.Stat(cfgPath); err != nil {
		fmt.Println(" (NOT FOUND, defaults + env apply)")
	} else {
		fmt.Println(" (OK)")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  Config load error: %s\n", err)
		return
	}

	fmt.Print("  Token:    ")
	if cfg.Token != "" {
		fmt.Println("set")
	} else {
		fmt.Println("MISSING (set DISCORD_TOKEN)")
	}

	dataDir := config.ExpandHome(cfg.DataDir)
	fmt.Printf("  Data dir: %s", dataDir)
	if _, err := os.Stat(dataDir); err != nil {
		fmt.Println(" (NOT FOUND, created on first save)")
	} else {
		fmt.Println(" (OK)")
	}

	svc := trigger.NewService(cfg.StorePath(), cfg.PhraseLimit)
	svc.Load()
	total := 0
	guilds := svc.Guilds()
	for _, g := range guilds {
		total += len(svc.ListTriggers(g))
	}
	fmt.Printf("  Store:    %s (%d guilds, %d triggers, limit %d/guild)\n",
		svc.Path(), len(guilds), total, svc.Limit())

	fmt.Println()
	fmt.Println("Doctor check complete.")
}
