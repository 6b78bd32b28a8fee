// Package cmd wires the CLI: running the bot plus offline management of
// the trigger store.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mementomori/mementobot/internal/config"
)

const version = "0.1.0"

var configPath string

// Execute runs the root command.
func Execute() {
	root := &cobra.Command{
		Use:   "mementobot",
		Short: "Discord bot that answers trigger phrases with reactions or replies",
		Run: func(cmd *cobra.Command, args []string) {
			runBot()
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.mementobot/config.json5)")

	root.AddCommand(runCmd())
	root.AddCommand(triggersCmd())
	root.AddCommand(doctorCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv("MEMENTOBOT_CONFIG"); env != "" {
		return env
	}
	return config.ExpandHome("~/.mementobot/config.json5")
}

func loadConfig() *config.Config {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %s\n", err)
		os.Exit(1)
	}
	return cfg
}
