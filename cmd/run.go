package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mementomori/mementobot/internal/discord"
	"github.com/mementomori/mementobot/internal/trigger"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to Discord and serve triggers",
		Run: func(cmd *cobra.Command, args []string) {
			runBot()
		},
	}
}

func runBot() {
	cfg := loadConfig()
	if cfg.Token == "" {
		fmt.Fprintln(os.Stderr, "Error: Discord token is missing. Set DISCORD_TOKEN or the token config field.")
		os.Exit(1)
	}

	svc := trigger.NewService(cfg.StorePath(), cfg.PhraseLimit)
	svc.Load()
	slog.Info("trigger store loaded", "path", svc.Path(), "guilds", len(svc.Guilds()))

	bot, err := discord.New(cfg, svc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if err := bot.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	var watcher *trigger.Watcher
	if cfg.WatchStore {
		watcher, err = trigger.NewWatcher(svc)
		if err == nil {
			err = watcher.Start()
		}
		if err != nil {
			slog.Warn("trigger store watcher unavailable", "error", err)
			watcher = nil
		}
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	if watcher != nil {
		watcher.Stop()
	}
	bot.Stop()
}
