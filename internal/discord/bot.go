// Package discord is the thin adapter between the Discord gateway and the
// trigger core: it surfaces the management slash commands and scans guild
// messages for trigger phrases.
package discord

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/mementomori/mementobot/internal/config"
	"github.com/mementomori/mementobot/internal/trigger"
)

// Bot wraps a discordgo session wired to the trigger service.
type Bot struct {
	session *discordgo.Session
	store   *trigger.Service
	guildID string
}

// New builds the session and registers the event handlers. Start opens
// the gateway connection.
func New(cfg *config.Config, store *trigger.Service) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	// Message-content intent must also be enabled in the Dev Portal.
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	b := &Bot{
		session: session,
		store:   store,
		guildID: cfg.GuildID,
	}
	session.AddHandler(b.onInteractionCreate)
	session.AddHandler(b.onMessageCreate)
	return b, nil
}

// Start opens the gateway connection and syncs the slash commands.
// Global registration can take up to an hour to propagate; set GuildID
// for instant per-guild registration during development.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	me := b.session.State.User
	slog.Info("logged in", "user", me.String(), "id", me.ID)

	if _, err := b.session.ApplicationCommandBulkOverwrite(me.ID, b.guildID, commands); err != nil {
		b.session.Close()
		return fmt.Errorf("register commands: %w", err)
	}
	if b.guildID != "" {
		slog.Info("slash commands registered", "guild", b.guildID)
	} else {
		slog.Info("slash commands registered globally")
	}
	return nil
}

// Stop closes the gateway connection. Registered commands are left in
// place so reconnecting bots don't churn them.
func (b *Bot) Stop() {
	if err := b.session.Close(); err != nil {
		slog.Warn("error closing discord session", "error", err)
	}
	slog.Info("discord session closed")
}
