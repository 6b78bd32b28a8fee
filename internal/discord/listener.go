package discord

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/mementomori/mementobot/internal/trigger"
)

// onMessageCreate scans each guild message against the guild's triggers
// and fires the first matching action. Delivery failures (missing
// reaction permission, unknown external emoji) are logged and never stop
// message processing.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	entries := b.store.ListTriggers(m.GuildID)
	hit, ok := trigger.Match(m.Content, entries)
	if !ok {
		return
	}

	switch hit.Trigger.Kind {
	case trigger.KindReaction:
		if err := s.MessageReactionAdd(m.ChannelID, m.ID, ReactionID(hit.Trigger.Emoji)); err != nil {
			slog.Warn("failed to react",
				"guild", m.GuildID,
				"phrase", hit.Phrase,
				"emoji", hit.Trigger.Emoji,
				"error", err,
			)
		}
	case trigger.KindReply:
		_, err := s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
			Content:   hit.Trigger.Response,
			Reference: m.Reference(),
			// No pings: replies must not mention the author.
			AllowedMentions: &discordgo.MessageAllowedMentions{},
		})
		if err != nil {
			slog.Warn("failed to reply",
				"guild", m.GuildID,
				"phrase", hit.Phrase,
				"error", err,
			)
		}
	}
}
