package discord

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mementomori/mementobot/internal/trigger"
)

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "trigger",
		Description: "Manage trigger phrases for this server",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Add or update a trigger phrase → action",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "phrase",
						Description: "Phrase to listen for (case-insensitive)",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "action",
						Description: "What to do when the phrase appears",
						Required:    true,
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "reaction", Value: "reaction"},
							{Name: "reply", Value: "reply"},
						},
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "emoji",
						Description: "Emoji for a reaction trigger",
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "response",
						Description: "Text for a reply trigger",
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Delete a trigger phrase",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "phrase",
						Description: "Phrase to delete",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List all trigger phrases in this server",
			},
		},
	},
	{
		Name:        "setadminrole",
		Description: "Choose which role can manage triggers in this server",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionRole,
				Name:        "role",
				Description: "Role allowed to manage triggers",
				Required:    true,
			},
		},
	},
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	if data.Name != "trigger" && data.Name != "setadminrole" {
		return
	}

	if i.GuildID == "" || i.Member == nil {
		b.respond(s, i, "This command only works inside a server.")
		return
	}
	if !b.authorized(i) {
		b.respond(s, i, "You are not allowed to manage triggers in this server.")
		return
	}

	switch data.Name {
	case "setadminrole":
		b.handleSetAdminRole(s, i, data)
	case "trigger":
		if len(data.Options) == 0 {
			return
		}
		sub := data.Options[0]
		switch sub.Name {
		case "add":
			b.handleTriggerAdd(s, i, sub)
		case "remove":
			b.handleTriggerRemove(s, i, sub)
		case "list":
			b.handleTriggerList(s, i)
		}
	}
}

// authorized resolves the caller's roles and permission flags and applies
// the trigger policy. Evaluated fresh on every command, never cached.
func (b *Bot) authorized(i *discordgo.InteractionCreate) bool {
	roles := make([]uint64, 0, len(i.Member.Roles))
	for _, r := range i.Member.Roles {
		id, err := strconv.ParseUint(r, 10, 64)
		if err != nil {
			continue
		}
		roles = append(roles, id)
	}
	perms := trigger.MemberPermissions{
		Administrator: i.Member.Permissions&discordgo.PermissionAdministrator != 0,
		ManageGuild:   i.Member.Permissions&discordgo.PermissionManageServer != 0,
	}
	return trigger.Authorized(roles, perms, b.store.AdminRole(i.GuildID))
}

func (b *Bot) handleTriggerAdd(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	opts := optionMap(sub.Options)

	phrase := opts["phrase"].StringValue()
	action := opts["action"].StringValue()

	var tr trigger.Trigger
	switch action {
	case "reaction":
		raw, ok := opts["emoji"]
		if !ok {
			b.respond(s, i, "You must supply an emoji for a reaction trigger.")
			return
		}
		emoji, err := ParseEmoji(raw.StringValue())
		if err != nil {
			b.respond(s, i, "That does not look like a usable emoji.")
			return
		}
		tr = trigger.NewReaction(emoji)
	case "reply":
		text, ok := opts["response"]
		if !ok {
			b.respond(s, i, "You must supply response text for a reply trigger.")
			return
		}
		tr = trigger.NewReply(text.StringValue())
	default:
		return
	}

	norm, err := b.store.UpsertTrigger(i.GuildID, phrase, tr)
	switch {
	case errors.Is(err, trigger.ErrTriggerLimit):
		b.respond(s, i, fmt.Sprintf("Trigger limit (%d) reached.", b.store.Limit()))
	case errors.Is(err, trigger.ErrEmptyPhrase):
		b.respond(s, i, "The trigger phrase cannot be empty.")
	case errors.Is(err, trigger.ErrInvalidTrigger):
		b.respond(s, i, "That trigger is missing its emoji or response text.")
	case err != nil:
		slog.Error("failed to save trigger", "guild", i.GuildID, "error", err)
		b.respond(s, i, "Could not save the trigger, try again later.")
	default:
		b.respond(s, i, fmt.Sprintf("Trigger for “%s” set to %s.", norm, action))
	}
}

func (b *Bot) handleTriggerRemove(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	opts := optionMap(sub.Options)
	phrase := opts["phrase"].StringValue()

	removed, err := b.store.RemoveTrigger(i.GuildID, phrase)
	switch {
	case err != nil:
		slog.Error("failed to remove trigger", "guild", i.GuildID, "error", err)
		b.respond(s, i, "Could not update the trigger store, try again later.")
	case removed:
		b.respond(s, i, fmt.Sprintf("Trigger “%s” removed.", trigger.NormalizePhrase(phrase)))
	default:
		b.respond(s, i, "That phrase was not registered.")
	}
}

func (b *Bot) handleTriggerList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	entries := b.store.ListTriggers(i.GuildID)
	if len(entries) == 0 {
		b.respond(s, i, "No triggers set.")
		return
	}

	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "• **%s** → %s\n", e.Phrase, e.Trigger.Kind)
	}
	b.respond(s, i, sb.String())
}

func (b *Bot) handleSetAdminRole(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	role := data.Options[0].RoleValue(s, i.GuildID)
	roleID, err := strconv.ParseUint(role.ID, 10, 64)
	if err != nil {
		b.respond(s, i, "Could not resolve that role.")
		return
	}

	if err := b.store.SetAdminRole(i.GuildID, roleID); err != nil {
		slog.Error("failed to set admin role", "guild", i.GuildID, "error", err)
		b.respond(s, i, "Could not save the admin role, try again later.")
		return
	}
	b.respond(s, i, fmt.Sprintf("Admin role set to <@&%s>.", role.ID))
}

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, o := range options {
		m[o.Name] = o
	}
	return m
}

// respond sends an ephemeral reply to an interaction.
func (b *Bot) respond(s *discordgo.Session, i *discordgo.InteractionCreate, msg string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		slog.Warn("error responding to interaction", "error", err)
	}
}
