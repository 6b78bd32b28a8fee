// Package trigger implements the per-guild trigger store and matcher.
//
// Each guild owns an ordered map of phrase → action. A phrase is stored
// normalized (trimmed, lowercased) and fires at most one action when it
// appears as a substring of an incoming message. Actions are either an
// emoji reaction or a plain-text reply, never both.
//
// State persists as a single JSON document on disk
// (guild ID → {admin_role, triggers}), rewritten in full on every
// mutation via a temp-file-then-rename sequence.
package trigger

import (
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DefaultPhraseLimit caps the number of trigger phrases per guild.
const DefaultPhraseLimit = 100

// Kind discriminates the two trigger actions.
type Kind string

const (
	// KindReaction attaches an emoji reaction to the matched message.
	KindReaction Kind = "reaction"
	// KindReply posts a text reply to the matched message.
	KindReply Kind = "reply"
)

// Trigger is the action bound to one phrase. Exactly one payload field is
// populated, selected by Kind. Use NewReaction / NewReply to construct.
type Trigger struct {
	Kind     Kind   `json:"type"`
	Emoji    string `json:"emoji,omitempty"`
	Response string `json:"response,omitempty"`
}

// NewReaction builds a reaction trigger for an emoji reference
// (unicode codepoints or a serialized custom emoji like "<a:name:id>").
func NewReaction(emoji string) Trigger {
	return Trigger{Kind: KindReaction, Emoji: emoji}
}

// NewReply builds a reply trigger with literal response text.
func NewReply(text string) Trigger {
	return Trigger{Kind: KindReply, Response: text}
}

// Validate checks that the trigger carries the payload its kind requires.
func (t Trigger) Validate() error {
	switch t.Kind {
	case KindReaction:
		if t.Emoji == "" {
			return fmt.Errorf("%w: reaction trigger needs an emoji", ErrInvalidTrigger)
		}
	case KindReply:
		if t.Response == "" {
			return fmt.Errorf("%w: reply trigger needs response text", ErrInvalidTrigger)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidTrigger, t.Kind)
	}
	return nil
}

// TriggerMap preserves phrase insertion order across JSON round-trips, so
// listing and matching iterate phrases in the order they were registered.
type TriggerMap = orderedmap.OrderedMap[string, Trigger]

// GuildConfig is one guild's entry in the store.
type GuildConfig struct {
	// AdminRole, when set, is the sole role allowed to manage this
	// guild's triggers (platform administrators always may).
	AdminRole *uint64 `json:"admin_role"`

	Triggers *TriggerMap `json:"triggers"`
}

func newGuildConfig() *GuildConfig {
	return &GuildConfig{Triggers: orderedmap.New[string, Trigger]()}
}

// Store maps guild ID → guild configuration. It is owned by Service and
// must only be touched through its API.
type Store map[string]*GuildConfig

// Entry pairs a stored phrase with its trigger, in registration order.
type Entry struct {
	Phrase  string
	Trigger Trigger
}

// NormalizePhrase trims and lowercases a phrase. Phrases are stored and
// matched in this form only.
func NormalizePhrase(phrase string) string {
	return strings.ToLower(strings.TrimSpace(phrase))
}
