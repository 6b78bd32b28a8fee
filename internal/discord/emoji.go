package discord

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// customEmojiRe matches serialized custom emoji, animated or not:
// <:name:id> and <a:name:id>.
var customEmojiRe = regexp.MustCompile(`^<(a?):([A-Za-z0-9_~]+):([0-9]+)>$`)

var errEmptyEmoji = errors.New("empty emoji reference")

// ParseEmoji normalizes a user-supplied emoji argument to its stored form:
// custom emoji keep their <a:name:id> serialization, anything else is
// treated as a unicode emoji and stored verbatim. The bot must share a
// guild with a custom emoji to use it; that is checked by Discord when
// the reaction is sent, not here.
func ParseEmoji(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errEmptyEmoji
	}
	if m := customEmojiRe.FindStringSubmatch(trimmed); m != nil {
		return fmt.Sprintf("<%s:%s:%s>", m[1], m[2], m[3]), nil
	}
	return trimmed, nil
}

// ReactionID converts a stored emoji reference into the identifier the
// reaction endpoint expects: "name:id" for custom emoji, the raw
// codepoints for unicode.
func ReactionID(stored string) string {
	if m := customEmojiRe.FindStringSubmatch(stored); m != nil {
		return m[2] + ":" + m[3]
	}
	return stored
}
