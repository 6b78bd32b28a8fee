package trigger

import "strings"

// Match scans entries in registration order and returns the first whose
// phrase is contained in the message text, compared case-insensitively.
// Later entries are not considered once one matches.
//
// Matching is plain substring containment, not word-anchored: a phrase
// "mori" registered before "memento mori" wins for the text
// "memento mori", and also fires inside "memoriam". This mirrors the
// registration-order semantics users rely on and is kept as-is.
func Match(content string, entries []Entry) (Entry, bool) {
	if len(entries) == 0 {
		return Entry{}, false
	}
	lowered := strings.ToLower(content)
	for _, e := range entries {
		if strings.Contains(lowered, e.Phrase) {
			return e, true
		}
	}
	return Entry{}, false
}
