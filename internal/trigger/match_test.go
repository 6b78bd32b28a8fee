package trigger

import "testing"

func TestMatch(t *testing.T) {
	entries := []Entry{
		{Phrase: "memento mori", Trigger: NewReply("A")},
		{Phrase: "mori", Trigger: NewReply("B")},
		{Phrase: "carpe diem", Trigger: NewReaction("🔥")},
	}

	tests := []struct {
		name       string
		content    string
		wantPhrase string
		wantMatch  bool
	}{
		{"exact", "memento mori", "memento mori", true},
		{"case_insensitive", "MEMENTO MORI is real", "memento mori", true},
		{"embedded", "I say memento mori daily", "memento mori", true},
		{"first_match_wins", "memento mori", "memento mori", true},
		{"shorter_phrase_alone", "just mori here", "mori", true},
		{"mid_word", "in memoriam", "mori", true},
		{"later_entry", "Carpe Diem!", "carpe diem", true},
		{"no_match", "nothing to see", "", false},
		{"empty_message", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Match(tt.content, entries)
			if ok != tt.wantMatch {
				t.Fatalf("Match(%q) ok = %v, want %v", tt.content, ok, tt.wantMatch)
			}
			if ok && got.Phrase != tt.wantPhrase {
				t.Errorf("Match(%q) phrase = %q, want %q", tt.content, got.Phrase, tt.wantPhrase)
			}
		})
	}
}

func TestMatch_FirstMatchWinsOverLaterEntries(t *testing.T) {
	// "mori" registered first shadows the longer phrase forever.
	entries := []Entry{
		{Phrase: "mori", Trigger: NewReply("B")},
		{Phrase: "memento mori", Trigger: NewReply("A")},
	}
	got, ok := Match("memento mori", entries)
	if !ok {
		t.Fatal("expected a match")
	}
	if got.Trigger.Response != "B" {
		t.Errorf("got %q, want the earlier-registered trigger", got.Trigger.Response)
	}
}

func TestMatch_EmptyEntries(t *testing.T) {
	if _, ok := Match("anything at all", nil); ok {
		t.Error("empty trigger map must never match")
	}
}
