package trigger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func newTestService(t *testing.T, limit int) *Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "triggers.json")
	svc := NewService(path, limit)
	svc.Load()
	return svc
}

func TestLoad_MissingFile(t *testing.T) {
	svc := newTestService(t, 0)
	if got := len(svc.Guilds()); got != 0 {
		t.Errorf("expected empty store, got %d guilds", got)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triggers.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	svc := NewService(path, 0)
	svc.Load()

	if got := len(svc.Guilds()); got != 0 {
		t.Errorf("expected empty store after corrupt load, got %d guilds", got)
	}

	// The corrupt file must be left in place, not deleted.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("corrupt file should still exist: %v", err)
	}
	if string(data) != "{not json" {
		t.Errorf("corrupt file was modified: %q", data)
	}
}

func TestUpsertTrigger_RoundTrip(t *testing.T) {
	svc := newTestService(t, 0)

	inserts := []struct {
		phrase  string
		trigger Trigger
	}{
		{"Memento Mori", NewReaction("<a:MM:1367615846259621908>")},
		{"  hello there  ", NewReply("General Kenobi")},
		{"carpe diem", NewReply("seize it")},
	}

	for _, in := range inserts {
		if _, err := svc.UpsertTrigger("42", in.phrase, in.trigger); err != nil {
			t.Fatalf("upsert %q: %v", in.phrase, err)
		}

		// Reload from disk after every save and compare.
		fresh := NewService(svc.Path(), 0)
		fresh.Load()
		want := svc.ListTriggers("42")
		got := fresh.ListTriggers("42")
		if len(got) != len(want) {
			t.Fatalf("reloaded %d entries, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("entry %d: reloaded %+v, want %+v", i, got[i], want[i])
			}
		}
	}
}

func TestUpsertTrigger_PreservesInsertionOrder(t *testing.T) {
	svc := newTestService(t, 0)

	phrases := []string{"zeta", "alpha", "mori", "beta"}
	for _, p := range phrases {
		if _, err := svc.UpsertTrigger("g", p, NewReply("x")); err != nil {
			t.Fatal(err)
		}
	}

	fresh := NewService(svc.Path(), 0)
	fresh.Load()
	entries := fresh.ListTriggers("g")
	if len(entries) != len(phrases) {
		t.Fatalf("got %d entries, want %d", len(entries), len(phrases))
	}
	for i, p := range phrases {
		if entries[i].Phrase != p {
			t.Errorf("position %d: got %q, want %q", i, entries[i].Phrase, p)
		}
	}
}

func TestUpsertTrigger_Normalization(t *testing.T) {
	svc := newTestService(t, 0)

	norm, err := svc.UpsertTrigger("g", "  MEMENTO Mori ", NewReply("x"))
	if err != nil {
		t.Fatal(err)
	}
	if norm != "memento mori" {
		t.Errorf("normalized to %q, want %q", norm, "memento mori")
	}

	if _, err := svc.UpsertTrigger("g", "   ", NewReply("x")); !errors.Is(err, ErrEmptyPhrase) {
		t.Errorf("blank phrase: got %v, want ErrEmptyPhrase", err)
	}
}

func TestUpsertTrigger_Validation(t *testing.T) {
	svc := newTestService(t, 0)

	tests := []struct {
		name    string
		trigger Trigger
	}{
		{"reaction_without_emoji", Trigger{Kind: KindReaction}},
		{"reply_without_text", Trigger{Kind: KindReply}},
		{"unknown_kind", Trigger{Kind: "shrug", Emoji: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.UpsertTrigger("g", "phrase", tt.trigger); !errors.Is(err, ErrInvalidTrigger) {
				t.Errorf("got %v, want ErrInvalidTrigger", err)
			}
		})
	}

	if got := len(svc.ListTriggers("g")); got != 0 {
		t.Errorf("rejected triggers must not mutate the store, got %d entries", got)
	}
}

func TestUpsertTrigger_Limit(t *testing.T) {
	svc := newTestService(t, 5)

	for i := 0; i < 5; i++ {
		if _, err := svc.UpsertTrigger("g", fmt.Sprintf("phrase-%d", i), NewReply("x")); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	if _, err := svc.UpsertTrigger("g", "one-too-many", NewReply("x")); !errors.Is(err, ErrTriggerLimit) {
		t.Fatalf("got %v, want ErrTriggerLimit", err)
	}
	if got := len(svc.ListTriggers("g")); got != 5 {
		t.Errorf("rejected insert changed size to %d, want 5", got)
	}

	// Updating an existing phrase never counts against the limit.
	if _, err := svc.UpsertTrigger("g", "phrase-3", NewReaction("🔥")); err != nil {
		t.Errorf("update at limit: %v", err)
	}
	if got := len(svc.ListTriggers("g")); got != 5 {
		t.Errorf("update changed size to %d, want 5", got)
	}

	// Other guilds have their own budget.
	if _, err := svc.UpsertTrigger("other", "fresh", NewReply("x")); err != nil {
		t.Errorf("other guild: %v", err)
	}
}

func TestRemoveTrigger(t *testing.T) {
	svc := newTestService(t, 0)

	if _, err := svc.UpsertTrigger("g", "memento mori", NewReply("x")); err != nil {
		t.Fatal(err)
	}

	removed, err := svc.RemoveTrigger("g", " MEMENTO MORI ")
	if err != nil {
		t.Fatal(err)
	}
	if !removed {
		t.Error("expected removal of registered phrase")
	}

	removed, err = svc.RemoveTrigger("g", "never registered")
	if err != nil {
		t.Fatal(err)
	}
	if removed {
		t.Error("removing an unregistered phrase must report false")
	}
}

func TestRemoveTrigger_UnknownPhraseDoesNotRePersist(t *testing.T) {
	svc := newTestService(t, 0)
	if _, err := svc.UpsertTrigger("g", "keep", NewReply("x")); err != nil {
		t.Fatal(err)
	}

	before, err := os.Stat(svc.Path())
	if err != nil {
		t.Fatal(err)
	}

	if removed, _ := svc.RemoveTrigger("g", "missing"); removed {
		t.Fatal("unexpected removal")
	}

	after, err := os.Stat(svc.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !after.ModTime().Equal(before.ModTime()) || after.Size() != before.Size() {
		t.Error("no-op removal re-persisted the store")
	}
}

func TestSetAdminRole_Persists(t *testing.T) {
	svc := newTestService(t, 0)

	if svc.AdminRole("g") != nil {
		t.Fatal("fresh guild should have no admin role")
	}
	if err := svc.SetAdminRole("g", 1367615846259621908); err != nil {
		t.Fatal(err)
	}

	fresh := NewService(svc.Path(), 0)
	fresh.Load()
	role := fresh.AdminRole("g")
	if role == nil || *role != 1367615846259621908 {
		t.Errorf("reloaded admin role = %v, want 1367615846259621908", role)
	}
}

func TestGetOrCreate_DefaultsNotPersisted(t *testing.T) {
	svc := newTestService(t, 0)

	// Reads lazily create an in-memory default entry...
	if got := svc.ListTriggers("ghost"); len(got) != 0 {
		t.Fatalf("fresh guild has %d triggers", len(got))
	}

	// ...but nothing hits disk until a mutation.
	if _, err := os.Stat(svc.Path()); !os.IsNotExist(err) {
		t.Error("read access persisted the store")
	}
}

func TestFileFormat(t *testing.T) {
	svc := newTestService(t, 0)

	if _, err := svc.UpsertTrigger("1098", "memento mori", NewReaction("<a:MM:1367615846259621908>")); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UpsertTrigger("1098", "hello", NewReply("hi there")); err != nil {
		t.Fatal(err)
	}
	if err := svc.SetAdminRole("1098", 555); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(svc.Path())
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]struct {
		AdminRole *uint64                      `json:"admin_role"`
		Triggers  map[string]map[string]string `json:"triggers"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("persisted file is not valid JSON: %v", err)
	}

	entry, ok := raw["1098"]
	if !ok {
		t.Fatalf("guild key missing, file: %s", data)
	}
	if entry.AdminRole == nil || *entry.AdminRole != 555 {
		t.Errorf("admin_role = %v, want 555", entry.AdminRole)
	}
	if got := entry.Triggers["memento mori"]["type"]; got != "reaction" {
		t.Errorf("reaction type = %q", got)
	}
	if got := entry.Triggers["memento mori"]["emoji"]; got != "<a:MM:1367615846259621908>" {
		t.Errorf("reaction emoji = %q", got)
	}
	if _, present := entry.Triggers["memento mori"]["response"]; present {
		t.Error("reaction trigger must not carry a response field")
	}
	if got := entry.Triggers["hello"]["response"]; got != "hi there" {
		t.Errorf("reply response = %q", got)
	}
	if _, present := entry.Triggers["hello"]["emoji"]; present {
		t.Error("reply trigger must not carry an emoji field")
	}
}

func TestConcurrentSaves(t *testing.T) {
	svc := newTestService(t, 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				phrase := fmt.Sprintf("phrase-%d-%d", n, j)
				if _, err := svc.UpsertTrigger("g", phrase, NewReply("x")); err != nil {
					t.Errorf("upsert %s: %v", phrase, err)
				}
			}
		}(i)
	}
	wg.Wait()

	// The on-disk file must be valid JSON matching the final in-memory state.
	fresh := NewService(svc.Path(), 0)
	fresh.Load()
	if got, want := len(fresh.ListTriggers("g")), len(svc.ListTriggers("g")); got != want {
		t.Errorf("reloaded %d triggers, want %d", got, want)
	}
	if got := len(fresh.ListTriggers("g")); got != 80 {
		t.Errorf("expected 80 triggers after concurrent inserts, got %d", got)
	}
}
