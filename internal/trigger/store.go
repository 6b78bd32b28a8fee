package trigger

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Service owns the trigger store for all guilds. Every mutation is a
// read-modify-write under one mutex and persists the full store before
// returning, so at most one temp-file-then-rename write is in flight at
// any time.
type Service struct {
	path  string
	limit int
	store Store
	mu    sync.Mutex
}

// NewService creates a trigger service backed by the JSON file at path.
// limit caps phrases per guild; values <= 0 fall back to
// DefaultPhraseLimit. Call Load before use.
func NewService(path string, limit int) *Service {
	if limit <= 0 {
		limit = DefaultPhraseLimit
	}
	return &Service{
		path:  path,
		limit: limit,
		store: Store{},
	}
}

// Limit returns the per-guild phrase ceiling.
func (s *Service) Limit() int {
	return s.limit
}

// Path returns the backing file path.
func (s *Service) Path() string {
	return s.path
}

// Load reads the store from disk. A missing file yields an empty store.
// A malformed file is logged and also yields an empty store; the corrupt
// file stays on disk untouched until the next successful save replaces it.
func (s *Service) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
}

// Reload re-reads the store from disk, replacing in-memory state. Used by
// the store watcher when the backing file changes externally.
func (s *Service) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	slog.Info("trigger store reloaded", "path", s.path, "guilds", len(s.store))
}

func (s *Service) loadLocked() {
	s.store = Store{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("could not read trigger store, starting fresh", "path", s.path, "error", err)
		}
		return
	}
	if err := json.Unmarshal(data, &s.store); err != nil {
		slog.Warn("trigger store is malformed, starting fresh", "path", s.path, "error", err)
		s.store = Store{}
		return
	}
	// Hand-edited files may carry null or missing trigger maps.
	for _, cfg := range s.store {
		if cfg.Triggers == nil {
			cfg.Triggers = orderedmap.New[string, Trigger]()
		}
	}
}

// saveLocked writes the full store to a sibling temp file, then atomically
// replaces the target path. The mutex must be held.
func (s *Service) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal trigger store: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write trigger store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace trigger store: %w", err)
	}
	return nil
}

// getOrCreateLocked returns the guild's entry, inserting a default one in
// memory for guilds seen for the first time. Defaults are not persisted
// until a mutation saves the store.
func (s *Service) getOrCreateLocked(guildID string) *GuildConfig {
	cfg, ok := s.store[guildID]
	if !ok {
		cfg = newGuildConfig()
		s.store[guildID] = cfg
	}
	return cfg
}

// AdminRole returns the guild's configured admin role, or nil when none
// is set.
func (s *Service) AdminRole(guildID string) *uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.getOrCreateLocked(guildID)
	if cfg.AdminRole == nil {
		return nil
	}
	role := *cfg.AdminRole
	return &role
}

// SetAdminRole records the role allowed to manage this guild's triggers
// and persists the store.
func (s *Service) SetAdminRole(guildID string, roleID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.getOrCreateLocked(guildID)
	cfg.AdminRole = &roleID
	if err := s.saveLocked(); err != nil {
		return err
	}
	slog.Info("admin role set", "guild", guildID, "role", roleID)
	return nil
}

// UpsertTrigger registers or overwrites the trigger for a phrase and
// persists the store. The phrase is normalized first; the returned string
// is the normalized form. Inserting a new phrase past the guild's limit
// fails with ErrTriggerLimit and leaves the store untouched.
func (s *Service) UpsertTrigger(guildID, phrase string, t Trigger) (string, error) {
	norm := NormalizePhrase(phrase)
	if norm == "" {
		return "", ErrEmptyPhrase
	}
	if err := t.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.getOrCreateLocked(guildID)
	if _, exists := cfg.Triggers.Get(norm); !exists && cfg.Triggers.Len() >= s.limit {
		return "", fmt.Errorf("%w (%d)", ErrTriggerLimit, s.limit)
	}
	cfg.Triggers.Set(norm, t)
	if err := s.saveLocked(); err != nil {
		return "", err
	}
	slog.Info("trigger set", "guild", guildID, "phrase", norm, "kind", t.Kind)
	return norm, nil
}

// RemoveTrigger deletes a phrase and persists the store. Removing an
// unregistered phrase is a no-op reporting false, with no re-persist.
func (s *Service) RemoveTrigger(guildID, phrase string) (bool, error) {
	norm := NormalizePhrase(phrase)
	if norm == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.getOrCreateLocked(guildID)
	if _, present := cfg.Triggers.Delete(norm); !present {
		return false, nil
	}
	if err := s.saveLocked(); err != nil {
		return false, err
	}
	slog.Info("trigger removed", "guild", guildID, "phrase", norm)
	return true, nil
}

// ListTriggers returns the guild's triggers as a snapshot in registration
// order.
func (s *Service) ListTriggers(guildID string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.getOrCreateLocked(guildID)
	entries := make([]Entry, 0, cfg.Triggers.Len())
	for pair := cfg.Triggers.Oldest(); pair != nil; pair = pair.Next() {
		entries = append(entries, Entry{Phrase: pair.Key, Trigger: pair.Value})
	}
	return entries
}

// Guilds returns the IDs of all guilds present in the store, sorted.
func (s *Service) Guilds() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.store))
	for id := range s.store {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Export returns the full store serialized the same way it is persisted.
func (s *Service) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.MarshalIndent(s.store, "", "  ")
}
