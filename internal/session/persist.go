package session

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// MirroredFlags are the few session fields that survive a restart.
// Everything else in State is deliberately ephemeral.
type MirroredFlags struct {
	CartFullscreen bool `json:"cart_fullscreen"`
	QuickAddMode   bool `json:"quick_add_mode"`
}

// FlagStore persists MirroredFlags. The file implementation below is
// the production one; tests use their own.
type FlagStore interface {
	Save(flags MirroredFlags) error
	Load() (MirroredFlags, error)
}

type FileFlagStore struct {
	mu   sync.Mutex
	path string
}

func NewFileFlagStore(path string) *FileFlagStore {
	return &FileFlagStore{path: path}
}

func (f *FileFlagStore) Save(flags MirroredFlags) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(flags)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}

// Load returns zero flags when the file is missing or unreadable; a
// fresh register simply starts with defaults.
func (f *FileFlagStore) Load() (MirroredFlags, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return MirroredFlags{}, nil
	}
	if err != nil {
		return MirroredFlags{}, err
	}

	var flags MirroredFlags
	if err := json.Unmarshal(data, &flags); err != nil {
		log.Printf("flag file unreadable, using defaults: %v", err)
		return MirroredFlags{}, nil
	}
	return flags, nil
}

// Mirror extracts the durable subset of a state.
func Mirror(s State) MirroredFlags {
	return MirroredFlags{
		CartFullscreen: s.CartFullscreen,
		QuickAddMode:   s.QuickAddMode,
	}
}

// ApplyFlags folds restored flags into a state.
func ApplyFlags(s State, flags MirroredFlags) State {
	s.CartFullscreen = flags.CartFullscreen
	s.QuickAddMode = flags.QuickAddMode
	return s
}
