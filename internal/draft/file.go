package draft

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/eduardojeem/Mipos-sub011/internal/domain"
)

// FileStore keeps the draft slot in a JSON file next to the terminal's
// other local state. Writes go through a temp file and rename so a
// crash mid-save leaves the previous draft intact.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Save(snapshot domain.CartSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create draft dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write draft: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("commit draft: %w", err)
	}
	return nil
}

func (f *FileStore) Load() (domain.CartSnapshot, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.CartSnapshot{}, false, nil
	}
	if err != nil {
		return domain.CartSnapshot{}, false, fmt.Errorf("read draft: %w", err)
	}

	var snapshot domain.CartSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		// Corrupt slot counts as no draft.
		log.Printf("draft file unreadable, treating as absent: %v", err)
		return domain.CartSnapshot{}, false, nil
	}
	return snapshot, true, nil
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}
