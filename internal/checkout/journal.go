package checkout

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/eduardojeem/Mipos-sub011/internal/domain"
)

// ReceiptJournal appends every accepted sale to a local JSON-lines
// file, so receipts survive a register crash and can be reprinted.
type ReceiptJournal struct {
	mu   sync.Mutex
	path string
}

func NewReceiptJournal(path string) *ReceiptJournal {
	return &ReceiptJournal{path: path}
}

// Append journals one accepted sale. Failures are logged, never
// propagated; a journaling problem must not block the register.
func (j *ReceiptJournal) Append(sale *domain.SaleRecord) {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := json.Marshal(sale)
	if err != nil {
		log.Printf("receipt journal encode failed: %v", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		log.Printf("receipt journal dir failed: %v", err)
		return
	}

	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		log.Printf("receipt journal open failed: %v", err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		log.Printf("receipt journal write failed: %v", err)
	}
}
