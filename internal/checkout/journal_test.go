package checkout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduardojeem/Mipos-sub011/internal/domain"
)

func TestReceiptJournalAppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receipts", "receipts.jsonl")
	j := NewReceiptJournal(path)

	j.Append(&domain.SaleRecord{ID: "sale-1", Total: dec("22.50")})
	j.Append(&domain.SaleRecord{ID: "sale-2", Total: dec("5.00")})

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)

	var last domain.SaleRecord
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &last))
	assert.Equal(t, "sale-2", last.ID)
	assert.True(t, last.Total.Equal(dec("5.00")))
}
