package testutil

import (
	"bufio"
	"bytes"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// LogBuffer collects JSON log lines written by a slog handler. It is safe
// for concurrent writers.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything logged so far
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Entries decodes every logged line
func (b *LogBuffer) Entries(t *testing.T) []map[string]interface{} {
	t.Helper()

	var entries []map[string]interface{}
	scanner := bufio.NewScanner(bytes.NewReader([]byte(b.String())))
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry), "log line is not JSON: %s", scanner.Text())
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())
	return entries
}
