package linking

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/frostline/vofc-engine/internal/types"
)

// MemoryStore is the append-only reinforcement-memory log. Entries are read
// at the start of a run and appended at the end; the log is never rewritten
// in place.
type MemoryStore interface {
	Load() ([]types.LearnedLink, error)
	Append(entries []types.LearnedLink) error
}

// FileMemoryStore persists memory entries as line-delimited JSON. A mutex
// serializes the read-then-append sequence so concurrently processed
// documents never interleave or lose writes.
type FileMemoryStore struct {
	path string
	mu   sync.Mutex
}

// NewFileMemoryStore creates a store backed by the given file path. The
// file is created lazily on first append.
func NewFileMemoryStore(path string) *FileMemoryStore {
	return &FileMemoryStore{path: path}
}

// Load reads every parseable entry from the log. A missing file is an empty
// memory, not an error. Malformed lines are skipped with a warning so one
// corrupt record never poisons the whole memory.
func (s *FileMemoryStore) Load() ([]types.LearnedLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open memory log: %w", err)
	}
	defer file.Close()

	var entries []types.LearnedLink
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry types.LearnedLink
		if err := json.Unmarshal(line, &entry); err != nil {
			fmt.Printf("Warning: skipping malformed memory entry: %v\n", err)
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read memory log: %w", err)
	}
	return entries, nil
}

// Append writes entries to the end of the log, one JSON object per line.
func (s *FileMemoryStore) Append(entries []types.LearnedLink) error {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open memory log for append: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to encode memory entry: %w", err)
		}
		if _, err := writer.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to append memory entry: %w", err)
		}
	}
	return writer.Flush()
}
