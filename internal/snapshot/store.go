// Package snapshot persists per-hand table states and diffs snapshot
// directories across runs.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/hautdesert/chipsafe/internal/fileutil"
	"github.com/hautdesert/chipsafe/internal/game"
)

// Store writes one JSON file per settled hand under
// <dir>/<tableID>/hand-<number>.json, plus an exits.json per table. Writes
// are atomic so a reader tailing the directory never sees a torn snapshot.
// It implements game.SettlementRecorder.
type Store struct {
	dir    string
	logger *log.Logger

	mu    sync.Mutex
	exits map[string][]game.ExitRecord
}

// NewStore creates a store rooted at dir.
func NewStore(dir string, logger *log.Logger) *Store {
	return &Store{
		dir:    dir,
		logger: logger.WithPrefix("snapshot"),
		exits:  make(map[string][]game.ExitRecord),
	}
}

// RecordHand persists the post-settlement state of one hand.
func (s *Store) RecordHand(state game.TableState) error {
	path := s.handPath(state.TableID, state.HandNumber)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return err
	}
	s.logger.Debug("snapshot written", "table", state.TableID, "hand", state.HandNumber)
	return nil
}

// RecordExit appends an exit to the table's exit ledger and rewrites it.
func (s *Store) RecordExit(rec game.ExitRecord) error {
	s.mu.Lock()
	s.exits[rec.TableID] = append(s.exits[rec.TableID], rec)
	exits := s.exits[rec.TableID]
	s.mu.Unlock()

	path := filepath.Join(s.dir, rec.TableID, "exits.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	data, err := json.MarshalIndent(exits, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal exits: %w", err)
	}
	return fileutil.WriteFileAtomic(path, data, 0o644)
}

func (s *Store) handPath(tableID string, hand uint64) string {
	return filepath.Join(s.dir, tableID, fmt.Sprintf("hand-%06d.json", hand))
}

// Load reads one persisted hand state back.
func Load(path string) (game.TableState, error) {
	var state game.TableState
	data, err := os.ReadFile(path)
	if err != nil {
		return state, err
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return state, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return state, nil
}
