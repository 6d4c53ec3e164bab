// Package store persists the chat registry as a single JSON snapshot file.
//
// Every mutating queue operation triggers a full-snapshot overwrite; there is
// no append log. The file is written through a temp file and rename so a
// crash mid-write leaves the previous snapshot intact. Load degrades rather
// than fails: a missing file yields an empty registry, a corrupt file yields
// an empty registry with the cause logged, and individual chat keys that do
// not parse are skipped without aborting the rest.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"turntable/internal/logging"
	"turntable/internal/playback"
)

// Store reads and writes the durable queue snapshot.
type Store struct {
	path   string
	logger *slog.Logger

	// mu serializes writers so concurrent persists cannot interleave
	// temp-file renames.
	mu sync.Mutex
}

// New builds a store writing to path.
func New(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logging.NewComponentLogger(logger, "store"),
	}
}

// Path returns the snapshot file location.
func (s *Store) Path() string {
	return s.path
}

// Save writes the full registry snapshot, replacing the previous file. The
// caller's in-memory state remains the source of truth when the write fails.
func (s *Store) Save(snapshots map[int64]playback.ChatSnapshot) error {
	document := make(map[string]playback.ChatSnapshot, len(snapshots))
	for chatID, snap := range snapshots {
		document[strconv.FormatInt(chatID, 10)] = snap
	}

	data, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".queues-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot file. It always produces a usable result: any
// failure is reported through the logger and degrades to an empty map.
func (s *Store) Load() map[int64]playback.ChatSnapshot {
	snapshots := make(map[int64]playback.ChatSnapshot)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Info("no snapshot file, starting empty", logging.String("path", s.path))
		} else {
			s.logger.Error("read snapshot failed, starting empty",
				logging.String("path", s.path), logging.Error(err))
		}
		return snapshots
	}

	var document map[string]playback.ChatSnapshot
	if err := json.Unmarshal(data, &document); err != nil {
		s.logger.Error("snapshot corrupt, starting empty",
			logging.String("path", s.path), logging.Error(err))
		return snapshots
	}

	for key, snap := range document {
		chatID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			s.logger.Warn("skipping snapshot entry with malformed chat id",
				logging.String("key", key), logging.Error(err))
			continue
		}
		snapshots[chatID] = snap
	}

	s.logger.Info("snapshot loaded",
		logging.String("path", s.path), logging.Int("chats", len(snapshots)))
	return snapshots
}
