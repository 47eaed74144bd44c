// Package store persists the set of mention ids the bot has already handled.
// The backing file is plain text, one id per line, and is only ever appended to.
package store

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	boterrors "github.com/edgard/gubot/internal/errors"
	"github.com/edgard/gubot/internal/logger"
)

// Store defines the operations on the processed-mentions set.
type Store interface {
	// Contains reports whether id has been recorded.
	Contains(id string) bool

	// Record adds id to the set and appends it to the file. Recording a known id is a no-op.
	Record(id string) error

	// Len returns the number of recorded ids.
	Len() int
}

// fileStore is a Store mirrored to an append-only file. It has a single writer:
// the poll loop never runs two batches at once.
type fileStore struct {
	path   string
	ids    map[string]struct{}
	logger *slog.Logger
}

// Open loads the processed set from path and returns a Store that appends to it.
// A missing file is treated as an empty history.
func Open(path string, log *slog.Logger) (Store, error) {
	if log == nil {
		log = logger.Discard()
	}

	ids, err := Load(path)
	if err != nil {
		return nil, err
	}

	log = log.With("component", "store")
	log.Info("Loaded processed mentions", "path", path, "count", len(ids))

	return &fileStore{
		path:   path,
		ids:    ids,
		logger: log,
	}, nil
}

// Load reads every non-blank line of path, trimmed, into a set.
func Load(path string) (map[string]struct{}, error) {
	ids := make(map[string]struct{})

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ids, nil
		}
		return nil, boterrors.NewStoreError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id == "" {
			continue
		}
		ids[id] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, boterrors.NewStoreError(fmt.Sprintf("failed to read %s", path), err)
	}

	return ids, nil
}

func (s *fileStore) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *fileStore) Len() int {
	return len(s.ids)
}

func (s *fileStore) Record(id string) (err error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return boterrors.NewStoreError("cannot record empty mention id", nil)
	}
	if s.Contains(id) {
		return nil
	}

	// The id counts as processed for this process even if the append fails below;
	// handling it again would mean a second deployment.
	s.ids[id] = struct{}{}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return boterrors.NewStoreError(fmt.Sprintf("failed to open %s for append", s.path), err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = boterrors.NewStoreError(fmt.Sprintf("failed to close %s", s.path), closeErr)
		}
	}()

	if _, err := f.WriteString(id + "\n"); err != nil {
		return boterrors.NewStoreError(fmt.Sprintf("failed to append %s", id), err)
	}

	s.logger.Debug("Recorded processed mention", "mention_id", id, "count", len(s.ids))
	return nil
}
