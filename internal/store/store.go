package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"

	"github.com/leapstack-labs/recordkeep/internal/codec"
	"github.com/leapstack-labs/recordkeep/pkg/core"
)

const (
	fileMode = 0o644
	dirMode  = 0o750
)

// Config identifies a Store's backing resource.
type Config struct {
	// Key names the store in API responses and logs (e.g. "json").
	Key string
	// Path is the backing file.
	Path string
}

// Store owns one backing file and one codec.
type Store struct {
	key    string
	path   string
	codec  codec.Codec
	logger *slog.Logger

	mu sync.Mutex
}

// New creates a Store. A nil logger discards output.
func New(cfg Config, c codec.Codec, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		key:   cfg.Key,
		path:  cfg.Path,
		codec: c,
		logger: logger.With(
			"store", cfg.Key,
			"codec", c.Name(),
		),
	}
}

// Key returns the store key.
func (s *Store) Key() string { return s.key }

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Codec returns the store's codec.
func (s *Store) Codec() codec.Codec { return s.codec }

// Load reads and decodes the backing file. It never fails: a missing,
// unreadable or corrupt file yields an empty list and a matching status.
func (s *Store) Load() LoadResult {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("backing file missing, using empty list", "path", s.path)
			return LoadResult{Records: core.RecordList{}, Status: StatusMissing}
		}
		err = fmt.Errorf("%w: %s: %w", ErrReadFailed, s.path, err)
		s.logger.Error("error reading store, using empty list", "path", s.path, "error", err)
		return LoadResult{Records: core.RecordList{}, Status: StatusReadFailed, Err: err}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		s.logger.Debug("backing file empty, using empty list", "path", s.path)
		return LoadResult{Records: core.RecordList{}, Status: StatusMissing}
	}

	list, err := s.codec.Decode(data)
	if err != nil {
		s.logger.Warn("error decoding store, using empty list", "path", s.path, "error", err)
		return LoadResult{Records: core.RecordList{}, Status: StatusCorrupt, Err: err}
	}
	return LoadResult{Records: list, Status: StatusOK}
}

// Save re-encodes the whole list and atomically replaces the backing file.
// Failures are logged and returned; the previous file content survives a
// failed write.
func (s *Store) Save(list core.RecordList) error {
	data, err := s.codec.Encode(list)
	if err != nil {
		return s.saveFailed(err)
	}
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return s.saveFailed(err)
		}
	}
	if err := renameio.WriteFile(s.path, data, fileMode); err != nil {
		return s.saveFailed(err)
	}
	s.logger.Debug("store saved", "path", s.path, "records", len(list))
	return nil
}

func (s *Store) saveFailed(err error) error {
	err = fmt.Errorf("%w: %s: %w", ErrWriteFailed, s.path, err)
	s.logger.Error("error writing store", "path", s.path, "error", err)
	return err
}

// Modify runs one load-mutate-save cycle while holding the store lock.
// fn receives a private copy of the loaded list and returns the list to keep
// and whether it must be written. fn must not call back into the Store.
func (s *Store) Modify(fn func(core.RecordList) (core.RecordList, bool)) ModifyResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded := s.Load()
	res := ModifyResult{
		Load:   loaded,
		Before: len(loaded.Records),
		After:  len(loaded.Records),
	}

	next, write := fn(loaded.Records.Clone())
	if !write {
		return res
	}

	res.After = len(next)
	if err := s.Save(next); err != nil {
		res.SaveErr = err
		return res
	}
	res.Saved = true
	return res
}
