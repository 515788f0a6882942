package localstore

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/gravity-notes/gravity/internal/domain/entities"
)

// historyFile is the versioned collection blob. Bump the version when the
// on-disk record shape changes incompatibly.
const historyFile = "gravity_history_v1.json"

const audioDir = "audio"

// FileStore keeps the history collection as a single JSON file in the data
// directory and audio blobs as individual files next to it. Writes replace
// the whole file through a temp-and-rename so a crash can never leave a
// half-written collection behind.
type FileStore struct {
	dir    string
	logger *zap.Logger
}

// NewFileStore creates the data directory if needed and returns the store
func NewFileStore(dir string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, audioDir), 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

// Read returns the cached collection. A missing or malformed file is empty
// history, never an error: the cache is disposable and the next sync
// rebuilds it.
func (s *FileStore) Read() ([]entities.AnalysisRecord, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return []entities.AnalysisRecord{}, nil
		}
		return nil, fmt.Errorf("reading history file: %w", err)
	}

	var records []entities.AnalysisRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("discarding malformed history cache", zap.Error(err))
		return []entities.AnalysisRecord{}, nil
	}
	if records == nil {
		records = []entities.AnalysisRecord{}
	}
	return records, nil
}

// Write atomically replaces the whole cached collection
func (s *FileStore) Write(records []entities.AnalysisRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, historyFile+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path()); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing history file: %w", err)
	}
	return nil
}

// Clear removes the cached collection
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing history file: %w", err)
	}
	return nil
}

// SaveAudio stores an audio blob for a record and returns its local path
func (s *FileStore) SaveAudio(recordID string, audio io.Reader) (string, error) {
	path := s.audioPath(recordID)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating audio file: %w", err)
	}
	if _, err := io.Copy(f, audio); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("writing audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing audio file: %w", err)
	}
	return path, nil
}

// DeleteAudio removes a record's audio blob, best effort
func (s *FileStore) DeleteAudio(recordID string) error {
	if err := os.Remove(s.audioPath(recordID)); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("could not remove audio blob", zap.String("record_id", recordID), zap.Error(err))
	}
	return nil
}

func (s *FileStore) path() string {
	return filepath.Join(s.dir, historyFile)
}

func (s *FileStore) audioPath(recordID string) string {
	return filepath.Join(s.dir, audioDir, recordID+".webm")
}
