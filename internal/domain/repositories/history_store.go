package repositories

import (
	"io"

	"github.com/gravity-notes/gravity/internal/domain/entities"
)

// HistoryStore defines the local cache contract for the client. The whole
// collection is read and rewritten as one unit on every mutation; there are
// no partial updates.
type HistoryStore interface {
	// Read returns the cached collection, newest first. Malformed cached
	// data is treated as empty history, not an error.
	Read() ([]entities.AnalysisRecord, error)

	// Write atomically replaces the whole cached collection
	Write(records []entities.AnalysisRecord) error

	// Clear removes the cached collection
	Clear() error

	// SaveAudio stores an audio blob for a record and returns its local path
	SaveAudio(recordID string, audio io.Reader) (string, error)

	// DeleteAudio removes a record's audio blob, best effort
	DeleteAudio(recordID string) error
}
