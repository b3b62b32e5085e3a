package interfaces

import (
	"context"

	"github.com/manamurah/flotilla-watch/internal/models"
)

// StorageManager provides access to domain-specific storage interfaces.
// Implementations can be swapped (BadgerDB now, centralised DB later).
type StorageManager interface {
	ReportStorage() ReportStorage
	DB() interface{}
	Close() error
}

// ReportStorage persists the latest report slot and the bounded history log.
type ReportStorage interface {
	// SaveLatest overwrites the single latest-report slot.
	SaveLatest(ctx context.Context, env *models.ReportEnvelope) error
	// Latest returns the stored report, or nil when none has been saved yet.
	Latest(ctx context.Context) (*models.ReportEnvelope, error)
	// AppendHistory appends one entry, evicting the oldest beyond the cap.
	// Duplicate entries are kept; each cycle is a distinct observation.
	AppendHistory(ctx context.Context, entry models.HistoryEntry) error
	// History returns the stored entries, oldest first.
	History(ctx context.Context) ([]models.HistoryEntry, error)
}
