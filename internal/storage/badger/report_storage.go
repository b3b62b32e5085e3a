package badger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/manamurah/flotilla-watch/internal/common"
	"github.com/manamurah/flotilla-watch/internal/models"
)

// HistoryCap bounds the history log: 30 days of hourly snapshots.
const HistoryCap = 720

const (
	latestKey  = "latest_report"
	historyKey = "report_history"
)

// latestSlot holds the most recent report envelope, overwritten each cycle.
type latestSlot struct {
	Key    string `badgerhold:"key"`
	Report models.ReportEnvelope
}

// historyLog holds the full history sequence as a single record so each
// append persists atomically in one upsert.
type historyLog struct {
	Key     string `badgerhold:"key"`
	Entries []models.HistoryEntry
}

// ReportStorage implements interfaces.ReportStorage using BadgerDB.
type ReportStorage struct {
	db     *BadgerDB
	logger *common.Logger
}

// NewReportStorage creates report storage backed by BadgerDB.
func NewReportStorage(db *BadgerDB, logger *common.Logger) *ReportStorage {
	return &ReportStorage{
		db:     db,
		logger: logger,
	}
}

// SaveLatest overwrites the latest-report slot.
func (s *ReportStorage) SaveLatest(_ context.Context, env *models.ReportEnvelope) error {
	slot := latestSlot{Key: latestKey, Report: *env}
	if err := s.db.Store().Upsert(latestKey, &slot); err != nil {
		return fmt.Errorf("failed to save latest report: %w", err)
	}
	s.logger.Debug().Int("vessels", env.TotalVessels).Msg("latest report saved")
	return nil
}

// Latest returns the stored report, or nil when no cycle has completed yet.
func (s *ReportStorage) Latest(_ context.Context) (*models.ReportEnvelope, error) {
	var slot latestSlot
	err := s.db.Store().Get(latestKey, &slot)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest report: %w", err)
	}
	return &slot.Report, nil
}

// AppendHistory appends entry to the history log, dropping the oldest
// entries beyond HistoryCap. A missing or unreadable log is treated as empty
// history, not an error. The whole sequence persists as a single upsert.
func (s *ReportStorage) AppendHistory(_ context.Context, entry models.HistoryEntry) error {
	var log historyLog
	if err := s.db.Store().Get(historyKey, &log); err != nil {
		if err != badgerhold.ErrNotFound {
			s.logger.Debug().Str("error", err.Error()).Msg("starting new history log")
		}
		log = historyLog{Key: historyKey}
	}

	log.Entries = append(log.Entries, entry)
	if len(log.Entries) > HistoryCap {
		log.Entries = log.Entries[len(log.Entries)-HistoryCap:]
	}

	if err := s.db.Store().Upsert(historyKey, &log); err != nil {
		return fmt.Errorf("failed to update history: %w", err)
	}

	s.logger.Info().Int("entries", len(log.Entries)).Msg("appended to history")
	return nil
}

// History returns the stored entries, oldest first.
func (s *ReportStorage) History(_ context.Context) ([]models.HistoryEntry, error) {
	var log historyLog
	err := s.db.Store().Get(historyKey, &log)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	return log.Entries, nil
}
