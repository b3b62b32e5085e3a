package badger

import (
	"log/slog"

	"github.com/manamurah/flotilla-watch/internal/common"
	"github.com/manamurah/flotilla-watch/internal/config"
	"github.com/manamurah/flotilla-watch/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger.
type Manager struct {
	db      *BadgerDB
	reports interfaces.ReportStorage
	logger  *slog.Logger
}

// NewManager creates a new Badger storage manager.
func NewManager(logger *slog.Logger, appLogger *common.Logger, cfg *config.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, cfg)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:      db,
		reports: NewReportStorage(db, appLogger),
		logger:  logger,
	}

	logger.Debug("Badger storage manager initialized")

	return manager, nil
}

// ReportStorage returns the report storage interface.
func (m *Manager) ReportStorage() interfaces.ReportStorage {
	return m.reports
}

// DB returns the underlying database connection.
func (m *Manager) DB() interface{} {
	if m.db != nil {
		return m.db.Store()
	}
	return nil
}

// Close closes the database connection.
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
