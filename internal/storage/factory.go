package storage

import (
	"log/slog"

	"github.com/manamurah/flotilla-watch/internal/common"
	"github.com/manamurah/flotilla-watch/internal/config"
	"github.com/manamurah/flotilla-watch/internal/interfaces"
	"github.com/manamurah/flotilla-watch/internal/storage/badger"
)

// NewStorageManager creates a new storage manager based on config.
func NewStorageManager(logger *slog.Logger, appLogger *common.Logger, cfg *config.Config) (interfaces.StorageManager, error) {
	return badger.NewManager(logger, appLogger, &cfg.Storage.Badger)
}
