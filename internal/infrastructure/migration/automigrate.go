package migration

import (
	"github.com/orris-inc/templink/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.LinkSnapshotModel{},
	}
}
