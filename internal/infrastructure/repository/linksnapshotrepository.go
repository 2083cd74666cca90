package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orris-inc/templink/internal/domain/templink"
	"github.com/orris-inc/templink/internal/infrastructure/persistence/models"
	"github.com/orris-inc/templink/internal/shared/logger"
)

// DefaultSnapshotName is the row name used when none is configured.
const DefaultSnapshotName = "default"

// LinkSnapshotRepository stores encoded link snapshots in SQL, one row per name.
type LinkSnapshotRepository struct {
	db     *gorm.DB
	name   string
	logger logger.Interface
}

// NewLinkSnapshotRepository creates a new LinkSnapshotRepository
func NewLinkSnapshotRepository(db *gorm.DB, name string, logger logger.Interface) *LinkSnapshotRepository {
	if name == "" {
		name = DefaultSnapshotName
	}
	return &LinkSnapshotRepository{
		db:     db,
		name:   name,
		logger: logger,
	}
}

// AutoMigrate creates the snapshot table if it does not exist.
func (r *LinkSnapshotRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&models.LinkSnapshotModel{})
}

// Save creates or replaces the snapshot row.
func (r *LinkSnapshotRepository) Save(ctx context.Context, data []byte) error {
	model := &models.LinkSnapshotModel{
		Name:      r.name,
		Data:      data,
		LinkCount: countLinks(data),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "link_count", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to save link snapshot", "name", r.name, "error", err)
		return fmt.Errorf("failed to save link snapshot: %w", err)
	}

	return nil
}

// Load returns the snapshot row's data.
func (r *LinkSnapshotRepository) Load(ctx context.Context) ([]byte, error) {
	var model models.LinkSnapshotModel

	err := r.db.WithContext(ctx).
		Where("name = ?", r.name).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, templink.ErrSnapshotNotFound
		}
		r.logger.Errorw("failed to load link snapshot", "name", r.name, "error", err)
		return nil, fmt.Errorf("failed to load link snapshot: %w", err)
	}

	return model.Data, nil
}

// Delete removes the snapshot row.
func (r *LinkSnapshotRepository) Delete(ctx context.Context) error {
	result := r.db.WithContext(ctx).
		Where("name = ?", r.name).
		Delete(&models.LinkSnapshotModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete link snapshot: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return templink.ErrSnapshotNotFound
	}
	return nil
}

// countLinks reports how many top-level entries the encoded snapshot has.
func countLinks(data []byte) int {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0
	}
	return len(entries)
}
