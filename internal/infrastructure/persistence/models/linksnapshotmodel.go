package models

import (
	"time"

	"github.com/orris-inc/templink/internal/shared/constants"
)

// LinkSnapshotModel holds one encoded link snapshot per name.
type LinkSnapshotModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:128;not null;uniqueIndex"`
	Data      []byte `gorm:"not null"`
	LinkCount int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LinkSnapshotModel) TableName() string {
	return constants.TableLinkSnapshots
}
