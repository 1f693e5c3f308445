package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrDraftNotFound = errors.New("draft not found")

// Draft is one persisted autosave blob per owner. Buster versions the blob
// format; a draft saved under a different buster is discarded on load.
type Draft struct {
	ID uint `gorm:"primaryKey"`

	OwnerID     uint   `gorm:"uniqueIndex:uni_drafts_owner_id;not null"`
	Buster      string `gorm:"not null"`
	Payload     string `gorm:"type:jsonb;not null"`
	LastSavedAt time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type DraftDAO struct {
	db *gorm.DB
}

func NewDraftDAO(db *gorm.DB) *DraftDAO {
	return &DraftDAO{
		db: db,
	}
}

// Upsert saves the draft for its owner, replacing any previous one.
func (d *DraftDAO) Upsert(ctx context.Context, draft Draft) (Draft, error) {
	result := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"buster", "payload", "last_saved_at", "updated_at"}),
	}).Create(&draft)
	if result.Error != nil {
		return Draft{}, result.Error
	}

	return draft, nil
}

func (d *DraftDAO) FindByOwnerID(ctx context.Context, ownerID uint) (Draft, error) {
	var draft Draft
	result := d.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&draft)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Draft{}, ErrDraftNotFound
		}

		return Draft{}, result.Error
	}

	return draft, nil
}

func (d *DraftDAO) DeleteByOwnerID(ctx context.Context, ownerID uint) error {
	result := d.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&Draft{})
	if result.Error != nil {
		return result.Error
	}

	return nil
}
