package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/confreg/regsvc/internal/autosave"
	"github.com/confreg/regsvc/internal/repository/dao"
)

var ErrDraftNotFound = dao.ErrDraftNotFound

type DraftDAO interface {
	Upsert(ctx context.Context, draft dao.Draft) (dao.Draft, error)
	FindByOwnerID(ctx context.Context, ownerID uint) (dao.Draft, error)
	DeleteByOwnerID(ctx context.Context, ownerID uint) error
}

type DraftRepository struct {
	dao    DraftDAO
	buster string
}

// NewDraftRepository wraps draft storage. Buster versions the stored blob
// format; drafts saved under any other buster are treated as absent.
func NewDraftRepository(dao DraftDAO, buster string) *DraftRepository {
	return &DraftRepository{
		dao:    dao,
		buster: buster,
	}
}

func (r *DraftRepository) Save(ctx context.Context, ownerID uint, data autosave.DraftSaveData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	lastSavedAt := time.Now()
	if data.LastSavedAt != "" {
		if parsed, err := time.Parse(time.RFC3339, data.LastSavedAt); err == nil {
			lastSavedAt = parsed
		}
	}

	if _, err = r.dao.Upsert(ctx, dao.Draft{
		OwnerID:     ownerID,
		Buster:      r.buster,
		Payload:     string(payload),
		LastSavedAt: lastSavedAt,
	}); err != nil {
		return fmt.Errorf("r.dao.Upsert -> %w", err)
	}

	return nil
}

func (r *DraftRepository) Find(ctx context.Context, ownerID uint) (autosave.DraftSaveData, error) {
	found, err := r.dao.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return autosave.DraftSaveData{}, fmt.Errorf("r.dao.FindByOwnerID -> %w", err)
	}

	if found.Buster != r.buster {
		return autosave.DraftSaveData{}, ErrDraftNotFound
	}

	var data autosave.DraftSaveData
	if err := json.Unmarshal([]byte(found.Payload), &data); err != nil {
		return autosave.DraftSaveData{}, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	return data, nil
}

func (r *DraftRepository) Delete(ctx context.Context, ownerID uint) error {
	if err := r.dao.DeleteByOwnerID(ctx, ownerID); err != nil {
		return fmt.Errorf("r.dao.DeleteByOwnerID -> %w", err)
	}

	return nil
}
