package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/confreg/regsvc/internal/attendee"
	"github.com/confreg/regsvc/internal/domain"
	"github.com/confreg/regsvc/internal/repository/dao"
)

var (
	ErrAttendeeExists   = dao.ErrAttendeeExists
	ErrAttendeeNotFound = dao.ErrAttendeeNotFound
)

type AttendeeDAO interface {
	Insert(ctx context.Context, attendee dao.Attendee) (dao.Attendee, error)
	Update(ctx context.Context, attendee dao.Attendee) (dao.Attendee, error)
	FindByID(ctx context.Context, id uint) (dao.Attendee, error)
	FindByOwnerID(ctx context.Context, ownerID uint) (dao.Attendee, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

// StoredAttendee is an attendee wire record together with its storage
// identity and lifecycle status.
type StoredAttendee struct {
	ID      uint
	OwnerID uint
	Status  domain.RegistrationStatus
	Dto     attendee.Dto
}

type AttendeeRepository struct {
	dao AttendeeDAO
}

func NewAttendeeRepository(dao AttendeeDAO) *AttendeeRepository {
	return &AttendeeRepository{
		dao: dao,
	}
}

func (r *AttendeeRepository) Create(ctx context.Context, ownerID uint, dto attendee.Dto, status domain.RegistrationStatus) (StoredAttendee, error) {
	record, err := r.dtoToDAO(ownerID, dto, status)
	if err != nil {
		return StoredAttendee{}, fmt.Errorf("r.dtoToDAO -> %w", err)
	}

	created, err := r.dao.Insert(ctx, record)
	if err != nil {
		return StoredAttendee{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToStored(created)
}

func (r *AttendeeRepository) Update(ctx context.Context, id, ownerID uint, dto attendee.Dto, status domain.RegistrationStatus) (StoredAttendee, error) {
	record, err := r.dtoToDAO(ownerID, dto, status)
	if err != nil {
		return StoredAttendee{}, fmt.Errorf("r.dtoToDAO -> %w", err)
	}
	record.ID = id

	updated, err := r.dao.Update(ctx, record)
	if err != nil {
		return StoredAttendee{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToStored(updated)
}

func (r *AttendeeRepository) FindByID(ctx context.Context, id uint) (StoredAttendee, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return StoredAttendee{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToStored(found)
}

func (r *AttendeeRepository) FindByOwnerID(ctx context.Context, ownerID uint) (StoredAttendee, error) {
	found, err := r.dao.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return StoredAttendee{}, fmt.Errorf("r.dao.FindByOwnerID -> %w", err)
	}

	return r.daoToStored(found)
}

func (r *AttendeeRepository) UpdateStatus(ctx context.Context, id uint, status domain.RegistrationStatus) error {
	if err := r.dao.UpdateStatus(ctx, id, string(status)); err != nil {
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}

func (r *AttendeeRepository) dtoToDAO(ownerID uint, dto attendee.Dto, status domain.RegistrationStatus) (dao.Attendee, error) {
	packages, err := json.Marshal(dto.PackagesList)
	if err != nil {
		return dao.Attendee{}, fmt.Errorf("json.Marshal -> %w", err)
	}

	return dao.Attendee{
		OwnerID:              ownerID,
		Status:               string(status),
		Nickname:             dto.Nickname,
		FirstName:            dto.FirstName,
		LastName:             dto.LastName,
		Street:               dto.Street,
		Zip:                  dto.Zip,
		City:                 dto.City,
		Country:              dto.Country,
		SpokenLanguages:      dto.SpokenLanguages,
		RegistrationLanguage: dto.RegistrationLanguage,
		State:                deref(dto.State),
		Email:                dto.Email,
		Phone:                dto.Phone,
		Telegram:             deref(dto.Telegram),
		Partner:              deref(dto.Partner),
		Birthday:             dto.Birthday,
		Gender:               deref(dto.Gender),
		Pronouns:             deref(dto.Pronouns),
		TshirtSize:           deref(dto.TshirtSize),
		Flags:                dto.Flags,
		Options:              dto.Options,
		PackagesList:         string(packages),
		UserComments:         deref(dto.UserComments),
	}, nil
}

func (r *AttendeeRepository) daoToStored(record dao.Attendee) (StoredAttendee, error) {
	var packages []domain.PackageInfo
	if record.PackagesList != "" {
		if err := json.Unmarshal([]byte(record.PackagesList), &packages); err != nil {
			return StoredAttendee{}, fmt.Errorf("json.Unmarshal -> %w", err)
		}
	}

	id := record.ID

	return StoredAttendee{
		ID:      record.ID,
		OwnerID: record.OwnerID,
		Status:  domain.NormalizeStatus(record.Status),
		Dto: attendee.Dto{
			ID:                   &id,
			Nickname:             record.Nickname,
			FirstName:            record.FirstName,
			LastName:             record.LastName,
			Street:               record.Street,
			Zip:                  record.Zip,
			City:                 record.City,
			Country:              record.Country,
			SpokenLanguages:      record.SpokenLanguages,
			RegistrationLanguage: record.RegistrationLanguage,
			State:                ptrOrNil(record.State),
			Email:                record.Email,
			Phone:                record.Phone,
			Telegram:             ptrOrNil(record.Telegram),
			Partner:              ptrOrNil(record.Partner),
			Birthday:             record.Birthday,
			Gender:               ptrOrNil(record.Gender),
			Pronouns:             ptrOrNil(record.Pronouns),
			TshirtSize:           ptrOrNil(record.TshirtSize),
			Flags:                record.Flags,
			Options:              record.Options,
			PackagesList:         packages,
			UserComments:         ptrOrNil(record.UserComments),
		},
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func ptrOrNil(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
