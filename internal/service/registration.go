package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/confreg/regsvc/internal/attendee"
	"github.com/confreg/regsvc/internal/autosave"
	"github.com/confreg/regsvc/internal/catalog"
	"github.com/confreg/regsvc/internal/domain"
	"github.com/confreg/regsvc/internal/invoice"
	"github.com/confreg/regsvc/internal/payment"
	"github.com/confreg/regsvc/internal/repository"
)

var (
	ErrRegistrationNotFound   = repository.ErrAttendeeNotFound
	ErrDuplicateRegistration  = repository.ErrAttendeeExists
	ErrIncompleteRegistration = attendee.ErrIncompleteRegistration
	ErrRegistrationClosed     = errors.New("registration is not open yet")
	ErrInvalidDraft           = errors.New("draft registration info is not valid")
)

type AttendeeRepository interface {
	Create(ctx context.Context, ownerID uint, dto attendee.Dto, status domain.RegistrationStatus) (repository.StoredAttendee, error)
	Update(ctx context.Context, id, ownerID uint, dto attendee.Dto, status domain.RegistrationStatus) (repository.StoredAttendee, error)
	FindByID(ctx context.Context, id uint) (repository.StoredAttendee, error)
	FindByOwnerID(ctx context.Context, ownerID uint) (repository.StoredAttendee, error)
	UpdateStatus(ctx context.Context, id uint, status domain.RegistrationStatus) error
}

type DraftRepository interface {
	Save(ctx context.Context, ownerID uint, data autosave.DraftSaveData) error
	Find(ctx context.Context, ownerID uint) (autosave.DraftSaveData, error)
	Delete(ctx context.Context, ownerID uint) error
}

type TransactionRepository interface {
	FindByDebitorID(ctx context.Context, debitorID uint) ([]payment.Transaction, error)
}

// RegistrationState is what the front end needs to render the funnel: either
// a countdown (registration not open yet), or the current registration in
// whatever stage it is in, plus the autosave timestamp when the state came
// from a draft.
type RegistrationState struct {
	IsOpen       bool                 `json:"isOpen"`
	Countdown    *domain.Countdown    `json:"countdown,omitempty"`
	Registration *domain.Registration `json:"registration,omitempty"`
	LastSavedAt  string               `json:"lastSavedAt,omitempty"`
}

type RegistrationService struct {
	attendees    AttendeeRepository
	drafts       DraftRepository
	transactions TransactionRepository
	cat          *catalog.Catalog
	codec        *autosave.Codec
	launch       time.Time
}

func NewRegistrationService(
	attendees AttendeeRepository,
	drafts DraftRepository,
	transactions TransactionRepository,
	cat *catalog.Catalog,
	launch time.Time,
) *RegistrationService {
	return &RegistrationService{
		attendees:    attendees,
		drafts:       drafts,
		transactions: transactions,
		cat:          cat,
		codec:        autosave.NewCodec(cat),
		launch:       launch,
	}
}

// Countdown reports how far away the registration launch is. Zero or
// negative means registration is open.
func (s *RegistrationService) Countdown(now time.Time) domain.Countdown {
	remaining := int64(s.launch.Sub(now) / time.Second)
	if remaining < 0 {
		remaining = 0
	}

	return domain.Countdown{
		Countdown:   remaining,
		CurrentTime: now.Format(time.RFC3339),
		TargetTime:  s.launch.Format(time.RFC3339),
	}
}

// LoadState resolves the registration state for an owner: countdown gate
// first, then an existing submitted registration (which always wins, so a
// duplicate submission is impossible), then a stored draft, then a fresh
// empty registration.
func (s *RegistrationService) LoadState(ctx context.Context, ownerID uint, now time.Time) (RegistrationState, error) {
	countdown := s.Countdown(now)
	if countdown.Countdown > 0 {
		return RegistrationState{IsOpen: false, Countdown: &countdown}, nil
	}

	existing, err := s.attendees.FindByOwnerID(ctx, ownerID)
	switch {
	case err == nil:
		registration, err := s.storedToRegistration(ctx, existing)
		if err != nil {
			return RegistrationState{}, fmt.Errorf("s.storedToRegistration -> %w", err)
		}

		return RegistrationState{IsOpen: true, Registration: &registration}, nil
	case !errors.Is(err, ErrRegistrationNotFound):
		return RegistrationState{}, fmt.Errorf("s.attendees.FindByOwnerID -> %w", err)
	}

	if draft, lastSavedAt, ok := s.loadDraft(ctx, ownerID); ok {
		return RegistrationState{
			IsOpen: true,
			Registration: &domain.Registration{
				Status: domain.StatusUnsubmitted,
				Info:   *draft,
			},
			LastSavedAt: lastSavedAt,
		}, nil
	}

	return RegistrationState{
		IsOpen: true,
		Registration: &domain.Registration{
			Status: domain.StatusUnsubmitted,
			Info:   domain.RegistrationInfo{},
		},
	}, nil
}

// Submit forward-maps the registration and stores it as a new attendee.
// Any stored draft is discarded; failure to do so is logged, not fatal.
func (s *RegistrationService) Submit(ctx context.Context, ownerID uint, info *domain.RegistrationInfo) (domain.Registration, error) {
	dto, err := attendee.DtoFromRegistration(s.cat, info)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("attendee.DtoFromRegistration -> %w", err)
	}

	created, err := s.attendees.Create(ctx, ownerID, dto, domain.StatusNew)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.attendees.Create -> %w", err)
	}

	if err := s.drafts.Delete(ctx, ownerID); err != nil {
		zap.L().Warn("failed to discard draft after submission",
			zap.Uint("ownerID", ownerID),
			zap.Error(err),
		)
	}

	return s.storedToRegistration(ctx, created)
}

// Update rebuilds the attendee wire record from the edited registration and
// replaces the stored one. The record is always rebuilt from scratch, never
// patched in place; the status is preserved.
func (s *RegistrationService) Update(ctx context.Context, ownerID uint, info *domain.RegistrationInfo) (domain.Registration, error) {
	existing, err := s.attendees.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.attendees.FindByOwnerID -> %w", err)
	}

	dto, err := attendee.DtoFromRegistration(s.cat, info)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("attendee.DtoFromRegistration -> %w", err)
	}

	updated, err := s.attendees.Update(ctx, existing.ID, ownerID, dto, existing.Status)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.attendees.Update -> %w", err)
	}

	return s.storedToRegistration(ctx, updated)
}

// Invoice builds the priced breakdown for the owner's registration. For an
// approved registration the catalog total is reconciled against the ledger;
// before approval the invoice is catalog-only.
func (s *RegistrationService) Invoice(ctx context.Context, ownerID uint) (invoice.Invoice, error) {
	existing, err := s.attendees.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return invoice.Invoice{}, fmt.Errorf("s.attendees.FindByOwnerID -> %w", err)
	}

	info := attendee.RegistrationFromDto(s.cat, existing.Dto)
	items := invoice.ItemsFromRegistration(s.cat, &info)

	if !existing.Status.IsApproved() {
		return invoice.Build(items, nil, nil), nil
	}

	transactions, err := s.transactions.FindByDebitorID(ctx, existing.ID)
	if err != nil {
		return invoice.Invoice{}, fmt.Errorf("s.transactions.FindByDebitorID -> %w", err)
	}

	paid := float64(payment.TotalPaid(transactions)) / 100
	due := float64(payment.OutstandingDues(transactions)) / 100

	return invoice.Build(items, &paid, &due), nil
}

// SaveDraft validates and persists a partial registration as the owner's
// draft.
func (s *RegistrationService) SaveDraft(ctx context.Context, ownerID uint, info *domain.RegistrationInfo, now time.Time) error {
	if !s.codec.HasDraft(info) {
		return ErrInvalidDraft
	}

	serialized := s.codec.Serialize(info)
	if serialized == nil {
		return ErrInvalidDraft
	}

	err := s.drafts.Save(ctx, ownerID, autosave.DraftSaveData{
		RegistrationInfo: serialized,
		LastSavedAt:      now.Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("s.drafts.Save -> %w", err)
	}

	return nil
}

func (s *RegistrationService) DiscardDraft(ctx context.Context, ownerID uint) error {
	if err := s.drafts.Delete(ctx, ownerID); err != nil {
		return fmt.Errorf("s.drafts.Delete -> %w", err)
	}

	return nil
}

// loadDraft fetches and decodes the stored draft. Any failure degrades to
// "no draft": a corrupt blob must never break loading the funnel.
func (s *RegistrationService) loadDraft(ctx context.Context, ownerID uint) (*domain.RegistrationInfo, string, bool) {
	data, err := s.drafts.Find(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, repository.ErrDraftNotFound) {
			zap.L().Error("failed to load draft",
				zap.Uint("ownerID", ownerID),
				zap.Error(err),
			)
		}

		return nil, "", false
	}

	info := s.codec.Deserialize(data.RegistrationInfo)
	if !s.codec.HasDraft(info) {
		return nil, "", false
	}

	return info, data.LastSavedAt, true
}

// storedToRegistration reverse-maps the stored wire record and, for approved
// registrations, attaches the ledger summary in major currency units.
func (s *RegistrationService) storedToRegistration(ctx context.Context, stored repository.StoredAttendee) (domain.Registration, error) {
	registration := domain.Registration{
		ID:     stored.ID,
		Status: stored.Status,
		Info:   attendee.RegistrationFromDto(s.cat, stored.Dto),
	}

	if !stored.Status.IsApproved() {
		return registration, nil
	}

	transactions, err := s.transactions.FindByDebitorID(ctx, stored.ID)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.transactions.FindByDebitorID -> %w", err)
	}

	registration.PaymentInfo = &domain.PaymentInfo{
		Paid:                float64(payment.TotalPaid(transactions)) / 100,
		Due:                 float64(payment.OutstandingDues(transactions)) / 100,
		UnprocessedPayments: payment.HasUnprocessedPayments(transactions),
	}

	return registration, nil
}
