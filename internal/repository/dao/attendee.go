package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrAttendeeExists   = errors.New("owner already has a registration")
	ErrAttendeeNotFound = errors.New("attendee not found")
)

// Attendee is the stored wire record plus ownership and lifecycle status.
// PackagesList holds the JSON-encoded packages array.
type Attendee struct {
	ID uint `gorm:"primaryKey"`

	OwnerID uint   `gorm:"uniqueIndex:uni_attendees_owner_id;not null"`
	Status  string `gorm:"not null"`

	Nickname             string `gorm:"not null"`
	FirstName            string
	LastName             string
	Street               string
	Zip                  string
	City                 string
	Country              string
	SpokenLanguages      string
	RegistrationLanguage string
	State                string
	Email                string
	Phone                string
	Telegram             string
	Partner              string
	Birthday             string
	Gender               string
	Pronouns             string
	TshirtSize           string
	Flags                string
	Options              string
	PackagesList         string `gorm:"type:jsonb"`
	UserComments         string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type AttendeeDAO struct {
	db *gorm.DB
}

func NewAttendeeDAO(db *gorm.DB) *AttendeeDAO {
	return &AttendeeDAO{
		db: db,
	}
}

func (d *AttendeeDAO) Insert(ctx context.Context, attendee Attendee) (Attendee, error) {
	result := d.db.WithContext(ctx).Create(&attendee)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `unique constraint "uni_attendees_owner_id"`) {
			return Attendee{}, ErrAttendeeExists
		}

		return Attendee{}, result.Error
	}

	return attendee, nil
}

func (d *AttendeeDAO) Update(ctx context.Context, attendee Attendee) (Attendee, error) {
	result := d.db.WithContext(ctx).Save(&attendee)
	if result.Error != nil {
		return Attendee{}, result.Error
	}

	return attendee, nil
}

func (d *AttendeeDAO) FindByID(ctx context.Context, id uint) (Attendee, error) {
	var attendee Attendee
	result := d.db.WithContext(ctx).First(&attendee, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Attendee{}, ErrAttendeeNotFound
		}

		return Attendee{}, result.Error
	}

	return attendee, nil
}

func (d *AttendeeDAO) FindByOwnerID(ctx context.Context, ownerID uint) (Attendee, error) {
	var attendee Attendee
	result := d.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&attendee)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Attendee{}, ErrAttendeeNotFound
		}

		return Attendee{}, result.Error
	}

	return attendee, nil
}

func (d *AttendeeDAO) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := d.db.WithContext(ctx).Model(&Attendee{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAttendeeNotFound
	}

	return nil
}
