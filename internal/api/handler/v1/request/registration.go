package request

import (
	"errors"
	"regexp"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/confreg/regsvc/internal/autosave"
	"github.com/confreg/regsvc/internal/domain"
)

const (
	// At least one letter somewhere; the stdlib regexp package has no
	// lookahead, hence regexp2.
	nicknamePattern = `^(?=.*[A-Za-z])[A-Za-z0-9 _.\-]{2,80}$`
)

var (
	nicknameExp = regexp2.MustCompile(nicknamePattern, regexp2.None)
	isoDateExp  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	errInvalidNickname = errors.New("the nickname must be 2-80 characters, contain at least one letter and use only letters, digits, spaces and -_. punctuation")
)

type TicketType struct {
	Type string `json:"type"`
	Day  string `json:"day,omitempty"`
}

func (t *TicketType) Validate() error {
	err := validation.ValidateStruct(
		t,
		validation.Field(&t.Type, validation.Required, validation.In("full", "day")),
		validation.Field(&t.Day, validation.Match(isoDateExp)),
	)
	if err != nil {
		return err
	}

	if t.Type == "day" && t.Day == "" {
		return errors.New("a day ticket requires a day")
	}

	return nil
}

type AddonSelection struct {
	Selected bool              `json:"selected"`
	Options  map[string]string `json:"options,omitempty"`
}

type TicketLevel struct {
	Level  string                    `json:"level"`
	Addons map[string]AddonSelection `json:"addons"`
}

func (t *TicketLevel) Validate() error {
	return validation.ValidateStruct(
		t,
		validation.Field(&t.Level, validation.Required),
	)
}

type PersonalInfo struct {
	Nickname           string   `json:"nickname"`
	FirstName          string   `json:"firstName"`
	LastName           string   `json:"lastName"`
	FullNamePermission bool     `json:"fullNamePermission"`
	DateOfBirth        string   `json:"dateOfBirth"`
	SpokenLanguages    []string `json:"spokenLanguages"`
	Pronouns           string   `json:"pronouns,omitempty"`
	Wheelchair         bool     `json:"wheelchair"`
}

func (p *PersonalInfo) Validate() error {
	err := validation.ValidateStruct(
		p,
		validation.Field(&p.Nickname, validation.Required),
		validation.Field(&p.FirstName, validation.Required, validation.Length(1, 80)),
		validation.Field(&p.LastName, validation.Required, validation.Length(1, 80)),
		validation.Field(&p.DateOfBirth, validation.Required, validation.Match(isoDateExp)),
		validation.Field(&p.SpokenLanguages, validation.Required),
		validation.Field(&p.Pronouns, validation.Length(0, 40)),
	)
	if err != nil {
		return err
	}

	ok, matchErr := nicknameExp.MatchString(p.Nickname)
	if matchErr != nil || !ok {
		return errInvalidNickname
	}

	return nil
}

type ContactInfo struct {
	Email            string `json:"email"`
	PhoneNumber      string `json:"phoneNumber"`
	TelegramUsername string `json:"telegramUsername,omitempty"`
	Street           string `json:"street"`
	City             string `json:"city"`
	PostalCode       string `json:"postalCode"`
	StateOrProvince  string `json:"stateOrProvince,omitempty"`
	Country          string `json:"country"`
}

func (c *ContactInfo) Validate() error {
	return validation.ValidateStruct(
		c,
		validation.Field(&c.Email, validation.Required, is.Email),
		validation.Field(&c.PhoneNumber, validation.Required),
		validation.Field(&c.Street, validation.Required),
		validation.Field(&c.City, validation.Required),
		validation.Field(&c.PostalCode, validation.Required),
		validation.Field(&c.Country, validation.Required, is.CountryCode2),
	)
}

type Notifications struct {
	Art        bool `json:"art"`
	Animation  bool `json:"animation"`
	Music      bool `json:"music"`
	Fursuiting bool `json:"fursuiting"`
}

type OptionalInfo struct {
	Notifications  Notifications `json:"notifications"`
	DigitalConbook bool          `json:"digitalConbook"`
	Comments       string        `json:"comments,omitempty"`
}

// RegistrationInfo is the wire shape of a registration as the front end
// sends it: dates are ISO calendar-date strings, every section optional.
type RegistrationInfo struct {
	PreferredLocale  string               `json:"preferredLocale,omitempty"`
	TicketType       *TicketType          `json:"ticketType,omitempty"`
	TicketLevel      *TicketLevel         `json:"ticketLevel,omitempty"`
	PersonalInfo     *PersonalInfo        `json:"personalInfo,omitempty"`
	ContactInfo      *ContactInfo         `json:"contactInfo,omitempty"`
	OptionalInfo     *OptionalInfo        `json:"optionalInfo,omitempty"`
	OriginalFlags    string               `json:"originalFlags,omitempty"`
	OriginalPackages []domain.PackageInfo `json:"originalPackages,omitempty"`
}

// validatePresent runs each present section's own validation.
func (r *RegistrationInfo) validatePresent() error {
	if r.TicketType != nil {
		if err := r.TicketType.Validate(); err != nil {
			return err
		}
	}
	if r.TicketLevel != nil {
		if err := r.TicketLevel.Validate(); err != nil {
			return err
		}
	}
	if r.PersonalInfo != nil {
		if err := r.PersonalInfo.Validate(); err != nil {
			return err
		}
	}
	if r.ContactInfo != nil {
		if err := r.ContactInfo.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// ToSerialized converts to the autosave wire shape shared with the draft
// codec, which owns date parsing and defaulting.
func (r *RegistrationInfo) ToSerialized() *autosave.SerializedRegistrationInfo {
	serialized := &autosave.SerializedRegistrationInfo{
		PreferredLocale:  r.PreferredLocale,
		OriginalFlags:    r.OriginalFlags,
		OriginalPackages: r.OriginalPackages,
	}

	if r.TicketType != nil {
		serialized.TicketType = &autosave.SerializedTicketType{
			Type: r.TicketType.Type,
			Day:  r.TicketType.Day,
		}
	}

	if r.TicketLevel != nil {
		addons := make(map[string]domain.AddonSelection, len(r.TicketLevel.Addons))
		for id, selection := range r.TicketLevel.Addons {
			addons[id] = domain.AddonSelection{
				Selected: selection.Selected,
				Options:  selection.Options,
			}
		}
		serialized.TicketLevel = &domain.TicketLevel{
			Level:  r.TicketLevel.Level,
			Addons: addons,
		}
	}

	if r.PersonalInfo != nil {
		serialized.PersonalInfo = &autosave.SerializedPersonalInfo{
			Nickname:           r.PersonalInfo.Nickname,
			FirstName:          r.PersonalInfo.FirstName,
			LastName:           r.PersonalInfo.LastName,
			FullNamePermission: r.PersonalInfo.FullNamePermission,
			DateOfBirth:        r.PersonalInfo.DateOfBirth,
			SpokenLanguages:    r.PersonalInfo.SpokenLanguages,
			Pronouns:           r.PersonalInfo.Pronouns,
			Wheelchair:         r.PersonalInfo.Wheelchair,
		}
	}

	if r.ContactInfo != nil {
		serialized.ContactInfo = &domain.ContactInfo{
			Email:            r.ContactInfo.Email,
			PhoneNumber:      r.ContactInfo.PhoneNumber,
			TelegramUsername: r.ContactInfo.TelegramUsername,
			Street:           r.ContactInfo.Street,
			City:             r.ContactInfo.City,
			PostalCode:       r.ContactInfo.PostalCode,
			StateOrProvince:  r.ContactInfo.StateOrProvince,
			Country:          r.ContactInfo.Country,
		}
	}

	if r.OptionalInfo != nil {
		serialized.OptionalInfo = &domain.OptionalInfo{
			Notifications: domain.Notifications{
				Art:        r.OptionalInfo.Notifications.Art,
				Animation:  r.OptionalInfo.Notifications.Animation,
				Music:      r.OptionalInfo.Notifications.Music,
				Fursuiting: r.OptionalInfo.Notifications.Fursuiting,
			},
			DigitalConbook: r.OptionalInfo.DigitalConbook,
			Comments:       r.OptionalInfo.Comments,
		}
	}

	return serialized
}

// SubmitRegistrationRequest is the body of a submission or an update. All
// sections except optionalInfo must be present and valid.
type SubmitRegistrationRequest struct {
	RegistrationInfo
}

func (req *SubmitRegistrationRequest) Validate() error {
	if req.TicketType == nil || req.TicketLevel == nil || req.PersonalInfo == nil || req.ContactInfo == nil {
		return errors.New("ticketType, ticketLevel, personalInfo and contactInfo are required")
	}

	return req.validatePresent()
}

// SaveDraftRequest is the body of an autosave call. Any partial progress is
// accepted; present sections must still be well-formed.
type SaveDraftRequest struct {
	RegistrationInfo
}

func (req *SaveDraftRequest) Validate() error {
	if req.TicketType != nil {
		if err := validation.Validate(req.TicketType.Type, validation.Required, validation.In("full", "day")); err != nil {
			return err
		}
	}

	if req.PersonalInfo != nil {
		if err := validation.Validate(req.PersonalInfo.DateOfBirth, validation.Required, validation.Match(isoDateExp)); err != nil {
			return err
		}
	}

	if req.ContactInfo != nil && req.ContactInfo.Email != "" {
		if err := validation.Validate(req.ContactInfo.Email, is.Email); err != nil {
			return err
		}
	}

	return nil
}
