package domain

import (
	"time"
)

type TicketKind string

const (
	TicketFull TicketKind = "full"
	TicketDay  TicketKind = "day"
)

// TicketType is the selected ticket variant. Day is set only when Type is
// TicketDay; a day ticket without a day is an incomplete selection.
type TicketType struct {
	Type TicketKind `json:"type"`
	Day  *time.Time `json:"day,omitempty"`
}

func FullTicket() *TicketType {
	return &TicketType{Type: TicketFull}
}

func DayTicket(day time.Time) *TicketType {
	return &TicketType{Type: TicketDay, Day: &day}
}

// AddonSelection holds the user's choice for one catalog addon, plus the
// values of its sub-options (e.g. t-shirt size, benefactor count).
type AddonSelection struct {
	Selected bool              `json:"selected"`
	Options  map[string]string `json:"options,omitempty"`
}

type TicketLevel struct {
	Level  string                    `json:"level"`
	Addons map[string]AddonSelection `json:"addons"`
}

type PersonalInfo struct {
	Nickname           string     `json:"nickname"`
	FirstName          string     `json:"firstName"`
	LastName           string     `json:"lastName"`
	FullNamePermission bool       `json:"fullNamePermission"`
	DateOfBirth        *time.Time `json:"dateOfBirth,omitempty"`
	SpokenLanguages    []string   `json:"spokenLanguages"`
	Pronouns           string     `json:"pronouns,omitempty"`
	Wheelchair         bool       `json:"wheelchair"`
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

// PackageInfo is one backend-side purchasable unit (wire contract with the
// attendee service).
type PackageInfo struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RegistrationInfo is the canonical in-memory shape of a registration. All
// sections are optional until submission; a partially filled value is a
// draft. OriginalFlags and OriginalPackages carry backend state the UI does
// not model, so that an edit-and-resave cycle preserves it unchanged.
type RegistrationInfo struct {
	PreferredLocale  string        `json:"preferredLocale,omitempty"`
	TicketType       *TicketType   `json:"ticketType,omitempty"`
	TicketLevel      *TicketLevel  `json:"ticketLevel,omitempty"`
	PersonalInfo     *PersonalInfo `json:"personalInfo,omitempty"`
	ContactInfo      *ContactInfo  `json:"contactInfo,omitempty"`
	OptionalInfo     *OptionalInfo `json:"optionalInfo,omitempty"`
	OriginalFlags    string        `json:"originalFlags,omitempty"`
	OriginalPackages []PackageInfo `json:"originalPackages,omitempty"`
}
