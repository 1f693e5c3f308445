// Package attendee implements the bidirectional mapping between the
// in-memory RegistrationInfo and the attendee service's wire format.
package attendee

import (
	"github.com/confreg/regsvc/internal/domain"
)

// Dto is the attendee service wire record. The JSON field names are part of
// the wire contract and must not change.
type Dto struct {
	ID                   *uint                `json:"id"`
	Nickname             string               `json:"nickname"`
	FirstName            string               `json:"first_name"`
	LastName             string               `json:"last_name"`
	Street               string               `json:"street"`
	Zip                  string               `json:"zip"`
	City                 string               `json:"city"`
	Country              string               `json:"country"`
	SpokenLanguages      string               `json:"spoken_languages"`
	RegistrationLanguage string               `json:"registration_language"`
	State                *string              `json:"state"`
	Email                string               `json:"email"`
	Phone                string               `json:"phone"`
	Telegram             *string              `json:"telegram"`
	Partner              *string              `json:"partner"`
	Birthday             string               `json:"birthday"`
	Gender               *string              `json:"gender"`
	Pronouns             *string              `json:"pronouns"`
	TshirtSize           *string              `json:"tshirt_size"`
	Flags                string               `json:"flags"`
	Options              string               `json:"options"`
	PackagesList         []domain.PackageInfo `json:"packages_list"`
	UserComments         *string              `json:"user_comments"`
}
