// Package autosave converts a partial RegistrationInfo between its in-memory
// shape and the persisted-draft wire shape, where dates are ISO calendar-date
// strings so the stored JSON stays storage-safe.
package autosave

import (
	"time"

	"go.uber.org/zap"

	"github.com/confreg/regsvc/internal/catalog"
	"github.com/confreg/regsvc/internal/domain"
)

const isoDate = "2006-01-02"

type SerializedTicketType struct {
	Type string `json:"type"`
	Day  string `json:"day,omitempty"`
}

type SerializedPersonalInfo struct {
	Nickname           string   `json:"nickname"`
	FirstName          string   `json:"firstName"`
	LastName           string   `json:"lastName"`
	FullNamePermission bool     `json:"fullNamePermission"`
	DateOfBirth        string   `json:"dateOfBirth"`
	SpokenLanguages    []string `json:"spokenLanguages"`
	Pronouns           string   `json:"pronouns,omitempty"`
	Wheelchair         bool     `json:"wheelchair"`
}

type SerializedRegistrationInfo struct {
	PreferredLocale  string                  `json:"preferredLocale,omitempty"`
	TicketType       *SerializedTicketType   `json:"ticketType,omitempty"`
	TicketLevel      *domain.TicketLevel     `json:"ticketLevel,omitempty"`
	PersonalInfo     *SerializedPersonalInfo `json:"personalInfo,omitempty"`
	ContactInfo      *domain.ContactInfo     `json:"contactInfo,omitempty"`
	OptionalInfo     *domain.OptionalInfo    `json:"optionalInfo,omitempty"`
	OriginalFlags    string                  `json:"originalFlags,omitempty"`
	OriginalPackages []domain.PackageInfo    `json:"originalPackages,omitempty"`
}

// DraftSaveData is the JSON blob persisted for a draft.
type DraftSaveData struct {
	RegistrationInfo *SerializedRegistrationInfo `json:"registrationInfo,omitempty"`
	LastSavedAt      string                      `json:"lastSavedAt,omitempty"`
}

// Codec serializes drafts. The fallback day for a day ticket with no usable
// day and the time zone both come from the catalog, not from constants baked
// into the transform.
type Codec struct {
	cat *catalog.Catalog
}

func NewCodec(cat *catalog.Catalog) *Codec {
	return &Codec{cat: cat}
}

// Serialize converts dates to ISO strings. A section whose date cannot be
// represented is dropped rather than defaulted, so partially-invalid date
// state is never persisted. Returns nil when nothing usable remains to the
// caller, which must treat that as "no draft", not as a failure.
func (c *Codec) Serialize(info *domain.RegistrationInfo) *SerializedRegistrationInfo {
	defer recoverDraftCodec("serialize")

	if info == nil {
		return nil
	}

	return &SerializedRegistrationInfo{
		PreferredLocale:  info.PreferredLocale,
		TicketType:       serializeTicketType(info.TicketType),
		TicketLevel:      info.TicketLevel,
		PersonalInfo:     serializePersonalInfo(info.PersonalInfo),
		ContactInfo:      info.ContactInfo,
		OptionalInfo:     info.OptionalInfo,
		OriginalFlags:    info.OriginalFlags,
		OriginalPackages: info.OriginalPackages,
	}
}

// Deserialize converts ISO-string dates back to time values anchored to the
// catalog time zone. A day ticket with a missing or unparsable day falls
// back to the catalog default day; personal info with an unusable date of
// birth is dropped.
func (c *Codec) Deserialize(info *SerializedRegistrationInfo) *domain.RegistrationInfo {
	defer recoverDraftCodec("deserialize")

	if info == nil {
		return nil
	}

	return &domain.RegistrationInfo{
		PreferredLocale:  info.PreferredLocale,
		TicketType:       c.deserializeTicketType(info.TicketType),
		TicketLevel:      info.TicketLevel,
		PersonalInfo:     c.deserializePersonalInfo(info.PersonalInfo),
		ContactInfo:      info.ContactInfo,
		OptionalInfo:     info.OptionalInfo,
		OriginalFlags:    info.OriginalFlags,
		OriginalPackages: info.OriginalPackages,
	}
}

func serializeTicketType(ticketType *domain.TicketType) *SerializedTicketType {
	if ticketType == nil {
		return nil
	}

	if ticketType.Type != domain.TicketDay {
		return &SerializedTicketType{Type: string(ticketType.Type)}
	}

	if ticketType.Day == nil || ticketType.Day.IsZero() {
		return nil
	}

	return &SerializedTicketType{
		Type: string(ticketType.Type),
		Day:  ticketType.Day.Format(isoDate),
	}
}

func serializePersonalInfo(personalInfo *domain.PersonalInfo) *SerializedPersonalInfo {
	if personalInfo == nil {
		return nil
	}

	if personalInfo.DateOfBirth == nil || personalInfo.DateOfBirth.IsZero() {
		return nil
	}

	return &SerializedPersonalInfo{
		Nickname:           personalInfo.Nickname,
		FirstName:          personalInfo.FirstName,
		LastName:           personalInfo.LastName,
		FullNamePermission: personalInfo.FullNamePermission,
		DateOfBirth:        personalInfo.DateOfBirth.Format(isoDate),
		SpokenLanguages:    personalInfo.SpokenLanguages,
		Pronouns:           personalInfo.Pronouns,
		Wheelchair:         personalInfo.Wheelchair,
	}
}

func (c *Codec) deserializeTicketType(ticketType *SerializedTicketType) *domain.TicketType {
	if ticketType == nil {
		return nil
	}

	if ticketType.Type != string(domain.TicketDay) {
		return &domain.TicketType{Type: domain.TicketKind(ticketType.Type)}
	}

	if ticketType.Day == "" {
		return domain.DayTicket(c.cat.DefaultDay)
	}

	day, err := time.ParseInLocation(isoDate, ticketType.Day, c.cat.Location)
	if err != nil {
		return domain.DayTicket(c.cat.DefaultDay)
	}

	return domain.DayTicket(day)
}

func (c *Codec) deserializePersonalInfo(personalInfo *SerializedPersonalInfo) *domain.PersonalInfo {
	if personalInfo == nil || personalInfo.DateOfBirth == "" {
		return nil
	}

	date, err := time.ParseInLocation(isoDate, personalInfo.DateOfBirth, c.cat.Location)
	if err != nil {
		return nil
	}

	return &domain.PersonalInfo{
		Nickname:           personalInfo.Nickname,
		FirstName:          personalInfo.FirstName,
		LastName:           personalInfo.LastName,
		FullNamePermission: personalInfo.FullNamePermission,
		DateOfBirth:        &date,
		SpokenLanguages:    personalInfo.SpokenLanguages,
		Pronouns:           personalInfo.Pronouns,
		Wheelchair:         personalInfo.Wheelchair,
	}
}

// IsValidDraft reports whether the partial registration is usable as a
// draft. A complete ticket selection must only reference configured addons
// that are available for the chosen ticket kind; otherwise any partial
// progress at all counts. An empty value is not a draft.
func (c *Codec) IsValidDraft(info *domain.RegistrationInfo) bool {
	if info == nil {
		return false
	}

	if info.TicketType != nil && info.TicketLevel != nil {
		return !c.hasWrongAddons(info.TicketLevel.Addons) &&
			!c.hasUnavailableSelectedAddons(info.TicketLevel.Addons, info.TicketType.Type)
	}

	return info.TicketType != nil ||
		info.TicketLevel != nil ||
		info.PersonalInfo != nil ||
		info.ContactInfo != nil ||
		info.OptionalInfo != nil
}

// HasDraft reports whether info holds any data at all and that data is a
// valid draft.
func (c *Codec) HasDraft(info *domain.RegistrationInfo) bool {
	if info == nil {
		return false
	}

	hasAnything := info.TicketType != nil ||
		info.TicketLevel != nil ||
		info.PersonalInfo != nil ||
		info.ContactInfo != nil ||
		info.OptionalInfo != nil ||
		info.OriginalFlags != "" ||
		len(info.OriginalPackages) > 0 ||
		info.PreferredLocale != ""

	return hasAnything && c.IsValidDraft(info)
}

func (c *Codec) hasWrongAddons(addons map[string]domain.AddonSelection) bool {
	for id := range addons {
		if !c.cat.HasAddon(id) {
			return true
		}
	}

	return false
}

func (c *Codec) hasUnavailableSelectedAddons(addons map[string]domain.AddonSelection, kind domain.TicketKind) bool {
	for id, selection := range addons {
		if selection.Selected && c.cat.UnavailableForType(id, string(kind)) {
			return true
		}
	}

	return false
}

// recoverDraftCodec reports a codec panic and lets the function return its
// zero value; callers treat nil as "no usable draft".
func recoverDraftCodec(step string) {
	if r := recover(); r != nil {
		zap.L().Error("draft codec failure",
			zap.String("flow", "autosave"),
			zap.String("step", step),
			zap.Any("panic", r),
		)
	}
}
