package attendee

import (
	"errors"
	"sort"
	"time"

	"github.com/confreg/regsvc/internal/catalog"
	"github.com/confreg/regsvc/internal/domain"
)

// ErrIncompleteRegistration is returned by DtoFromRegistration when the
// registration lacks data the wire record cannot be built without (personal
// info, or the day of a day ticket).
var ErrIncompleteRegistration = errors.New("registration is missing required fields")

const isoDate = "2006-01-02"

var weekdayPackages = map[int]string{
	1: "day-mon",
	2: "day-tue",
	3: "day-wed",
	4: "day-thu",
	5: "day-fri",
	6: "day-sat",
	7: "day-sun",
}

func isoWeekday(t time.Time) int {
	// time.Weekday counts Sunday as 0; the package names use ISO numbering.
	return (int(t.Weekday())+6)%7 + 1
}

func weekdayPackage(t time.Time) string {
	return weekdayPackages[isoWeekday(t)]
}

// DtoFromRegistration builds the attendee wire record for a submission. The
// packages map is seeded from OriginalPackages so that packages the backend
// knows about but the UI does not model survive an edit-and-resave cycle;
// every package the UI does model is then overwritten from the current
// selection.
func DtoFromRegistration(cat *catalog.Catalog, info *domain.RegistrationInfo) (Dto, error) {
	if info.PersonalInfo == nil {
		return Dto{}, ErrIncompleteRegistration
	}

	ticketKind := domain.TicketKind("")
	if info.TicketType != nil {
		ticketKind = info.TicketType.Type
	}
	if ticketKind == domain.TicketDay && info.TicketType.Day == nil {
		return Dto{}, ErrIncompleteRegistration
	}

	level := ""
	if info.TicketLevel != nil {
		level = info.TicketLevel.Level
	}

	selected := func(addonID string) bool {
		if info.TicketLevel == nil {
			return false
		}

		return info.TicketLevel.Addons[addonID].Selected
	}
	option := func(addonID, optionID string) string {
		if info.TicketLevel == nil {
			return ""
		}

		return info.TicketLevel.Addons[addonID].Options[optionID]
	}

	packages := make(map[string]int)
	for _, pkg := range info.OriginalPackages {
		packages[pkg.Name] = pkg.Count
	}

	packages["room-none"] = 1
	packages["attendance"] = boolCount(ticketKind == domain.TicketFull)

	if ticketKind == domain.TicketDay {
		packages[weekdayPackage(*info.TicketType.Day)] = 1
	}

	packages["contributor"] = boolCount(level == "contributor")
	packages["sponsor"] = boolCount(level == "sponsor")
	packages["sponsor2"] = boolCount(level == "super-sponsor")

	// An addon bundled free with the level must not surface as a paid
	// package; only an explicit extra selection does.
	packages["stage"] = boolCount(level != "" && !cat.IncludesFree(level, "stage-pass") && selected("stage-pass"))
	packages["tshirt"] = boolCount(level != "" && !cat.IncludesFree(level, "tshirt") && selected("tshirt"))
	packages["early"] = boolCount(selected("early"))
	packages["late"] = boolCount(selected("late"))
	packages["fursuit"] = boolCount(selected("fursuit"))

	packages["benefactor"] = 0
	if selected("benefactor") {
		packages["benefactor"] = CountAsNumber(option("benefactor", "count"))
	}
	packages["fursuitadd"] = 0
	if selected("fursuitadd") {
		packages["fursuitadd"] = CountAsNumber(option("fursuitadd", "count"))
	}

	flags := splitSet(info.OriginalFlags)
	flags["hc"] = info.PersonalInfo.Wheelchair
	flags["anon"] = !info.PersonalInfo.FullNamePermission
	flags["digi-book"] = info.OptionalInfo != nil && info.OptionalInfo.DigitalConbook
	flags["terms-accepted"] = true

	options := make(map[string]bool)
	if info.OptionalInfo != nil {
		options["anim"] = info.OptionalInfo.Notifications.Animation
		options["art"] = info.OptionalInfo.Notifications.Art
		options["music"] = info.OptionalInfo.Notifications.Music
		options["suit"] = info.OptionalInfo.Notifications.Fursuiting
	}

	contact := info.ContactInfo
	if contact == nil {
		contact = &domain.ContactInfo{}
	}

	country := contact.Country
	if country == "" {
		country = "DE"
	}

	locale := info.PreferredLocale
	if locale == "" {
		locale = "en-US"
	}

	birthday := ""
	if info.PersonalInfo.DateOfBirth != nil {
		birthday = info.PersonalInfo.DateOfBirth.Format(isoDate)
	}

	comments := ""
	if info.OptionalInfo != nil {
		comments = info.OptionalInfo.Comments
	}

	return Dto{
		ID:                   nil,
		Nickname:             info.PersonalInfo.Nickname,
		FirstName:            info.PersonalInfo.FirstName,
		LastName:             info.PersonalInfo.LastName,
		Street:               contact.Street,
		Zip:                  contact.PostalCode,
		City:                 contact.City,
		Country:              country,
		SpokenLanguages:      joinNonEmpty(info.PersonalInfo.SpokenLanguages),
		RegistrationLanguage: locale,
		State:                ptrOrNil(contact.StateOrProvince),
		Email:                contact.Email,
		Phone:                contact.PhoneNumber,
		Telegram:             ptrOrNil(contact.TelegramUsername),
		Partner:              nil,
		Birthday:             birthday,
		Gender:               ptr("notprovided"),
		Pronouns:             ptrOrNil(info.PersonalInfo.Pronouns),
		TshirtSize:           ptrOrNil(tshirtToAPI(option("tshirt", "size"))),
		Flags:                joinSet(flags),
		Options:              joinSet(options),
		PackagesList:         packagesList(packages),
		UserComments:         ptrOrNil(comments),
	}, nil
}

// RegistrationFromDto reconstructs the UI registration shape from an
// attendee wire record. The source flags and packages are carried along
// verbatim so the next DtoFromRegistration call can preserve anything the
// UI does not model.
func RegistrationFromDto(cat *catalog.Catalog, dto Dto) domain.RegistrationInfo {
	packages := make(map[string]int)
	for _, pkg := range dto.PackagesList {
		packages[pkg.Name] = pkg.Count
	}
	has := func(name string) bool { return packages[name] > 0 }

	flags := splitSet(dto.Flags)
	options := splitSet(dto.Options)

	level := "standard"
	switch {
	case has("sponsor2"):
		level = "super-sponsor"
	case has("sponsor"):
		level = "sponsor"
	case has("contributor"):
		level = "contributor"
	}

	var ticketType *domain.TicketType
	if has("attendance") {
		ticketType = domain.FullTicket()
	} else {
		ticketType = &domain.TicketType{Type: domain.TicketDay}
		for _, day := range cat.Days() {
			if has(weekdayPackage(day)) {
				ticketType = domain.DayTicket(day)
				break
			}
		}
	}

	addons := make(map[string]domain.AddonSelection)
	for id, addon := range cat.Addons {
		if addon.Hidden {
			addons[id] = domain.AddonSelection{Selected: has(id)}
		}
	}

	addons["stage-pass"] = domain.AddonSelection{
		Selected: cat.IncludesFree(level, "stage-pass") || has("stage"),
	}

	tshirtOptions := map[string]string{}
	if dto.TshirtSize != nil && *dto.TshirtSize != "" {
		tshirtOptions["size"] = tshirtFromAPI(*dto.TshirtSize)
	}
	addons["tshirt"] = domain.AddonSelection{
		Selected: cat.IncludesFree(level, "tshirt") || has("tshirt"),
		Options:  tshirtOptions,
	}

	addons["early"] = domain.AddonSelection{Selected: has("early")}
	addons["late"] = domain.AddonSelection{Selected: has("late")}
	addons["fursuit"] = domain.AddonSelection{Selected: has("fursuit")}

	if has("benefactor") {
		addons["benefactor"] = domain.AddonSelection{
			Selected: true,
			Options:  map[string]string{"count": EncodeCount(packages["benefactor"])},
		}
	}
	if has("fursuitadd") {
		addons["fursuitadd"] = domain.AddonSelection{
			Selected: true,
			Options:  map[string]string{"count": EncodeCount(packages["fursuitadd"])},
		}
	}

	var dateOfBirth *time.Time
	if dto.Birthday != "" {
		if parsed, err := time.ParseInLocation(isoDate, dto.Birthday, cat.Location); err == nil {
			dateOfBirth = &parsed
		}
	}

	originalPackages := make([]domain.PackageInfo, len(dto.PackagesList))
	copy(originalPackages, dto.PackagesList)

	return domain.RegistrationInfo{
		PreferredLocale: dto.RegistrationLanguage,
		TicketType:      ticketType,
		TicketLevel: &domain.TicketLevel{
			Level:  level,
			Addons: addons,
		},
		PersonalInfo: &domain.PersonalInfo{
			Nickname:           dto.Nickname,
			FirstName:          dto.FirstName,
			LastName:           dto.LastName,
			DateOfBirth:        dateOfBirth,
			SpokenLanguages:    splitNonEmpty(dto.SpokenLanguages),
			Pronouns:           fromPtr(dto.Pronouns),
			Wheelchair:         flags["hc"],
			FullNamePermission: !flags["anon"],
		},
		ContactInfo: &domain.ContactInfo{
			Email:            dto.Email,
			PhoneNumber:      dto.Phone,
			TelegramUsername: fromPtr(dto.Telegram),
			Street:           dto.Street,
			City:             dto.City,
			PostalCode:       dto.Zip,
			StateOrProvince:  fromPtr(dto.State),
			Country:          dto.Country,
		},
		OptionalInfo: &domain.OptionalInfo{
			Comments:       fromPtr(dto.UserComments),
			DigitalConbook: flags["digi-book"],
			Notifications: domain.Notifications{
				Animation:  options["anim"],
				Art:        options["art"],
				Fursuiting: options["suit"],
				Music:      options["music"],
			},
		},
		OriginalFlags:    dto.Flags,
		OriginalPackages: originalPackages,
	}
}

// packagesList converts the derived counts into the wire form: positive
// counts only, sorted ascending by name.
func packagesList(packages map[string]int) []domain.PackageInfo {
	list := make([]domain.PackageInfo, 0, len(packages))
	for name, count := range packages {
		if count > 0 {
			list = append(list, domain.PackageInfo{Name: name, Count: count})
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })

	return list
}

func boolCount(b bool) int {
	if b {
		return 1
	}

	return 0
}

func ptr(s string) *string {
	return &s
}

func ptrOrNil(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func fromPtr(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
