// Package catalog holds the static description of ticket levels and addons:
// prices, bundled inclusions and eligibility constraints. It is loaded once
// at startup and treated as immutable for the process lifetime.
package catalog

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const isoDate = "2006-01-02"

type Prices struct {
	Full float64 `mapstructure:"full"`
	Day  float64 `mapstructure:"day"`
}

type TicketLevel struct {
	Label string `mapstructure:"label"`
	// Prices per ticket kind, in major currency units.
	Prices Prices `mapstructure:"prices"`
	// Includes lists addon ids bundled free with this level.
	Includes []string `mapstructure:"includes"`
	// Requires lists addon ids forced on for this level.
	Requires []string `mapstructure:"requires"`
}

// UnavailableFor excludes an addon for certain ticket kinds or levels.
type UnavailableFor struct {
	Types  []string `mapstructure:"types"`
	Levels []string `mapstructure:"levels"`
}

type ResetOn struct {
	LevelChange bool `mapstructure:"level_change"`
}

type AddonOption struct {
	Type  string   `mapstructure:"type"`
	Items []string `mapstructure:"items"`
}

type Addon struct {
	// Price per unit in major currency units.
	Price float64 `mapstructure:"price"`
	// Hidden addons are never shown in the UI but may still appear as a
	// backend package (e.g. staff-managed extras).
	Hidden bool `mapstructure:"hidden"`
	// Default addons are pre-selected on a fresh registration.
	Default bool `mapstructure:"default"`
	// Unavailable disables the addon globally; an existing purchase is
	// still preserved on round trips.
	Unavailable    bool           `mapstructure:"unavailable"`
	UnavailableFor UnavailableFor `mapstructure:"unavailable_for"`
	Requires       []string       `mapstructure:"requires"`
	ResetOn        ResetOn        `mapstructure:"reset_on"`
	Options        map[string]AddonOption `mapstructure:"options"`
}

type Catalog struct {
	TicketLevels map[string]TicketLevel
	Addons       map[string]Addon

	// Day-ticket sale interval (inclusive) and the fallback day used when a
	// stored draft carries a day ticket without a usable day.
	DayTicketStart time.Time
	DayTicketEnd   time.Time
	DefaultDay     time.Time

	Location *time.Location
}

type rawCatalog struct {
	Timezone     string                 `mapstructure:"timezone"`
	TicketLevels map[string]TicketLevel `mapstructure:"ticket_levels"`
	Addons       map[string]Addon       `mapstructure:"addons"`
	DayTicket    struct {
		Start      string `mapstructure:"start"`
		End        string `mapstructure:"end"`
		DefaultDay string `mapstructure:"default_day"`
	} `mapstructure:"day_ticket"`
}

// Load reads the catalog YAML at path.
func Load(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	var raw rawCatalog
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	loc, err := time.LoadLocation(raw.Timezone)
	if err != nil {
		return nil, fmt.Errorf("time.LoadLocation -> %w", err)
	}

	start, err := time.ParseInLocation(isoDate, raw.DayTicket.Start, loc)
	if err != nil {
		return nil, fmt.Errorf("parsing day_ticket.start -> %w", err)
	}
	end, err := time.ParseInLocation(isoDate, raw.DayTicket.End, loc)
	if err != nil {
		return nil, fmt.Errorf("parsing day_ticket.end -> %w", err)
	}
	defaultDay, err := time.ParseInLocation(isoDate, raw.DayTicket.DefaultDay, loc)
	if err != nil {
		return nil, fmt.Errorf("parsing day_ticket.default_day -> %w", err)
	}

	return &Catalog{
		TicketLevels:   raw.TicketLevels,
		Addons:         raw.Addons,
		DayTicketStart: start,
		DayTicketEnd:   end,
		DefaultDay:     defaultDay,
		Location:       loc,
	}, nil
}

func (c *Catalog) HasLevel(id string) bool {
	_, ok := c.TicketLevels[id]
	return ok
}

func (c *Catalog) HasAddon(id string) bool {
	_, ok := c.Addons[id]
	return ok
}

// IncludesFree reports whether the given level bundles the addon for free.
// The same predicate feeds both the attendee package derivation and the
// invoice line items, so the two can never disagree.
func (c *Catalog) IncludesFree(level, addonID string) bool {
	lvl, ok := c.TicketLevels[level]
	if !ok {
		return false
	}

	for _, id := range lvl.Includes {
		if id == addonID {
			return true
		}
	}

	return false
}

// UnavailableForType reports whether the addon is excluded for the given
// ticket kind ("full" or "day"). Unknown addon ids are not excluded.
func (c *Catalog) UnavailableForType(addonID, ticketKind string) bool {
	addon, ok := c.Addons[addonID]
	if !ok {
		return false
	}

	for _, t := range addon.UnavailableFor.Types {
		if t == ticketKind {
			return true
		}
	}

	return false
}

// Price returns the base ticket price for a level and ticket kind, or zero
// when either is unknown.
func (c *Catalog) Price(level, ticketKind string) float64 {
	lvl, ok := c.TicketLevels[level]
	if !ok {
		return 0
	}

	switch ticketKind {
	case "full":
		return lvl.Prices.Full
	case "day":
		return lvl.Prices.Day
	default:
		return 0
	}
}

// Days lists every calendar day of the day-ticket interval, inclusive.
func (c *Catalog) Days() []time.Time {
	var days []time.Time
	for cursor := c.DayTicketStart; !cursor.After(c.DayTicketEnd); cursor = cursor.AddDate(0, 0, 1) {
		days = append(days, cursor)
	}

	return days
}

// DefaultAddonIDs lists addons that are pre-selected on a fresh registration.
func (c *Catalog) DefaultAddonIDs() []string {
	var ids []string
	for id, addon := range c.Addons {
		if addon.Default && !addon.Unavailable {
			ids = append(ids, id)
		}
	}

	return ids
}
