// Package invoice derives priced line items from a registration and the
// catalog, and reconciles the computed total against the payment ledger.
// All amounts are in major currency units; the ledger deals in cents and is
// divided by 100 before it reaches this package.
package invoice

import (
	"sort"

	"github.com/confreg/regsvc/internal/attendee"
	"github.com/confreg/regsvc/internal/catalog"
	"github.com/confreg/regsvc/internal/domain"
)

const isoDate = "2006-01-02"

type UncalculatedItem struct {
	ID        string            `json:"id"`
	Options   map[string]string `json:"options,omitempty"`
	Amount    int               `json:"amount"`
	UnitPrice float64           `json:"unitPrice"`
}

type Item struct {
	ID         string            `json:"id"`
	Options    map[string]string `json:"options,omitempty"`
	Amount     int               `json:"amount"`
	UnitPrice  float64           `json:"unitPrice"`
	TotalPrice float64           `json:"totalPrice"`
}

type Invoice struct {
	Items      []Item   `json:"items"`
	TotalPrice float64  `json:"totalPrice"`
	Paid       *float64 `json:"paid,omitempty"`
	Due        *float64 `json:"due,omitempty"`
}

// Build totals the line items. When both ledger sums are known and they do
// not add up to the catalog total, a synthetic "other" line absorbs the
// residual instead of hiding it; historical price changes and manual
// adjustments surface this way.
func Build(items []UncalculatedItem, paid, due *float64) Invoice {
	calculated := make([]Item, 0, len(items))
	total := 0.0
	for _, item := range items {
		lineTotal := float64(item.Amount) * item.UnitPrice
		calculated = append(calculated, Item{
			ID:         item.ID,
			Options:    item.Options,
			Amount:     item.Amount,
			UnitPrice:  item.UnitPrice,
			TotalPrice: lineTotal,
		})
		total += lineTotal
	}

	if paid == nil && due == nil {
		return Invoice{Items: calculated, TotalPrice: total}
	}

	other := deref(paid) + deref(due) - total
	if other != 0 {
		calculated = append(calculated, Item{
			ID:         "other",
			Amount:     1,
			UnitPrice:  other,
			TotalPrice: other,
		})
	}

	return Invoice{
		Items:      calculated,
		TotalPrice: total + other,
		Paid:       paid,
		Due:        due,
	}
}

// ItemsFromRegistration derives the uncalculated line items for a possibly
// partial registration. Nothing is priced until both a ticket type and a
// level are chosen.
func ItemsFromRegistration(cat *catalog.Catalog, info *domain.RegistrationInfo) []UncalculatedItem {
	items := []UncalculatedItem{}

	if info == nil || info.TicketType == nil || info.TicketLevel == nil {
		return items
	}

	level := info.TicketLevel.Level
	if level == "" {
		level = "standard"
	}
	if !cat.HasLevel(level) {
		return items
	}

	basePrice := cat.Price(level, string(info.TicketType.Type))
	if basePrice > 0 {
		options := map[string]string{}
		if info.TicketType.Type == domain.TicketDay && info.TicketType.Day != nil {
			options["day"] = info.TicketType.Day.Format(isoDate)
		}

		items = append(items, UncalculatedItem{
			ID:        "register-ticket-type-" + string(info.TicketType.Type),
			Options:   options,
			Amount:    1,
			UnitPrice: basePrice,
		})
	}

	for _, addonID := range sortedAddonIDs(info.TicketLevel.Addons) {
		selection := info.TicketLevel.Addons[addonID]
		addon, configured := cat.Addons[addonID]
		if !selection.Selected || !configured {
			continue
		}

		// A hidden zero-price addon carries no invoice weight at all.
		if addon.Hidden && addon.Price == 0 {
			continue
		}

		amount := 1
		options := map[string]string{}

		switch addonID {
		case "benefactor", "fursuitadd":
			if n := attendee.CountAsNumber(selection.Options["count"]); n > 0 {
				amount = n
			}
		case "tshirt":
			if size := selection.Options["size"]; size != "" {
				options["size"] = size
			}
		}

		items = append(items, UncalculatedItem{
			ID:        "register-ticket-addons-" + addonID,
			Options:   options,
			Amount:    amount,
			UnitPrice: addon.Price,
		})
	}

	return items
}

func sortedAddonIDs(addons map[string]domain.AddonSelection) []string {
	ids := make([]string, 0, len(addons))
	for id := range addons {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}

	return *f
}
