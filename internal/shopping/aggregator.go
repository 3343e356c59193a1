// Package shopping turns the ingredient lines of a user's cart into an
// ordered shopping list and renders it as text or PDF.
package shopping

import (
	"sort"

	"github.com/weiawesome/foodgram/internal/domain"
)

// Item is one aggregated shopping list entry. Index starts at 1.
type Item struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Unit   string `json:"measurement_unit"`
	Amount int    `json:"amount"`
}

type itemKey struct {
	name string
	unit string
}

// Aggregate groups lines by (name, unit) and sums their amounts. The same
// ingredient in different units stays separate; no conversion is attempted.
// The result is ordered by name, then unit, comparing bytes.
func Aggregate(lines []domain.CartLine) []Item {
	totals := make(map[itemKey]int, len(lines))
	for _, line := range lines {
		totals[itemKey{name: line.Name, unit: line.Unit}] += line.Amount
	}

	items := make([]Item, 0, len(totals))
	for k, amount := range totals {
		items = append(items, Item{Name: k.name, Unit: k.unit, Amount: amount})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].Unit < items[j].Unit
	})

	for i := range items {
		items[i].Index = i + 1
	}
	return items
}
