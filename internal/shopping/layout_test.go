package shopping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{Index: i + 1, Name: "Item", Unit: "g", Amount: i + 1}
	}
	return items
}

func TestPlanEmpty(t *testing.T) {
	t.Parallel()

	layout := Plan("Shopping list", nil)

	assert.Equal(t, 1, layout.Pages)
	require.Len(t, layout.Placements, 1)
	assert.Equal(t, Placement{Page: 1, X: TitleX, Offset: TitleOffset, Text: "Shopping list"}, layout.Placements[0])
}

func TestPlanFirstEntries(t *testing.T) {
	t.Parallel()

	layout := Plan("T", makeItems(3))

	require.Len(t, layout.Placements, 4)
	for i, want := range []float64{700, 675, 650} {
		p := layout.Placements[i+1]
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, EntryX, p.X)
		assert.Equal(t, want, p.Offset)
	}
	assert.Equal(t, "1. Item – 1 g", layout.Placements[1].Text)
}

func TestPlanPageBreak(t *testing.T) {
	t.Parallel()

	perPage := LinesPerPage()
	require.Equal(t, 27, perPage)

	tests := []struct {
		name  string
		items int
		pages int
	}{
		{name: "exactly one page", items: perPage, pages: 1},
		{name: "one line over", items: perPage + 1, pages: 2},
		{name: "three pages", items: 2*perPage + 1, pages: 3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			layout := Plan("T", makeItems(tt.items))
			assert.Equal(t, tt.pages, layout.Pages)

			entries := layout.Placements[1:]
			last := entries[perPage-1]
			assert.Equal(t, 1, last.Page)
			assert.Equal(t, BottomLimit, last.Offset)

			if tt.items > perPage {
				first := entries[perPage]
				assert.Equal(t, 2, first.Page)
				assert.Equal(t, TopMargin, first.Offset)
			}
			for _, p := range entries {
				assert.GreaterOrEqual(t, p.Offset, BottomLimit)
			}
		})
	}
}

func TestEntryText(t *testing.T) {
	t.Parallel()

	got := EntryText(Item{Index: 2, Name: "Мука", Unit: "г", Amount: 500})
	assert.Equal(t, "2. Мука – 500 г", got)
}
