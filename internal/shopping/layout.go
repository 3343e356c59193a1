package shopping

import (
	"fmt"
)

// Page geometry in points. Vertical offsets are measured from the bottom
// edge of an A4 page.
const (
	PageWidth  = 595.28
	PageHeight = 841.89

	TitleX      = 100.0
	TitleOffset = 750.0
	EntryX      = 80.0
	TopMargin   = 700.0
	BottomLimit = 50.0
	LineStep    = 25.0

	FontSize = 14.0
)

// Placement is one string drawn at (X, Offset) on Page, counting pages from 1.
type Placement struct {
	Page   int
	X      float64
	Offset float64
	Text   string
}

// Layout is the full set of placements for a document.
type Layout struct {
	Pages      int
	Placements []Placement
}

// cursor tracks where the next entry goes.
type cursor struct {
	page   int
	offset float64
}

// advance returns the position for the next entry, breaking to a new page
// when the current offset has dropped below the bottom limit.
func (c *cursor) advance() (int, float64) {
	if c.offset < BottomLimit {
		c.page++
		c.offset = TopMargin
	}
	page, offset := c.page, c.offset
	c.offset -= LineStep
	return page, offset
}

// EntryText formats a numbered entry for the PDF document.
func EntryText(item Item) string {
	return fmt.Sprintf("%d. %s – %d %s", item.Index, item.Name, item.Amount, item.Unit)
}

// Plan lays out the title on the first page and the items below it.
func Plan(title string, items []Item) Layout {
	layout := Layout{
		Placements: make([]Placement, 0, len(items)+1),
	}
	layout.Placements = append(layout.Placements, Placement{
		Page:   1,
		X:      TitleX,
		Offset: TitleOffset,
		Text:   title,
	})

	c := cursor{page: 1, offset: TopMargin}
	for _, item := range items {
		page, offset := c.advance()
		layout.Placements = append(layout.Placements, Placement{
			Page:   page,
			X:      EntryX,
			Offset: offset,
			Text:   EntryText(item),
		})
	}

	layout.Pages = c.page
	return layout
}

// LinesPerPage is how many entries fit between the top margin and the
// bottom limit.
func LinesPerPage() int {
	return int((TopMargin-BottomLimit)/LineStep) + 1
}
