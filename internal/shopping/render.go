package shopping

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

var ErrUnsupportedFormat = errors.New("unsupported shopping list format")

// Format selects the document type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatText Format = "txt"
)

// ParseFormat maps a query value to a Format; empty means PDF.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pdf":
		return FormatPDF, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Document is a rendered shopping list ready to be sent as an attachment.
type Document struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Renderer produces shopping list documents.
type Renderer struct {
	font  *Font
	title string
}

// NewRenderer creates a renderer drawing with font under title.
func NewRenderer(font *Font, title string) *Renderer {
	return &Renderer{font: font, title: title}
}

// Render produces a document in the requested format.
func (r *Renderer) Render(items []Item, format Format) (*Document, error) {
	switch format {
	case FormatText:
		return &Document{
			Data:        RenderText(items),
			Filename:    "shopping_cart.txt",
			ContentType: "text/plain; charset=utf-8",
		}, nil
	case FormatPDF:
		data, err := r.renderPDF(items)
		if err != nil {
			return nil, err
		}
		return &Document{
			Data:        data,
			Filename:    "shopping_cart.pdf",
			ContentType: "application/pdf",
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// RenderText writes one "<name> - <amount><unit>" line per item.
func RenderText(items []Item) []byte {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = TextLine(item)
	}
	return []byte(strings.Join(lines, "\n"))
}

// TextLine formats an item for the plain text list.
func TextLine(item Item) string {
	return item.Name + " - " + strconv.Itoa(item.Amount) + item.Unit
}

func (r *Renderer) renderPDF(items []Item) ([]byte, error) {
	layout := Plan(r.title, items)

	for _, p := range layout.Placements {
		if err := r.font.Check(p.Text); err != nil {
			return nil, err
		}
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetTitle(r.title, true)
	pdf.SetCreator("foodgram", true)
	pdf.SetCreationDate(time.Now().UTC())
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddUTF8FontFromBytes(r.font.Family, "", r.font.Data())

	next := 0
	for page := 1; page <= layout.Pages; page++ {
		pdf.AddPage()
		pdf.SetFont(r.font.Family, "", FontSize)
		for next < len(layout.Placements) && layout.Placements[next].Page == page {
			p := layout.Placements[next]
			pdf.Text(p.X, PageHeight-p.Offset, p.Text)
			next++
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
