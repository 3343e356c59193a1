package shopping

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	font, err := DefaultFont()
	require.NoError(t, err)
	return NewRenderer(font, "Список покупок")
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatPDF},
		{in: "pdf", want: FormatPDF},
		{in: "PDF", want: FormatPDF},
		{in: "txt", want: FormatText},
		{in: "text", want: FormatText},
		{in: "docx", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnsupportedFormat, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestRenderText(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)

	doc, err := r.Render([]Item{
		{Index: 1, Name: "Butter", Unit: "g", Amount: 50},
		{Index: 2, Name: "Молоко", Unit: "мл", Amount: 250},
	}, FormatText)
	require.NoError(t, err)

	assert.Equal(t, "shopping_cart.txt", doc.Filename)
	assert.Equal(t, "text/plain; charset=utf-8", doc.ContentType)
	assert.Equal(t, "Butter - 50g\nМолоко - 250мл", string(doc.Data))
}

func TestRenderTextEmpty(t *testing.T) {
	t.Parallel()

	doc, err := newTestRenderer(t).Render(nil, FormatText)
	require.NoError(t, err)
	assert.Empty(t, doc.Data)
}

func TestRenderPDF(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)

	tests := []struct {
		name  string
		items []Item
	}{
		{name: "empty list renders title only", items: nil},
		{name: "cyrillic entries", items: []Item{{Index: 1, Name: "Сахар", Unit: "г", Amount: 150}}},
		{name: "multiple pages", items: makeItems(LinesPerPage()*2 + 3)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := r.Render(tt.items, FormatPDF)
			require.NoError(t, err)

			assert.Equal(t, "shopping_cart.pdf", doc.Filename)
			assert.Equal(t, "application/pdf", doc.ContentType)
			assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF-")), "missing PDF header")
			assert.True(t, bytes.Contains(doc.Data, []byte("%%EOF")), "missing PDF trailer")
		})
	}
}

func TestRenderPDFMissingGlyph(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)

	_, err := r.Render([]Item{{Index: 1, Name: "豆腐", Unit: "g", Amount: 300}}, FormatPDF)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingGlyph))
}

func TestRenderUnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := newTestRenderer(t).Render(nil, Format("docx"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadFontFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "GoRegular.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0o644))

	font, err := LoadFontFile(path)
	require.NoError(t, err)
	assert.Equal(t, "GoRegular", font.Family)
	assert.NoError(t, font.Check("Flour – 500 g"))
	assert.ErrorIs(t, font.Check("🍞"), ErrMissingGlyph)
}

func TestLoadFontFileInvalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.ttf")
	require.NoError(t, os.WriteFile(path, []byte("not a font"), 0o644))

	_, err := LoadFontFile(path)
	assert.Error(t, err)
}
