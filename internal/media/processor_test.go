package media

import (
	"context"
	"encoding/base64"
	"image"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/foodgram/internal/config"
	"github.com/weiawesome/foodgram/internal/testutil"
	"github.com/weiawesome/foodgram/pkg/storage"
)

func newProcessor(t *testing.T, cfg config.ImageConfig) (*Processor, *storage.LocalStorage) {
	t.Helper()

	store, err := storage.NewLocalStorage(storage.LocalConfig{BasePath: t.TempDir()})
	require.NoError(t, err)
	return NewProcessor(store, cfg), store
}

func readImage(t *testing.T, store storage.Storage, key string) image.Point {
	t.Helper()

	rc, err := store.Read(context.Background(), key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return testutil.ImageSize(t, data)
}

func TestSaveFitsInsideBounds(t *testing.T) {
	ctx := context.Background()
	p, store := newProcessor(t, config.ImageConfig{MaxWidth: 64, MaxHeight: 64, Quality: 80})

	key, err := p.Save(ctx, "u1", testutil.PNGDataURI(t, 256, 128))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "recipes/u1/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.Equal(t, image.Pt(64, 32), readImage(t, store, key))

	small, err := p.Save(ctx, "u1", testutil.PNGDataURI(t, 16, 8))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(16, 8), readImage(t, store, small), "small images are not upscaled")

	assert.Equal(t, "/media/"+key, p.URL(ctx, key))
	assert.Empty(t, p.URL(ctx, ""))

	p.Delete(ctx, key)
	ok, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveAcceptsBareBase64(t *testing.T) {
	p, _ := newProcessor(t, config.ImageConfig{MaxWidth: 64, MaxHeight: 64, Quality: 80})

	uri := testutil.PNGDataURI(t, 10, 10)
	bare := uri[strings.Index(uri, ",")+1:]

	_, err := p.Save(context.Background(), "u1", bare)
	assert.NoError(t, err)
}

func TestSaveRejectsBadPayloads(t *testing.T) {
	p, _ := newProcessor(t, config.ImageConfig{MaxWidth: 64, MaxHeight: 64, Quality: 80, MaxBytes: 1 << 10})
	notImage := base64.StdEncoding.EncodeToString([]byte("definitely not an image"))

	tests := []struct {
		name    string
		payload string
		want    error
	}{
		{name: "empty", payload: "", want: ErrInvalidImage},
		{name: "not base64", payload: "data:image/png;base64,@@@", want: ErrInvalidImage},
		{name: "not an image uri", payload: "data:text/plain;base64," + notImage, want: ErrInvalidImage},
		{name: "missing base64 marker", payload: "data:image/png," + notImage, want: ErrInvalidImage},
		{name: "undecodable", payload: "data:image/png;base64," + notImage, want: ErrInvalidImage},
		{name: "too large", payload: "data:image/png;base64," + base64.StdEncoding.EncodeToString(make([]byte, 2<<10)), want: ErrImageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Save(context.Background(), "u1", tt.payload)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
