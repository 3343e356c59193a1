package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(LocalConfig{BasePath: t.TempDir(), PublicPrefix: "media/"})
	require.NoError(t, err)
	assert.Equal(t, "/media", s.PublicPrefix())

	require.NoError(t, s.Write(ctx, "recipes/u1/a.jpg", strings.NewReader("jpeg"), 4, "image/jpeg"))

	ok, err := s.Exists(ctx, "recipes/u1/a.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Read(ctx, "recipes/u1/a.jpg")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))

	url, err := s.URL(ctx, "recipes/u1/a.jpg", 0)
	require.NoError(t, err)
	assert.Equal(t, "/media/recipes/u1/a.jpg", url)

	require.NoError(t, s.Delete(ctx, "recipes/u1/a.jpg"))
	require.NoError(t, s.Delete(ctx, "recipes/u1/a.jpg"))

	ok, err = s.Exists(ctx, "recipes/u1/a.jpg")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Read(ctx, "recipes/u1/a.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorageRejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(LocalConfig{BasePath: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "/media", s.PublicPrefix())

	for _, key := range []string{"../x.jpg", "a/../../x.jpg", "/etc/passwd", ".", ""} {
		err := s.Write(ctx, key, strings.NewReader("x"), 1, "text/plain")
		assert.Error(t, err, key)
	}
}

func TestNewSelectsDriver(t *testing.T) {
	s, err := New(context.Background(), Config{Local: LocalConfig{BasePath: t.TempDir()}})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = New(context.Background(), Config{Driver: "ftp"})
	assert.Error(t, err)
}
