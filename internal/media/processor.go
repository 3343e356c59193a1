package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/weiawesome/foodgram/internal/config"
	pkglog "github.com/weiawesome/foodgram/pkg/log"
	"github.com/weiawesome/foodgram/pkg/storage"
)

var (
	ErrInvalidImage  = errors.New("invalid image")
	ErrImageTooLarge = errors.New("image too large")
)

const urlExpiry = 24 * time.Hour

// Processor turns uploaded base64 images into bounded JPEGs in storage.
type Processor struct {
	store     storage.Storage
	maxWidth  int
	maxHeight int
	quality   int
	maxBytes  int
}

// NewProcessor constructs a Processor from image config.
func NewProcessor(store storage.Storage, cfg config.ImageConfig) *Processor {
	return &Processor{
		store:     store,
		maxWidth:  cfg.MaxWidth,
		maxHeight: cfg.MaxHeight,
		quality:   cfg.Quality,
		maxBytes:  cfg.MaxBytes,
	}
}

// Save decodes a data URI ("data:image/png;base64,...") or bare base64
// payload, fits it inside the configured bounds, re-encodes it as JPEG and
// stores it under recipes/{authorID}/{uuid}.jpg.
func (p *Processor) Save(ctx context.Context, authorID, encoded string) (string, error) {
	raw, err := decodePayload(encoded)
	if err != nil {
		return "", err
	}
	if p.maxBytes > 0 && len(raw) > p.maxBytes {
		return "", fmt.Errorf("%w: %d bytes", ErrImageTooLarge, len(raw))
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	// Fit never upscales.
	if p.maxWidth > 0 && p.maxHeight > 0 {
		img = imaging.Fit(img, p.maxWidth, p.maxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.quality)); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	key := fmt.Sprintf("recipes/%s/%s.jpg", authorID, uuid.New().String())
	if err := p.store.Write(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), "image/jpeg"); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return key, nil
}

// URL resolves a stored key; empty keys and storage errors yield "".
func (p *Processor) URL(ctx context.Context, key string) string {
	if key == "" {
		return ""
	}
	u, err := p.store.URL(ctx, key, urlExpiry)
	if err != nil {
		l := pkglog.Ctx(ctx)
		l.Warn().Err(err).Str("key", key).Msg("failed to resolve image url")
		return ""
	}
	return u
}

// Delete removes a stored image, logging instead of failing.
func (p *Processor) Delete(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := p.store.Delete(ctx, key); err != nil {
		l := pkglog.Ctx(ctx)
		l.Warn().Err(err).Str("key", key).Msg("failed to delete image")
	}
}

func decodePayload(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if strings.HasPrefix(encoded, "data:") {
		idx := strings.Index(encoded, ";base64,")
		if idx < 0 {
			return nil, fmt.Errorf("%w: data uri is not base64", ErrInvalidImage)
		}
		if !strings.HasPrefix(encoded, "data:image/") {
			return nil, fmt.Errorf("%w: not an image data uri", ErrInvalidImage)
		}
		encoded = encoded[idx+len(";base64,"):]
	}
	if encoded == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return raw, nil
}
