package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrNotImage = errors.New("file is not a supported image")
	ErrTooLarge = errors.New("file exceeds the upload size limit")
)

// Images stores uploaded images under images/<uuid><ext> and returns the
// public path they are served from.
type Images struct {
	Store     ObjectStore
	MaxBytes  int64
	URLPrefix string
}

func NewImages(s ObjectStore, maxBytes int64) *Images {
	return &Images{Store: s, MaxBytes: maxBytes, URLPrefix: "/media/"}
}

var allowedImages = map[string]bool{
	"image/png":     true,
	"image/jpeg":    true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// Save reads at most MaxBytes from r, checks the detected type and stores it.
func (im *Images) Save(ctx context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, im.MaxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > im.MaxBytes {
		return "", ErrTooLarge
	}
	mt := mimetype.Detect(data)
	ct := strings.SplitN(mt.String(), ";", 2)[0]
	if !allowedImages[ct] {
		return "", ErrNotImage
	}
	key := "images/" + uuid.NewString() + mt.Extension()
	if err := im.Store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), ct); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return im.URLPrefix + key, nil
}
