// Package media provides the gateway to the external media host. Uploads
// return stable refs; deletes are idempotent so compensation can retry them
// safely.
package media

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"shopkart/internal/model"
)

// File is an image buffer submitted by a client.
type File struct {
	Name string
	Data []byte
}

// Store accepts byte buffers and returns stable identifiers plus URLs.
type Store interface {
	// Upload stores the file and returns its ref. The returned ID is the
	// handle for deletion.
	Upload(ctx context.Context, f File) (model.MediaRef, error)

	// Delete removes the object with the given ID. Deleting an ID that does
	// not exist is not an error.
	Delete(ctx context.Context, id string) error
}

// probeImage decodes the image header and returns format and dimensions.
func probeImage(data []byte) (format string, width, height int, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", 0, 0, model.NewInvalidInput("unsupported or corrupt image data")
	}
	return format, cfg.Width, cfg.Height, nil
}
