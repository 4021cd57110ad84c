package ingest

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"os"

	"ooad-assistant/internal/models"
)

// readImage decodes a jpg/jpeg/png file and re-encodes it as a
// canonical RGB PNG buffer, so downstream consumers never see the
// original encoding.
func readImage(path string) (models.Content, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Content{}, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return models.Content{}, fmt.Errorf("%w: decode image: %v", ErrUnreadableFile, err)
	}

	// Normalize the color model before encoding.
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return models.Content{}, fmt.Errorf("%w: encode PNG: %v", ErrUnreadableFile, err)
	}

	return models.ImageContent(buf.Bytes()), nil
}
