// Package imaging prepares uploaded listing photos and draws the site icon.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/nfnt/resize"
)

// MaxDimension bounds the longer side of a stored photo.
const MaxDimension = 1920

// MaxPixels bounds the decoded size of an upload, whatever its byte size.
const MaxPixels = 40_000_000

var (
	ErrTooLarge    = errors.New("image exceeds upload limit")
	ErrUnsupported = errors.New("unsupported image format")
)

// Upload is a photo ready to be sent to object storage.
type Upload struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// PrepareUpload decodes r, downscales it to fit MaxDimension and re-encodes
// it. PNG stays PNG; everything else becomes JPEG.
func PrepareUpload(r io.Reader, maxBytes int64) (*Upload, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(raw)) > maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxBytes)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d pixels", ErrTooLarge, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	b := img.Bounds()
	if b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		img = resize.Thumbnail(MaxDimension, MaxDimension, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	up := &Upload{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}
	if format == "png" {
		err = png.Encode(&buf, img)
		up.ContentType, up.Ext = "image/png", ".png"
	} else {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
		up.ContentType, up.Ext = "image/jpeg", ".jpg"
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	up.Data = buf.Bytes()
	return up, nil
}

// IconSize is the edge length of the generated favicon.
const IconSize = 32

var (
	iconBackground = color.RGBA{R: 0x1d, G: 0x4e, B: 0xd8, A: 0xff}
	iconForeground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Icon draws the house glyph at four times the target size and scales it
// down to IconSize, returning PNG bytes.
func Icon() ([]byte, error) {
	const canvas = IconSize * 4
	src := image.NewRGBA(image.Rect(0, 0, canvas, canvas))
	draw.Draw(src, src.Bounds(), &image.Uniform{C: iconBackground}, image.Point{}, draw.Src)

	// roof
	for y := 24; y < 64; y++ {
		half := (y - 24) * 44 / 40
		for x := canvas/2 - half; x <= canvas/2+half; x++ {
			src.Set(x, y, iconForeground)
		}
	}
	// walls, with a door cut out
	draw.Draw(src, image.Rect(34, 64, 94, 108), &image.Uniform{C: iconForeground}, image.Point{}, draw.Src)
	draw.Draw(src, image.Rect(56, 80, 72, 108), &image.Uniform{C: iconBackground}, image.Point{}, draw.Src)

	icon := resize.Resize(IconSize, IconSize, src, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, icon); err != nil {
		return nil, fmt.Errorf("failed to encode icon: %w", err)
	}
	return buf.Bytes(), nil
}
