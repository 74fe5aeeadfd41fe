// Package images normalizes uploaded profile pictures: square crop, bounded
// size, opaque JPEG output.
package images

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// DefaultMaxSize bounds the side of a processed profile picture in pixels.
const DefaultMaxSize = 800

// CropCenterSquare crops the image to its center square using the smaller
// dimension as the side. When the trimmed delta is odd the extra pixel stays
// on the trailing edge (integer division floors the leading offset).
func CropCenterSquare(img image.Image) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	size := min(width, height)
	left := bounds.Min.X + (width-size)/2
	top := bounds.Min.Y + (height-size)/2

	return imaging.Crop(img, image.Rect(left, top, left+size, top+size))
}

// ProcessProfilePicture normalizes an uploaded raster image:
//   - flattens any transparency onto a white background
//   - crops to the center square
//   - downsamples to maxSize x maxSize when larger (never upscales)
//   - re-encodes as JPEG at quality 95 with the extension forced to .jpg
//
// Processing failures are logged and the original upload is returned
// unchanged; the caller never sees an error from this path.
func ProcessProfilePicture(log *slog.Logger, data []byte, filename string, maxSize int) ([]byte, string) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		log.Warn("could not decode profile picture, keeping original", "filename", filename, "error", err)
		return data, filename
	}

	img = flattenOnWhite(img)
	img = CropCenterSquare(img)

	if img.Bounds().Dx() > maxSize {
		img = imaging.Resize(img, maxSize, maxSize, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(95)); err != nil {
		log.Warn("could not encode profile picture, keeping original", "filename", filename, "error", err)
		return data, filename
	}

	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return buf.Bytes(), base + ".jpg"
}

// flattenOnWhite composites the image over a white background so transparent
// pixels become white rather than black in the JPEG output.
func flattenOnWhite(img image.Image) image.Image {
	background := image.NewNRGBA(img.Bounds())
	draw.Draw(background, background.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(background, background.Bounds(), img, img.Bounds().Min, draw.Over)
	return background
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
