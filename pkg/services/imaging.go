package services

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"math"
	"os"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp"

	"photo-gallery/pkg/logger"
)

// decoderFormats maps supported extensions to the image package format
// name that decodes them
var decoderFormats = map[string]string{
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".png":  "png",
	".gif":  "gif",
	".webp": "webp",
}

// ErrUnsupportedExtension is returned when no decoder handles an extension
var ErrUnsupportedExtension = errors.New("no decoder available for extension")

// ErrEmptyImage is returned for images with a zero dimension
var ErrEmptyImage = errors.New("image has no pixels")

// CheckCapabilities verifies that every configured extension can be decoded
func CheckCapabilities(extensions []string) error {
	for _, ext := range extensions {
		if _, ok := decoderFormats[ext]; !ok {
			return fmt.Errorf("%w: %s", ErrUnsupportedExtension, ext)
		}
	}
	return nil
}

// OptimizeImage resizes and recompresses one image to a JPEG whose longest
// edge is at most maxSize
func (s *Service) OptimizeImage(inputPath, outputPath string, maxSize int) error {
	img, err := decodeImage(inputPath)
	if err != nil {
		return err
	}

	flat := flatten(img)

	w, h := flat.Bounds().Dx(), flat.Bounds().Dy()
	newW, newH := scaledSize(w, h, maxSize)
	var out image.Image = flat
	if newW != w || newH != h {
		out = imaging.Resize(flat, newW, newH, imaging.Lanczos)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outputPath, err)
	}
	if err := jpeg.Encode(f, out, &jpeg.Options{Quality: s.config.Quality}); err != nil {
		f.Close()
		os.Remove(outputPath)
		return fmt.Errorf("failed to encode %s: %w", outputPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", outputPath, err)
	}
	return nil
}

// decodeImage reads any registered format. Animated GIFs yield their first
// frame. JPEGs are turned upright according to their EXIF orientation.
func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		return nil, ErrEmptyImage
	}

	if format == "jpeg" {
		if _, err := f.Seek(0, io.SeekStart); err == nil {
			img = applyOrientation(img, readOrientation(f))
		}
	}
	return img, nil
}

// readOrientation returns the EXIF orientation tag, or 1 when absent
func readOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		logger.Debug("Unreadable EXIF orientation", "error", err)
		return 1
	}
	return orientation
}

// applyOrientation undoes the camera rotation described by an EXIF
// orientation value (1-8)
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// flatten draws img over an opaque black canvas. Transparent and
// palette images lose their alpha; fully transparent pixels become black.
func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// scaledSize fits w x h inside a maxSize square without enlarging it. The
// longest edge becomes exactly maxSize and the other keeps the aspect ratio.
func scaledSize(w, h, maxSize int) (int, int) {
	ratio := math.Min(float64(maxSize)/float64(w), float64(maxSize)/float64(h))
	if ratio >= 1 {
		return w, h
	}
	if w >= h {
		return maxSize, clampEdge(math.Round(float64(h) * ratio))
	}
	return clampEdge(math.Round(float64(w) * ratio)), maxSize
}

func clampEdge(v float64) int {
	if v < 1 {
		return 1
	}
	return int(v)
}
