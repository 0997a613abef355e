/**
 * Image pipeline - decode, OCR preprocessing and mask compositing
 *
 * Compositing paints opaque black rectangles over the mask regions, so
 * overlapping regions are idempotent. The preprocessed image is only an OCR
 * input; masks are always rendered onto the original.
 */

package redact

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"

	"github.com/Ankiitsingh21/pii-detection-backend/internal/pii"
)

// maxOCRWidth bounds the preprocessed image; larger scans slow Tesseract
// down without improving recognition.
const maxOCRWidth = 2000

// Decode decodes image bytes into memory
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Preprocess prepares a scan for OCR: grayscale, contrast boost and a width
// cap. The returned image keeps the original aspect ratio.
func Preprocess(img image.Image) image.Image {
	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, 20)

	if out.Bounds().Dx() > maxOCRWidth {
		out = imaging.Resize(out, maxOCRWidth, 0, imaging.Lanczos)
	}

	return out
}

// Composite renders the mask regions as opaque black rectangles onto a copy
// of the original image. Regions are assumed clamped to the image bounds.
func Composite(img image.Image, regions []pii.MaskRegion) *image.NRGBA {
	out := imaging.Clone(img)

	for _, region := range regions {
		rect := image.Rect(
			region.Left,
			region.Top,
			region.Left+region.Width,
			region.Top+region.Height,
		)
		draw.Draw(out, rect, image.NewUniform(color.Black), image.Point{}, draw.Src)
	}

	return out
}

// Encode serializes the redacted image in the format matching the input MIME
// type. JPEG output uses a fixed quality; unknown types fall back to PNG so
// the mask can never be lost to an encoding error.
func Encode(img image.Image, mimeType string) ([]byte, string, error) {
	var buf bytes.Buffer

	format := imaging.PNG
	outMime := "image/png"
	var opts []imaging.EncodeOption

	switch mimeType {
	case "image/jpeg":
		format = imaging.JPEG
		outMime = "image/jpeg"
		opts = append(opts, imaging.JPEGQuality(90))
	case "image/tiff":
		format = imaging.TIFF
		outMime = "image/tiff"
	case "image/bmp":
		format = imaging.BMP
		outMime = "image/bmp"
	}

	if err := imaging.Encode(&buf, img, format, opts...); err != nil {
		return nil, "", fmt.Errorf("failed to encode redacted image: %w", err)
	}

	return buf.Bytes(), outMime, nil
}
