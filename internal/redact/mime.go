/**
 * MIME detection - magic-byte sniffing for uploaded scans
 *
 * Uploads frequently arrive as "application/octet-stream"; the declared type
 * is advisory only and the magic bytes decide.
 */

package redact

import "bytes"

// supportedMimeTypes lists the raster formats the pipeline can decode and
// hand to Tesseract.
var supportedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/tiff": true,
	"image/bmp":  true,
}

// DetectMimeType detects the actual MIME type from file content magic bytes.
// Returns "" when the content matches no known signature.
func DetectMimeType(data []byte) string {
	if len(data) < 4 {
		return ""
	}

	// PNG: 0x89 'P' 'N' 'G' 0x0D 0x0A 0x1A 0x0A
	if len(data) >= 8 && bytes.HasPrefix(data, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}) {
		return "image/png"
	}

	// JPEG: 0xFF 0xD8 0xFF
	if bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}) {
		return "image/jpeg"
	}

	// TIFF: 'I' 'I' 0x2A 0x00 (little-endian) or 'M' 'M' 0x00 0x2A (big-endian)
	if bytes.HasPrefix(data, []byte{0x49, 0x49, 0x2A, 0x00}) || bytes.HasPrefix(data, []byte{0x4D, 0x4D, 0x00, 0x2A}) {
		return "image/tiff"
	}

	// BMP: 'B' 'M'
	if bytes.HasPrefix(data, []byte("BM")) {
		return "image/bmp"
	}

	// PDF: %PDF- (recognized so the error names the real format)
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return "application/pdf"
	}

	// GIF: 'G' 'I' 'F' '8' ('7' or '9') 'a'
	if bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a")) {
		return "image/gif"
	}

	return ""
}

// IsSupported reports whether the pipeline can process the given MIME type
func IsSupported(mimeType string) bool {
	return supportedMimeTypes[mimeType]
}
