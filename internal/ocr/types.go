/**
 * OCR Types - Shared data structures for recognition output
 *
 * Common types handed from the recognition pass to the PII engine.
 */

package ocr

// Box is an axis-aligned pixel rectangle delimiting a recognized word.
// Coordinates follow image convention: (X0,Y0) top-left, (X1,Y1) bottom-right.
type Box struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

// Valid reports whether the box has positive extent and non-negative origin.
// Tesseract occasionally emits inverted boxes for noise glyphs; such words are
// skipped individually rather than failing the request.
func (b Box) Valid() bool {
	return b.X0 >= 0 && b.Y0 >= 0 && b.X1 > b.X0 && b.Y1 > b.Y0
}

// RecognizedWord is a single recognized token with its bounding box.
type RecognizedWord struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Box        Box     `json:"box"`
}

// RecognizedDocument is the full recognition output for one image.
// It is created once per request and read-only for the rest of the pipeline.
type RecognizedDocument struct {
	FullText   string           `json:"fullText"`
	Confidence float64          `json:"confidence"` // 0-100, mean word confidence
	Words      []RecognizedWord `json:"words"`
}
