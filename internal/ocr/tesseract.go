/**
 * Tesseract OCR - text and word-box recognition for scanned documents
 *
 * Wraps a per-call gosseract client. Word-level bounding boxes come from the
 * page iterator at word granularity; document confidence is the mean word
 * confidence. A failed multi-language pass is retried once with English only
 * before the error is surfaced.
 */

package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"

	"github.com/Ankiitsingh21/pii-detection-backend/internal/logging"
)

// Engine performs OCR over scanned identity documents
type Engine struct {
	languages []string
	logger    *logging.Logger
}

// EngineConfig holds Tesseract configuration
type EngineConfig struct {
	// Languages is the "+"-joined Tesseract language list, e.g. "eng+hin".
	Languages string
}

// NewEngine creates a new OCR engine instance
func NewEngine(cfg *EngineConfig) (*Engine, error) {
	languages := strings.Split(cfg.Languages, "+")
	if len(languages) == 0 || languages[0] == "" {
		languages = []string{"eng"}
	}

	return &Engine{
		languages: languages,
		logger:    logging.NewLogger("ocr"),
	}, nil
}

// Recognize performs OCR on the given image bytes and returns the full text
// together with per-word bounding boxes. The context is consulted between the
// primary and retry passes only; a pass in flight cannot be interrupted.
func (e *Engine) Recognize(ctx context.Context, imageData []byte) (*RecognizedDocument, error) {
	startTime := time.Now()

	doc, err := e.recognizeWithLanguages(imageData, e.languages)
	if err != nil && len(e.languages) > 1 {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		// Multi-language models are the usual failure cause on minimal
		// Tesseract installs; retry once with English only.
		e.logger.Warn("OCR failed, retrying with reduced language set",
			"languages", strings.Join(e.languages, "+"),
			"error", err)
		doc, err = e.recognizeWithLanguages(imageData, []string{"eng"})
	}
	if err != nil {
		return nil, fmt.Errorf("tesseract OCR failed: %w", err)
	}

	e.logger.Info("OCR complete",
		"words", len(doc.Words),
		"confidence", fmt.Sprintf("%.1f", doc.Confidence),
		"duration", time.Since(startTime).String())

	return doc, nil
}

// recognizeWithLanguages runs one full Tesseract pass
func (e *Engine) recognizeWithLanguages(imageData []byte, languages []string) (*RecognizedDocument, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(languages...); err != nil {
		return nil, fmt.Errorf("failed to set languages %v: %w", languages, err)
	}

	if err := client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("text extraction failed: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("bounding box extraction failed: %w", err)
	}

	words := make([]RecognizedWord, 0, len(boxes))
	var confidenceSum float64

	for _, b := range boxes {
		trimmed := strings.TrimSpace(b.Word)
		if trimmed == "" {
			continue
		}

		words = append(words, RecognizedWord{
			Text:       trimmed,
			Confidence: b.Confidence,
			Box: Box{
				X0: b.Box.Min.X,
				Y0: b.Box.Min.Y,
				X1: b.Box.Max.X,
				Y1: b.Box.Max.Y,
			},
		})
		confidenceSum += b.Confidence
	}

	confidence := 0.0
	if len(words) > 0 {
		confidence = confidenceSum / float64(len(words))
	}

	return &RecognizedDocument{
		FullText:   text,
		Confidence: confidence,
		Words:      words,
	}, nil
}
