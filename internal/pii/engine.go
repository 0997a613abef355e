/**
 * Extraction Orchestrator - single pass over one recognized document
 *
 * Four ordered, non-branching stages: Classify -> Extract -> Resolve ->
 * Aggregate. Empty or whitespace-only text short-circuits to a degenerate
 * empty result; no partial extraction is attempted. The engine holds no
 * mutable state across requests and is safe for concurrent use without
 * synchronization.
 */

package pii

import (
	"strings"

	"github.com/Ankiitsingh21/pii-detection-backend/internal/ocr"
)

// Config carries the engine tunables. Thresholds and padding are untuned
// magic numbers in origin; they stay configurable rather than hard-coded.
type Config struct {
	// FuzzyMaxDistance is the Levenshtein threshold for fuzzy resolution.
	FuzzyMaxDistance int

	// MaskPadding is the uniform pixel margin added around text regions.
	MaskPadding int

	// PhotoRegion is the fixed heuristic photo rectangle.
	PhotoRegion PhotoRegion
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		FuzzyMaxDistance: 2,
		MaskPadding:      10,
		PhotoRegion:      DefaultPhotoRegion,
	}
}

// Engine is the PII extraction and spatial masking engine. Construct once at
// startup and share across requests.
type Engine struct {
	library  *Library
	resolver *Resolver
	detector FaceDetector
	padding  int
}

// NewEngine builds an engine with the default fixed-region face detector.
func NewEngine(cfg Config) *Engine {
	return NewEngineWithDetector(cfg, NewHeuristicFaceDetector(cfg.PhotoRegion))
}

// NewEngineWithDetector builds an engine with a custom face detector.
func NewEngineWithDetector(cfg Config, detector FaceDetector) *Engine {
	return &Engine{
		library:  NewLibrary(),
		resolver: NewResolver(cfg.FuzzyMaxDistance),
		detector: detector,
		padding:  cfg.MaskPadding,
	}
}

// Extract runs the full pipeline over one recognized document and returns the
// PII record plus the mask regions for the given image dimensions. Extraction
// success is independent of resolution success: a field with no resolvable
// coordinates is still reported, masking is best-effort.
func (e *Engine) Extract(doc *ocr.RecognizedDocument, imageWidth, imageHeight int) (*Record, []MaskRegion) {
	record := &Record{DocumentType: DocumentTypeUnknown}

	if doc == nil || strings.TrimSpace(doc.FullText) == "" {
		// Degenerate terminal state: empty record, no regions.
		return record, nil
	}

	text := doc.FullText

	// Stage 1: classification, computed once and passed onward.
	record.DocumentType, record.HasPhoto = e.library.Classify(text)

	// Stage 2: field extraction. Each extractor is pure given text+words and
	// order-independent.
	record.DateOfBirth = e.library.ExtractDOB(text)
	record.TaxID = e.library.ExtractTaxID(text)
	record.Phone = e.library.ExtractPhone(text)
	record.Email = e.library.ExtractEmail(text)
	record.Address = e.library.ExtractAddress(text)

	nationalID, idSurfaces := e.library.ExtractNationalID(text)
	record.NationalID = nationalID

	// Anchor the name fallback on every printed form of a known ID: the tax
	// ID as matched, or any surface form of the national ID.
	anchors := make([]string, 0, len(idSurfaces)+1)
	if record.TaxID != "" {
		anchors = append(anchors, record.TaxID)
	}
	anchors = append(anchors, idSurfaces...)
	record.Name = e.library.ExtractName(text, anchors...)
	record.FatherName = e.library.ExtractFatherName(text)

	// Stage 3: coordinate resolution per matched field.
	var boxes []ocr.Box

	for _, target := range exactTargets(record, idSurfaces) {
		boxes = append(boxes, e.resolver.ResolveExact(doc.Words, target)...)
	}
	for _, target := range fuzzyTargets(record) {
		boxes = append(boxes, e.resolver.ResolveFuzzy(doc.Words, target)...)
	}

	// Stage 4: aggregation into padded, image-bounded regions.
	regions := aggregateRegions(boxes, record.HasPhoto, e.detector, imageWidth, imageHeight, e.padding)

	return record, regions
}

// exactTargets lists the structured values resolved in exact mode, including
// every re-derived surface form of the national ID.
func exactTargets(record *Record, idSurfaces []string) []string {
	targets := make([]string, 0, len(idSurfaces)+4)
	targets = append(targets, idSurfaces...)
	for _, v := range []string{record.TaxID, record.Phone, record.DateOfBirth, record.Email} {
		if v != "" {
			targets = append(targets, v)
		}
	}
	return targets
}

// fuzzyTargets lists the free-form values resolved in fuzzy mode.
func fuzzyTargets(record *Record) []string {
	var targets []string
	for _, v := range []string{record.Name, record.FatherName, record.Address} {
		if v != "" {
			targets = append(targets, v)
		}
	}
	return targets
}
