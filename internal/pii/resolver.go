/**
 * Coordinate Resolver - maps matched text spans back onto word boxes
 *
 * Exact mode assumes OCR preserves token adjacency for structured
 * numeric/alphanumeric fields. Fuzzy mode compensates for mis-segmented or
 * mis-recognized free-form text (names) at the cost of possible
 * false-positive masking; over-masking PII is the intended tradeoff.
 */

package pii

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/Ankiitsingh21/pii-detection-backend/internal/ocr"
)

// Resolver locates text spans on the source image via the recognized word
// list. Stateless apart from the configured edit-distance threshold; safe for
// concurrent use.
type Resolver struct {
	maxDistance int
}

// NewResolver creates a resolver with the given fuzzy edit-distance
// threshold. The threshold is a tunable with no derived "correct" value;
// callers pass it from configuration.
func NewResolver(maxDistance int) *Resolver {
	return &Resolver{maxDistance: maxDistance}
}

// ResolveExact finds every run of adjacent words that contains the
// whitespace-delimited tokens of target in sequence and returns one minimal
// enclosing rectangle per run. The same value may legitimately appear more
// than once on a document, so all disjoint matches are kept.
func (r *Resolver) ResolveExact(words []ocr.RecognizedWord, target string) []ocr.Box {
	tokens := strings.Fields(target)
	if len(tokens) == 0 {
		return nil
	}

	usable := usableWords(words)
	var boxes []ocr.Box

	for i := 0; i < len(usable); i++ {
		if !containsFold(usable[i].Text, tokens[0]) {
			continue
		}

		end := i + len(tokens)
		if end > len(usable) {
			break
		}

		matched := true
		for j := 1; j < len(tokens); j++ {
			if !containsFold(usable[i+j].Text, tokens[j]) {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}

		boxes = append(boxes, enclosingBox(usable[i:end]))
		i = end - 1
	}

	return boxes
}

// ResolveFuzzy compares every word of length > 2 against the target using
// three independent acceptance rules: substring containment in either
// direction, or Levenshtein distance within the configured threshold. Each
// accepted word contributes its own box; word segmentation for names is too
// unreliable to merge runs.
func (r *Resolver) ResolveFuzzy(words []ocr.RecognizedWord, target string) []ocr.Box {
	normalizedTarget := normalizeToken(target)
	if normalizedTarget == "" {
		return nil
	}

	var boxes []ocr.Box
	for _, word := range usableWords(words) {
		if len(word.Text) <= 2 {
			continue
		}

		normalized := normalizeToken(word.Text)
		if normalized == "" {
			continue
		}

		if strings.Contains(normalizedTarget, normalized) ||
			strings.Contains(normalized, normalizedTarget) ||
			levenshtein.ComputeDistance(normalized, normalizedTarget) <= r.maxDistance {
			boxes = append(boxes, word.Box)
		}
	}

	return boxes
}

// usableWords filters out words with malformed (inverted or negative)
// bounding boxes. A bad box skips that word only, never the request.
func usableWords(words []ocr.RecognizedWord) []ocr.RecognizedWord {
	usable := make([]ocr.RecognizedWord, 0, len(words))
	for _, w := range words {
		if w.Box.Valid() {
			usable = append(usable, w)
		}
	}
	return usable
}

// enclosingBox computes the minimal rectangle covering a run of words.
func enclosingBox(run []ocr.RecognizedWord) ocr.Box {
	box := run[0].Box
	for _, w := range run[1:] {
		if w.Box.X0 < box.X0 {
			box.X0 = w.Box.X0
		}
		if w.Box.Y0 < box.Y0 {
			box.Y0 = w.Box.Y0
		}
		if w.Box.X1 > box.X1 {
			box.X1 = w.Box.X1
		}
		if w.Box.Y1 > box.Y1 {
			box.Y1 = w.Box.Y1
		}
	}
	return box
}

// containsFold reports whether s contains substr case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// normalizeToken lowercases and strips everything except letters and digits.
func normalizeToken(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
