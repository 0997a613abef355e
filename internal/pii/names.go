/**
 * Name Extractors - line-oriented heuristics for holder and father's name
 *
 * Names on Indian ID cards are printed on the line below their label, so the
 * primary heuristic is label adjacency: find the label line, take the next
 * line. When no label is found, fall back to proximity to a known ID number.
 * Best-effort by design; OCR line noise can defeat both heuristics.
 */

package pii

import "strings"

const (
	minNameLength = 3
	maxNameLength = 49
)

// ExtractName returns the document holder's name. Primary heuristic: the
// line following a "name" label that is not a father's-name label. Fallback:
// the nearest valid line above any of the given ID surface forms (cards print
// the holder name above the ID number).
func (l *Library) ExtractName(text string, idValues ...string) string {
	lines := splitLines(text)

	for i, line := range lines {
		folded := strings.ToLower(line)
		if !strings.Contains(folded, "name") {
			continue
		}
		if containsAny(folded, l.fatherIndicators) {
			continue
		}
		if i+1 < len(lines) {
			if name := l.cleanNameCandidate(lines[i+1]); name != "" {
				return name
			}
		}
	}

	for _, idValue := range idValues {
		if name := l.nameNearID(lines, idValue); name != "" {
			return name
		}
	}
	return ""
}

// ExtractFatherName returns the father's name: the line following a
// father-indicator label ("father", a transliterated label, "s/o", "son of").
func (l *Library) ExtractFatherName(text string) string {
	lines := splitLines(text)

	for i, line := range lines {
		if !containsAny(strings.ToLower(line), l.fatherIndicators) {
			continue
		}
		if i+1 < len(lines) {
			if name := l.cleanNameCandidate(lines[i+1]); name != "" {
				return name
			}
		}
	}

	return ""
}

// nameNearID walks up to three lines above the line carrying the ID value and
// returns the first candidate that survives cleaning.
func (l *Library) nameNearID(lines []string, idValue string) string {
	if idValue == "" {
		return ""
	}

	idLine := -1
	for i, line := range lines {
		if strings.Contains(strings.ToUpper(line), strings.ToUpper(idValue)) {
			idLine = i
			break
		}
	}
	if idLine <= 0 {
		return ""
	}

	for i := idLine - 1; i >= 0 && i >= idLine-3; i-- {
		if name := l.cleanNameCandidate(lines[i]); name != "" {
			return name
		}
	}
	return ""
}

// cleanNameCandidate strips pipes, digits and punctuation, collapses
// whitespace and uppercases the line, then validates it as a plausible person
// name. Returns "" when the candidate is rejected.
func (l *Library) cleanNameCandidate(line string) string {
	cleaned := l.nonNamePattern.ReplaceAllString(line, " ")
	cleaned = l.whitespacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	if len(cleaned) < minNameLength || len(cleaned) > maxNameLength {
		return ""
	}
	if containsAny(strings.ToLower(cleaned), l.nameStopwords) {
		return ""
	}

	return strings.ToUpper(cleaned)
}
