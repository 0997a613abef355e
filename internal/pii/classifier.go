/**
 * Document Classifier - keyword-based document type detection
 *
 * Ordered keyword-set checks over the case-folded full text, first match
 * wins. A single occurrence anywhere in the text is sufficient; the result
 * only affects which PII fields are expected, never which regions are masked.
 */

package pii

import "strings"

// Classify inspects the full document text and returns the document type
// together with a photo-presence flag. Unknown documents fall back to
// GOVERNMENT_ID with hasPhoto=true so the heuristic photo region is always
// masked unless a photo is proven unnecessary.
func (l *Library) Classify(text string) (DocumentType, bool) {
	folded := strings.ToLower(text)

	if containsAny(folded, l.panKeywords) {
		return DocumentTypePAN, true
	}
	if containsAny(folded, l.aadhaarKeywords) {
		return DocumentTypeAadhaar, true
	}
	if containsAny(folded, l.licenseKeywords) {
		return DocumentTypeDrivingLicense, true
	}

	return DocumentTypeGovernmentID, true
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
