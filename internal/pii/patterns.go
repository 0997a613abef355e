/**
 * Pattern Library - Declarative regex patterns and keyword tables
 *
 * Built once at process start and shared read-only by the classifier and
 * every field extractor. No runtime mutation.
 */

package pii

import "regexp"

// Library holds the compiled pattern and keyword tables for Indian identity
// documents (PAN card, Aadhaar card, driving licence, generic government ID).
type Library struct {
	// Date of birth: bare date plus label-anchored variants. Ordered, first
	// validated match wins.
	dobPatterns []*regexp.Regexp

	// PAN-style tax ID: 5 letters + 4 digits + 1 letter, no checksum.
	panPattern *regexp.Regexp

	// Phone: country-code-prefixed or bare 10-digit starting 6-9. Ordered.
	phonePatterns []*regexp.Regexp

	emailPattern *regexp.Regexp

	// Address heuristics: street keywords and 6-digit PIN codes.
	addressKeywordPattern *regexp.Regexp
	pinCodePattern        *regexp.Regexp

	// Cleanup helpers for name candidates.
	nonNamePattern    *regexp.Regexp
	whitespacePattern *regexp.Regexp

	// Classifier keyword sets, checked in declaration order.
	panKeywords     []string
	aadhaarKeywords []string
	licenseKeywords []string

	// Tokens that disqualify a line from being a person name.
	nameStopwords []string

	// Father's-name indicator tokens (lowercased).
	fatherIndicators []string
}

// NewLibrary compiles the pattern library. Called once at startup; the result
// is immutable and safe for concurrent use.
func NewLibrary() *Library {
	return &Library{
		dobPatterns: []*regexp.Regexp{
			// Label-anchored variants first: they disambiguate DOB from issue/expiry dates.
			regexp.MustCompile(`(?i)(?:DOB|D\.O\.B\.?|Date of Birth|जन्म तिथि)[:\s]*(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{4})`),
			regexp.MustCompile(`\b(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{4})\b`),
		},

		panPattern: regexp.MustCompile(`(?i)\b[A-Z]{5}[0-9]{4}[A-Z]\b`),

		phonePatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?:\+91|91)[\-\s]?([6-9]\d{9})\b`),
			regexp.MustCompile(`\b[6-9]\d{9}\b`),
		},

		emailPattern: regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),

		addressKeywordPattern: regexp.MustCompile(`(?i)\b(?:House|Block|Tower|Flat|Floor|Road|Rd\.?|Street|St\.?|Lane|Sector|Plot|Colony|Nagar|Village|District|Opp\.?|Near|Behind)\b`),
		pinCodePattern:        regexp.MustCompile(`\b[1-9]\d{5}\b`),

		nonNamePattern:    regexp.MustCompile(`[^A-Za-z ]+`),
		whitespacePattern: regexp.MustCompile(`\s+`),

		panKeywords:     []string{"income tax", "permanent account"},
		aadhaarKeywords: []string{"aadhaar", "aadhar", "unique identification", "uidai", "आधार"},
		licenseKeywords: []string{"driving licence", "driving license", "transport", "motor vehicle"},

		nameStopwords: []string{
			"income", "tax", "department", "government", "india", "authority",
			"permanent", "account", "number", "card", "dob", "birth",
		},

		fatherIndicators: []string{"father", "पिता", "s/o", "son of"},
	}
}
