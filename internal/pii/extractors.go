/**
 * Field Extractors - per-field first-valid-match scanning
 *
 * Each extractor is a pure function over the document text: it tries an
 * ordered pattern list and short-circuits on the first match that passes the
 * field's semantic validator. "Not found" is the normal absent outcome, never
 * an error.
 */

package pii

import (
	"strconv"
	"strings"
	"time"
)

// ExtractDOB returns the first date of birth whose components pass range
// validation (day 1-31, month 1-12, year 1900..current year). Day-in-month
// and leap-year cross-checks are deliberately not performed.
func (l *Library) ExtractDOB(text string) string {
	currentYear := time.Now().Year()

	for _, pattern := range l.dobPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			day, _ := strconv.Atoi(m[1])
			month, _ := strconv.Atoi(m[2])
			year, _ := strconv.Atoi(m[3])

			if day < 1 || day > 31 {
				continue
			}
			if month < 1 || month > 12 {
				continue
			}
			if year < 1900 || year > currentYear {
				continue
			}

			// Return the date portion only, without any matched label prefix.
			return strings.Join(m[1:4], separatorOf(m[0]))
		}
	}

	return ""
}

// separatorOf recovers the separator used in the matched date text so the
// returned value mirrors the document surface form.
func separatorOf(match string) string {
	for _, sep := range []string{"/", "-", "."} {
		if strings.Contains(match, sep) {
			return sep
		}
	}
	return "/"
}

// ExtractNationalID scans for an Aadhaar-style 12-digit ID. Grouping on the
// card varies (spaces, hyphens, none), so the scan runs over the digits-only
// projection of the text: the first 12-digit window whose leading digit is
// neither 0 nor 1 wins (a documented validity rule, not a checksum).
//
// The second return value lists the plausible surface forms of the winning
// digit string (ungrouped, space-grouped by 4, hyphen-grouped by 4) for the
// coordinate resolver, since the digits-only projection has lost the original
// formatting.
func (l *Library) ExtractNationalID(text string) (string, []string) {
	var digits strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	stream := digits.String()
	for i := 0; i+12 <= len(stream); i++ {
		candidate := stream[i : i+12]
		if candidate[0] == '0' || candidate[0] == '1' {
			continue
		}
		return candidate, surfaceForms(candidate)
	}

	return "", nil
}

// surfaceForms re-derives the grouping variants of a 12-digit ID as printed
// on Aadhaar cards.
func surfaceForms(digits string) []string {
	groups := []string{digits[0:4], digits[4:8], digits[8:12]}
	return []string{
		digits,
		strings.Join(groups, " "),
		strings.Join(groups, "-"),
	}
}

// ExtractTaxID returns the first PAN-style alphanumeric ID (5 letters,
// 4 digits, 1 letter), uppercased. No checksum is defined for this format.
func (l *Library) ExtractTaxID(text string) string {
	return strings.ToUpper(l.panPattern.FindString(text))
}

// ExtractPhone returns the first Indian mobile number: either country-code
// prefixed (+91/91) or a bare 10-digit number starting 6-9.
func (l *Library) ExtractPhone(text string) string {
	for _, pattern := range l.phonePatterns {
		if m := pattern.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

// ExtractEmail returns the first email address in the text.
func (l *Library) ExtractEmail(text string) string {
	return l.emailPattern.FindString(text)
}

// ExtractAddress returns the first line that looks like a street address:
// either it carries a street/locality keyword or a 6-digit PIN code.
// Best-effort; amounts and serial numbers are excluded by the PIN pattern's
// leading-digit rule.
func (l *Library) ExtractAddress(text string) string {
	for _, line := range splitLines(text) {
		if len(line) < 8 || len(line) > 120 {
			continue
		}
		if l.addressKeywordPattern.MatchString(line) || l.pinCodePattern.MatchString(line) {
			return line
		}
	}
	return ""
}

// splitLines splits text into trimmed, non-empty lines.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
