package pii

import (
	"strings"
	"testing"
)

func TestExtractDOB(t *testing.T) {
	lib := NewLibrary()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"slash separator", "DOB 15/08/1990", "15/08/1990"},
		{"hyphen separator", "born 15-08-1990 in Pune", "15-08-1990"},
		{"dot separator", "15.08.1990", "15.08.1990"},
		{"label anchored", "Date of Birth: 01/01/2000", "01/01/2000"},
		{"single digit day and month", "5/8/1990", "5/8/1990"},
		{"month out of range", "15/13/1990", ""},
		{"day out of range", "32/08/1990", ""},
		{"year before 1900", "15/08/1899", ""},
		{"year in future", "15/08/9999", ""},
		{"no date", "no dates here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lib.ExtractDOB(tt.text); got != tt.want {
				t.Errorf("ExtractDOB(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractDOBSkipsInvalidThenMatchesValid(t *testing.T) {
	lib := NewLibrary()

	// The first date fails range validation; the extractor must keep scanning.
	got := lib.ExtractDOB("issued 99/99/1990 and 15/08/1990")
	if got != "15/08/1990" {
		t.Errorf("ExtractDOB = %q, want 15/08/1990", got)
	}
}

func TestExtractNationalID(t *testing.T) {
	lib := NewLibrary()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"space grouped", "Aadhaar 2345 6789 0123", "234567890123"},
		{"hyphen grouped", "2345-6789-0123", "234567890123"},
		{"ungrouped", "234567890123", "234567890123"},
		{"leading zero rejected", "0234 5678 9012", ""},
		{"leading one rejected", "1234 5678 9012", ""},
		{"too few digits", "2345 6789", ""},
		{"no digits", "no id present", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := lib.ExtractNationalID(tt.text)
			if got != tt.want {
				t.Errorf("ExtractNationalID(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractNationalIDSurfaceForms(t *testing.T) {
	lib := NewLibrary()

	_, surfaces := lib.ExtractNationalID("2345 6789 0123")
	want := []string{"234567890123", "2345 6789 0123", "2345-6789-0123"}

	if len(surfaces) != len(want) {
		t.Fatalf("surface forms = %v, want %v", surfaces, want)
	}
	for i := range want {
		if surfaces[i] != want[i] {
			t.Errorf("surface form %d = %q, want %q", i, surfaces[i], want[i])
		}
	}
}

func TestExtractNationalIDWindowSlide(t *testing.T) {
	lib := NewLibrary()

	// Digit stream is "1234567890123": the window at offset 0 starts with
	// '1' and is rejected, the window at offset 1 wins.
	got, _ := lib.ExtractNationalID("ref 1 then 2345 6789 0123")
	if got != "234567890123" {
		t.Errorf("ExtractNationalID = %q, want 234567890123", got)
	}
}

func TestExtractTaxID(t *testing.T) {
	lib := NewLibrary()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"standard PAN", "PAN ABCDE1234F", "ABCDE1234F"},
		{"lowercase accepted", "pan abcde1234f", "ABCDE1234F"},
		{"embedded in text", "Number: ABCDE1234F issued", "ABCDE1234F"},
		{"wrong shape", "ABCD1234EF", ""},
		{"absent", "no tax id", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lib.ExtractTaxID(tt.text); got != tt.want {
				t.Errorf("ExtractTaxID(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractPhone(t *testing.T) {
	lib := NewLibrary()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"country code", "+91 9876543210", "+91 9876543210"},
		{"bare ten digit", "call 9876543210 now", "9876543210"},
		{"starts below six rejected", "5876543210", ""},
		{"too short", "987654321", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lib.ExtractPhone(tt.text); got != tt.want {
				t.Errorf("ExtractPhone(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractEmail(t *testing.T) {
	lib := NewLibrary()

	if got := lib.ExtractEmail("reach me at john.smith@example.com today"); got != "john.smith@example.com" {
		t.Errorf("ExtractEmail = %q", got)
	}
	if got := lib.ExtractEmail("no email"); got != "" {
		t.Errorf("ExtractEmail on plain text = %q, want empty", got)
	}
}

func TestExtractAddress(t *testing.T) {
	lib := NewLibrary()

	text := "GOVERNMENT OF INDIA\n12 MG Road Sector 5\nMumbai 400001"
	if got := lib.ExtractAddress(text); got != "12 MG Road Sector 5" {
		t.Errorf("ExtractAddress = %q", got)
	}

	if got := lib.ExtractAddress("just a name line"); got != "" {
		t.Errorf("ExtractAddress on non-address = %q, want empty", got)
	}
}

func TestExtractName(t *testing.T) {
	lib := NewLibrary()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"label adjacency", "NAME\nJOHN SMITH\nDOB 15/08/1990", "JOHN SMITH"},
		{"father label not confused", "Father's Name\nRAM SMITH\nName\nJOHN SMITH", "JOHN SMITH"},
		{"institutional line rejected", "Name\nINCOME TAX DEPARTMENT", ""},
		{"numeric line rejected", "Name\n1234567890", ""},
		{"no label no id", "random text only", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lib.ExtractName(tt.text, ""); got != tt.want {
				t.Errorf("ExtractName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractNameFallsBackToIDProximity(t *testing.T) {
	lib := NewLibrary()

	// No "name" label anywhere; the holder name sits above the PAN number.
	text := "INCOME TAX DEPARTMENT\nJOHN SMITH\nABCDE1234F"
	if got := lib.ExtractName(text, "ABCDE1234F"); got != "JOHN SMITH" {
		t.Errorf("ExtractName via ID proximity = %q, want JOHN SMITH", got)
	}
}

func TestExtractFatherName(t *testing.T) {
	lib := NewLibrary()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"father label", "Father's Name\nRAM SMITH", "RAM SMITH"},
		{"son of label", "S/O\nRAM SMITH", "RAM SMITH"},
		{"absent", "Name\nJOHN SMITH", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lib.ExtractFatherName(tt.text); got != tt.want {
				t.Errorf("ExtractFatherName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanNameCandidateBounds(t *testing.T) {
	lib := NewLibrary()

	if got := lib.cleanNameCandidate("AB"); got != "" {
		t.Errorf("two-letter candidate accepted: %q", got)
	}
	long := strings.Repeat("A", 60)
	if got := lib.cleanNameCandidate(long); got != "" {
		t.Errorf("over-long candidate accepted: %q", got)
	}
	if got := lib.cleanNameCandidate("| John  Smith 42 |"); got != "JOHN SMITH" {
		t.Errorf("cleanNameCandidate = %q, want JOHN SMITH", got)
	}
}
