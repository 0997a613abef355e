package pii

import "testing"

func TestClassify(t *testing.T) {
	lib := NewLibrary()

	tests := []struct {
		name string
		text string
		want DocumentType
	}{
		{"pan by income tax", "INCOME TAX DEPARTMENT GOVT OF INDIA", DocumentTypePAN},
		{"pan by permanent account", "Permanent Account Number Card", DocumentTypePAN},
		{"aadhaar", "Unique Identification Authority of India", DocumentTypeAadhaar},
		{"aadhaar spelling variant", "aadhar card", DocumentTypeAadhaar},
		{"driving licence", "DRIVING LICENCE Maharashtra State Motor", DocumentTypeDrivingLicense},
		{"license spelling variant", "driving license", DocumentTypeDrivingLicense},
		{"fallback", "some unrecognized card text", DocumentTypeGovernmentID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hasPhoto := lib.Classify(tt.text)
			if got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.text, got, tt.want)
			}
			if !hasPhoto {
				t.Errorf("Classify(%q) hasPhoto = false, want true", tt.text)
			}
		})
	}
}

func TestClassifyOrderPANBeforeAadhaar(t *testing.T) {
	lib := NewLibrary()

	// A PAN card often mentions "India" and other generic terms; when both
	// keyword sets would match, PAN takes priority by check order.
	got, _ := lib.Classify("INCOME TAX DEPARTMENT aadhaar linked")
	if got != DocumentTypePAN {
		t.Errorf("Classify = %v, want %v", got, DocumentTypePAN)
	}
}
