/**
 * PII Types - Data model for the extraction and masking engine
 *
 * Record is the per-request extraction result; MaskRegion is the sole
 * contract with the image compositing step.
 */

package pii

// DocumentType classifies the scanned identity document. It drives which PII
// fields are expected to be present, never which regions are masked.
type DocumentType string

const (
	DocumentTypePAN            DocumentType = "PAN"
	DocumentTypeAadhaar        DocumentType = "AADHAAR"
	DocumentTypeDrivingLicense DocumentType = "DRIVING_LICENSE"
	DocumentTypeGovernmentID   DocumentType = "GOVERNMENT_ID"
	DocumentTypeUnknown        DocumentType = "UNKNOWN"
)

// RegionKind distinguishes text masks from the heuristic photo mask.
type RegionKind string

const (
	RegionText  RegionKind = "TEXT"
	RegionPhoto RegionKind = "PHOTO"
)

// MaskRegion is a rectangle the compositing step must render opaque.
// Coordinates are always clamped to the image bounds and width/height are
// strictly positive.
type MaskRegion struct {
	Left   int        `json:"left"`
	Top    int        `json:"top"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Kind   RegionKind `json:"kind"`
}

// Record holds the extracted PII fields for a single document. Empty string
// means the field was not found. Built incrementally by the extractors and
// immutable once returned.
type Record struct {
	Name        string `json:"name,omitempty"`
	FatherName  string `json:"fatherName,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	NationalID  string `json:"nationalId,omitempty"` // Aadhaar-style 12-digit ID
	TaxID       string `json:"taxId,omitempty"`      // PAN-style alphanumeric ID
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Address     string `json:"address,omitempty"`

	DocumentType DocumentType `json:"documentType"`
	HasPhoto     bool         `json:"hasPhoto"`
}

// fieldValues returns the extracted values keyed by field name, skipping
// absent fields.
func (r *Record) fieldValues() map[string]string {
	out := make(map[string]string, 8)
	for name, value := range map[string]string{
		"name":        r.Name,
		"fatherName":  r.FatherName,
		"dateOfBirth": r.DateOfBirth,
		"nationalId":  r.NationalID,
		"taxId":       r.TaxID,
		"phone":       r.Phone,
		"email":       r.Email,
		"address":     r.Address,
	} {
		if value != "" {
			out[name] = value
		}
	}
	return out
}

// MaskedFieldCount returns the number of PII fields with a non-empty value.
func (r *Record) MaskedFieldCount() int {
	return len(r.fieldValues())
}
