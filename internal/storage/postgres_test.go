package storage

import "testing"

func TestSanitizeConfidence(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"clamps negative", -3.5, 0.0},
		{"clamps above range", 120.0, 100.0},
		{"rounds excess precision", 96.32000000000001, 96.32},
		{"rounds half up", 88.555, 88.56},
		{"zero passthrough", 0.0, 0.0},
		{"exact value untouched", 75.25, 75.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeConfidence(tt.in); got != tt.want {
				t.Errorf("sanitizeConfidence(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
