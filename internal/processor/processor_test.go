package processor

import (
	"testing"

	"github.com/Ankiitsingh21/pii-detection-backend/internal/ocr"
)

func TestScaleWords(t *testing.T) {
	doc := &ocr.RecognizedDocument{
		Words: []ocr.RecognizedWord{
			{Text: "one", Box: ocr.Box{X0: 100, Y0: 50, X1: 200, Y1: 80}},
		},
	}

	// Preprocessing halved the image; boxes scale back up by 2x.
	scaleWords(doc, 1000, 500, 2000, 1000)

	want := ocr.Box{X0: 200, Y0: 100, X1: 400, Y1: 160}
	if doc.Words[0].Box != want {
		t.Errorf("scaled box = %+v, want %+v", doc.Words[0].Box, want)
	}
}

func TestScaleWordsNoOpOnEqualDimensions(t *testing.T) {
	doc := &ocr.RecognizedDocument{
		Words: []ocr.RecognizedWord{
			{Text: "one", Box: ocr.Box{X0: 10, Y0: 20, X1: 30, Y1: 40}},
		},
	}

	scaleWords(doc, 640, 480, 640, 480)

	want := ocr.Box{X0: 10, Y0: 20, X1: 30, Y1: 40}
	if doc.Words[0].Box != want {
		t.Errorf("box changed to %+v, want %+v", doc.Words[0].Box, want)
	}
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"image/jpeg", ".jpg"},
		{"image/png", ".png"},
		{"image/tiff", ".tif"},
		{"image/bmp", ".bmp"},
		{"application/octet-stream", ".png"},
	}

	for _, tt := range tests {
		if got := extensionFor(tt.mime); got != tt.want {
			t.Errorf("extensionFor(%q) = %q, want %q", tt.mime, got, tt.want)
		}
	}
}
