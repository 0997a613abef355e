package pii

import (
	"testing"

	"github.com/Ankiitsingh21/pii-detection-backend/internal/ocr"
)

func TestAggregateRegionsPadding(t *testing.T) {
	boxes := []ocr.Box{{X0: 50, Y0: 50, X1: 150, Y1: 80}}

	regions := aggregateRegions(boxes, false, nil, 640, 480, 10)
	if len(regions) != 1 {
		t.Fatalf("regions = %d, want 1", len(regions))
	}

	want := MaskRegion{Left: 40, Top: 40, Width: 120, Height: 50, Kind: RegionText}
	if regions[0] != want {
		t.Errorf("region = %+v, want %+v", regions[0], want)
	}
}

func TestAggregateRegionsClampsPartialOverflow(t *testing.T) {
	// Padding pushes the box past every image edge; the region is truncated
	// to the image bounds rather than dropped.
	boxes := []ocr.Box{{X0: 5, Y0: 5, X1: 635, Y1: 475}}

	regions := aggregateRegions(boxes, false, nil, 640, 480, 10)
	if len(regions) != 1 {
		t.Fatalf("regions = %d, want 1", len(regions))
	}

	want := MaskRegion{Left: 0, Top: 0, Width: 640, Height: 480, Kind: RegionText}
	if regions[0] != want {
		t.Errorf("region = %+v, want %+v", regions[0], want)
	}
}

func TestAggregateRegionsDropsFullyOutside(t *testing.T) {
	boxes := []ocr.Box{
		{X0: 700, Y0: 50, X1: 800, Y1: 80},  // right of the image
		{X0: 50, Y0: 500, X1: 150, Y1: 530}, // below the image
	}

	if regions := aggregateRegions(boxes, false, nil, 640, 480, 10); len(regions) != 0 {
		t.Errorf("regions = %d, want 0", len(regions))
	}
}

func TestAggregateRegionsAppendsPhotoRegion(t *testing.T) {
	detector := NewHeuristicFaceDetector(DefaultPhotoRegion)
	boxes := []ocr.Box{{X0: 200, Y0: 50, X1: 300, Y1: 80}}

	regions := aggregateRegions(boxes, true, detector, 500, 500, 10)
	if len(regions) != 2 {
		t.Fatalf("regions = %d, want 2", len(regions))
	}

	photo := regions[1]
	if photo.Kind != RegionPhoto {
		t.Fatalf("second region kind = %v, want %v", photo.Kind, RegionPhoto)
	}
	want := MaskRegion{Left: 20, Top: 60, Width: 140, Height: 170, Kind: RegionPhoto}
	if photo != want {
		t.Errorf("photo region = %+v, want %+v", photo, want)
	}
}

func TestAggregateRegionsNoPhotoWithoutFlag(t *testing.T) {
	detector := NewHeuristicFaceDetector(DefaultPhotoRegion)

	if regions := aggregateRegions(nil, false, detector, 500, 500, 10); len(regions) != 0 {
		t.Errorf("regions = %d, want 0", len(regions))
	}
}

func TestHeuristicFaceDetectorClampsToSmallImage(t *testing.T) {
	detector := NewHeuristicFaceDetector(DefaultPhotoRegion)

	// The fixed rectangle overflows a 100x100 thumbnail and is truncated.
	regions := detector.DetectFaceRegions(100, 100)
	if len(regions) != 1 {
		t.Fatalf("regions = %d, want 1", len(regions))
	}
	want := MaskRegion{Left: 20, Top: 60, Width: 80, Height: 40, Kind: RegionPhoto}
	if regions[0] != want {
		t.Errorf("region = %+v, want %+v", regions[0], want)
	}
}

func TestHeuristicFaceDetectorDropsWhenOutside(t *testing.T) {
	detector := NewHeuristicFaceDetector(PhotoRegion{Left: 20, Top: 60, Width: 140, Height: 170})

	// The region starts below the bottom edge of a 50px-tall image.
	if regions := detector.DetectFaceRegions(640, 50); len(regions) != 0 {
		t.Errorf("regions = %d, want 0", len(regions))
	}
}

func TestClampRegion(t *testing.T) {
	tests := []struct {
		name   string
		region MaskRegion
		wantOK bool
		want   MaskRegion
	}{
		{
			"inside untouched",
			MaskRegion{Left: 10, Top: 10, Width: 50, Height: 20, Kind: RegionText},
			true,
			MaskRegion{Left: 10, Top: 10, Width: 50, Height: 20, Kind: RegionText},
		},
		{
			"negative origin truncated",
			MaskRegion{Left: -10, Top: -5, Width: 50, Height: 20, Kind: RegionText},
			true,
			MaskRegion{Left: 0, Top: 0, Width: 40, Height: 15, Kind: RegionText},
		},
		{
			"zero size after clamp dropped",
			MaskRegion{Left: 640, Top: 10, Width: 50, Height: 20, Kind: RegionText},
			false,
			MaskRegion{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := clampRegion(tt.region, 640, 480)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("region = %+v, want %+v", got, tt.want)
			}
		})
	}
}
