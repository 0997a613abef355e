/**
 * Region Aggregator - turns coordinate hits into padded, clamped mask regions
 *
 * Applies uniform padding to every text hit, clamps to image bounds and drops
 * degenerate rectangles. Overlapping regions are NOT merged: the compositing
 * step tolerates overlapping opaque overlays idempotently.
 */

package pii

import "github.com/Ankiitsingh21/pii-detection-backend/internal/ocr"

// PhotoRegion is the fixed heuristic rectangle sized for typical ID card
// photo placement. A coarse approximation, not face detection; constants are
// configurable because no derivation exists for them.
type PhotoRegion struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// DefaultPhotoRegion matches the photo placement on common Indian ID cards
// (top-left quadrant).
var DefaultPhotoRegion = PhotoRegion{Left: 20, Top: 60, Width: 140, Height: 170}

// FaceDetector locates photo regions on the document image. The default is
// the fixed heuristic; a real detector can be swapped in without touching
// extraction logic.
type FaceDetector interface {
	DetectFaceRegions(imageWidth, imageHeight int) []MaskRegion
}

// heuristicFaceDetector emits the single configured rectangle.
type heuristicFaceDetector struct {
	region PhotoRegion
}

// NewHeuristicFaceDetector returns the fixed-region detector.
func NewHeuristicFaceDetector(region PhotoRegion) FaceDetector {
	return &heuristicFaceDetector{region: region}
}

func (d *heuristicFaceDetector) DetectFaceRegions(imageWidth, imageHeight int) []MaskRegion {
	region := MaskRegion{
		Left:   d.region.Left,
		Top:    d.region.Top,
		Width:  d.region.Width,
		Height: d.region.Height,
		Kind:   RegionPhoto,
	}
	if clamped, ok := clampRegion(region, imageWidth, imageHeight); ok {
		return []MaskRegion{clamped}
	}
	return nil
}

// aggregateRegions converts resolved text boxes into padded mask regions and
// appends the detector's photo regions when the document carries a photo.
// No region is emitted before the image dimensions are known; rectangles that
// clamp to non-positive size are discarded.
func aggregateRegions(boxes []ocr.Box, hasPhoto bool, detector FaceDetector, imageWidth, imageHeight, padding int) []MaskRegion {
	regions := make([]MaskRegion, 0, len(boxes)+1)

	for _, box := range boxes {
		region := MaskRegion{
			Left:   box.X0 - padding,
			Top:    box.Y0 - padding,
			Width:  (box.X1 - box.X0) + 2*padding,
			Height: (box.Y1 - box.Y0) + 2*padding,
			Kind:   RegionText,
		}
		if clamped, ok := clampRegion(region, imageWidth, imageHeight); ok {
			regions = append(regions, clamped)
		}
	}

	if hasPhoto && detector != nil {
		regions = append(regions, detector.DetectFaceRegions(imageWidth, imageHeight)...)
	}

	return regions
}

// clampRegion truncates a region to [0,width) x [0,height). The second return
// value is false when nothing of the region survives inside the image.
func clampRegion(region MaskRegion, imageWidth, imageHeight int) (MaskRegion, bool) {
	right := region.Left + region.Width
	bottom := region.Top + region.Height

	if region.Left < 0 {
		region.Left = 0
	}
	if region.Top < 0 {
		region.Top = 0
	}
	if right > imageWidth {
		right = imageWidth
	}
	if bottom > imageHeight {
		bottom = imageHeight
	}

	region.Width = right - region.Left
	region.Height = bottom - region.Top

	if region.Width <= 0 || region.Height <= 0 {
		return MaskRegion{}, false
	}
	return region, true
}
