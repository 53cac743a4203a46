package export

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"math"
)

// A4 portrait page size in millimetres and the top margin above the capture.
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
	TopMarginMM  = 3.0
)

// Placement positions a raster capture on the page, in millimetres.
type Placement struct {
	X, Y, Width, Height float64
}

// Fit scales a capture of w×h pixels to fit the page, centered horizontally.
func Fit(w, h int) Placement {
	if w <= 0 || h <= 0 {
		return Placement{Y: TopMarginMM}
	}
	ratio := math.Min(PageWidthMM/float64(w), PageHeightMM/float64(h))
	width := float64(w) * ratio
	height := float64(h) * ratio
	return Placement{
		X:      (PageWidthMM - width) / 2,
		Y:      TopMarginMM,
		Width:  width,
		Height: height,
	}
}

// FitPNG reads the PNG header and returns the placement for it.
func FitPNG(data []byte) (Placement, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Placement{}, fmt.Errorf("decode capture: %w", err)
	}
	if format != "png" {
		return Placement{}, fmt.Errorf("unexpected capture format %s", format)
	}
	return Fit(cfg.Width, cfg.Height), nil
}
