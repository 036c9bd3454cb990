// Package calibration holds the physical screen and viewer geometry that
// anchors the head-tracked projection: screen dimensions in centimeters,
// pixel resolution, and the reference viewing distance.
package calibration

import "errors"

// ErrInvalidCalibration is returned when an update would leave any
// screen dimension or distance non-positive.
var ErrInvalidCalibration = errors.New("calibration: dimensions must be positive")

// Compiled-in defaults: a 15.6" laptop panel viewed from arm's length.
const (
	DefaultScreenWidthCm     = 34.0
	DefaultScreenHeightCm    = 19.0
	DefaultViewingDistanceCm = 60.0
	DefaultPixelWidth        = 1920
	DefaultPixelHeight       = 1080
)

// Distance estimation constants.
const (
	// Average adult face width (~15cm), used for similar-triangles
	// distance estimation from the detected face bounding box.
	DefaultAssumedFaceWidthCm = 15.0

	// Estimates outside this range are clamped: near-zero face widths
	// and detection noise otherwise imply absurd distances.
	MinEstimatedDistanceCm = 20.0
	MaxEstimatedDistanceCm = 150.0
)

// Data describes the display and viewer geometry.
type Data struct {
	ScreenWidthCm     float64 `json:"screen_width_cm"`
	ScreenHeightCm    float64 `json:"screen_height_cm"`
	ViewingDistanceCm float64 `json:"viewing_distance_cm"`
	PixelWidth        int     `json:"pixel_width"`
	PixelHeight       int     `json:"pixel_height"`
	Calibrated        bool    `json:"calibrated"`
}

// DefaultData returns the compiled-in calibration defaults.
func DefaultData() Data {
	return Data{
		ScreenWidthCm:     DefaultScreenWidthCm,
		ScreenHeightCm:    DefaultScreenHeightCm,
		ViewingDistanceCm: DefaultViewingDistanceCm,
		PixelWidth:        DefaultPixelWidth,
		PixelHeight:       DefaultPixelHeight,
	}
}

// AspectRatio returns the physical width/height ratio.
func (d Data) AspectRatio() float64 {
	return d.ScreenWidthCm / d.ScreenHeightCm
}

// Valid reports whether all dimensions are positive.
func (d Data) Valid() bool {
	return d.ScreenWidthCm > 0 && d.ScreenHeightCm > 0 &&
		d.ViewingDistanceCm > 0 && d.PixelWidth > 0 && d.PixelHeight > 0
}

// Patch is a partial calibration update. Nil fields are left unchanged.
type Patch struct {
	ScreenWidthCm     *float64 `json:"screen_width_cm,omitempty"`
	ScreenHeightCm    *float64 `json:"screen_height_cm,omitempty"`
	ViewingDistanceCm *float64 `json:"viewing_distance_cm,omitempty"`
	PixelWidth        *int     `json:"pixel_width,omitempty"`
	PixelHeight       *int     `json:"pixel_height,omitempty"`
}

// apply merges the patch into d and returns the result.
func (p Patch) apply(d Data) Data {
	if p.ScreenWidthCm != nil {
		d.ScreenWidthCm = *p.ScreenWidthCm
	}
	if p.ScreenHeightCm != nil {
		d.ScreenHeightCm = *p.ScreenHeightCm
	}
	if p.ViewingDistanceCm != nil {
		d.ViewingDistanceCm = *p.ViewingDistanceCm
	}
	if p.PixelWidth != nil {
		d.PixelWidth = *p.PixelWidth
	}
	if p.PixelHeight != nil {
		d.PixelHeight = *p.PixelHeight
	}
	return d
}
