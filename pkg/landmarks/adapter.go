package landmarks

import (
	"math"

	"github.com/holoview/go-window/pkg/headpose"
)

// Adapter constants.
const (
	// DefaultEyeSpanRef is the normalized inter-ocular distance that
	// maps to depth proxy 1.0, roughly what a webcam sees at the
	// default 60cm viewing distance.
	DefaultEyeSpanRef = 0.10

	// eyeSpanPerFaceWidth approximates the inter-ocular distance as a
	// fraction of the face bounding-box width, for the landmark-less
	// fallback.
	eyeSpanPerFaceWidth = 0.4

	// degenerateSpan is the span below which eye landmarks are treated
	// as collapsed and the bounding box is used instead.
	degenerateSpan = 1e-6
)

// Adapter converts detected faces into raw pose samples.
// The head position is the midpoint between the eyes; the depth proxy is
// the inter-ocular distance over EyeSpanRef, so proxy 1.0 means "at the
// reference distance" and larger means closer.
type Adapter struct {
	// EyeSpanRef is the normalized inter-ocular distance treated as
	// depth proxy 1.0.
	EyeSpanRef float64
}

// NewAdapter returns an adapter with the default reference span.
func NewAdapter() *Adapter {
	return &Adapter{EyeSpanRef: DefaultEyeSpanRef}
}

// ToSample reduces a face to the (x, y, depth proxy) triple consumed by
// the pose filter. A nil face (no detection) maps to a nil sample.
// Collapsed eye landmarks fall back to the bounding-box center and a
// width-derived span.
func (a *Adapter) ToSample(f *Face) *headpose.Sample {
	if f == nil {
		return nil
	}

	ref := a.EyeSpanRef
	if ref <= 0 {
		ref = DefaultEyeSpanRef
	}

	right := f.Points[RightEye]
	left := f.Points[LeftEye]
	span := math.Hypot(left.X-right.X, left.Y-right.Y)

	if span < degenerateSpan {
		cx, cy := f.Center()
		return &headpose.Sample{
			X: cx,
			Y: cy,
			Z: f.W * eyeSpanPerFaceWidth / ref,
		}
	}

	return &headpose.Sample{
		X: (right.X + left.X) / 2,
		Y: (right.Y + left.Y) / 2,
		Z: span / ref,
	}
}
