// Package projection derives an off-axis (asymmetric) viewing frustum from
// a stabilized head pose, so that the display behaves as a fixed window
// into the 3D scene as the viewer moves.
//
// The screen plane is fixed at world z = 0, spanning ±W/2 × ±H/2 world
// units, and the eye sits in front of it at positive z. Each frame the
// four screen corners are projected through the eye onto the near plane,
// yielding a frustum whose apex is the eye rather than the screen center.
// Renderers should apply the frustum with a fixed camera orientation along
// the screen normal; the asymmetric bounds already encode the full viewing
// direction, and re-aiming the camera on top of them double-applies the
// correction.
package projection

import "fmt"

// Default projection constants.
const (
	// DefaultWorldScale converts calibration centimeters to world units
	// (1 world unit = 1 meter).
	DefaultWorldScale = 0.01

	// DefaultMovementScale amplifies lateral head movement relative to
	// literal physical displacement. Typical webcam head travel is a few
	// centimeters; unscaled, the parallax is barely perceptible.
	DefaultMovementScale = 1.5

	DefaultNear = 0.1
	DefaultFar  = 100.0
)

// Config holds the tunable projection parameters.
type Config struct {
	WorldScale    float64 `json:"world_scale"`
	MovementScale float64 `json:"movement_scale"`
	Near          float64 `json:"near"`
	Far           float64 `json:"far"`
}

// DefaultConfig returns the recommended projection configuration.
func DefaultConfig() Config {
	return Config{
		WorldScale:    DefaultWorldScale,
		MovementScale: DefaultMovementScale,
		Near:          DefaultNear,
		Far:           DefaultFar,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.WorldScale <= 0 {
		return fmt.Errorf("projection: world scale %v must be > 0", c.WorldScale)
	}
	if c.MovementScale <= 0 {
		return fmt.Errorf("projection: movement scale %v must be > 0", c.MovementScale)
	}
	if c.Near <= 0 {
		return fmt.Errorf("projection: near plane %v must be > 0", c.Near)
	}
	if c.Far <= c.Near {
		return fmt.Errorf("projection: far plane %v must exceed near %v", c.Far, c.Near)
	}
	return nil
}

// HeadPosition is the viewer's eye position in world units.
type HeadPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Frustum holds asymmetric perspective bounds on the near plane, in the
// left/right/bottom/top/near/far parameterization used by off-center
// perspective matrix constructions.
type Frustum struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Top    float64 `json:"top"`
	Near   float64 `json:"near"`
	Far    float64 `json:"far"`
}

// CameraPlacement positions the render camera at the eye, aimed at the
// screen-plane origin. The look-at target is an approximation for engines
// that require one: with the asymmetric frustum applied, the correct
// orientation is fixed along -Z, and engines that can hold orientation
// fixed should ignore Target.
type CameraPlacement struct {
	Position HeadPosition `json:"position"`
	Target   HeadPosition `json:"target"`
}

// CameraFor returns the camera placement for an eye position.
func CameraFor(eye HeadPosition) CameraPlacement {
	return CameraPlacement{Position: eye}
}
