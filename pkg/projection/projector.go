package projection

import (
	"sync"

	"github.com/holoview/go-window/pkg/calibration"
	"github.com/holoview/go-window/pkg/headpose"
)

// Projector converts stabilized head poses into eye positions and
// asymmetric frusta. It holds the last valid frustum so degenerate input
// (eye at or behind the screen plane) degrades to "no change" rather than
// an invalid projection.
//
// Calibration is taken by value on every call; the projector never caches
// screen dimensions, so a calibration update is visible on the next frame.
type Projector struct {
	mu sync.Mutex

	cfg        Config
	frustum    Frustum
	hasFrustum bool
}

// New creates a projector, validating the configuration.
func New(cfg Config) (*Projector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Projector{cfg: cfg}, nil
}

// EyePosition converts a stabilized pose into a world-space eye position.
//
// Normalized pose 0.5 is screen center. The x/y offsets are negated:
// with a mirrored webcam feed, the viewer moving right in image space
// moves the virtual eye left. Depth is inverse to the proxy, so a larger
// proxy (closer face) yields a smaller distance.
//
// The filter's depth clamp guarantees pose.Z > 0; if a caller bypasses
// the filter with a non-positive proxy, the returned position has Z = 0,
// which the Update guard then rejects.
func (p *Projector) EyePosition(pose headpose.Sample, calib calibration.Data) HeadPosition {
	p.mu.Lock()
	cfg := p.cfg
	p.mu.Unlock()

	screenW := calib.ScreenWidthCm * cfg.WorldScale
	screenH := calib.ScreenHeightCm * cfg.WorldScale

	eye := HeadPosition{
		X: -(pose.X - 0.5) * screenW * cfg.MovementScale,
		Y: -(pose.Y - 0.5) * screenH * cfg.MovementScale,
	}
	if pose.Z > 0 {
		eye.Z = calib.ViewingDistanceCm * cfg.WorldScale / pose.Z
	}
	return eye
}

// Update computes the asymmetric frustum for an eye position.
//
// The eye must be strictly in front of the screen plane (eye.Z > 0).
// Otherwise the update is a no-op: the previously computed frustum is
// returned with ok = false, and the renderer keeps its prior projection.
// This is an expected transient during fast head motion, not an error.
func (p *Projector) Update(eye HeadPosition, calib calibration.Data) (Frustum, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	distance := eye.Z // screen plane sits at z = 0
	if distance <= 0 {
		return p.frustum, false
	}

	halfW := calib.ScreenWidthCm * p.cfg.WorldScale / 2
	halfH := calib.ScreenHeightCm * p.cfg.WorldScale / 2

	// Project the screen rectangle through the eye onto the near plane.
	scale := p.cfg.Near / distance
	p.frustum = Frustum{
		Left:   (-halfW - eye.X) * scale,
		Right:  (halfW - eye.X) * scale,
		Bottom: (-halfH - eye.Y) * scale,
		Top:    (halfH - eye.Y) * scale,
		Near:   p.cfg.Near,
		Far:    p.cfg.Far,
	}
	p.hasFrustum = true
	return p.frustum, true
}

// Frustum returns the last computed frustum, if any.
func (p *Projector) Frustum() (Frustum, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frustum, p.hasFrustum
}

// SetMovementScale adjusts the lateral movement amplification at runtime.
// Non-positive values are ignored.
func (p *Projector) SetMovementScale(scale float64) {
	if scale <= 0 {
		return
	}
	p.mu.Lock()
	p.cfg.MovementScale = scale
	p.mu.Unlock()
}

// MovementScale returns the current movement amplification.
func (p *Projector) MovementScale() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg.MovementScale
}
