// Package headpose stabilizes per-frame head position estimates.
//
// The filter consumes one raw sample per video frame (or nil when no face
// was detected) and maintains a single smoothed pose via a first-order IIR
// low-pass (exponential moving average). Missed detections hold the last
// stabilized pose rather than snapping to a default, so downstream
// projection keeps rendering from the last known good viewpoint.
package headpose

import (
	"math"
	"sync"
	"time"
)

// Sample is a single-frame head position estimate.
// X and Y are the normalized image-space face center in [0, 1].
// Z is a positive depth proxy (not a metric distance; larger = closer),
// typically derived from inter-ocular landmark distance.
type Sample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Filter smooths raw pose samples into a stable head pose.
// Safe for concurrent tuning access; Update itself is intended to be
// called from a single driving loop.
type Filter struct {
	mu sync.Mutex

	cfg     Config
	pose    Sample
	hasPose bool
	misses  int
}

// NewFilter creates a filter, validating the configuration.
func NewFilter(cfg Config) (*Filter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Filter{cfg: cfg}, nil
}

// Update feeds one frame's sample through the filter and returns the
// stabilized pose. A nil sample means no face was detected: the previous
// pose is held unchanged, and ok is false only if no sample has ever
// arrived (no pose can be produced yet).
func (f *Filter) Update(s *Sample) (Sample, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.update(s, f.cfg.Alpha)
}

// UpdateWithDelta is Update with frame-rate compensation: the smoothing
// factor is derived from the elapsed time since the previous sample as
// 1 - exp(-dt/TimeConstant), keeping the cutoff frequency stable across
// variable frame rates.
func (f *Filter) UpdateWithDelta(s *Sample, dt time.Duration) (Sample, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	alpha := 1 - math.Exp(-dt.Seconds()/f.cfg.TimeConstant.Seconds())
	return f.update(s, alpha)
}

func (f *Filter) update(s *Sample, alpha float64) (Sample, bool) {
	if s == nil {
		f.misses++
		return f.pose, f.hasPose
	}
	f.misses = 0

	raw := *s
	raw.Z = clamp(raw.Z, f.cfg.MinDepth, f.cfg.MaxDepth)
	if f.cfg.ClampXY {
		raw.X = clamp(raw.X, 0, 1)
		raw.Y = clamp(raw.Y, 0, 1)
	}

	if !f.hasPose {
		// First sample: adopt unsmoothed so startup is not dragged
		// in from an arbitrary origin.
		f.pose = raw
		f.hasPose = true
		return f.pose, true
	}

	f.pose.X += alpha * (raw.X - f.pose.X)
	f.pose.Y += alpha * (raw.Y - f.pose.Y)
	f.pose.Z += alpha * (raw.Z - f.pose.Z)
	return f.pose, true
}

// Last returns the current stabilized pose without consuming a frame.
func (f *Filter) Last() (Sample, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pose, f.hasPose
}

// ConsecutiveMisses returns how many nil samples have arrived since the
// last detection.
func (f *Filter) ConsecutiveMisses() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.misses
}

// Reset discards the stabilized pose, returning the filter to its
// initial no-pose state.
func (f *Filter) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pose = Sample{}
	f.hasPose = false
	f.misses = 0
}

// SetAlpha updates the smoothing factor at runtime. Values outside
// (0, 1] are ignored.
func (f *Filter) SetAlpha(alpha float64) {
	if alpha <= 0 || alpha > 1 {
		return
	}
	f.mu.Lock()
	f.cfg.Alpha = alpha
	f.mu.Unlock()
}

// Alpha returns the current smoothing factor.
func (f *Filter) Alpha() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg.Alpha
}

// clamp limits a value to a range
func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
