package headpose

import (
	"fmt"
	"time"
)

// Config holds the tunable parameters for the pose filter.
type Config struct {
	// Alpha is the EMA smoothing factor in (0, 1].
	// Lower = smoother but slower to follow; higher = more responsive
	// but jittery. Applied per call, so the effective cutoff depends on
	// the sampling rate; use UpdateWithDelta when the rate varies.
	Alpha float64 `json:"alpha"`

	// MinDepth and MaxDepth clamp the raw depth proxy before smoothing.
	// MinDepth must be strictly positive: the projector divides by the
	// depth proxy, and this clamp is what keeps that division safe.
	MinDepth float64 `json:"min_depth"`
	MaxDepth float64 `json:"max_depth"`

	// ClampXY additionally clamps raw x/y into [0, 1]. EMA output stays
	// near the input range on its own; this guards detector outliers.
	ClampXY bool `json:"clamp_xy"`

	// TimeConstant is the smoothing time constant used by
	// UpdateWithDelta: alpha = 1 - exp(-dt/TimeConstant).
	// At 30fps the default reproduces Alpha ≈ 0.3.
	TimeConstant time.Duration `json:"time_constant"`
}

// DefaultConfig returns the recommended filter configuration.
func DefaultConfig() Config {
	return Config{
		Alpha:        0.3,
		MinDepth:     0.5,
		MaxDepth:     2.0,
		ClampXY:      true,
		TimeConstant: 100 * time.Millisecond,
	}
}

// Validate checks the configuration. A clamp range that admits a zero
// depth is a programming error and is rejected here rather than
// discovered as a divide-by-zero per frame.
func (c Config) Validate() error {
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("headpose: alpha %v outside (0, 1]", c.Alpha)
	}
	if c.MinDepth <= 0 {
		return fmt.Errorf("headpose: min depth %v must be > 0", c.MinDepth)
	}
	if c.MaxDepth <= c.MinDepth {
		return fmt.Errorf("headpose: max depth %v must exceed min depth %v",
			c.MaxDepth, c.MinDepth)
	}
	if c.TimeConstant <= 0 {
		return fmt.Errorf("headpose: time constant %v must be > 0", c.TimeConstant)
	}
	return nil
}
