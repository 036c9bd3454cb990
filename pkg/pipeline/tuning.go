package pipeline

import "time"

// TuningParams holds the real-time adjustable pipeline parameters.
// These can be modified via the tuning API without restarting.
type TuningParams struct {
	// Alpha is the filter's EMA smoothing factor (0.3=smooth, 0.6=responsive)
	Alpha float64 `json:"alpha"`

	// MovementScale amplifies lateral head movement
	MovementScale float64 `json:"movement_scale"`

	// DetectionHz is the frame processing frequency (1-60 Hz)
	DetectionHz float64 `json:"detection_hz"`
}

// GetTuningParams returns current tuning parameters.
func (p *Pipeline) GetTuningParams() TuningParams {
	p.mu.RLock()
	interval := p.cfg.DetectionInterval
	p.mu.RUnlock()

	return TuningParams{
		Alpha:         p.filter.Alpha(),
		MovementScale: p.proj.MovementScale(),
		DetectionHz:   1.0 / interval.Seconds(),
	}
}

// SetTuningParams updates tuning parameters at runtime.
// Only positive values are applied.
func (p *Pipeline) SetTuningParams(params TuningParams) {
	if params.Alpha > 0 {
		p.filter.SetAlpha(params.Alpha)
	}
	if params.MovementScale > 0 {
		p.proj.SetMovementScale(params.MovementScale)
	}
	if params.DetectionHz > 0 {
		p.setDetectionHz(params.DetectionHz)
	}
}

// setDetectionHz updates the frame rate at runtime.
// Valid range: 1-60 Hz
func (p *Pipeline) setDetectionHz(hz float64) {
	if hz < 1 {
		hz = 1
	}
	if hz > 60 {
		hz = 60
	}

	interval := time.Duration(float64(time.Second) / hz)

	p.mu.Lock()
	p.cfg.DetectionInterval = interval
	p.mu.Unlock()

	// Send to the ticker reset channel (non-blocking)
	select {
	case p.tickerReset <- interval:
		// Sent successfully
	default:
		// Channel full, skip (previous update still pending)
	}
}
