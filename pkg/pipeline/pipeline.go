// Package pipeline drives the per-frame head tracking loop: capture a
// frame, detect a face, reduce it to a pose sample, filter, project, and
// broadcast the result to renderer clients.
//
// One pipeline instance serves one tracked viewer. Each tick runs to
// completion before the next is processed; the filter's pose is the only
// mutable per-frame state.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/holoview/go-window/internal/log"
	"github.com/holoview/go-window/pkg/calibration"
	"github.com/holoview/go-window/pkg/debug"
	"github.com/holoview/go-window/pkg/headpose"
	"github.com/holoview/go-window/pkg/landmarks"
	"github.com/holoview/go-window/pkg/landmarks/detection"
	"github.com/holoview/go-window/pkg/projection"
	"github.com/holoview/go-window/pkg/protocol"
)

// VideoSource captures frames for detection.
type VideoSource interface {
	CaptureJPEG() ([]byte, error)
}

// Broadcaster fans a JSON message out to connected clients.
// *hub.Hub satisfies this.
type Broadcaster interface {
	BroadcastJSON(v interface{}) error
}

// Config holds the pipeline's tunable parameters.
type Config struct {
	// DetectionInterval is the frame cadence. The filter's smoothing
	// factor assumes this stays roughly constant; see
	// headpose.Filter.UpdateWithDelta for variable-rate callers.
	DetectionInterval time.Duration

	Filter     headpose.Config
	Projection projection.Config
}

// DefaultConfig returns the recommended pipeline configuration.
func DefaultConfig() Config {
	return Config{
		DetectionInterval: 33 * time.Millisecond, // ~30 fps
		Filter:            headpose.DefaultConfig(),
		Projection:        projection.DefaultConfig(),
	}
}

// Status is a snapshot of pipeline health.
type Status struct {
	Session    string `json:"session"`
	Running    bool   `json:"running"`
	Calibrated bool   `json:"calibrated"`
	Frames     uint64 `json:"frames"`
	Detections uint64 `json:"detections"`
	Misses     int    `json:"misses"`
	HasFrustum bool   `json:"has_frustum"`
}

// Pipeline owns the filter and projector and drives them once per frame.
type Pipeline struct {
	cfg      Config
	session  string
	video    VideoSource
	detector detection.Detector
	adapter  *landmarks.Adapter
	filter   *headpose.Filter
	proj     *projection.Projector
	store    *calibration.Store

	poseHub Broadcaster
	projHub Broadcaster

	mu          sync.RWMutex
	running     bool
	frames      uint64
	detections  uint64
	tickerReset chan time.Duration
}

// New creates a pipeline. video and detector may be nil for replay-style
// usage where Step is fed frames externally.
func New(cfg Config, video VideoSource, detector detection.Detector, store *calibration.Store) (*Pipeline, error) {
	filter, err := headpose.NewFilter(cfg.Filter)
	if err != nil {
		return nil, err
	}
	proj, err := projection.New(cfg.Projection)
	if err != nil {
		return nil, err
	}
	p := &Pipeline{
		cfg:         cfg,
		session:     uuid.NewString(),
		video:       video,
		detector:    detector,
		adapter:     landmarks.NewAdapter(),
		filter:      filter,
		proj:        proj,
		store:       store,
		tickerReset: make(chan time.Duration, 1),
	}
	store.OnChange(p.announceCalibration)
	return p, nil
}

// announceCalibration tells connected renderers the screen geometry
// changed; projection messages from the next frame on are computed
// against the new record.
func (p *Pipeline) announceCalibration(data calibration.Data) {
	p.mu.RLock()
	projHub := p.projHub
	p.mu.RUnlock()
	if projHub == nil {
		return
	}

	msg, err := protocol.NewMessage(protocol.TypeCalibration, protocol.CalibrationPayload{
		Calibration: data,
	})
	if err == nil {
		projHub.BroadcastJSON(msg)
	}
}

// SetBroadcasters wires the pose and projection output hubs.
func (p *Pipeline) SetBroadcasters(pose, proj Broadcaster) {
	p.mu.Lock()
	p.poseHub = pose
	p.projHub = proj
	p.mu.Unlock()
}

// Session returns the pipeline's session ID.
func (p *Pipeline) Session() string {
	return p.session
}

// Run drives the per-frame loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) {
	p.mu.Lock()
	p.running = true
	interval := p.cfg.DetectionInterval
	p.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("pipeline started",
		"session", p.session,
		"interval", interval,
		"alpha", p.filter.Alpha())

	for {
		select {
		case <-ctx.Done():
			p.mu.Lock()
			p.running = false
			p.mu.Unlock()
			log.Info("pipeline stopped", "session", p.session)
			return

		case interval := <-p.tickerReset:
			ticker.Reset(interval)

		case <-ticker.C:
			p.Step()
		}
	}
}

// Step processes exactly one frame: capture, detect, filter, project,
// broadcast. Exposed for replay drivers and tests; Run calls it per tick.
func (p *Pipeline) Step() {
	sample := p.capture()
	p.Feed(sample)
}

// Feed runs one already-adapted sample (nil = no detection) through the
// filter and projector and broadcasts the results.
func (p *Pipeline) Feed(sample *headpose.Sample) {
	p.mu.Lock()
	p.frames++
	if sample != nil {
		p.detections++
	}
	poseHub, projHub := p.poseHub, p.projHub
	p.mu.Unlock()

	pose, ok := p.filter.Update(sample)
	if !ok {
		// Nothing to project yet; renderers keep waiting.
		return
	}

	if poseHub != nil {
		msg, err := protocol.NewMessage(protocol.TypePose, protocol.PosePayload{
			Session: p.session,
			Pose:    pose,
			Misses:  p.filter.ConsecutiveMisses(),
		})
		if err == nil {
			poseHub.BroadcastJSON(msg)
		}
	}

	calib := p.store.Get()
	eye := p.proj.EyePosition(pose, calib)
	frustum, ok := p.proj.Update(eye, calib)
	if !ok {
		// Expected transient during fast head motion; renderers keep
		// the previous projection. Kept off the structured log to
		// avoid per-frame spam.
		debug.PoseLog("degenerate eye position %+v, frustum held\n", eye)
		return
	}

	if projHub != nil {
		msg, err := protocol.NewMessage(protocol.TypeProjection, protocol.ProjectionPayload{
			Session: p.session,
			Eye:     eye,
			Frustum: frustum,
			Camera:  projection.CameraFor(eye),
		})
		if err == nil {
			projHub.BroadcastJSON(msg)
		}
	}
}

// capture grabs a frame and reduces it to a pose sample.
// Any failure along the way counts as a missed detection.
func (p *Pipeline) capture() *headpose.Sample {
	if p.video == nil || p.detector == nil {
		return nil
	}

	frame, err := p.video.CaptureJPEG()
	if err != nil {
		debug.PoseLog("capture error: %v\n", err)
		return nil
	}

	faces, err := p.detector.Detect(frame)
	if err != nil {
		debug.PoseLog("detection error: %v\n", err)
		return nil
	}

	return p.adapter.ToSample(landmarks.SelectBest(faces))
}

// Status returns a snapshot of pipeline health.
func (p *Pipeline) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()

	_, hasFrustum := p.proj.Frustum()
	return Status{
		Session:    p.session,
		Running:    p.running,
		Calibrated: p.store.Get().Calibrated,
		Frames:     p.frames,
		Detections: p.detections,
		Misses:     p.filter.ConsecutiveMisses(),
		HasFrustum: hasFrustum,
	}
}

// Projector exposes the projector for direct inspection (replay tooling).
func (p *Pipeline) Projector() *projection.Projector {
	return p.proj
}
