package pipeline

import (
	"encoding/json"
	"math"
	"sync"
	"testing"

	"github.com/holoview/go-window/pkg/calibration"
	"github.com/holoview/go-window/pkg/headpose"
	"github.com/holoview/go-window/pkg/landmarks"
	"github.com/holoview/go-window/pkg/protocol"
)

// mockVideo returns a canned frame; the mock detector never decodes it.
type mockVideo struct{}

func (mockVideo) CaptureJPEG() ([]byte, error) { return []byte("jpeg"), nil }

// mockDetector plays back a scripted sequence of detection results.
type mockDetector struct {
	mu     sync.Mutex
	script [][]landmarks.Face
	calls  int
}

func (m *mockDetector) Detect(jpeg []byte) ([]landmarks.Face, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls >= len(m.script) {
		return nil, nil
	}
	faces := m.script[m.calls]
	m.calls++
	return faces, nil
}

func (m *mockDetector) Close() error { return nil }

// mockHub records every broadcast message.
type mockHub struct {
	mu       sync.Mutex
	messages []*protocol.Message
}

func (m *mockHub) BroadcastJSON(v interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, v.(*protocol.Message))
	return nil
}

func (m *mockHub) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

func (m *mockHub) last() *protocol.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.messages) == 0 {
		return nil
	}
	return m.messages[len(m.messages)-1]
}

func centeredFace() landmarks.Face {
	f := landmarks.Face{X: 0.35, Y: 0.35, W: 0.3, H: 0.3, Confidence: 0.95}
	f.Points[landmarks.RightEye] = landmarks.Point{X: 0.45, Y: 0.5}
	f.Points[landmarks.LeftEye] = landmarks.Point{X: 0.55, Y: 0.5}
	return f
}

func newTestPipeline(t *testing.T, det *mockDetector) (*Pipeline, *mockHub, *mockHub) {
	t.Helper()
	p, err := New(DefaultConfig(), mockVideo{}, det, calibration.NewStore(""))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	poseHub := &mockHub{}
	projHub := &mockHub{}
	p.SetBroadcasters(poseHub, projHub)
	return p, poseHub, projHub
}

func TestPipeline_DetectionBroadcastsProjection(t *testing.T) {
	det := &mockDetector{script: [][]landmarks.Face{{centeredFace()}}}
	p, poseHub, projHub := newTestPipeline(t, det)

	p.Step()

	if poseHub.count() != 1 {
		t.Fatalf("pose broadcasts = %d, want 1", poseHub.count())
	}
	if projHub.count() != 1 {
		t.Fatalf("projection broadcasts = %d, want 1", projHub.count())
	}

	msg := projHub.last()
	if msg.Type != protocol.TypeProjection {
		t.Errorf("type = %q, want %q", msg.Type, protocol.TypeProjection)
	}

	var payload protocol.ProjectionPayload
	if err := msg.ParseData(&payload); err != nil {
		t.Fatalf("ParseData failed: %v", err)
	}
	if payload.Session != p.Session() {
		t.Errorf("session = %q, want %q", payload.Session, p.Session())
	}
	// Centered face with eye span == reference: symmetric frustum.
	if math.Abs(payload.Frustum.Left+payload.Frustum.Right) > 1e-12 {
		t.Errorf("centered face gave asymmetric frustum %+v", payload.Frustum)
	}
	if payload.Eye.Z <= 0 {
		t.Errorf("eye.Z = %v, want > 0", payload.Eye.Z)
	}
}

func TestPipeline_NoDetectionBeforeFirstPoseIsSilent(t *testing.T) {
	det := &mockDetector{} // empty script: never detects
	p, poseHub, projHub := newTestPipeline(t, det)

	p.Step()
	p.Step()

	if poseHub.count() != 0 || projHub.count() != 0 {
		t.Errorf("broadcasts before any detection: pose=%d proj=%d",
			poseHub.count(), projHub.count())
	}
}

func TestPipeline_MissHoldsLastPose(t *testing.T) {
	det := &mockDetector{script: [][]landmarks.Face{{centeredFace()}}} // then misses
	p, poseHub, _ := newTestPipeline(t, det)

	p.Step() // detection
	p.Step() // miss: pose held and still broadcast

	if poseHub.count() != 2 {
		t.Fatalf("pose broadcasts = %d, want 2", poseHub.count())
	}

	var first, held protocol.PosePayload
	poseHub.messages[0].ParseData(&first)
	poseHub.messages[1].ParseData(&held)

	if held.Pose != first.Pose {
		t.Errorf("held pose %+v differs from last good %+v", held.Pose, first.Pose)
	}
	if held.Misses != 1 {
		t.Errorf("misses = %d, want 1", held.Misses)
	}
}

func TestPipeline_FeedDirectSamples(t *testing.T) {
	p, _, projHub := newTestPipeline(t, &mockDetector{})

	p.Feed(&headpose.Sample{X: 0.5, Y: 0.5, Z: 1.0})
	p.Feed(&headpose.Sample{X: 0.6, Y: 0.5, Z: 1.0})

	if projHub.count() != 2 {
		t.Fatalf("projection broadcasts = %d, want 2", projHub.count())
	}

	var a, b protocol.ProjectionPayload
	projHub.messages[0].ParseData(&a)
	projHub.messages[1].ParseData(&b)

	// Viewer moved right in image space: eye moves left, frustum shifts.
	if b.Eye.X >= a.Eye.X {
		t.Errorf("eye.X did not move left: %v -> %v", a.Eye.X, b.Eye.X)
	}
}

func TestPipeline_StatusCounts(t *testing.T) {
	det := &mockDetector{script: [][]landmarks.Face{{centeredFace()}}}
	p, _, _ := newTestPipeline(t, det)

	p.Step() // detection
	p.Step() // miss

	st := p.Status()
	if st.Frames != 2 {
		t.Errorf("frames = %d, want 2", st.Frames)
	}
	if st.Detections != 1 {
		t.Errorf("detections = %d, want 1", st.Detections)
	}
	if st.Misses != 1 {
		t.Errorf("misses = %d, want 1", st.Misses)
	}
	if !st.HasFrustum {
		t.Error("status missing frustum after successful projection")
	}
	if st.Session == "" {
		t.Error("status missing session")
	}
}

func TestPipeline_TuningRoundTrip(t *testing.T) {
	p, _, _ := newTestPipeline(t, &mockDetector{})

	p.SetTuningParams(TuningParams{Alpha: 0.5, MovementScale: 2.0, DetectionHz: 10})

	got := p.GetTuningParams()
	if got.Alpha != 0.5 {
		t.Errorf("alpha = %v, want 0.5", got.Alpha)
	}
	if got.MovementScale != 2.0 {
		t.Errorf("movement scale = %v, want 2.0", got.MovementScale)
	}
	if math.Abs(got.DetectionHz-10) > 1e-6 {
		t.Errorf("detection hz = %v, want 10", got.DetectionHz)
	}

	// Zero values leave settings untouched.
	p.SetTuningParams(TuningParams{})
	if got := p.GetTuningParams(); got.Alpha != 0.5 {
		t.Errorf("zero-value tuning changed alpha to %v", got.Alpha)
	}
}

func TestPipeline_CalibrationChangeBroadcast(t *testing.T) {
	store := calibration.NewStore("")
	p, err := New(DefaultConfig(), mockVideo{}, &mockDetector{}, store)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	projHub := &mockHub{}
	p.SetBroadcasters(&mockHub{}, projHub)

	width := 52.7
	if err := store.Update(calibration.Patch{ScreenWidthCm: &width}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if projHub.count() != 1 {
		t.Fatalf("broadcasts after calibration change = %d, want 1", projHub.count())
	}
	msg := projHub.last()
	if msg.Type != protocol.TypeCalibration {
		t.Fatalf("type = %q, want %q", msg.Type, protocol.TypeCalibration)
	}

	var payload protocol.CalibrationPayload
	if err := msg.ParseData(&payload); err != nil {
		t.Fatalf("ParseData failed: %v", err)
	}
	if payload.Calibration.ScreenWidthCm != 52.7 {
		t.Errorf("screen width = %v, want 52.7", payload.Calibration.ScreenWidthCm)
	}
	if !payload.Calibration.Calibrated {
		t.Error("broadcast record not marked calibrated")
	}

	// Hubs wired after construction still miss nothing: the change
	// callback reads the current hub on every invocation.
	store.Reset()
	if projHub.count() != 2 {
		t.Errorf("broadcasts after reset = %d, want 2", projHub.count())
	}
}

func TestPipeline_MessagesAreValidJSON(t *testing.T) {
	det := &mockDetector{script: [][]landmarks.Face{{centeredFace()}}}
	p, _, projHub := newTestPipeline(t, det)

	p.Step()

	raw, err := projHub.last().Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	if !json.Valid(raw) {
		t.Error("broadcast message is not valid JSON")
	}
}
