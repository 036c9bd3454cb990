package calibration

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/holoview/go-window/internal/log"
)

// Store owns the calibration record. All reads return copies, and updates
// are applied atomically: a concurrent reader never observes a partially
// merged record.
//
// Persistence is best-effort. The store writes the record as JSON to the
// configured path after each change; a write failure degrades the store to
// in-memory operation for the session and is never surfaced per-frame.
type Store struct {
	mu                 sync.RWMutex
	data               Data
	path               string // "" disables persistence
	assumedFaceWidthCm float64
	persistWarned      bool
	onChange           []func(Data)
}

// NewStore creates a store, loading persisted calibration from path if it
// exists. A missing or malformed file silently falls back to defaults.
// An empty path disables persistence.
func NewStore(path string) *Store {
	s := &Store{
		data:               DefaultData(),
		path:               path,
		assumedFaceWidthCm: DefaultAssumedFaceWidthCm,
	}
	s.load()
	return s
}

// Get returns a copy of the current calibration.
func (s *Store) Get() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Update merges the patch into the current calibration and marks it
// calibrated. If any resulting dimension is non-positive the update is
// rejected with ErrInvalidCalibration and the previous record is retained.
func (s *Store) Update(p Patch) error {
	s.mu.Lock()
	merged := p.apply(s.data)
	if !merged.Valid() {
		s.mu.Unlock()
		return ErrInvalidCalibration
	}
	merged.Calibrated = true
	s.data = merged
	s.persistLocked()
	snapshot := s.data
	listeners := s.onChange
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
	return nil
}

// Reset restores the compiled-in defaults and clears the calibrated flag.
func (s *Store) Reset() {
	s.mu.Lock()
	s.data = DefaultData()
	s.persistLocked()
	snapshot := s.data
	listeners := s.onChange
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// OnChange registers a callback invoked with the new record after every
// successful Update or Reset. Callbacks run outside the store lock.
func (s *Store) OnChange(fn func(Data)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// SetAssumedFaceWidth overrides the real-world face width used by
// EstimateViewingDistance.
func (s *Store) SetAssumedFaceWidth(cm float64) {
	if cm <= 0 {
		return
	}
	s.mu.Lock()
	s.assumedFaceWidthCm = cm
	s.mu.Unlock()
}

// CmPerPixel returns the physical size of one pixel in centimeters.
func (s *Store) CmPerPixel() (x, y float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.ScreenWidthCm / float64(s.data.PixelWidth),
		s.data.ScreenHeightCm / float64(s.data.PixelHeight)
}

// EstimateViewingDistance converts a normalized face-bounding-box width
// (fraction of frame width, 0-1) into an estimated viewer distance in
// centimeters via similar triangles:
//
//	observedCm = faceWidthNorm * screenWidthCm
//	distance   = assumedFaceWidthCm * screenWidthCm / observedCm
//
// The result is clamped to [MinEstimatedDistanceCm, MaxEstimatedDistanceCm]
// to reject degenerate detections. A non-positive face width implies an
// infinitely distant face and returns the maximum.
func (s *Store) EstimateViewingDistance(faceWidthNorm float64) float64 {
	s.mu.RLock()
	screenWidthCm := s.data.ScreenWidthCm
	assumed := s.assumedFaceWidthCm
	s.mu.RUnlock()

	if faceWidthNorm <= 0 {
		return MaxEstimatedDistanceCm
	}

	observedCm := faceWidthNorm * screenWidthCm
	distance := assumed * screenWidthCm / observedCm

	return clamp(distance, MinEstimatedDistanceCm, MaxEstimatedDistanceCm)
}

// load reads persisted calibration, falling back to defaults on any error.
func (s *Store) load() {
	if s.path == "" {
		return
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil || !data.Valid() {
		log.Debug("calibration: ignoring malformed persisted state", "path", s.path)
		return
	}
	s.data = data
}

// persistLocked writes the current record. Caller must hold s.mu.
func (s *Store) persistLocked() {
	if s.path == "" {
		return
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil && !s.persistWarned {
		// Warn once, then run in-memory for the session.
		log.Warn("calibration: persistence disabled", "path", s.path, "err", err)
		s.persistWarned = true
	}
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
