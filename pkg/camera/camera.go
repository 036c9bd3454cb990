// Package camera provides a webcam video source backed by gocv.
package camera

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Config holds webcam capture settings.
type Config struct {
	DeviceID int `json:"device_id"`
	Width    int `json:"width"`
	Height   int `json:"height"`
	Quality  int `json:"quality"` // JPEG quality 1-100
}

// DefaultConfig returns capture settings suitable for face detection.
// 720p keeps landmark precision without slowing the detector down.
func DefaultConfig() Config {
	return Config{
		DeviceID: 0,
		Width:    1280,
		Height:   720,
		Quality:  85,
	}
}

// Webcam wraps a gocv VideoCapture as a JPEG frame source.
type Webcam struct {
	mu      sync.Mutex
	capture *gocv.VideoCapture
	frame   gocv.Mat
	quality int
}

// Open opens the capture device and applies the requested resolution.
// The driver may pick the nearest supported mode; detection works on
// normalized coordinates, so the exact resolution is not load-bearing.
func Open(cfg Config) (*Webcam, error) {
	capture, err := gocv.OpenVideoCapture(cfg.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("open capture device %d: %w", cfg.DeviceID, err)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))

	return &Webcam{
		capture: capture,
		frame:   gocv.NewMat(),
		quality: cfg.Quality,
	}, nil
}

// CaptureJPEG grabs one frame and returns it JPEG-encoded.
func (w *Webcam) CaptureJPEG() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.capture.Read(&w.frame) {
		return nil, fmt.Errorf("capture device closed")
	}
	if w.frame.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, w.frame,
		[]int{gocv.IMWriteJpegQuality, w.quality})
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	// The native buffer is freed on Close; hand back a copy.
	return append([]byte(nil), buf.GetBytes()...), nil
}

// Close releases the capture device.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.frame.Close()
	return w.capture.Close()
}
