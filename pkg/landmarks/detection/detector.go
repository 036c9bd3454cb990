// Package detection provides the face detection boundary. The detector
// is a black box producing faces with landmark sets; this package never
// interprets them beyond parsing the model output.
package detection

import "github.com/holoview/go-window/pkg/landmarks"

// Detector is the interface for face detection backends
type Detector interface {
	// Detect finds faces in the JPEG image and returns their positions
	// and landmark sets
	Detect(jpeg []byte) ([]landmarks.Face, error)

	// Close releases resources
	Close() error
}

// Config holds detector configuration
type Config struct {
	ModelPath        string  // Path to ONNX model
	ConfidenceThresh float64 // Minimum confidence (default 0.5)
	InputWidth       int     // Model input width
	InputHeight      int     // Model input height
}

// DefaultConfig returns production defaults for YuNet
func DefaultConfig() Config {
	return Config{
		ModelPath:        "models/face_detection_yunet.onnx",
		ConfidenceThresh: 0.5,
		InputWidth:       320,
		InputHeight:      320,
	}
}
