// Package config provides configuration helpers for go-window commands.
package config

import (
	"os"
	"strconv"
)

// Defaults for the window server.
const (
	DefaultAddr            = ":8080"
	DefaultCameraDevice    = 0
	DefaultModelPath       = "models/face_detection_yunet.onnx"
	DefaultCalibrationPath = "calibration.json"
)

// Addr returns the listen address from WINDOW_ADDR.
// Falls back to DefaultAddr if not set.
func Addr() string {
	if addr := os.Getenv("WINDOW_ADDR"); addr != "" {
		return addr
	}
	return DefaultAddr
}

// CameraDevice returns the capture device ID from WINDOW_DEVICE.
// Falls back to DefaultCameraDevice if not set or not numeric.
func CameraDevice() int {
	if dev := os.Getenv("WINDOW_DEVICE"); dev != "" {
		if id, err := strconv.Atoi(dev); err == nil {
			return id
		}
	}
	return DefaultCameraDevice
}

// ModelPath returns the face detection model path from WINDOW_MODEL.
func ModelPath() string {
	if path := os.Getenv("WINDOW_MODEL"); path != "" {
		return path
	}
	return DefaultModelPath
}

// CalibrationPath returns the calibration file path from WINDOW_CALIBRATION.
func CalibrationPath() string {
	if path := os.Getenv("WINDOW_CALIBRATION"); path != "" {
		return path
	}
	return DefaultCalibrationPath
}

// LogFormat returns the log output format from WINDOW_LOG_FORMAT.
// Only "json" is recognized; everything else means "text".
func LogFormat() string {
	if os.Getenv("WINDOW_LOG_FORMAT") == "json" {
		return "json"
	}
	return "text"
}
