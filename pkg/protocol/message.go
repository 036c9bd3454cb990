// Package protocol defines the WebSocket message types sent to renderer
// clients. A renderer subscribes to the projection stream and rebuilds its
// camera from each update; frames with no detection or degenerate geometry
// produce no message, and the renderer keeps its previous projection.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/holoview/go-window/pkg/calibration"
	"github.com/holoview/go-window/pkg/headpose"
	"github.com/holoview/go-window/pkg/projection"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Server → renderer messages
	TypePose        MessageType = "pose"        // Stabilized head pose
	TypeProjection  MessageType = "projection"  // Frustum + camera placement
	TypeCalibration MessageType = "calibration" // Calibration changed
	TypeStatus      MessageType = "status"      // Pipeline status

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	return &msg, nil
}

// PosePayload carries one stabilized head pose.
type PosePayload struct {
	Session string         `json:"session"`
	Pose    headpose.Sample `json:"pose"`
	// Misses is the number of consecutive frames without a detection;
	// nonzero means the pose is a held last-known-good value.
	Misses int `json:"misses"`
}

// ProjectionPayload carries everything a renderer needs for one frame.
type ProjectionPayload struct {
	Session string                     `json:"session"`
	Eye     projection.HeadPosition    `json:"eye"`
	Frustum projection.Frustum         `json:"frustum"`
	Camera  projection.CameraPlacement `json:"camera"`
}

// CalibrationPayload announces a calibration change.
type CalibrationPayload struct {
	Calibration calibration.Data `json:"calibration"`
}

// StatusPayload reports pipeline health.
type StatusPayload struct {
	Session    string `json:"session"`
	Running    bool   `json:"running"`
	Calibrated bool   `json:"calibrated"`
	Frames     uint64 `json:"frames"`
	Detections uint64 `json:"detections"`
	Misses     int    `json:"misses"`
	HasFrustum bool   `json:"has_frustum"`
}
