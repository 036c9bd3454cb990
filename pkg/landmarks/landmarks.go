// Package landmarks reduces facial landmark detections to the three
// scalars the pose filter consumes: normalized face-center x/y and a
// depth proxy derived from inter-ocular distance.
package landmarks

// Point is a normalized image-space coordinate (0-1, origin top-left).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Indices into the five-point landmark set produced by YuNet.
const (
	RightEye = iota
	LeftEye
	NoseTip
	MouthRight
	MouthLeft
	NumPoints
)

// Face is a detected face: a normalized bounding box, the five-point
// landmark set, and the detector's confidence score.
type Face struct {
	X, Y       float64 // Top-left corner (0-1 normalized)
	W, H       float64 // Width and height (0-1 normalized)
	Points     [NumPoints]Point
	Confidence float64 // Detection confidence (0-1)
}

// Center returns the center point of the bounding box
func (f Face) Center() (x, y float64) {
	return f.X + f.W/2, f.Y + f.H/2
}

// Area returns the area of the bounding box
func (f Face) Area() float64 {
	return f.W * f.H
}

// SelectBest picks the best face from multiple detections.
// Priority: confidence * 0.7 + area * 0.3
func SelectBest(faces []Face) *Face {
	if len(faces) == 0 {
		return nil
	}

	if len(faces) == 1 {
		return &faces[0]
	}

	// Find max area for normalization
	maxArea := 0.0
	for _, f := range faces {
		if f.Area() > maxArea {
			maxArea = f.Area()
		}
	}

	bestScore := -1.0
	var best *Face

	for i := range faces {
		score := faces[i].Confidence*0.7 + (faces[i].Area()/maxArea)*0.3
		if score > bestScore {
			bestScore = score
			best = &faces[i]
		}
	}

	return best
}
