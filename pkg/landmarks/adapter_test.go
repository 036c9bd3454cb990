package landmarks

import (
	"math"
	"testing"
)

const floatTolerance = 1e-9

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func faceWithEyes(rx, ry, lx, ly float64) *Face {
	f := &Face{X: 0.3, Y: 0.3, W: 0.4, H: 0.4, Confidence: 0.9}
	f.Points[RightEye] = Point{X: rx, Y: ry}
	f.Points[LeftEye] = Point{X: lx, Y: ly}
	return f
}

func TestAdapter_NilFace(t *testing.T) {
	if s := NewAdapter().ToSample(nil); s != nil {
		t.Errorf("nil face produced sample %+v", s)
	}
}

func TestAdapter_EyeMidpointAndSpan(t *testing.T) {
	a := NewAdapter()
	s := a.ToSample(faceWithEyes(0.45, 0.40, 0.55, 0.40))
	if s == nil {
		t.Fatal("no sample produced")
	}

	if !floatEquals(s.X, 0.5) || !floatEquals(s.Y, 0.40) {
		t.Errorf("midpoint = (%v, %v), want (0.5, 0.40)", s.X, s.Y)
	}
	// span 0.10 over reference 0.10
	if !floatEquals(s.Z, 1.0) {
		t.Errorf("depth proxy = %v, want 1.0", s.Z)
	}
}

func TestAdapter_CloserFaceLargerProxy(t *testing.T) {
	a := NewAdapter()

	far := a.ToSample(faceWithEyes(0.47, 0.5, 0.53, 0.5))
	near := a.ToSample(faceWithEyes(0.40, 0.5, 0.60, 0.5))

	if near.Z <= far.Z {
		t.Errorf("wider eye span should give larger proxy: %v <= %v", near.Z, far.Z)
	}
}

func TestAdapter_DegenerateLandmarksFallBackToBBox(t *testing.T) {
	a := NewAdapter()
	f := faceWithEyes(0.5, 0.5, 0.5, 0.5) // collapsed eyes

	s := a.ToSample(f)
	if s == nil {
		t.Fatal("no sample produced")
	}

	cx, cy := f.Center()
	if !floatEquals(s.X, cx) || !floatEquals(s.Y, cy) {
		t.Errorf("fallback center = (%v, %v), want bbox center (%v, %v)", s.X, s.Y, cx, cy)
	}
	// 0.4 width * 0.4 span ratio / 0.10 reference
	if !floatEquals(s.Z, 1.6) {
		t.Errorf("fallback proxy = %v, want 1.6", s.Z)
	}
}

func TestSelectBest(t *testing.T) {
	tests := []struct {
		name  string
		faces []Face
		want  int // index of expected face, -1 for nil
	}{
		{"empty", nil, -1},
		{"single", []Face{{W: 0.1, H: 0.1, Confidence: 0.5}}, 0},
		{
			"higher confidence wins",
			[]Face{
				{W: 0.2, H: 0.2, Confidence: 0.6},
				{W: 0.2, H: 0.2, Confidence: 0.9},
			},
			1,
		},
		{
			"area breaks near-ties",
			[]Face{
				{W: 0.4, H: 0.4, Confidence: 0.8},
				{W: 0.1, H: 0.1, Confidence: 0.8},
			},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectBest(tt.faces)
			if tt.want == -1 {
				if got != nil {
					t.Errorf("SelectBest = %+v, want nil", got)
				}
				return
			}
			if got != &tt.faces[tt.want] {
				t.Errorf("SelectBest picked %+v, want index %d", got, tt.want)
			}
		})
	}
}
