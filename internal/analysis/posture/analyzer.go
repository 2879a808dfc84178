package posture

import (
	"math"

	posturemodel "github.com/crackgpt/backend/internal/model/posture"
)

// Landmark is a detector keypoint in normalized image coordinates.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Frame carries the per-frame detector output the capture path sends for
// analysis: pose landmarks when a body was found, plus an optional edge
// density measured over the hair region above the face box.
type Frame struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	LeftShoulder  *Landmark `json:"leftShoulder,omitempty"`
	RightShoulder *Landmark `json:"rightShoulder,omitempty"`
	Nose          *Landmark `json:"nose,omitempty"`
	LeftEye       *Landmark `json:"leftEye,omitempty"`
	RightEye      *Landmark `json:"rightEye,omitempty"`

	HairEdgeDensity *float64 `json:"hairEdgeDensity,omitempty"`
}

func (f Frame) hasPose() bool {
	return f.LeftShoulder != nil && f.RightShoulder != nil && f.Nose != nil &&
		f.LeftEye != nil && f.RightEye != nil
}

// Analyze scores a single frame. Without pose landmarks the posture score
// stays at the neutral 5.0 default; without hair data the hair score is
// nil so it never drags the session mean.
func Analyze(f Frame) posturemodel.Sample {
	sample := posturemodel.Sample{}

	score := 5.0
	if f.hasPose() {
		lShY := f.LeftShoulder.Y * f.Height
		rShY := f.RightShoulder.Y * f.Height
		shoulderDiff := math.Abs(lShY - rShY)
		sample.ShoulderDiffPx = &shoulderDiff

		eyeDX := (f.LeftEye.X - f.RightEye.X) * f.Width
		eyeDY := (f.LeftEye.Y - f.RightEye.Y) * f.Height
		if eyeDX != 0 {
			sample.HeadTiltDeg = math.Atan2(eyeDY, eyeDX) * 180 / math.Pi
		}

		shoulderOK := shoulderDiff < 0.05*f.Height
		upright := f.Nose.Y*f.Height < (lShY+rShY)/2

		switch {
		case shoulderOK && upright:
			score = 8.0
		case shoulderOK || upright:
			score = 5.0
		default:
			score = 3.0
		}
	}
	sample.PostureScore = &score

	if f.HairEdgeDensity != nil {
		hair := clamp(10-(*f.HairEdgeDensity*0.5), 1, 10)
		sample.HairScore = &hair
	}

	return sample
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
