package posture

// Sample is one frame-level body-language measurement produced by the
// video capture path. Samples are append-only and not aligned with
// question boundaries.
type Sample struct {
	// PostureScore is in [1,10]; nil when no pose was detected.
	PostureScore *float64 `json:"postureScore"`
	// HeadTiltDeg is the signed head tilt derived from the eye line.
	HeadTiltDeg float64 `json:"headTiltDeg"`
	// ShoulderDiffPx is the vertical shoulder offset; nil without a pose.
	ShoulderDiffPx *float64 `json:"shoulderDiffPx,omitempty"`
	// HairScore is a neatness heuristic in [1,10]; nil without a face.
	HairScore *float64 `json:"hairScore"`
}

// MeanPostureScore averages the non-nil posture scores; empty input is 0.
func MeanPostureScore(samples []Sample) float64 {
	sum, n := 0.0, 0
	for _, s := range samples {
		if s.PostureScore != nil {
			sum += *s.PostureScore
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// MeanHairScore averages the non-nil hair scores; empty input is 0.
func MeanHairScore(samples []Sample) float64 {
	sum, n := 0.0, 0
	for _, s := range samples {
		if s.HairScore != nil {
			sum += *s.HairScore
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// MeanAbsTilt averages |HeadTiltDeg| over all samples; empty input is 0.
func MeanAbsTilt(samples []Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		tilt := s.HeadTiltDeg
		if tilt < 0 {
			tilt = -tilt
		}
		sum += tilt
	}
	return sum / float64(len(samples))
}
