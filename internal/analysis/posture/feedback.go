package posture

import posturemodel "github.com/crackgpt/backend/internal/model/posture"

// FeedbackText is human-readable commentary on the recorded body
// language, derived from session-wide averages.
type FeedbackText struct {
	Summary      string   `json:"summary"`
	Positives    []string `json:"positives,omitempty"`
	Improvements []string `json:"improvements,omitempty"`
}

const tiltAdviceThresholdDeg = 12.0

// Feedback summarizes the full recorded sample set. It returns nil when
// nothing was recorded.
func Feedback(samples []posturemodel.Sample) *FeedbackText {
	if len(samples) == 0 {
		return nil
	}

	avgScore := posturemodel.MeanPostureScore(samples)
	avgAbsTilt := posturemodel.MeanAbsTilt(samples)

	fb := &FeedbackText{}
	switch {
	case avgScore >= 7.5:
		fb.Summary = "Excellent! Your posture was consistently strong and projected confidence."
		fb.Positives = append(fb.Positives, "You maintained an upright and engaged posture throughout the interview.")
	case avgScore >= 5:
		fb.Summary = "Your posture was generally good, with a solid foundation."
		fb.Positives = append(fb.Positives, "You mostly sat upright, which helps in appearing attentive.")
	default:
		fb.Summary = "There's room for improvement in your posture to better convey confidence."
		fb.Improvements = append(fb.Improvements, "Focus on sitting up straight, pulling your shoulders back, and avoiding slouching.")
	}

	if avgAbsTilt > tiltAdviceThresholdDeg {
		fb.Improvements = append(fb.Improvements, "Try to keep your head level and centered. A consistent tilt can sometimes be interpreted as disinterest.")
	}

	return fb
}
