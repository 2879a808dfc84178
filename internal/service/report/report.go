package report

import (
	"fmt"
	"strings"
	"time"

	analysis "github.com/crackgpt/backend/internal/analysis/posture"
	"github.com/crackgpt/backend/internal/model/interview"
	posturemodel "github.com/crackgpt/backend/internal/model/posture"
)

// Report is the final artifact handed to the document renderer: every
// answered question with its feedback, plus the body-language summary.
type Report struct {
	JobTitle    string          `json:"jobTitle"`
	Difficulty  string          `json:"difficulty"`
	GeneratedAt time.Time       `json:"generatedAt"`
	Posture     *PostureSection `json:"posture,omitempty"`
	Answers     []AnswerSection `json:"answers"`
}

// PostureSection aggregates the recorded body-language samples.
type PostureSection struct {
	SampleCount     int      `json:"sampleCount"`
	AvgPostureScore float64  `json:"avgPostureScore"`
	AvgHairScore    float64  `json:"avgHairScore"`
	AvgAbsTiltDeg   float64  `json:"avgAbsTiltDeg"`
	Summary         string   `json:"summary"`
	Positives       []string `json:"positives,omitempty"`
	Improvements    []string `json:"improvements,omitempty"`
}

// AnswerSection is one Q&A entry. Number is the main-question counter;
// follow-ups carry the number of the main question they probed.
type AnswerSection struct {
	Number        int                       `json:"number"`
	FollowUp      bool                      `json:"followUp"`
	Question      string                    `json:"question"`
	Transcription string                    `json:"transcription"`
	FillerWords   int                       `json:"fillerCount"`
	Feedback      *interview.FeedbackResult `json:"feedback,omitempty"`
}

// Build assembles the report value from the session's stores.
func Build(job interview.JobDetails, answers []*interview.AnswerRecord, samples []posturemodel.Sample) Report {
	rpt := Report{
		JobTitle:    job.Title,
		Difficulty:  job.Difficulty,
		GeneratedAt: time.Now().UTC(),
		Answers:     make([]AnswerSection, 0, len(answers)),
	}

	if len(samples) > 0 {
		section := &PostureSection{
			SampleCount:     len(samples),
			AvgPostureScore: posturemodel.MeanPostureScore(samples),
			AvgHairScore:    posturemodel.MeanHairScore(samples),
			AvgAbsTiltDeg:   posturemodel.MeanAbsTilt(samples),
		}
		if fb := analysis.Feedback(samples); fb != nil {
			section.Summary = fb.Summary
			section.Positives = fb.Positives
			section.Improvements = fb.Improvements
		}
		rpt.Posture = section
	}

	mainCounter := 0
	for _, rec := range answers {
		if !rec.Question.IsFollowUp() {
			mainCounter++
		}
		rpt.Answers = append(rpt.Answers, AnswerSection{
			Number:        mainCounter,
			FollowUp:      rec.Question.IsFollowUp(),
			Question:      rec.Question.Text,
			Transcription: rec.Transcription,
			FillerWords:   rec.FillerWords,
			Feedback:      rec.Feedback,
		})
	}

	return rpt
}

// RenderText renders the report as a plain-text document for download.
func RenderText(rpt Report) string {
	var b strings.Builder

	b.WriteString("CrackGPT Interview Report\n")
	b.WriteString("=========================\n\n")
	fmt.Fprintf(&b, "Job Title: %s\n", orNA(rpt.JobTitle))
	fmt.Fprintf(&b, "Difficulty: %s\n\n", orNA(rpt.Difficulty))

	if rpt.Posture != nil {
		b.WriteString("Body Language Analysis\n")
		b.WriteString("----------------------\n")
		fmt.Fprintf(&b, "Avg. Posture Score: %.1f / 10\n", rpt.Posture.AvgPostureScore)
		fmt.Fprintf(&b, "Avg. Hair Neatness: %.1f / 10\n", rpt.Posture.AvgHairScore)
		fmt.Fprintf(&b, "Summary: %s\n", rpt.Posture.Summary)
		writeBullets(&b, "What you did well:", rpt.Posture.Positives)
		writeBullets(&b, "Areas for improvement:", rpt.Posture.Improvements)
		b.WriteString("\n")
	}

	b.WriteString("Verbal Answer Analysis\n")
	b.WriteString("----------------------\n")
	for _, ans := range rpt.Answers {
		b.WriteString("\n")
		if ans.FollowUp {
			fmt.Fprintf(&b, "Follow-up to Q%d: %s\n", ans.Number, ans.Question)
		} else {
			fmt.Fprintf(&b, "Question %d: %s\n", ans.Number, ans.Question)
		}
		fmt.Fprintf(&b, "Your Answer: %s\n", ans.Transcription)

		fb := ans.Feedback
		if fb == nil {
			continue
		}
		if fb.Failed() {
			fmt.Fprintf(&b, "Feedback unavailable: %s\n", fb.Error)
			continue
		}

		b.WriteString("Metrics:\n")
		writeScore(&b, "Technical", fb.TechnicalScore)
		writeScore(&b, "Confidence", fb.ConfidenceScore)
		writeScore(&b, "Communication", fb.CommunicationScore)
		fmt.Fprintf(&b, " - Filler Words Detected: %d\n", ans.FillerWords)
		writeBullets(&b, "What you did well:", fb.Positives)
		writeBullets(&b, "Improvements:", fb.Improvements)
		if fb.SuggestedAnswer != "" {
			fmt.Fprintf(&b, "Suggested improved answer:\n%s\n", fb.SuggestedAnswer)
		}
	}

	return b.String()
}

func writeScore(b *strings.Builder, label string, score *int) {
	if score == nil {
		return
	}
	fmt.Fprintf(b, " - %s: %d/10\n", label, *score)
}

func writeBullets(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(heading + "\n")
	for _, item := range items {
		fmt.Fprintf(b, " - %s\n", item)
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
