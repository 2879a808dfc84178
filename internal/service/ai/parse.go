package ai

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/crackgpt/backend/internal/model/interview"
)

// stripCodeFences removes markdown code fences the models wrap JSON in.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// parseSkills accepts {"skills": [...]} or a bare string array.
func parseSkills(raw string) ([]string, error) {
	cleaned := stripCodeFences(raw)

	var wrapped struct {
		Skills []string `json:"skills"`
	}
	if err := json.Unmarshal([]byte(cleaned), &wrapped); err == nil && wrapped.Skills != nil {
		return wrapped.Skills, nil
	}

	var bare []string
	if err := json.Unmarshal([]byte(cleaned), &bare); err == nil {
		return bare, nil
	}

	return nil, fmt.Errorf("unparseable skills payload: %.120s", cleaned)
}

// parseQuestions decodes the generated question array. A payload that is
// not a valid question list is a hard error; the caller surfaces it
// instead of inventing questions.
func parseQuestions(raw string) ([]interview.Question, error) {
	cleaned := stripCodeFences(raw)

	var items []struct {
		Question string `json:"question"`
		Type     string `json:"type"`
	}
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, fmt.Errorf("unparseable question payload: %w", err)
	}

	questions := make([]interview.Question, 0, len(items))
	for _, item := range items {
		text := strings.TrimSpace(item.Question)
		if text == "" {
			continue
		}
		questions = append(questions, interview.Question{
			Text:     text,
			Kind:     interview.KindMain,
			Category: strings.TrimSpace(item.Type),
		})
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("question payload contained no questions")
	}
	return questions, nil
}

// splitFollowups breaks the newline-separated reply into at most limit
// trimmed question strings.
func splitFollowups(raw string, limit int) []string {
	out := make([]string, 0, limit)
	for _, line := range strings.Split(stripCodeFences(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == limit {
			break
		}
	}
	return out
}

const defaultSuggestedAnswer = "No suggestion available."

// parseFeedback decodes the scorer's JSON verdict, coercing scores to
// integers and leaving them nil when the model produced something else.
func parseFeedback(raw string) (*interview.FeedbackResult, error) {
	cleaned := stripCodeFences(raw)

	var payload map[string]any
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("unparseable feedback payload: %w", err)
	}

	fb := &interview.FeedbackResult{
		TechnicalScore:     coerceScore(payload["technical_score"]),
		ConfidenceScore:    coerceScore(payload["confidence_score"]),
		CommunicationScore: coerceScore(payload["communication_score"]),
		Positives:          coerceStrings(payload["positives"]),
		Improvements:       coerceStrings(payload["improvements"]),
		SuggestedAnswer:    defaultSuggestedAnswer,
	}

	if s, ok := payload["suggested_answer"].(string); ok && strings.TrimSpace(s) != "" {
		fb.SuggestedAnswer = s
	}

	return fb, nil
}

func coerceScore(v any) *int {
	switch val := v.(type) {
	case float64:
		n := int(val)
		return &n
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return &n
		}
	}
	return nil
}

func coerceStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
