package interview

// FeedbackResult holds the scorer's structured verdict for one answer.
// Scores are nil when the model declined to produce an integer in [1,10].
type FeedbackResult struct {
	TechnicalScore     *int     `json:"technical_score"`
	ConfidenceScore    *int     `json:"confidence_score"`
	CommunicationScore *int     `json:"communication_score"`
	Positives          []string `json:"positives"`
	Improvements       []string `json:"improvements"`
	SuggestedAnswer    string   `json:"suggested_answer"`
	// Error is set instead of the fields above when scoring failed; the
	// record is still considered resolved.
	Error string `json:"error,omitempty"`
}

// Failed reports whether this feedback is an error placeholder.
func (f *FeedbackResult) Failed() bool {
	return f != nil && f.Error != ""
}

// AnswerRecord captures one answered question. Records are created once,
// appended in chronological order, and mutated in place only to attach
// feedback.
type AnswerRecord struct {
	Question      Question        `json:"question"`
	Transcription string          `json:"transcription"`
	FillerWords   int             `json:"fillerCount"`
	RawAudio      []byte          `json:"-"`
	Feedback      *FeedbackResult `json:"feedback,omitempty"`
}
