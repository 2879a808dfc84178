package interview

// Kind distinguishes backbone questions from generated probes.
type Kind string

const (
	// KindMain marks one of the fixed questions generated at session setup.
	KindMain Kind = "main"
	// KindFollowUp marks an ephemeral probe tied to the latest main answer.
	KindFollowUp Kind = "follow-up"
)

// Question is a single prompt put to the candidate.
type Question struct {
	Text string `json:"question"`
	Kind Kind   `json:"type"`
	// SourceIndex is the index of the main question a follow-up probes.
	// For main questions it is the question's own position.
	SourceIndex int `json:"sourceIndex,omitempty"`
	// Category is the generator's free-form topic label, e.g. "technical".
	Category string `json:"category,omitempty"`
}

// IsFollowUp reports whether the question was generated mid-interview.
func (q Question) IsFollowUp() bool {
	return q.Kind == KindFollowUp
}

// JobDetails describes the role the session interviews for.
type JobDetails struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Difficulty  string   `json:"difficulty"`
	Skills      []string `json:"skills,omitempty"`
}
