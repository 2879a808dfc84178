package interview

import "errors"

var (
	// ErrEmptyQuestionSet rejects starting a session with zero questions.
	ErrEmptyQuestionSet = errors.New("interview: question set is empty")
	// ErrSessionNotFound reports an unknown session identifier.
	ErrSessionNotFound = errors.New("interview: session not found")
	// ErrInterviewFinished rejects transitions after the terminal state.
	ErrInterviewFinished = errors.New("interview: session already finished")
	// ErrGeneration wraps malformed or unreachable question generation.
	ErrGeneration = errors.New("interview: question generation failed")
	// ErrTranscription wraps audio that could not be converted to text.
	ErrTranscription = errors.New("interview: transcription failed")
	// ErrScoring wraps per-answer feedback generation failures.
	ErrScoring = errors.New("interview: answer scoring failed")
)
