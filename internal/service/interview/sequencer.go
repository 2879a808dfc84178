package interview

import (
	"context"
	"log"

	"github.com/crackgpt/backend/internal/model/interview"
)

// State is the sequencer's position in the interview protocol.
type State string

const (
	// StateAwaitingAnswer means a question is posed and unanswered.
	StateAwaitingAnswer State = "awaiting_answer"
	// StateGenerating is the transient phase while follow-ups are
	// requested from the generator; it never survives SubmitAnswer.
	StateGenerating State = "generating_followups"
	// StateFinished is terminal; a new session is required to restart.
	StateFinished State = "finished"
)

// FollowupGenerator produces 0-2 probing questions for a just-answered
// main question. How many is the generator's choice. Implementations
// guarantee a safe fallback (empty list or a single generic question)
// rather than propagating upstream failures.
type FollowupGenerator interface {
	FollowUps(ctx context.Context, originalQuestion, answerText string) ([]string, error)
}

const maxFollowupsPerMain = 2

// Sequencer decides, after each captured answer, what to ask next: a
// queued follow-up, a freshly generated follow-up, or the next main
// question. It owns the follow-up queue and the answer store and is not
// reentrant; callers must finish one SubmitAnswer before the next.
type Sequencer struct {
	main      []interview.Question
	mainIndex int
	current   interview.Question
	pending   []string
	answers   *interview.AnswerStore
	followups FollowupGenerator
	state     State
}

// NewSequencer starts a session over the given main questions. It fails
// with ErrEmptyQuestionSet when the input sequence is empty, before any
// state is created.
func NewSequencer(mainQuestions []interview.Question, followups FollowupGenerator) (*Sequencer, error) {
	if len(mainQuestions) == 0 {
		return nil, interview.ErrEmptyQuestionSet
	}

	main := make([]interview.Question, len(mainQuestions))
	copy(main, mainQuestions)
	for i := range main {
		main[i].Kind = interview.KindMain
		main[i].SourceIndex = i
	}

	return &Sequencer{
		main:      main,
		current:   main[0],
		answers:   interview.NewAnswerStore(),
		followups: followups,
		state:     StateAwaitingAnswer,
	}, nil
}

// State returns the current protocol state.
func (s *Sequencer) State() State {
	return s.state
}

// Current returns the question awaiting an answer. ok is false once the
// session has finished.
func (s *Sequencer) Current() (interview.Question, bool) {
	if s.state == StateFinished {
		return interview.Question{}, false
	}
	return s.current, true
}

// MainIndex reports how many main questions have been fully dealt with.
// It grows monotonically from 0 to len(MainQuestions).
func (s *Sequencer) MainIndex() int {
	return s.mainIndex
}

// MainQuestionCount reports the size of the fixed question backbone.
func (s *Sequencer) MainQuestionCount() int {
	return len(s.main)
}

// Answers exposes the session's answer record store.
func (s *Sequencer) Answers() *interview.AnswerStore {
	return s.answers
}

// PendingFollowups reports how many queued follow-ups remain unasked.
func (s *Sequencer) PendingFollowups() int {
	return len(s.pending)
}

// SubmitAnswer records the captured answer for the current question and
// advances the state machine. Follow-ups are generated at most once per
// main question, immediately after that question's own answer; a
// partially consumed batch is never regenerated or reordered. A failing
// generator is treated as an empty batch so the session always moves to
// either the next question or StateFinished.
func (s *Sequencer) SubmitAnswer(ctx context.Context, transcription string, fillerCount int, rawAudio []byte) (State, error) {
	if s.state == StateFinished {
		return s.state, interview.ErrInterviewFinished
	}

	answered := s.current
	s.answers.Append(&interview.AnswerRecord{
		Question:      answered,
		Transcription: transcription,
		FillerWords:   fillerCount,
		RawAudio:      rawAudio,
	})

	// An active follow-up chain takes priority over generating new ones.
	if len(s.pending) > 0 {
		s.popFollowup(answered.SourceIndex)
		return s.state, nil
	}

	if answered.Kind == interview.KindMain && s.followups != nil {
		s.state = StateGenerating
		batch, err := s.followups.FollowUps(ctx, answered.Text, transcription)
		if err != nil {
			// Contract violation; degrade to zero follow-ups rather
			// than stalling the session.
			log.Printf("[sequencer] follow-up generation failed: %v", err)
			batch = nil
		}
		if len(batch) > maxFollowupsPerMain {
			batch = batch[:maxFollowupsPerMain]
		}
		if len(batch) > 0 {
			s.pending = append(s.pending, batch...)
			s.popFollowup(answered.SourceIndex)
			return s.state, nil
		}
		s.state = StateAwaitingAnswer
	}

	s.advanceMain()
	return s.state, nil
}

// popFollowup moves the front queued follow-up into the current slot.
func (s *Sequencer) popFollowup(sourceIndex int) {
	next := s.pending[0]
	s.pending = s.pending[1:]
	s.current = interview.Question{
		Text:        next,
		Kind:        interview.KindFollowUp,
		SourceIndex: sourceIndex,
	}
	s.state = StateAwaitingAnswer
}

func (s *Sequencer) advanceMain() {
	s.mainIndex++
	if s.mainIndex == len(s.main) {
		s.current = interview.Question{}
		s.state = StateFinished
		return
	}
	s.current = s.main[s.mainIndex]
	s.state = StateAwaitingAnswer
}
