package interview

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/crackgpt/backend/internal/model/interview"
	posturemodel "github.com/crackgpt/backend/internal/model/posture"
	posturesvc "github.com/crackgpt/backend/internal/service/posture"
)

// QuestionGenerator produces the fixed question backbone for a new
// session from job details and optional resume text, along with the
// skills it extracted on the way.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, job interview.JobDetails, count int, resumeText string) ([]interview.Question, []string, error)
}

// Transcriber converts a recorded answer into text plus a filler-word
// count.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, int, error)
}

// Session owns one interview run from question generation through the
// finished state. All of its state is discarded with the session; only
// the final report outlives it.
type Session struct {
	ID        string
	Job       interview.JobDetails
	CreatedAt time.Time

	seq     *Sequencer
	capture *posturesvc.Aggregator

	// submitMu serializes answer submission: one in-flight recording at
	// a time, matching the single user-interaction thread of control.
	submitMu sync.Mutex

	postureMu  sync.Mutex
	postureLog []posturemodel.Sample
}

// Sequencer exposes the session's state machine.
func (s *Session) Sequencer() *Sequencer {
	return s.seq
}

// Capture exposes the aggregator the video capture path records into.
func (s *Session) Capture() *posturesvc.Aggregator {
	return s.capture
}

// DrainPosture moves buffered capture samples into the session's
// permanent sample log.
func (s *Session) DrainPosture() {
	drained := s.capture.Drain()
	if len(drained) == 0 {
		return
	}
	s.postureMu.Lock()
	s.postureLog = append(s.postureLog, drained...)
	s.postureMu.Unlock()
}

// PostureSamples returns the drained samples recorded so far.
func (s *Session) PostureSamples() []posturemodel.Sample {
	s.DrainPosture()
	s.postureMu.Lock()
	defer s.postureMu.Unlock()
	out := make([]posturemodel.Sample, len(s.postureLog))
	copy(out, s.postureLog)
	return out
}

// Service is the session registry. Collaborators may be nil when their
// credentials are not configured; operations that need them fail with a
// descriptive error instead.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	questions   QuestionGenerator
	followups   FollowupGenerator
	transcriber Transcriber
	scorer      Scorer
}

// NewService wires the registry to its collaborators.
func NewService(questions QuestionGenerator, followups FollowupGenerator, transcriber Transcriber, scorer Scorer) *Service {
	return &Service{
		sessions:    make(map[string]*Session),
		questions:   questions,
		followups:   followups,
		transcriber: transcriber,
		scorer:      scorer,
	}
}

// CreateSession generates the question backbone for the given job and
// starts a session over it. Generation failures surface to the caller
// before any session state exists.
func (s *Service) CreateSession(ctx context.Context, job interview.JobDetails, numQuestions int, resumeText string) (*Session, error) {
	if s.questions == nil {
		return nil, fmt.Errorf("question generation unavailable: ai collaborator not configured")
	}

	questions, skills, err := s.questions.GenerateQuestions(ctx, job, numQuestions, resumeText)
	if err != nil {
		return nil, err
	}
	job.Skills = skills

	return s.startSession(job, questions)
}

// CreateSessionFromQuestions starts a session over a caller-supplied,
// pre-built question list.
func (s *Service) CreateSessionFromQuestions(_ context.Context, job interview.JobDetails, questions []interview.Question) (*Session, error) {
	return s.startSession(job, questions)
}

func (s *Service) startSession(job interview.JobDetails, questions []interview.Question) (*Session, error) {
	seq, err := NewSequencer(questions, s.followups)
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:        uuid.NewString(),
		Job:       job,
		CreatedAt: time.Now().UTC(),
		seq:       seq,
		capture:   posturesvc.NewAggregator(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	log.Printf("[interview] session %s started with %d questions", session.ID, len(questions))
	return session, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, interview.ErrSessionNotFound
	}
	return session, nil
}

// RecordAnswer transcribes the captured audio and advances the session.
// A transcription failure never blocks progression: the answer is
// recorded with an error marker and a zero filler count, and the state
// machine proceeds through its normal transition.
func (s *Service) RecordAnswer(ctx context.Context, sessionID string, audio []byte) (*Session, State, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}

	session.submitMu.Lock()
	defer session.submitMu.Unlock()

	text, fillers := "", 0
	if s.transcriber == nil {
		text = "Error transcribing: transcriber not configured"
	} else {
		text, fillers, err = s.transcriber.Transcribe(ctx, audio)
		if err != nil {
			log.Printf("[interview] transcription failed for session %s: %v", sessionID, err)
			text, fillers = fmt.Sprintf("Error transcribing: %v", err), 0
		}
	}

	state, err := session.seq.SubmitAnswer(ctx, text, fillers, audio)
	if err != nil {
		return nil, state, err
	}

	session.DrainPosture()
	return session, state, nil
}

// ScoreSession runs the feedback batch over every recorded answer.
// Re-invocation skips records that already carry feedback.
func (s *Service) ScoreSession(ctx context.Context, sessionID string, progress Progress) (*Session, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.scorer == nil {
		return nil, fmt.Errorf("scoring unavailable: ai collaborator not configured")
	}

	if err := RunFeedback(ctx, session.seq.Answers(), s.scorer, progress); err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSession discards a session and all of its state.
func (s *Service) DeleteSession(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
