package interview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/crackgpt/backend/internal/model/interview"
	posturemodel "github.com/crackgpt/backend/internal/model/posture"
)

type fakeQuestions struct {
	questions []interview.Question
	skills    []string
	err       error
}

func (f *fakeQuestions) GenerateQuestions(_ context.Context, _ interview.JobDetails, _ int, _ string) ([]interview.Question, []string, error) {
	return f.questions, f.skills, f.err
}

type fakeTranscriber struct {
	text    string
	fillers int
	err     error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ []byte) (string, int, error) {
	return f.text, f.fillers, f.err
}

func TestCreateSessionAttachesSkills(t *testing.T) {
	gen := &fakeQuestions{
		questions: mainQuestions("Q1", "Q2"),
		skills:    []string{"Go", "SQL"},
	}
	svc := NewService(gen, nil, nil, nil)

	session, err := svc.CreateSession(context.Background(), interview.JobDetails{Title: "Backend Engineer"}, 2, "")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}
	if len(session.Job.Skills) != 2 {
		t.Fatalf("expected extracted skills on job, got %v", session.Job.Skills)
	}

	got, err := svc.GetSession(context.Background(), session.ID)
	if err != nil || got.ID != session.ID {
		t.Fatalf("expected to retrieve created session, got %v err=%v", got, err)
	}
}

func TestCreateSessionGenerationFailure(t *testing.T) {
	gen := &fakeQuestions{err: interview.ErrGeneration}
	svc := NewService(gen, nil, nil, nil)

	if _, err := svc.CreateSession(context.Background(), interview.JobDetails{}, 3, ""); !errors.Is(err, interview.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}

func TestCreateSessionWithoutGenerator(t *testing.T) {
	svc := NewService(nil, nil, nil, nil)
	if _, err := svc.CreateSession(context.Background(), interview.JobDetails{}, 3, ""); err == nil {
		t.Fatal("expected error when generator is not configured")
	}
}

func TestGetSessionNotFound(t *testing.T) {
	svc := NewService(nil, nil, nil, nil)
	if _, err := svc.GetSession(context.Background(), "missing"); !errors.Is(err, interview.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRecordAnswerTranscribes(t *testing.T) {
	svc := NewService(nil, nil, &fakeTranscriber{text: "my answer", fillers: 2}, nil)
	session, err := svc.CreateSessionFromQuestions(context.Background(), interview.JobDetails{}, mainQuestions("Q1", "Q2"))
	if err != nil {
		t.Fatalf("CreateSessionFromQuestions err: %v", err)
	}

	_, state, err := svc.RecordAnswer(context.Background(), session.ID, []byte("audio"))
	if err != nil {
		t.Fatalf("RecordAnswer err: %v", err)
	}
	if state != StateAwaitingAnswer {
		t.Fatalf("expected awaiting_answer, got %s", state)
	}

	rec := session.Sequencer().Answers().At(0)
	if rec.Transcription != "my answer" || rec.FillerWords != 2 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestRecordAnswerTranscriptionFailureStillAdvances(t *testing.T) {
	svc := NewService(nil, nil, &fakeTranscriber{err: errors.New("whisper down")}, nil)
	session, _ := svc.CreateSessionFromQuestions(context.Background(), interview.JobDetails{}, mainQuestions("Q1"))

	_, state, err := svc.RecordAnswer(context.Background(), session.ID, []byte("audio"))
	if err != nil {
		t.Fatalf("RecordAnswer err: %v", err)
	}
	if state != StateFinished {
		t.Fatalf("expected finished, got %s", state)
	}

	rec := session.Sequencer().Answers().At(0)
	if !strings.HasPrefix(rec.Transcription, "Error transcribing:") {
		t.Fatalf("expected error marker transcription, got %q", rec.Transcription)
	}
	if rec.FillerWords != 0 {
		t.Fatalf("expected zero fillers on failure, got %d", rec.FillerWords)
	}
}

func TestRecordAnswerDrainsPostureCapture(t *testing.T) {
	svc := NewService(nil, nil, &fakeTranscriber{text: "ok"}, nil)
	session, _ := svc.CreateSessionFromQuestions(context.Background(), interview.JobDetails{}, mainQuestions("Q1"))

	score := 8.0
	session.Capture().Record(posturemodel.Sample{PostureScore: &score})

	if _, _, err := svc.RecordAnswer(context.Background(), session.ID, []byte("audio")); err != nil {
		t.Fatalf("RecordAnswer err: %v", err)
	}

	if session.Capture().Len() != 0 {
		t.Fatalf("expected capture buffer drained, got %d", session.Capture().Len())
	}
	if got := session.PostureSamples(); len(got) != 1 {
		t.Fatalf("expected 1 permanent sample, got %d", len(got))
	}
}

func TestScoreSessionResolvesAllRecords(t *testing.T) {
	svc := NewService(nil, nil, &fakeTranscriber{text: "ok"}, &fakeScorer{})
	session, _ := svc.CreateSessionFromQuestions(context.Background(), interview.JobDetails{}, mainQuestions("Q1", "Q2"))

	svc.RecordAnswer(context.Background(), session.ID, []byte("a"))
	svc.RecordAnswer(context.Background(), session.ID, []byte("b"))

	if _, err := svc.ScoreSession(context.Background(), session.ID, nil); err != nil {
		t.Fatalf("ScoreSession err: %v", err)
	}
	for i, rec := range session.Sequencer().Answers().Records() {
		if rec.Feedback == nil {
			t.Fatalf("record %d left unscored", i)
		}
	}
}

func TestDeleteSession(t *testing.T) {
	svc := NewService(nil, nil, nil, nil)
	session, _ := svc.CreateSessionFromQuestions(context.Background(), interview.JobDetails{}, mainQuestions("Q1"))

	svc.DeleteSession(context.Background(), session.ID)
	if _, err := svc.GetSession(context.Background(), session.ID); !errors.Is(err, interview.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
}
