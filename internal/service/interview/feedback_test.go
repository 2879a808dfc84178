package interview

import (
	"context"
	"errors"
	"testing"

	"github.com/crackgpt/backend/internal/model/interview"
)

type fakeScorer struct {
	failOn map[string]error
	calls  []string
}

func (f *fakeScorer) Evaluate(_ context.Context, question, _ string, _ int) (*interview.FeedbackResult, error) {
	f.calls = append(f.calls, question)
	if err, ok := f.failOn[question]; ok {
		return nil, err
	}
	score := 7
	return &interview.FeedbackResult{TechnicalScore: &score}, nil
}

func storeWith(questions ...string) *interview.AnswerStore {
	store := interview.NewAnswerStore()
	for _, q := range questions {
		store.Append(&interview.AnswerRecord{
			Question:      interview.Question{Text: q, Kind: interview.KindMain},
			Transcription: "an answer",
		})
	}
	return store
}

func TestRunFeedbackScoresAllInOrder(t *testing.T) {
	store := storeWith("Q1", "Q2", "Q3")
	scorer := &fakeScorer{}

	var seen []int
	progress := func(done, total int, _ *interview.AnswerRecord) {
		if total != 3 {
			t.Fatalf("expected total 3, got %d", total)
		}
		seen = append(seen, done)
	}

	if err := RunFeedback(context.Background(), store, scorer, progress); err != nil {
		t.Fatalf("RunFeedback err: %v", err)
	}

	if len(scorer.calls) != 3 || scorer.calls[0] != "Q1" || scorer.calls[2] != "Q3" {
		t.Fatalf("expected in-order calls, got %v", scorer.calls)
	}
	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Fatalf("expected progress 1..3, got %v", seen)
	}
	for i, rec := range store.Records() {
		if rec.Feedback == nil || rec.Feedback.Failed() {
			t.Fatalf("record %d left unresolved: %+v", i, rec.Feedback)
		}
	}
}

func TestRunFeedbackContinuesPastErrors(t *testing.T) {
	store := storeWith("Q1", "Q2", "Q3")
	scorer := &fakeScorer{failOn: map[string]error{"Q2": errors.New("rate limited")}}

	if err := RunFeedback(context.Background(), store, scorer, nil); err != nil {
		t.Fatalf("RunFeedback err: %v", err)
	}

	records := store.Records()
	if records[1].Feedback == nil || !records[1].Feedback.Failed() {
		t.Fatalf("expected error feedback on Q2, got %+v", records[1].Feedback)
	}
	if records[2].Feedback == nil || records[2].Feedback.Failed() {
		t.Fatalf("expected Q3 scored despite Q2 failure, got %+v", records[2].Feedback)
	}
}

func TestRunFeedbackSkipsResolved(t *testing.T) {
	store := storeWith("Q1", "Q2")
	scorer := &fakeScorer{}

	if err := RunFeedback(context.Background(), store, scorer, nil); err != nil {
		t.Fatalf("first run err: %v", err)
	}
	if err := RunFeedback(context.Background(), store, scorer, nil); err != nil {
		t.Fatalf("second run err: %v", err)
	}

	if len(scorer.calls) != 2 {
		t.Fatalf("re-run must not re-score, got %d calls", len(scorer.calls))
	}
}

func TestRunFeedbackHonoursCancellation(t *testing.T) {
	store := storeWith("Q1", "Q2")
	scorer := &fakeScorer{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RunFeedback(ctx, store, scorer, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(scorer.calls) != 1 {
		t.Fatalf("expected exactly one evaluation before stopping, got %d", len(scorer.calls))
	}
}
