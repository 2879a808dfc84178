package interview

import (
	"context"
	"log"

	"github.com/crackgpt/backend/internal/model/interview"
)

// Scorer evaluates one answered question and returns structured feedback.
type Scorer interface {
	Evaluate(ctx context.Context, question, transcription string, fillerCount int) (*interview.FeedbackResult, error)
}

// Progress is invoked after each record is resolved during a feedback run.
type Progress func(done, total int, rec *interview.AnswerRecord)

// RunFeedback scores every unresolved record in insertion order. Scoring
// failures are attached as error feedback so no record is ever left
// unresolved, and the run continues past them. Already-scored records are
// skipped, which makes re-invocation after a partial failure safe: no
// re-scoring, no double-charging the scorer.
func RunFeedback(ctx context.Context, store *interview.AnswerStore, scorer Scorer, progress Progress) error {
	total := store.Len()
	for i := 0; i < total; i++ {
		rec := store.At(i)
		if rec.Feedback == nil {
			fb, err := scorer.Evaluate(ctx, rec.Question.Text, rec.Transcription, rec.FillerWords)
			if err != nil {
				log.Printf("[feedback] scoring answer %d/%d failed: %v", i+1, total, err)
				fb = &interview.FeedbackResult{Error: err.Error()}
			}
			store.SetFeedback(i, fb)
		}
		if progress != nil {
			progress(i+1, total, rec)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}
