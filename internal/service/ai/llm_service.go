package ai

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/crackgpt/backend/internal/config"
	"github.com/crackgpt/backend/internal/model/interview"
)

type runnable = compose.Runnable[map[string]any, *schema.Message]

// fallbackFollowup is asked when the model call for a non-zero batch
// fails; the session keeps moving either way.
const fallbackFollowup = "Can you elaborate on that?"

// Service implements the generative collaborators of an interview
// session: question generation, follow-up probing, and answer scoring.
// All three run through compiled chains over one configured chat model.
type Service struct {
	chatModel      model.ChatModel
	cfg            config.AIConfig
	maxResumeChars int
	minQuestions   int
	maxQuestions   int

	skillsChain    runnable
	questionsChain runnable
	followupChain  runnable
	scoreChain     runnable

	// pickFollowupCount decides the follow-up batch size in [0,2];
	// overridden in tests.
	pickFollowupCount func() int
}

// NewService creates the AI service instance for the configured provider.
func NewService(ctx context.Context, cfg config.AIConfig, ivCfg config.InterviewConfig) (*Service, error) {
	chatModel, err := newChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	s := &Service{
		chatModel:         chatModel,
		cfg:               cfg,
		maxResumeChars:    ivCfg.MaxResumeChars,
		minQuestions:      ivCfg.MinQuestions,
		maxQuestions:      ivCfg.MaxQuestions,
		pickFollowupCount: func() int { return rand.IntN(3) },
	}

	if s.skillsChain, err = compileChain(ctx, skillsTemplate(), chatModel); err != nil {
		return nil, err
	}
	if s.questionsChain, err = compileChain(ctx, questionsTemplate(), chatModel); err != nil {
		return nil, err
	}
	if s.followupChain, err = compileChain(ctx, followupTemplate(), chatModel); err != nil {
		return nil, err
	}
	if s.scoreChain, err = compileChain(ctx, scoreTemplate(), chatModel); err != nil {
		return nil, err
	}

	return s, nil
}

func compileChain(ctx context.Context, template prompt.ChatTemplate, chatModel model.ChatModel) (runnable, error) {
	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(template)
	chain.AppendChatModel(chatModel)

	compiled, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chain: %w", err)
	}
	return compiled, nil
}

func (s *Service) invoke(ctx context.Context, chain runnable, vars map[string]any) (string, error) {
	rsp, err := chain.Invoke(ctx, vars)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(rsp.Content), nil
}

// GenerateQuestions extracts the role's key skills and generates count
// main questions from the job details and optional resume text. A
// malformed question payload surfaces as ErrGeneration; no questions are
// ever invented locally.
func (s *Service) GenerateQuestions(ctx context.Context, job interview.JobDetails, count int, resumeText string) ([]interview.Question, []string, error) {
	if s.minQuestions > 0 && count < s.minQuestions {
		count = s.minQuestions
	}
	if s.maxQuestions > 0 && count > s.maxQuestions {
		count = s.maxQuestions
	}
	if s.maxResumeChars > 0 && len(resumeText) > s.maxResumeChars {
		log.Printf("[ai] resume text truncated from %d to %d chars", len(resumeText), s.maxResumeChars)
		resumeText = resumeText[:s.maxResumeChars]
	}

	resumeBlock := ""
	if resumeText != "" {
		resumeBlock = "Candidate's Resume:\n" + resumeText + "\n"
	}

	skillsRaw, err := s.invoke(ctx, s.skillsChain, map[string]any{
		"job_description": job.Description,
		"resume_block":    resumeBlock,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: skills extraction: %v", interview.ErrGeneration, err)
	}

	skills, err := parseSkills(skillsRaw)
	if err != nil {
		// Skills only enrich the question prompt; continue without.
		log.Printf("[ai] skills payload unparseable, continuing without: %v", err)
		skills = nil
	}

	questionsRaw, err := s.invoke(ctx, s.questionsChain, map[string]any{
		"difficulty":      job.Difficulty,
		"job_title":       job.Title,
		"count":           count,
		"job_description": job.Description,
		"skills":          strings.Join(skills, ", "),
		"resume_block":    resumeBlock,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", interview.ErrGeneration, err)
	}

	questions, err := parseQuestions(questionsRaw)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", interview.ErrGeneration, err)
	}

	log.Printf("[ai] generated %d questions for role=%q difficulty=%s", len(questions), job.Title, job.Difficulty)
	return questions, skills, nil
}

// FollowUps returns 0-2 probing questions for the just-answered main
// question. The batch size is this collaborator's choice; a zero batch
// skips the model call entirely. Model failures degrade to a single
// generic follow-up rather than propagating.
func (s *Service) FollowUps(ctx context.Context, originalQuestion, answerText string) ([]string, error) {
	n := s.pickFollowupCount()
	if n == 0 {
		return nil, nil
	}

	raw, err := s.invoke(ctx, s.followupChain, map[string]any{
		"original_question": originalQuestion,
		"answer":            answerText,
		"count":             n,
	})
	if err != nil {
		log.Printf("[ai] follow-up generation failed, using fallback: %v", err)
		return []string{fallbackFollowup}, nil
	}

	return splitFollowups(raw, n), nil
}

// Evaluate scores one answered question. Failures wrap ErrScoring; the
// batch runner records them per answer and keeps going.
func (s *Service) Evaluate(ctx context.Context, question, transcription string, fillerCount int) (*interview.FeedbackResult, error) {
	raw, err := s.invoke(ctx, s.scoreChain, map[string]any{
		"question":      question,
		"transcription": transcription,
		"filler_count":  fillerCount,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interview.ErrScoring, err)
	}

	fb, err := parseFeedback(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interview.ErrScoring, err)
	}
	return fb, nil
}
