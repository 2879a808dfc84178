package interview

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	interviewModel "github.com/crackgpt/backend/internal/model/interview"
	interviewService "github.com/crackgpt/backend/internal/service/interview"
	"github.com/crackgpt/backend/internal/service/report"
	"github.com/crackgpt/backend/pkg/utils"
)

// maxAudioUploadBytes caps an answer recording at 25 MiB.
const maxAudioUploadBytes = 25 << 20

// Synthesizer converts question text to spoken audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (audio []byte, format string, err error)
}

// Handler exposes the interview session lifecycle over HTTP.
type Handler struct {
	svc         *interviewService.Service
	synthesizer Synthesizer
}

// New creates the interview handler. synthesizer may be nil when TTS is
// not configured.
func New(svc *interviewService.Service, synthesizer Synthesizer) *Handler {
	return &Handler{svc: svc, synthesizer: synthesizer}
}

// RegisterRoutes registers the interview routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/interviews", h.handleCreate)
	r.Get("/interviews/{sessionID}", h.handleGet)
	r.Delete("/interviews/{sessionID}", h.handleDelete)
	r.Post("/interviews/{sessionID}/answers", h.handleSubmitAnswer)
	r.Get("/interviews/{sessionID}/question/audio", h.handleQuestionAudio)
	r.Post("/interviews/{sessionID}/feedback", h.handleFeedback)
	r.Get("/interviews/{sessionID}/feedback/stream", h.handleFeedbackStream)
	r.Get("/interviews/{sessionID}/report", h.handleReport)
}

type createRequest struct {
	JobTitle       string                    `json:"jobTitle"`
	JobDescription string                    `json:"jobDescription"`
	Difficulty     string                    `json:"difficulty"`
	NumQuestions   int                       `json:"numQuestions"`
	ResumeText     string                    `json:"resumeText"`
	Questions      []interviewModel.Question `json:"questions"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload createRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	job := interviewModel.JobDetails{
		Title:       payload.JobTitle,
		Description: payload.JobDescription,
		Difficulty:  payload.Difficulty,
	}

	var (
		session *interviewService.Session
		err     error
	)
	if len(payload.Questions) > 0 {
		session, err = h.svc.CreateSessionFromQuestions(r.Context(), job, payload.Questions)
	} else {
		if payload.JobTitle == "" || payload.JobDescription == "" {
			utils.RespondError(w, http.StatusBadRequest, "jobTitle and jobDescription are required")
			return
		}
		session, err = h.svc.CreateSession(r.Context(), job, payload.NumQuestions, payload.ResumeText)
	}
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, interviewModel.ErrEmptyQuestionSet) {
			status = http.StatusBadRequest
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, h.sessionView(session))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.sessionView(session))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	h.svc.DeleteSession(r.Context(), sessionID)
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := r.ParseMultipartForm(maxAudioUploadBytes); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, _, err := r.FormFile("audio")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioUploadBytes))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to read audio")
		return
	}
	if len(audio) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "audio file is empty")
		return
	}

	session, _, err := h.svc.RecordAnswer(r.Context(), sessionID, audio)
	if err != nil {
		switch {
		case errors.Is(err, interviewModel.ErrSessionNotFound):
			utils.RespondError(w, http.StatusNotFound, "session not found")
		case errors.Is(err, interviewModel.ErrInterviewFinished):
			utils.RespondError(w, http.StatusConflict, "interview already finished")
		default:
			utils.RespondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, h.sessionView(session))
}

func (h *Handler) handleQuestionAudio(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	if h.synthesizer == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "speech synthesis unavailable")
		return
	}

	question, ok := session.Sequencer().Current()
	if !ok {
		utils.RespondError(w, http.StatusConflict, "interview already finished")
		return
	}

	audio, format, err := h.synthesizer.Synthesize(r.Context(), question.Text)
	if err != nil {
		log.Printf("[interview] synthesis failed session=%s: %v", session.ID, err)
		utils.RespondError(w, http.StatusBadGateway, "speech synthesis failed")
		return
	}

	contentType := "audio/mpeg"
	if format == "wav" {
		contentType = "audio/wav"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio); err != nil {
		log.Printf("[interview] write audio failed: %v", err)
	}
}

func (h *Handler) handleFeedback(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.svc.ScoreSession(r.Context(), sessionID, nil)
	if err != nil {
		if errors.Is(err, interviewModel.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "session not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sessionId": session.ID,
		"answers":   session.Sequencer().Answers().Records(),
	})
}

func (h *Handler) handleFeedbackStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)

	progress := func(done, total int, rec *interviewModel.AnswerRecord) {
		utils.SendSSEEvent(w, flusher, "progress", map[string]any{
			"done":     done,
			"total":    total,
			"question": rec.Question.Text,
			"feedback": rec.Feedback,
		})
	}

	session, err := h.svc.ScoreSession(r.Context(), sessionID, progress)
	if err != nil {
		utils.SendSSEEvent(w, flusher, "error", map[string]string{"message": err.Error()})
		return
	}

	utils.SendSSEEvent(w, flusher, "complete", map[string]any{
		"sessionId": session.ID,
		"answers":   session.Sequencer().Answers().Records(),
	})
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	rpt := report.Build(session.Job, session.Sequencer().Answers().Records(), session.PostureSamples())

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="interview_report.txt"`)
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, report.RenderText(rpt)); err != nil {
			log.Printf("[interview] write report failed: %v", err)
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, rpt)
}

func (h *Handler) lookupSession(w http.ResponseWriter, r *http.Request) (*interviewService.Session, bool) {
	sessionID := chi.URLParam(r, "sessionID")
	session, err := h.svc.GetSession(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return session, true
}

type sessionView struct {
	SessionID       string                   `json:"sessionId"`
	State           interviewService.State   `json:"state"`
	CurrentQuestion *interviewModel.Question `json:"currentQuestion,omitempty"`
	MainIndex       int                      `json:"mainIndex"`
	MainCount       int                      `json:"mainCount"`
	AnswerCount     int                      `json:"answerCount"`
	Progress        string                   `json:"progress"`
}

func (h *Handler) sessionView(session *interviewService.Session) sessionView {
	seq := session.Sequencer()
	view := sessionView{
		SessionID:   session.ID,
		State:       seq.State(),
		MainIndex:   seq.MainIndex(),
		MainCount:   seq.MainQuestionCount(),
		AnswerCount: seq.Answers().Len(),
	}
	if q, ok := seq.Current(); ok {
		question := q
		view.CurrentQuestion = &question
		view.Progress = "Question " + strconv.Itoa(seq.MainIndex()+1) + " of " + strconv.Itoa(seq.MainQuestionCount())
	}
	return view
}
