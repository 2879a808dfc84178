package interview

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	interviewModel "github.com/crackgpt/backend/internal/model/interview"
	interviewService "github.com/crackgpt/backend/internal/service/interview"
)

type fakeTranscriber struct {
	text    string
	fillers int
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ []byte) (string, int, error) {
	return f.text, f.fillers, nil
}

type fakeScorer struct{}

func (f *fakeScorer) Evaluate(_ context.Context, _, _ string, _ int) (*interviewModel.FeedbackResult, error) {
	score := 6
	return &interviewModel.FeedbackResult{TechnicalScore: &score}, nil
}

type fakeSynthesizer struct {
	err error
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, text string) ([]byte, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return []byte("audio:" + text), "mp3", nil
}

func setup(t *testing.T, synthesizer Synthesizer) (*chi.Mux, *interviewService.Service) {
	t.Helper()
	svc := interviewService.NewService(nil, nil, &fakeTranscriber{text: "spoken answer", fillers: 1}, &fakeScorer{})
	handler := New(svc, synthesizer)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, svc
}

func createSession(t *testing.T, svc *interviewService.Service, texts ...string) *interviewService.Session {
	t.Helper()
	questions := make([]interviewModel.Question, 0, len(texts))
	for _, text := range texts {
		questions = append(questions, interviewModel.Question{Text: text})
	}
	session, err := svc.CreateSessionFromQuestions(context.Background(), interviewModel.JobDetails{Title: "Backend"}, questions)
	if err != nil {
		t.Fatalf("CreateSessionFromQuestions err: %v", err)
	}
	return session
}

func TestCreateInterviewFromQuestions(t *testing.T) {
	r, _ := setup(t, nil)

	payload, _ := json.Marshal(createRequest{
		JobTitle:  "Backend",
		Questions: []interviewModel.Question{{Text: "Q1"}, {Text: "Q2"}},
	})
	req := httptest.NewRequest(http.MethodPost, "/interviews", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var view sessionView
	if err := json.Unmarshal(resp.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if view.SessionID == "" || view.State != interviewService.StateAwaitingAnswer {
		t.Fatalf("unexpected view: %+v", view)
	}
	if view.CurrentQuestion == nil || view.CurrentQuestion.Text != "Q1" {
		t.Fatalf("expected first question posed, got %+v", view.CurrentQuestion)
	}
}

func TestCreateInterviewRejectsEmpty(t *testing.T) {
	r, _ := setup(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/interviews", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGetInterviewNotFound(t *testing.T) {
	r, _ := setup(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/interviews/missing", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func multipartAudio(t *testing.T, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("audio", "answer.wav")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write(content)
	w.Close()
	return &body, w.FormDataContentType()
}

func TestSubmitAnswerAdvancesSession(t *testing.T) {
	r, svc := setup(t, nil)
	session := createSession(t, svc, "Q1", "Q2")

	body, contentType := multipartAudio(t, []byte("wav bytes"))
	req := httptest.NewRequest(http.MethodPost, "/interviews/"+session.ID+"/answers", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var view sessionView
	json.Unmarshal(resp.Body.Bytes(), &view)
	if view.AnswerCount != 1 || view.CurrentQuestion == nil || view.CurrentQuestion.Text != "Q2" {
		t.Fatalf("unexpected view after answer: %+v", view)
	}

	rec := session.Sequencer().Answers().At(0)
	if rec.Transcription != "spoken answer" || rec.FillerWords != 1 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestSubmitAnswerAfterFinish(t *testing.T) {
	r, svc := setup(t, nil)
	session := createSession(t, svc, "Q1")

	body, contentType := multipartAudio(t, []byte("wav"))
	req := httptest.NewRequest(http.MethodPost, "/interviews/"+session.ID+"/answers", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on final answer, got %d", resp.Code)
	}

	body, contentType = multipartAudio(t, []byte("wav"))
	req = httptest.NewRequest(http.MethodPost, "/interviews/"+session.ID+"/answers", body)
	req.Header.Set("Content-Type", contentType)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 after finish, got %d", resp.Code)
	}
}

func TestSubmitAnswerRequiresAudio(t *testing.T) {
	r, svc := setup(t, nil)
	session := createSession(t, svc, "Q1")

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/interviews/"+session.ID+"/answers", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without audio part, got %d", resp.Code)
	}
}

func TestQuestionAudio(t *testing.T) {
	r, svc := setup(t, &fakeSynthesizer{})
	session := createSession(t, svc, "Q1")

	req := httptest.NewRequest(http.MethodGet, "/interviews/"+session.ID+"/question/audio", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); got != "audio/mpeg" {
		t.Fatalf("expected audio/mpeg, got %q", got)
	}
	if resp.Body.String() != "audio:Q1" {
		t.Fatalf("unexpected audio body %q", resp.Body.String())
	}
}

func TestQuestionAudioUnavailable(t *testing.T) {
	r, svc := setup(t, nil)
	session := createSession(t, svc, "Q1")

	req := httptest.NewRequest(http.MethodGet, "/interviews/"+session.ID+"/question/audio", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without synthesizer, got %d", resp.Code)
	}
}

func TestQuestionAudioUpstreamFailure(t *testing.T) {
	r, svc := setup(t, &fakeSynthesizer{err: errors.New("quota exceeded")})
	session := createSession(t, svc, "Q1")

	req := httptest.NewRequest(http.MethodGet, "/interviews/"+session.ID+"/question/audio", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
}

func TestFeedbackEndpoint(t *testing.T) {
	r, svc := setup(t, nil)
	session := createSession(t, svc, "Q1")

	body, contentType := multipartAudio(t, []byte("wav"))
	req := httptest.NewRequest(http.MethodPost, "/interviews/"+session.ID+"/answers", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodPost, "/interviews/"+session.ID+"/feedback", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if rec := session.Sequencer().Answers().At(0); rec.Feedback == nil {
		t.Fatal("expected feedback attached after scoring")
	}
}

func TestFeedbackStreamEmitsEvents(t *testing.T) {
	r, svc := setup(t, nil)
	session := createSession(t, svc, "Q1")

	body, contentType := multipartAudio(t, []byte("wav"))
	req := httptest.NewRequest(http.MethodPost, "/interviews/"+session.ID+"/answers", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/interviews/"+session.ID+"/feedback/stream", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	out := resp.Body.String()
	if !strings.Contains(out, "event: progress") || !strings.Contains(out, "event: complete") {
		t.Fatalf("expected progress and complete events, got\n%s", out)
	}
	if got := resp.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("expected event stream content type, got %q", got)
	}
}

func TestReportEndpoint(t *testing.T) {
	r, svc := setup(t, nil)
	session := createSession(t, svc, "Q1")

	body, contentType := multipartAudio(t, []byte("wav"))
	req := httptest.NewRequest(http.MethodPost, "/interviews/"+session.ID+"/answers", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/interviews/"+session.ID+"/report?format=text", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Question 1: Q1") {
		t.Fatalf("expected rendered question, got\n%s", resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/interviews/"+session.ID+"/report", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if got := resp.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected JSON report by default, got %q", got)
	}
}

func TestDeleteInterview(t *testing.T) {
	r, svc := setup(t, nil)
	session := createSession(t, svc, "Q1")

	req := httptest.NewRequest(http.MethodDelete, "/interviews/"+session.ID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	if _, err := svc.GetSession(context.Background(), session.ID); !errors.Is(err, interviewModel.ErrSessionNotFound) {
		t.Fatalf("expected session gone, got %v", err)
	}
}
