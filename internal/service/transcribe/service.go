package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/crackgpt/backend/internal/model/interview"
)

// fillerVocabulary is the fixed disfluency list matched against cleaned
// words; multi-word entries are matched against the joined transcription.
var fillerVocabulary = []string{
	"um", "umm", "ah", "ahh", "uh", "uhh",
	"like", "you know", "i mean", "so", "right",
	"basically", "actually", "literally", "i think",
}

// Service transcribes recorded answers through a faster-whisper HTTP
// endpoint and counts filler words in the result.
type Service struct {
	baseURL string
	hfToken string
	client  *http.Client
}

// NewService creates a transcription client against the given endpoint.
func NewService(baseURL, hfToken string, timeout time.Duration) *Service {
	return &Service{
		baseURL: strings.TrimRight(baseURL, "/"),
		hfToken: hfToken,
		client:  &http.Client{Timeout: timeout},
	}
}

type wordResult struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type segmentResult struct {
	Start float64      `json:"start"`
	End   float64      `json:"end"`
	Text  string       `json:"text"`
	Words []wordResult `json:"words"`
}

type transcribeResponse struct {
	Text     string          `json:"text"`
	Language string          `json:"language"`
	Segments []segmentResult `json:"segments"`
}

// Transcribe converts the recorded audio to text and a filler-word
// count. The audio is staged in a temp file that is removed on every
// exit path. Failures wrap ErrTranscription; the caller degrades into an
// error-marked record rather than stalling the interview.
func (s *Service) Transcribe(ctx context.Context, audio []byte) (string, int, error) {
	tmp, err := os.CreateTemp("", "answer-*.wav")
	if err != nil {
		return "", 0, fmt.Errorf("%w: stage audio: %v", interview.ErrTranscription, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(audio); err != nil {
		tmp.Close()
		return "", 0, fmt.Errorf("%w: stage audio: %v", interview.ErrTranscription, err)
	}
	if err := tmp.Close(); err != nil {
		return "", 0, fmt.Errorf("%w: stage audio: %v", interview.ErrTranscription, err)
	}

	rsp, err := s.post(ctx, tmpPath)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", interview.ErrTranscription, err)
	}

	text, fillers := joinSegments(rsp)
	log.Printf("[transcribe] transcribed %d bytes into %d chars, %d filler words", len(audio), len(text), fillers)
	return text, fillers, nil
}

func (s *Service) post(ctx context.Context, audioPath string) (*transcribeResponse, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	fw, err := w.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	fd, err := os.Open(audioPath)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	if _, err = io.Copy(fw, fd); err != nil {
		return nil, err
	}
	if err = w.WriteField("word_timestamps", "true"); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/transcribe", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if s.hfToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.hfToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("whisper %s: %s", resp.Status, string(payload))
	}

	var rsp transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&rsp); err != nil {
		return nil, fmt.Errorf("decode whisper response: %w", err)
	}
	return &rsp, nil
}

// joinSegments flattens the segment list into one transcription and
// counts filler words over the per-word timestamps, falling back to the
// joined text when the endpoint omitted word detail.
func joinSegments(rsp *transcribeResponse) (string, int) {
	var b strings.Builder
	words := make([]string, 0, 64)

	for _, seg := range rsp.Segments {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(strings.TrimSpace(seg.Text))
		for _, w := range seg.Words {
			words = append(words, w.Word)
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		text = strings.TrimSpace(rsp.Text)
	}
	if len(words) == 0 {
		words = strings.Fields(text)
	}

	return text, countFillers(words, text)
}

func countFillers(words []string, fullText string) int {
	single := make(map[string]bool, len(fillerVocabulary))
	multi := make([]string, 0, 4)
	for _, f := range fillerVocabulary {
		if strings.Contains(f, " ") {
			multi = append(multi, f)
		} else {
			single[f] = true
		}
	}

	count := 0
	for _, w := range words {
		if single[cleanWord(w)] {
			count++
		}
	}

	lowered := strings.ToLower(fullText)
	for _, phrase := range multi {
		count += strings.Count(lowered, phrase)
	}
	return count
}

func cleanWord(w string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(w)), " ,.?!")
}
