package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every section the backend needs.
type Config struct {
	Server    ServerConfig
	AI        AIConfig
	Speech    SpeechConfig
	Interview InterviewConfig
}

// Load reads all sections from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	speech, err := loadSpeechConfig()
	if err != nil {
		return nil, err
	}

	iv, err := loadInterviewConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Speech: speech, Interview: iv}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

const (
	// ProviderGemini selects the Google generative-language backend.
	ProviderGemini = "gemini"
	// ProviderArk selects the Volcengine Ark backend.
	ProviderArk = "ark"

	defaultGeminiModel = "gemini-1.5-flash"
)

// AIConfig selects and configures the generative-language provider.
type AIConfig struct {
	Provider     string // "gemini" (default) or "ark"
	GeminiAPIKey string
	ArkAPIKey    string
	ArkAccessKey string
	ArkSecretKey string
	Model        string
	BaseURL      string
	Region       string
	Temperature  *float64
	TopP         *float64
	MaxTokens    *int
}

// Enabled reports whether the selected provider has usable credentials.
func (c AIConfig) Enabled() bool {
	switch c.Provider {
	case ProviderArk:
		return c.Model != "" && (c.ArkAPIKey != "" || (c.ArkAccessKey != "" && c.ArkSecretKey != ""))
	default:
		return c.GeminiAPIKey != ""
	}
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("AI_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("AI_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("AI_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	provider := strings.ToLower(getEnvOrDefault("AI_PROVIDER", ProviderGemini))
	if provider != ProviderGemini && provider != ProviderArk {
		return AIConfig{}, fmt.Errorf("invalid AI_PROVIDER value: %q", provider)
	}

	model := strings.TrimSpace(os.Getenv("AI_MODEL"))
	if model == "" && provider == ProviderGemini {
		model = defaultGeminiModel
	}

	return AIConfig{
		Provider:     provider,
		GeminiAPIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		ArkAPIKey:    strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		ArkAccessKey: strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		ArkSecretKey: strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:        model,
		BaseURL:      getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:       getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature:  temperature,
		TopP:         topP,
		MaxTokens:    maxTokens,
	}, nil
}

// SpeechConfig configures the transcription and synthesis collaborators.
type SpeechConfig struct {
	WhisperURL    string
	HFToken       string
	ElevenAPIKey  string
	ElevenVoiceID string
	ElevenBaseURL string
	Timeout       time.Duration
}

// TranscribeEnabled reports whether a whisper endpoint is configured.
func (c SpeechConfig) TranscribeEnabled() bool {
	return c.WhisperURL != ""
}

// TTSEnabled reports whether synthesis credentials are configured.
func (c SpeechConfig) TTSEnabled() bool {
	return c.ElevenAPIKey != "" && c.ElevenVoiceID != ""
}

func loadSpeechConfig() (SpeechConfig, error) {
	timeout, err := parseOptionalIntEnv("SPEECH_TIMEOUT")
	if err != nil {
		return SpeechConfig{}, err
	}
	timeoutSeconds := 30
	if timeout != nil {
		timeoutSeconds = *timeout
	}

	return SpeechConfig{
		WhisperURL:    strings.TrimSpace(os.Getenv("WHISPER_URL")),
		HFToken:       strings.TrimSpace(os.Getenv("HF_TOKEN")),
		ElevenAPIKey:  strings.TrimSpace(os.Getenv("ELEVENLABS_API_KEY")),
		ElevenVoiceID: strings.TrimSpace(os.Getenv("ELEVENLABS_VOICE_ID")),
		ElevenBaseURL: getEnvOrDefault("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io"),
		Timeout:       time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// InterviewConfig carries session-level knobs.
type InterviewConfig struct {
	QuestionBankPath string
	MaxResumeChars   int
	MinQuestions     int
	MaxQuestions     int
}

func loadInterviewConfig() (InterviewConfig, error) {
	maxResume := 15000
	if override, err := parseOptionalIntEnv("MAX_RESUME_CHARS"); err != nil {
		return InterviewConfig{}, err
	} else if override != nil && *override > 0 {
		maxResume = *override
	}

	return InterviewConfig{
		QuestionBankPath: getEnvOrDefault("QUESTION_BANK_PATH", "questions.json"),
		MaxResumeChars:   maxResume,
		MinQuestions:     3,
		MaxQuestions:     10,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
