package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/crackgpt/backend/internal/config"
	"github.com/crackgpt/backend/internal/handler"
	interviewHandler "github.com/crackgpt/backend/internal/handler/interview"
	"github.com/crackgpt/backend/internal/model/questionbank"
	"github.com/crackgpt/backend/internal/service/ai"
	interviewService "github.com/crackgpt/backend/internal/service/interview"
	"github.com/crackgpt/backend/internal/service/speech"
	"github.com/crackgpt/backend/internal/service/transcribe"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize AI service
	var aiService *ai.Service
	if cfg.AI.Enabled() {
		aiService, err = ai.NewService(ctx, cfg.AI, cfg.Interview)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without AI functionality - check the model provider environment variables")
		} else {
			log.Printf("AI service initialized with provider %s", cfg.AI.Provider)
		}
	} else {
		log.Println("model credentials not configured, skipping AI features")
	}

	// Initialize transcription service
	var transcriber interviewService.Transcriber
	if cfg.Speech.TranscribeEnabled() {
		transcriber = transcribe.NewService(cfg.Speech.WhisperURL, cfg.Speech.HFToken, cfg.Speech.Timeout)
		log.Println("transcription service initialized successfully")
	} else {
		log.Println("whisper endpoint not configured, skipping transcription")
	}

	// Initialize text-to-speech service
	var synthesizer interviewHandler.Synthesizer
	if cfg.Speech.TTSEnabled() {
		synthesizer = speech.NewService(cfg.Speech.ElevenBaseURL, cfg.Speech.ElevenAPIKey, cfg.Speech.ElevenVoiceID, cfg.Speech.Timeout)
		log.Println("speech synthesis service initialized successfully")
	} else {
		log.Println("speech credentials not configured, skipping synthesis")
	}

	// Load the curated question bank
	var bank questionbank.Store
	if cfg.Interview.QuestionBankPath != "" {
		memBank, err := questionbank.LoadFile(cfg.Interview.QuestionBankPath)
		if err != nil {
			log.Printf("warning: %v", err)
			log.Println("continuing without the question bank")
		} else {
			bank = memBank
		}
	}

	var questions interviewService.QuestionGenerator
	var followups interviewService.FollowupGenerator
	var scorer interviewService.Scorer
	if aiService != nil {
		questions = aiService
		followups = aiService
		scorer = aiService
	}

	interviewSvc := interviewService.NewService(questions, followups, transcriber, scorer)

	router := handler.NewRouter(interviewSvc, bank, synthesizer)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("CrackGPT backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
