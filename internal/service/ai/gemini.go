package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/generative-ai-go/genai"
	genaiopt "google.golang.org/api/option"

	"github.com/crackgpt/backend/internal/config"
)

// geminiChatModel adapts the Google generative-language client to eino's
// ChatModel so the same compiled chains run against either provider.
type geminiChatModel struct {
	client      *genai.Client
	model       string
	temperature *float64
	topP        *float64
	maxTokens   *int
}

func newGeminiChatModel(ctx context.Context, cfg config.AIConfig) (model.ChatModel, error) {
	client, err := genai.NewClient(ctx, genaiopt.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &geminiChatModel{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (g *geminiChatModel) Generate(ctx context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m := g.client.GenerativeModel(g.model)
	if g.temperature != nil {
		m.SetTemperature(float32(*g.temperature))
	}
	if g.topP != nil {
		m.SetTopP(float32(*g.topP))
	}
	if g.maxTokens != nil {
		m.SetMaxOutputTokens(int32(*g.maxTokens))
	}

	var prompt strings.Builder
	for _, msg := range input {
		if msg == nil || msg.Content == "" {
			continue
		}
		if msg.Role == schema.System {
			m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(msg.Content)}}
			continue
		}
		if prompt.Len() > 0 {
			prompt.WriteString("\n")
		}
		prompt.WriteString(msg.Content)
	}

	rsp, err := m.GenerateContent(ctx, genai.Text(prompt.String()))
	if err != nil {
		return nil, err
	}

	if len(rsp.Candidates) == 0 || rsp.Candidates[0].Content == nil || len(rsp.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("no response from gemini")
	}

	var b strings.Builder
	for _, part := range rsp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	return schema.AssistantMessage(b.String(), nil), nil
}

// Stream satisfies the ChatModel contract by replaying the non-streamed
// reply as a single chunk; the interview chains never stream.
func (g *geminiChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := g.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}

	sr, sw := schema.Pipe[*schema.Message](1)
	go func() {
		defer sw.Close()
		sw.Send(msg, nil)
	}()
	return sr, nil
}

func (g *geminiChatModel) BindTools([]*schema.ToolInfo) error {
	return errors.New("gemini adapter does not support tool binding")
}
