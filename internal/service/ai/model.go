package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"

	"github.com/crackgpt/backend/internal/config"
)

// newChatModel builds the configured provider's chat model.
func newChatModel(ctx context.Context, cfg config.AIConfig) (model.ChatModel, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("ai provider %q is missing credentials or model name", cfg.Provider)
	}

	switch cfg.Provider {
	case config.ProviderArk:
		return newArkChatModel(ctx, cfg)
	default:
		return newGeminiChatModel(ctx, cfg)
	}
}

func newArkChatModel(ctx context.Context, cfg config.AIConfig) (model.ChatModel, error) {
	var temperature *float32
	if cfg.Temperature != nil {
		val := float32(*cfg.Temperature)
		temperature = &val
	}

	var topP *float32
	if cfg.TopP != nil {
		val := float32(*cfg.TopP)
		topP = &val
	}

	var maxTokens *int
	if cfg.MaxTokens != nil {
		val := *cfg.MaxTokens
		maxTokens = &val
	}

	arkCfg := &ark.ChatModelConfig{
		BaseURL:     cfg.BaseURL,
		Region:      cfg.Region,
		APIKey:      cfg.ArkAPIKey,
		AccessKey:   cfg.ArkAccessKey,
		SecretKey:   cfg.ArkSecretKey,
		Model:       cfg.Model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, arkCfg)
}
