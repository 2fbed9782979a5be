package cmd

import (
	"context"
	"fmt"

	"github.com/eatwhat/eatwhat/internal/ai"
	"github.com/eatwhat/eatwhat/internal/ai/dashscope"
	"github.com/eatwhat/eatwhat/internal/ai/gemini"
	"github.com/eatwhat/eatwhat/internal/secrets"
)

const (
	providerDashScope = "dashscope"
	providerGemini    = "gemini"
)

// newGenerator builds the configured model provider. Missing credentials are
// a deployment defect: the error is fatal to the command, never retried.
func newGenerator(ctx context.Context, config *Config) (ai.Generator, string, error) {
	aiConfig := config.AI
	if aiConfig == nil {
		aiConfig = &AIConfig{}
	}

	provider := aiConfig.Provider
	if provider == "" {
		provider = providerDashScope
	}

	switch provider {
	case providerDashScope:
		dsConfig := aiConfig.DashScope
		if dsConfig == nil {
			dsConfig = &DashScopeConfig{}
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name:  "dashscope api key",
			Value: dsConfig.APIKey,
			File:  dsConfig.APIKeyFile,
		})
		if err != nil {
			return nil, provider, err
		}

		generator, err := dashscope.New(apiKey, dsConfig.AppID, dsConfig.BaseURL)
		return generator, provider, err

	case providerGemini:
		gemConfig := aiConfig.Gemini
		if gemConfig == nil {
			gemConfig = &GeminiConfig{}
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: gemConfig.APIKey,
		})
		if err != nil {
			return nil, provider, err
		}

		generator, err := gemini.NewGenerator(ctx, apiKey, gemConfig.Model)
		return generator, provider, err

	default:
		return nil, provider, fmt.Errorf("unknown ai provider %q", provider)
	}
}
