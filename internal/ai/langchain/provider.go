// Package langchain implements the ai.Provider boundary on top of
// langchaingo, so one configuration switch selects between OpenAI,
// Anthropic, Google and local Ollama models.
package langchain

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Vendor selects the backing model family.
type Vendor string

const (
	VendorOpenAI    Vendor = "openai"
	VendorAnthropic Vendor = "anthropic"
	VendorGoogle    Vendor = "google"
	VendorOllama    Vendor = "ollama"
)

// Options configures a provider instance.
type Options struct {
	Vendor      Vendor  `koanf:"vendor"`
	APIKey      string  `koanf:"api_key"`
	Model       string  `koanf:"model"`
	BaseURL     string  `koanf:"base_url"`
	Temperature float64 `koanf:"temperature"`
}

// Provider adapts a langchaingo model to the completion boundary.
type Provider struct {
	llm  llms.Model
	opts Options
}

// New builds a provider for the configured vendor.
func New(ctx context.Context, opts Options) (*Provider, error) {
	var (
		model llms.Model
		err   error
	)

	log.Debug().
		Str("vendor", string(opts.Vendor)).
		Str("model", opts.Model).
		Msg("creating model provider")

	switch opts.Vendor {
	case VendorOpenAI:
		openaiOpts := []openai.Option{openai.WithToken(opts.APIKey)}
		if opts.Model != "" {
			openaiOpts = append(openaiOpts, openai.WithModel(opts.Model))
		}
		if opts.BaseURL != "" {
			openaiOpts = append(openaiOpts, openai.WithBaseURL(opts.BaseURL))
		}
		model, err = openai.New(openaiOpts...)
	case VendorAnthropic:
		anthropicOpts := []anthropic.Option{anthropic.WithToken(opts.APIKey)}
		if opts.Model != "" {
			anthropicOpts = append(anthropicOpts, anthropic.WithModel(opts.Model))
		}
		model, err = anthropic.New(anthropicOpts...)
	case VendorGoogle:
		googleOpts := []googleai.Option{googleai.WithAPIKey(opts.APIKey)}
		if opts.Model != "" {
			googleOpts = append(googleOpts, googleai.WithDefaultModel(opts.Model))
		}
		model, err = googleai.New(ctx, googleOpts...)
	case VendorOllama:
		ollamaOpts := []ollama.Option{}
		if opts.Model != "" {
			ollamaOpts = append(ollamaOpts, ollama.WithModel(opts.Model))
		}
		if opts.BaseURL != "" {
			ollamaOpts = append(ollamaOpts, ollama.WithServerURL(opts.BaseURL))
		}
		model, err = ollama.New(ollamaOpts...)
	default:
		return nil, fmt.Errorf("unsupported model vendor: %q", opts.Vendor)
	}

	if err != nil {
		return nil, fmt.Errorf("create %s model: %w", opts.Vendor, err)
	}

	return &Provider{llm: model, opts: opts}, nil
}

// Complete sends the prompt and returns the raw completion text.
func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	callOpts := []llms.CallOption{}
	if p.opts.Temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(p.opts.Temperature))
	}

	out, err := llms.GenerateFromSinglePrompt(ctx, p.llm, prompt, callOpts...)
	if err != nil {
		return "", fmt.Errorf("model completion: %w", err)
	}

	log.Debug().Int("bytes", len(out)).Msg("received model completion")
	return out, nil
}
