// Package gemini implements integration with Google's Gemini API.
// It sends a single prompt string to the configured model and returns the
// raw text reply.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/edgard/counsellor/internal/config"
)

var (
	// ErrUnavailable reports a transport or API failure.
	ErrUnavailable = errors.New("model unavailable")
	// ErrBlocked reports a prompt rejected by the safety filter.
	ErrBlocked = errors.New("prompt blocked by safety filter")
	// ErrEmptyResponse reports a reply without usable text.
	ErrEmptyResponse = errors.New("model returned empty response")
)

// Client defines the model operations used throughout the application.
type Client interface {
	// Generate sends prompt to the model and returns its text reply.
	// Failures wrap one of ErrUnavailable, ErrBlocked or ErrEmptyResponse.
	Generate(ctx context.Context, prompt string) (string, error)
}

// ContentGenerator is the subset of the genai Models service the client
// needs. *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type sdkClient struct {
	models        ContentGenerator
	log           *slog.Logger
	contentConfig *genai.GenerateContentConfig
	modelName     string
	timeout       time.Duration
	maxRetries    int
	retryDelay    time.Duration
}

// NewClient creates a Gemini client with the provided configuration.
func NewClient(ctx context.Context, cfg config.GeminiConfig, log *slog.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return New(gi.Models, cfg, log), nil
}

// New wraps an existing content generator. NewClient uses it with the SDK
// models service; tests pass a fake.
func New(models ContentGenerator, cfg config.GeminiConfig, log *slog.Logger) Client {
	temperature := cfg.Temperature
	logger := log.With("component", "gemini_client")
	logger.Info("Gemini client initialized", "model", cfg.ModelName, "timeout", cfg.Timeout, "max_retries", cfg.MaxRetries)

	return &sdkClient{
		models:        models,
		log:           logger,
		contentConfig: &genai.GenerateContentConfig{Temperature: &temperature},
		modelName:     cfg.ModelName,
		timeout:       cfg.Timeout,
		maxRetries:    cfg.MaxRetries,
		retryDelay:    time.Duration(cfg.RetryDelaySeconds) * time.Second,
	}
}

func (c *sdkClient) Generate(ctx context.Context, prompt string) (string, error) {
	startTime := time.Now()
	c.log.DebugContext(ctx, "Generating content", "prompt_length", len(prompt))

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := c.generateContentWithRetries(ctx, contents)
	if err != nil {
		return "", err
	}

	text, err := c.extractTextFromResponse(ctx, resp)
	if err != nil {
		return "", err
	}

	c.log.DebugContext(ctx, "Content generated",
		"reply_length", len(text),
		"duration_ms", time.Since(startTime).Milliseconds())
	return text, nil
}

func (c *sdkClient) generateOnce(ctx context.Context, contents []*genai.Content) (*genai.GenerateContentResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.models.GenerateContent(ctx, c.modelName, contents, c.contentConfig)
}

func (c *sdkClient) generateContentWithRetries(ctx context.Context, contents []*genai.Content) (*genai.GenerateContentResponse, error) {
	for attempt := 0; ; attempt++ {
		resp, err := c.generateOnce(ctx, contents)
		if err == nil {
			return resp, nil
		}

		var apiErr *genai.APIError
		retriable := errors.As(err, &apiErr) && (apiErr.Code == 500 || apiErr.Code == 503)
		if !retriable || attempt >= c.maxRetries {
			c.log.ErrorContext(ctx, "Gemini API call failed", "attempt", attempt+1, "max_retries", c.maxRetries, "error", err)
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}

		c.log.WarnContext(ctx, "Retrying Gemini API call", "attempt", attempt+1, "code", apiErr.Code, "delay", c.retryDelay)
		timer := time.NewTimer(c.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
		case <-timer.C:
		}
	}
}

func (c *sdkClient) extractTextFromResponse(ctx context.Context, resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", ErrEmptyResponse
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reasonMsg := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reasonMsg = resp.PromptFeedback.BlockReasonMessage
		}
		c.log.WarnContext(ctx, "Gemini request blocked", "reason", reasonMsg)
		return "", fmt.Errorf("%w: %s", ErrBlocked, reasonMsg)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		finishReason := "unknown"
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != genai.FinishReasonUnspecified {
			finishReason = fmt.Sprintf("%v", resp.Candidates[0].FinishReason)
		}
		c.log.WarnContext(ctx, "Gemini response missing candidates or content", "finish_reason", finishReason)
		return "", fmt.Errorf("%w: finish reason %s", ErrEmptyResponse, finishReason)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		c.log.WarnContext(ctx, "Gemini response text is empty")
		return "", ErrEmptyResponse
	}
	return text, nil
}
