package ai

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/stridecare/backend/internal/apperr"
	"go.uber.org/zap"
)

const systemPrompt = "You are a supportive health coach for a person managing a movement disorder. " +
	"You receive summarized wearable metrics, medication adherence, and mood logs. " +
	"Respond with short, encouraging, plain-language guidance. Never give a diagnosis."

// OpenAIClient wraps the OpenAI SDK with a request timeout, retry logic,
// and typed failure mapping
type OpenAIClient struct {
	client         *openai.Client
	model          string
	requestTimeout time.Duration
	maxRetries     int
	baseDelay      time.Duration
	logger         *zap.Logger
}

// NewOpenAIClient creates a generation client. baseURL may be empty to use
// the public API endpoint.
func NewOpenAIClient(apiKey, baseURL, model string, requestTimeout time.Duration, logger *zap.Logger) (*OpenAIClient, error) {
	if apiKey == "" || model == "" {
		return nil, apperr.InvalidInput("apiKey and model are required")
	}
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)

	return &OpenAIClient{
		client:         &client,
		model:          model,
		requestTimeout: requestTimeout,
		maxRetries:     3,
		baseDelay:      time.Second,
		logger:         logger,
	}, nil
}

// Generate produces text for the given prompt, retrying transient failures
// with exponential backoff. Failures come back typed: Timeout,
// RequestFailed(code), NoContent, or DecodeFailed.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", apperr.InvalidInput("prompt is required")
	}

	startTime := time.Now()
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.baseDelay * time.Duration(1<<uint(attempt-1))
			c.logger.Info("retrying generation request",
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
			)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", apperr.Timeout(ctx.Err(), "generation cancelled while waiting to retry")
			}
		}

		result, err := c.generate(ctx, prompt)
		if err == nil {
			c.logger.Info("generation request completed",
				zap.Duration("processing_time", time.Since(startTime)),
				zap.Int("attempts", attempt+1),
			)
			return result, nil
		}

		lastErr = err
		if !isRetryable(err) {
			c.logger.Error("non-retryable generation error",
				zap.Error(err),
				zap.Int("attempt", attempt+1),
			)
			return "", err
		}

		c.logger.Warn("generation request failed, will retry",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
		)
	}

	c.logger.Error("generation request failed after retries",
		zap.Error(lastErr),
		zap.Duration("total_time", time.Since(startTime)),
		zap.Int("max_retries", c.maxRetries),
	)

	return "", lastErr
}

// generate performs a single chat completion request under the configured
// timeout and maps SDK failures onto the application error taxonomy
func (c *OpenAIClient) generate(ctx context.Context, prompt string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	requestStart := time.Now()
	resp, err := c.client.Chat.Completions.New(reqCtx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", apperr.NoContent("no choices returned from generation service")
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", apperr.NoContent("empty content in generation response")
	}

	c.logger.Info("generation token usage",
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
		zap.Int64("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("request_time", time.Since(requestStart)),
	)

	return content, nil
}

// classify maps an SDK error to a typed application error
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Timeout(err, "generation request timed out")
	}
	if errors.Is(err, context.Canceled) {
		return apperr.Timeout(err, "generation request cancelled")
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apperr.RequestFailed(apiErr.StatusCode, "generation service returned an error")
	}

	// The SDK surfaces malformed payloads as plain decode errors.
	return apperr.DecodeFailed(err, "could not decode generation response")
}

// isRetryable reports whether a failed attempt is worth repeating. Client
// mistakes (bad input, auth) and decode failures will not improve on retry;
// rate limits, timeouts, and server errors may.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		return true
	}
	switch appErr.Kind {
	case apperr.KindTimeout:
		return true
	case apperr.KindRequestFailed:
		return appErr.StatusCode == 429 || appErr.StatusCode >= 500
	default:
		return false
	}
}
