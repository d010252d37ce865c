// Package llm exposes the text-completion capability used by the AI-assisted
// roster strategy, backed by the Anthropic Messages API.
package llm

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/roster-cli/internal/resilience"
	"github.com/sells-group/roster-cli/pkg/anthropic"
)

// Request is a single prompt/response exchange.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int64
}

// Response is the completion text with its token usage.
type Response struct {
	Text         string
	Model        string
	InputTokens  int64
	OutputTokens int64
}

// Completer produces a completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Options configure an AnthropicCompleter.
type Options struct {
	Model             string
	RequestsPerMinute int
	Retry             resilience.RetryConfig
	Breaker           resilience.BreakerConfig
}

// AnthropicCompleter calls the Messages API through a rate limiter, retry
// with backoff, and a circuit breaker.
type AnthropicCompleter struct {
	client  anthropic.Client
	model   string
	limiter *rate.Limiter
	retry   resilience.RetryConfig
	breaker *resilience.CircuitBreaker
}

// NewAnthropicCompleter wraps client. A zero RequestsPerMinute disables
// client-side rate limiting.
func NewAnthropicCompleter(client anthropic.Client, opts Options) *AnthropicCompleter {
	limit := rate.Inf
	if opts.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(opts.RequestsPerMinute))
	}
	retry := opts.Retry
	if retry.OnRetry == nil {
		retry.OnRetry = resilience.RetryLogger("anthropic", "create_message")
	}
	if opts.Breaker.Name == "" {
		opts.Breaker.Name = "anthropic"
	}
	return &AnthropicCompleter{
		client:  client,
		model:   opts.Model,
		limiter: rate.NewLimiter(limit, 1),
		retry:   retry,
		breaker: resilience.NewCircuitBreaker(opts.Breaker),
	}
}

// Complete implements Completer.
func (c *AnthropicCompleter) Complete(ctx context.Context, req Request) (*Response, error) {
	temp := req.Temperature
	msgReq := anthropic.MessageRequest{
		Model:       c.model,
		MaxTokens:   req.MaxTokens,
		System:      req.SystemPrompt,
		Messages:    []anthropic.Message{{Role: "user", Content: req.UserPrompt}},
		Temperature: &temp,
	}

	resp, err := resilience.Execute(ctx, c.breaker, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, eris.Wrap(err, "llm: rate limit wait")
			}
			r, err := c.client.CreateMessage(ctx, msgReq)
			if err != nil {
				if code := anthropic.StatusCode(err); resilience.IsTransientHTTPStatus(code) {
					return nil, resilience.NewTransientError(err, code)
				}
				return nil, err
			}
			return r, nil
		})
	})
	if err != nil {
		return nil, eris.Wrap(err, "llm: complete")
	}

	resp.Usage.LogCost(c.model, "roster_parse")
	zap.L().Debug("llm: completion received",
		zap.String("stop_reason", resp.StopReason),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
	)
	return &Response{
		Text:         resp.Text(),
		Model:        resp.Model,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}, nil
}
