// Package extract sends report text to the extraction service and parses the
// returned company array. Malformed responses are absorbed: a document that
// cannot be extracted yields an empty result, never an error that would abort
// the surrounding batch.
package extract

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dxpulse/plct-cli/internal/config"
	"github.com/dxpulse/plct-cli/internal/model"
	"github.com/dxpulse/plct-cli/internal/resilience"
	"github.com/dxpulse/plct-cli/pkg/anthropic"
)

// errEmptyResponse marks a blank completion, which is retried like a
// transport failure.
var errEmptyResponse = eris.New("extract: empty response")

// Extractor calls the generative service once per document.
type Extractor struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	retry     resilience.RetryConfig
	limiter   *rate.Limiter
}

// New builds an Extractor from configuration. Requests are rate-limited
// client-side so long batches stay under the account's per-minute ceiling
// instead of bouncing off 429s.
func New(client anthropic.Client, aiCfg config.AnthropicConfig, exCfg config.ExtractConfig) *Extractor {
	retry := resilience.FromConfig(exCfg.MaxAttempts, exCfg.InitialBackoffMs, exCfg.MaxBackoffMs)
	retry.OnRetry = resilience.RetryLogger("anthropic", "extract")
	retry.ShouldRetry = func(err error) bool {
		return eris.Is(err, errEmptyResponse) || resilience.IsTransient(err)
	}

	rpm := aiCfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 10
	}

	return &Extractor{
		client:    client,
		model:     aiCfg.Model,
		maxTokens: aiCfg.MaxTokens,
		retry:     retry,
		limiter:   rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
	}
}

// Extract runs one report through the extraction service and returns the
// parsed companies. Retries cover transport failures and empty completions;
// a response that survives retries but does not parse as a company array is
// logged and dropped, returning an empty slice with a nil error.
func (e *Extractor) Extract(ctx context.Context, text, filename string) ([]model.Company, error) {
	prompt := BuildPrompt(text, filename)

	raw, err := resilience.DoVal(ctx, e.retry, func(ctx context.Context) (string, error) {
		if err := e.limiter.Wait(ctx); err != nil {
			return "", eris.Wrap(err, "extract: rate limit wait")
		}

		resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     e.model,
			MaxTokens: e.maxTokens,
			System:    systemText,
			Messages: []anthropic.Message{
				{Role: "user", Content: prompt},
			},
		})
		if err != nil {
			return "", err
		}

		resp.Usage.LogCost(e.model, filename)

		out := strings.TrimSpace(resp.Text())
		if out == "" {
			return "", errEmptyResponse
		}
		return out, nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, eris.Wrap(err, "extract: request")
		}
		zap.L().Error("extract: request failed after retries",
			zap.String("source_file", filename),
			zap.Error(err),
		)
		return nil, nil
	}

	companies, err := model.ParseCompanies([]byte(cleanJSONArray(raw)))
	if err != nil {
		zap.L().Warn("extract: malformed response, dropping document",
			zap.String("source_file", filename),
			zap.String("preview", preview(raw, 500)),
			zap.Error(err),
		)
		return nil, nil
	}

	zap.L().Info("extract: parsed companies",
		zap.String("source_file", filename),
		zap.Int("companies", len(companies)),
	)
	return companies, nil
}

// cleanJSONArray strips markdown code fences and surrounding prose from a
// completion, leaving the outermost JSON array.
func cleanJSONArray(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	// Find first [ and last ].
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

func preview(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
