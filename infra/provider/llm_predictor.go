package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/amirasaad/txnimport/pkg/config"
	"github.com/amirasaad/txnimport/pkg/provider"
	"github.com/cenkalti/backoff/v4"
)

var errEmptyAnswer = errors.New("model returned an empty answer")

// LLMPredictor asks an Ollama-compatible /api/generate endpoint for a category name.
type LLMPredictor struct {
	url        string
	model      string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries uint64
	logger     *slog.Logger
}

// generateRequest is the body of a non-streaming generate call.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// NewLLMPredictor creates a predictor from config. Every call, retries included, is bounded
// by cfg.Timeout.
func NewLLMPredictor(cfg *config.Prediction, logger *slog.Logger) *LLMPredictor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMPredictor{
		url:   cfg.URL,
		model: cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}
}

func (p *LLMPredictor) Name() string {
	return "llm:" + p.model
}

// PredictCategory implements provider.CategoryPredictor.
func (p *LLMPredictor) PredictCategory(ctx context.Context, req provider.PredictionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Model:  p.model,
		Prompt: BuildPrompt(req),
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	var answer string
	operation := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := p.httpClient.Do(httpReq)
		if err != nil {
			return fmt.Errorf("failed to make request: %w", err)
		}
		defer resp.Body.Close() //nolint:errcheck

		if resp.StatusCode != http.StatusOK {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			statusErr := fmt.Errorf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		var out generateResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}
		answer = cleanAnswer(out.Response)
		if answer == "" {
			return backoff.Permanent(errEmptyAnswer)
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 100 * time.Millisecond
	policy.MaxElapsedTime = p.timeout
	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, p.maxRetries), ctx)); err != nil {
		p.logger.Debug("Prediction request failed", "url", p.url, "model", p.model, "error", err)
		return "", err
	}

	p.logger.Debug("Prediction received", "model", p.model, "format", req.Format, "answer", answer)
	return answer, nil
}

// BuildPrompt renders the instruction sent to the model for one row.
func BuildPrompt(req provider.PredictionRequest) string {
	var b strings.Builder
	b.WriteString("Classify this bank statement row into exactly one category.\n")
	fmt.Fprintf(&b, "Bank format: %s\n", req.Format)
	fmt.Fprintf(&b, "Row: %s\n", strings.Join(req.Row, " | "))
	fmt.Fprintf(&b, "Description: %s\n", req.Description)
	fmt.Fprintf(&b, "Amount: %s\n", req.Amount.String())
	fmt.Fprintf(&b, "Valid categories: %s\n", strings.Join(req.Categories, ", "))
	if len(req.IncomeCategories) > 0 {
		fmt.Fprintf(&b, "Income categories (use only for money received): %s\n", strings.Join(req.IncomeCategories, ", "))
	}
	b.WriteString("Answer with the category name only, exactly as listed.")
	return b.String()
}

// cleanAnswer keeps the first line of the answer without quotes or a trailing period.
func cleanAnswer(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(strings.TrimSpace(s), "\"'`")
	return strings.TrimSpace(strings.TrimSuffix(s, "."))
}

var _ provider.CategoryPredictor = (*LLMPredictor)(nil)
