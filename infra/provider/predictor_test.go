package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	infra_cache "github.com/amirasaad/txnimport/infra/cache"
	"github.com/amirasaad/txnimport/pkg/config"
	"github.com/amirasaad/txnimport/pkg/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPredictor is a mock implementation for testing
type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) PredictCategory(ctx context.Context, req provider.PredictionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockPredictor) Name() string {
	return "mock"
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleRequest() provider.PredictionRequest {
	return provider.PredictionRequest{
		Format:           "n26",
		Row:              []string{"2024-01-05", "Esselunga", "", "MasterCard Payment", "", "-23.40"},
		Description:      "Esselunga | -",
		Amount:           decimal.RequireFromString("-23.40"),
		Categories:       []string{"Spesa", "Stipendio", "Altro"},
		IncomeCategories: []string{"Stipendio"},
	}
}

func predictionConfig(url string) *config.Prediction {
	return &config.Prediction{
		Enabled:    true,
		URL:        url,
		Model:      "llama3",
		Timeout:    2 * time.Second,
		MaxRetries: 2,
	}
}

func TestLLMPredictor_Success(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(generateResponse{Response: " \"Spesa.\"\n"})
	}))
	defer srv.Close()

	p := NewLLMPredictor(predictionConfig(srv.URL), discardLogger())
	name, err := p.PredictCategory(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "Spesa", name)
	assert.Equal(t, "llama3", got.Model)
	assert.False(t, got.Stream)
	assert.Contains(t, got.Prompt, "Spesa, Stipendio, Altro")
	assert.Contains(t, got.Prompt, "Esselunga")
	assert.Equal(t, "llm:llama3", p.Name())
}

func TestLLMPredictor_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "Altro"})
	}))
	defer srv.Close()

	p := NewLLMPredictor(predictionConfig(srv.URL), discardLogger())
	name, err := p.PredictCategory(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "Altro", name)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestLLMPredictor_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewLLMPredictor(predictionConfig(srv.URL), discardLogger())
	_, err := p.PredictCategory(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLLMPredictor_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	p := NewLLMPredictor(predictionConfig(srv.URL), discardLogger())
	_, err := p.PredictCategory(context.Background(), sampleRequest())
	require.Error(t, err)
}

func TestLLMPredictor_EmptyAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "   "})
	}))
	defer srv.Close()

	p := NewLLMPredictor(predictionConfig(srv.URL), discardLogger())
	_, err := p.PredictCategory(context.Background(), sampleRequest())
	require.ErrorIs(t, err, errEmptyAnswer)
}

func TestLLMPredictor_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	cfg := predictionConfig(srv.URL)
	cfg.Timeout = 100 * time.Millisecond
	cfg.MaxRetries = 0

	p := NewLLMPredictor(cfg, discardLogger())
	start := time.Now()
	_, err := p.PredictCategory(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestBuildPrompt_OmitsEmptyIncomeList(t *testing.T) {
	req := sampleRequest()
	req.IncomeCategories = nil
	prompt := BuildPrompt(req)
	assert.NotContains(t, prompt, "Income categories")
	assert.Contains(t, prompt, "Bank format: n26")
	assert.Contains(t, prompt, "Amount: -23.4")
}

func TestCachedPredictor_HitSkipsNext(t *testing.T) {
	next := new(MockPredictor)
	req := sampleRequest()
	next.On("PredictCategory", mock.Anything, req).Return("Spesa", nil).Once()

	c := infra_cache.NewMemoryCache()
	defer c.Close()
	cached := NewCachedPredictor(next, c, time.Hour, discardLogger())

	for i := 0; i < 3; i++ {
		name, err := cached.PredictCategory(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "Spesa", name)
	}
	next.AssertExpectations(t)
	assert.Equal(t, "cached:mock", cached.Name())
}

func TestCachedPredictor_ErrorsAreNotCached(t *testing.T) {
	next := new(MockPredictor)
	req := sampleRequest()
	next.On("PredictCategory", mock.Anything, req).Return("", errors.New("down")).Once()
	next.On("PredictCategory", mock.Anything, req).Return("Spesa", nil).Once()

	c := infra_cache.NewMemoryCache()
	defer c.Close()
	cached := NewCachedPredictor(next, c, time.Hour, discardLogger())

	_, err := cached.PredictCategory(context.Background(), req)
	require.Error(t, err)
	name, err := cached.PredictCategory(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Spesa", name)
	next.AssertExpectations(t)
}

func TestPredictionKey_DependsOnRowAndFormat(t *testing.T) {
	a := sampleRequest()
	b := sampleRequest()
	assert.Equal(t, PredictionKey(a), PredictionKey(b))

	b.Row = append([]string{}, a.Row...)
	b.Row[1] = "Coop"
	assert.NotEqual(t, PredictionKey(a), PredictionKey(b))

	c := sampleRequest()
	c.Format = "generic"
	assert.NotEqual(t, PredictionKey(a), PredictionKey(c))
}
