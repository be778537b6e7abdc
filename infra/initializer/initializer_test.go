package initializer

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	infra_provider "github.com/amirasaad/txnimport/infra/provider"
	"github.com/amirasaad/txnimport/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSetupLogger_WritesWithPrefix(t *testing.T) {
	defaultLogger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(defaultLogger) })

	var buf bytes.Buffer
	logger := setupLogger(&buf, &config.Log{Format: "json", Prefix: "[txnimport]", TimeFormat: time.RFC3339})
	logger.Info("hello", "format", "n26")

	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "[txnimport]")
	assert.Contains(t, out, "n26")
}

func TestNewPredictor_Disabled(t *testing.T) {
	p, closeFn := NewPredictor(&config.App{Prediction: &config.Prediction{Enabled: false}}, discard())
	assert.Nil(t, p)
	assert.Nil(t, closeFn)
}

func TestNewPredictor_MemoryCache(t *testing.T) {
	cfg := &config.App{
		Prediction:      &config.Prediction{Enabled: true, URL: "http://127.0.0.1:1", Model: "llama3", Timeout: time.Second},
		PredictionCache: &config.PredictionCache{Driver: "memory", TTL: time.Hour},
	}
	p, closeFn := NewPredictor(cfg, discard())
	require.NotNil(t, p)
	require.NotNil(t, closeFn)
	defer closeFn()
	assert.IsType(t, &infra_provider.CachedPredictor{}, p)
	assert.Equal(t, "cached:llm:llama3", p.Name())
}

func TestNewPredictor_UnreachableRedisFallsBack(t *testing.T) {
	cfg := &config.App{
		Prediction:      &config.Prediction{Enabled: true, URL: "http://127.0.0.1:1", Model: "llama3", Timeout: time.Second},
		PredictionCache: &config.PredictionCache{Driver: "redis", TTL: time.Hour, Prefix: "p:"},
		Redis:           &config.Redis{URL: "redis://127.0.0.1:1/0", DialTimeout: 100 * time.Millisecond},
	}
	p, closeFn := NewPredictor(cfg, discard())
	require.NotNil(t, p)
	require.NotNil(t, closeFn, "memory cache is used instead")
	closeFn()
}

func TestNewRegistry_ExtraBankConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fineco.yaml")
	yaml := `format: fineco
bank: Fineco
date_layout: "02/01/2006"
columns:
  date: 0
  amount: 1
  description: 2
categories:
  - {name: "Altro"}
  - {name: "Stipendio", icon: payments, income: true}
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	registry, err := NewRegistry(&config.Import{BankConfigs: []string{path}}, discard())
	require.NoError(t, err)
	assert.True(t, registry.Has("fineco"))
	assert.True(t, registry.Has("n26"))
}

func TestNewRegistry_BadPath(t *testing.T) {
	_, err := NewRegistry(&config.Import{BankConfigs: []string{filepath.Join(t.TempDir(), "missing.yaml")}}, discard())
	require.Error(t, err)
}
