package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/amirasaad/txnimport/pkg/domain"
	"github.com/amirasaad/txnimport/pkg/provider"
	"github.com/amirasaad/txnimport/pkg/repository"
)

// Registry holds strategies keyed by lower-case format.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewRegistry creates a registry with the given strategies.
func NewRegistry(strategies ...Strategy) *Registry {
	r := &Registry{strategies: make(map[string]Strategy)}
	for _, s := range strategies {
		r.Register(s)
	}
	return r
}

// DefaultRegistry returns a registry with all built-in strategies.
func DefaultRegistry() *Registry {
	return NewRegistry(NewN26(), NewGeneric())
}

// Register adds a strategy. Panics on duplicate format.
func (r *Registry) Register(s Strategy) {
	key := strings.ToLower(s.Format())
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.strategies[key]; ok {
		panic("duplicate bank format: " + key)
	}
	r.strategies[key] = s
}

// RegisterFile loads a YAML bank definition and registers it as a layout strategy.
func (r *Registry) RegisterFile(path string) (Strategy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bank config: %w", err)
	}
	defer f.Close() //nolint:errcheck

	cfg, err := ParseBankConfig(f)
	if err != nil {
		return nil, err
	}
	if cfg.Columns == nil {
		return nil, fmt.Errorf("bank config %s: columns are required", cfg.Format)
	}
	if r.Has(cfg.Format) {
		return nil, fmt.Errorf("bank config %s: %w", cfg.Format, domain.ErrAlreadyExists)
	}
	s := NewLayout(cfg)
	r.Register(s)
	return s, nil
}

// Get returns the strategy for format, or an error wrapping domain.ErrUnsupportedFormat.
func (r *Registry) Get(format string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
	return s, nil
}

// Has reports whether format is registered.
func (r *Registry) Has(format string) bool {
	_, err := r.Get(format)
	return err == nil
}

// Formats lists registered formats in sorted order.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	formats := make([]string, 0, len(r.strategies))
	for k := range r.strategies {
		formats = append(formats, k)
	}
	sort.Strings(formats)
	return formats
}

// Dispatcher selects the strategy for a format and runs the pipeline with it.
type Dispatcher struct {
	registry   *Registry
	uow        repository.UnitOfWork
	classifier *Classifier
	transfers  *TransferResolver
	logger     *slog.Logger
}

// NewDispatcher wires the pipeline collaborators. A nil predictor disables prediction.
func NewDispatcher(
	registry *Registry,
	uow repository.UnitOfWork,
	predictor provider.CategoryPredictor,
	logger *slog.Logger,
) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		registry:   registry,
		uow:        uow,
		classifier: NewClassifier(predictor, logger),
		transfers:  NewTransferResolver(logger),
		logger:     logger,
	}
}

// Registry exposes the registered strategies.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch runs the import for format. Unknown formats fail with domain.ErrUnsupportedFormat
// before the file is read.
func (d *Dispatcher) Dispatch(ctx context.Context, format string, req Request) (*Result, error) {
	s, err := d.registry.Get(format)
	if err != nil {
		d.logger.Warn("Import rejected", "format", format, "error", err)
		return nil, err
	}
	return NewImporter(s, d.uow, d.classifier, d.transfers, d.logger).Run(ctx, req)
}
