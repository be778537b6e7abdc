package importer

import (
	"context"
	"log/slog"

	"github.com/amirasaad/txnimport/pkg/domain/category"
	"github.com/amirasaad/txnimport/pkg/provider"
)

// Classifier picks the catalog entry a row belongs to.
//
// The candidate name comes from the row's own category column when the layout has one,
// otherwise from the predictor when one is configured. Any candidate outside the catalog,
// including a failed or missing prediction, resolves to the strategy's fallback entry.
type Classifier struct {
	predictor provider.CategoryPredictor
	logger    *slog.Logger
}

// NewClassifier returns a classifier. A nil predictor disables prediction.
func NewClassifier(predictor provider.CategoryPredictor, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{predictor: predictor, logger: logger}
}

// Classify never fails; it always yields a definition to persist.
func (c *Classifier) Classify(ctx context.Context, s Strategy, f *Fields) category.Definition {
	catalog := s.Catalog()
	candidate, ok := s.CategoryHint(f)
	if !ok {
		candidate = c.predict(ctx, s, f)
	}

	if d, found := catalog.Match(candidate); found {
		return d
	}
	if candidate != "" {
		c.logger.Debug("Category not in catalog, using fallback",
			"format", s.Format(), "row", f.Line, "candidate", candidate, "fallback", s.Fallback())
	}
	return catalog.Resolve(s.Fallback(), s.Fallback())
}

func (c *Classifier) predict(ctx context.Context, s Strategy, f *Fields) string {
	if c.predictor == nil {
		return ""
	}
	catalog := s.Catalog()
	name, err := c.predictor.PredictCategory(ctx, provider.PredictionRequest{
		Format:           s.Format(),
		Row:              f.Raw,
		Description:      f.Description,
		Amount:           f.Amount,
		Categories:       catalog.Names(),
		IncomeCategories: catalog.IncomeNames(),
	})
	if err != nil {
		c.logger.Warn("Category prediction failed, using fallback",
			"provider", c.predictor.Name(), "format", s.Format(), "row", f.Line, "error", err)
		return ""
	}
	return name
}
