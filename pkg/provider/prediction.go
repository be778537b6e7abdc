package provider

import (
	"context"

	"github.com/shopspring/decimal"
)

// PredictionRequest carries one statement row and the categories the answer must come from.
type PredictionRequest struct {
	Format           string
	Row              []string
	Description      string
	Amount           decimal.Decimal
	Categories       []string
	IncomeCategories []string
}

// CategoryPredictor asks an external model which category a statement row belongs to.
type CategoryPredictor interface {
	// PredictCategory returns the raw category name suggested for the row.
	PredictCategory(ctx context.Context, req PredictionRequest) (string, error)

	// Name returns the provider's name for logging and identification.
	Name() string
}
