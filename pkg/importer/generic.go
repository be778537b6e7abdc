package importer

import (
	"strings"

	"github.com/amirasaad/txnimport/pkg/domain/category"
	"github.com/amirasaad/txnimport/pkg/domain/transaction"
)

// Layout reads any statement described by a BankConfig. The built-in "generic" layout is
// date, partner, description, amount, currency; custom banks bring their own YAML file.
//
// Rows whose type column equals TransferType are treated as transfers to the partner IBAN.
type Layout struct {
	cfg          *BankConfig
	cols         ColumnMap
	TransferType string
}

// NewGeneric returns the built-in generic layout.
func NewGeneric() *Layout {
	return NewLayout(builtinConfig("generic"))
}

// NewLayout builds a strategy from a parsed bank config.
func NewLayout(cfg *BankConfig) *Layout {
	cols := NewColumnMap()
	if cfg.Columns != nil {
		cols = *cfg.Columns
	}
	return &Layout{cfg: cfg, cols: cols, TransferType: n26DebitTransfer}
}

func (l *Layout) Format() string            { return l.cfg.Format }
func (l *Layout) BankName() string          { return l.cfg.Bank }
func (l *Layout) Columns() ColumnMap        { return l.cols }
func (l *Layout) Catalog() category.Catalog { return l.cfg.Categories }
func (l *Layout) Fallback() string          { return l.cfg.Fallback }

func (l *Layout) ParseRow(row Row) (*Fields, error) {
	f, err := parseRow(row, l.cols, l.cfg.DateLayout)
	if err != nil {
		return nil, err
	}
	f.Description = orPlaceholder(row.get(l.cols.Description))
	return f, nil
}

func (l *Layout) Direction(f *Fields) transaction.Direction {
	if l.cols.Type >= 0 && f.Type != "" && strings.EqualFold(f.Type, l.TransferType) && f.PartnerName != "" {
		return transaction.DirectionTransfer
	}
	return transaction.FromAmount(f.Amount)
}

func (l *Layout) CategoryHint(f *Fields) (string, bool) {
	if l.cols.Category < 0 {
		return "", false
	}
	return f.Category, true
}

func (l *Layout) Counterparty(f *Fields) (Counterparty, bool) {
	if l.Direction(f) != transaction.DirectionTransfer || l.cols.PartnerIBAN < 0 {
		return Counterparty{}, false
	}
	return Counterparty{Name: f.PartnerName, IBAN: f.PartnerIBAN}, true
}

var _ Strategy = (*Layout)(nil)
