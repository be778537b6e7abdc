package importer

import (
	"github.com/amirasaad/txnimport/pkg/domain/category"
	"github.com/amirasaad/txnimport/pkg/domain/transaction"
)

// Counterparty is the other side of a transfer as printed on the statement.
type Counterparty struct {
	Name string
	IBAN string
}

// Strategy is the bank-specific part of an import. The pipeline shape is shared; a strategy
// only decides how rows are laid out and read.
type Strategy interface {
	// Format is the lower-case identifier the strategy is registered under.
	Format() string
	// BankName names auto-created primary accounts.
	BankName() string
	Columns() ColumnMap
	Catalog() category.Catalog
	// Fallback names the catalog entry used when classification fails.
	Fallback() string

	// ParseRow extracts typed fields. An error skips the row.
	ParseRow(row Row) (*Fields, error)
	// Direction classifies the row; TRSF marks a transfer.
	Direction(f *Fields) transaction.Direction
	// CategoryHint returns the category named by the row itself, if the layout has one.
	CategoryHint(f *Fields) (string, bool)
	// Counterparty returns the account a transfer row moved money to or from.
	Counterparty(f *Fields) (Counterparty, bool)
}
