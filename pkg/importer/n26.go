package importer

import (
	"github.com/amirasaad/txnimport/pkg/domain/category"
	"github.com/amirasaad/txnimport/pkg/domain/transaction"
)

const (
	n26DateLayout    = "2006-01-02"
	n26DebitTransfer = "Debit Transfer"

	n26ColBookingDate      = 0
	n26ColValueDate        = 1
	n26ColPartnerName      = 2
	n26ColPartnerIBAN      = 3
	n26ColType             = 4
	n26ColPaymentReference = 5
	n26ColAccountName      = 6
	n26ColAmount           = 7
)

// N26 reads statements exported from the N26 web app.
//
// Columns: Booking Date, Value Date, Partner Name, Partner Iban, Type, Payment Reference,
// Account Name, Amount (EUR), Original Amount, Original Currency, Exchange Rate.
type N26 struct {
	cfg *BankConfig
}

// NewN26 returns the N26 strategy with its embedded catalog.
func NewN26() *N26 {
	return &N26{cfg: builtinConfig("n26")}
}

func (n *N26) Format() string            { return n.cfg.Format }
func (n *N26) BankName() string          { return n.cfg.Bank }
func (n *N26) Catalog() category.Catalog { return n.cfg.Categories }
func (n *N26) Fallback() string          { return n.cfg.Fallback }

func (n *N26) Columns() ColumnMap {
	cols := NewColumnMap()
	cols.Date = n26ColBookingDate
	cols.ValueDate = n26ColValueDate
	cols.PartnerName = n26ColPartnerName
	cols.PartnerIBAN = n26ColPartnerIBAN
	cols.Type = n26ColType
	cols.Description = n26ColPaymentReference
	cols.AccountName = n26ColAccountName
	cols.Amount = n26ColAmount
	return cols
}

// ParseRow joins partner and payment reference as "<partner> | <reference>" when both exist.
func (n *N26) ParseRow(row Row) (*Fields, error) {
	f, err := parseRow(row, n.Columns(), n26DateLayout)
	if err != nil {
		return nil, err
	}
	ref := row.get(n26ColPaymentReference)
	switch {
	case f.PartnerName != "" && ref != "":
		f.Description = f.PartnerName + " | " + ref
	case f.PartnerName != "":
		f.Description = f.PartnerName
	default:
		f.Description = ref
	}
	f.Description = orPlaceholder(f.Description)
	return f, nil
}

// Direction marks outgoing transfers with a named partner as TRSF.
func (n *N26) Direction(f *Fields) transaction.Direction {
	if f.Type == n26DebitTransfer && f.PartnerName != "" {
		return transaction.DirectionTransfer
	}
	return transaction.FromAmount(f.Amount)
}

// CategoryHint is always empty: N26 exports carry no category column.
func (n *N26) CategoryHint(*Fields) (string, bool) {
	return "", false
}

func (n *N26) Counterparty(f *Fields) (Counterparty, bool) {
	if n.Direction(f) != transaction.DirectionTransfer {
		return Counterparty{}, false
	}
	return Counterparty{Name: f.PartnerName, IBAN: f.PartnerIBAN}, true
}

var _ Strategy = (*N26)(nil)
