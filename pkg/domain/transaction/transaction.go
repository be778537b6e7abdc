package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether money came in, went out, or moved between own accounts.
type Direction string

const (
	DirectionIn       Direction = "IN"
	DirectionOut      Direction = "OUT"
	DirectionTransfer Direction = "TRSF"
)

// FromAmount maps a signed amount to IN (zero included) or OUT.
func FromAmount(amount decimal.Decimal) Direction {
	if amount.IsNegative() {
		return DirectionOut
	}
	return DirectionIn
}

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	switch d {
	case DirectionIn, DirectionOut, DirectionTransfer:
		return true
	}
	return false
}

// Transaction is one imported statement row.
//
// Amount is never negative; the sign lives in Direction. CategoryID and TransferAccountID are
// optional and become nil when the referenced record is deleted.
type Transaction struct {
	ID                uint            `json:"id"`
	BankAccountID     uint            `json:"bank_account_id"`
	TransferAccountID *uint           `json:"transfer_account_id,omitempty"`
	CategoryID        *uint           `json:"category_id,omitempty"`
	Date              time.Time       `json:"date"`
	Amount            decimal.Decimal `json:"amount"`
	Direction         Direction       `json:"txn_type"`
	Description       string          `json:"description"`
}

// New builds a transaction, storing the absolute value of amount.
func New(
	accountID uint,
	transferAccountID, categoryID *uint,
	date time.Time,
	amount decimal.Decimal,
	direction Direction,
	description string,
) *Transaction {
	return &Transaction{
		BankAccountID:     accountID,
		TransferAccountID: transferAccountID,
		CategoryID:        categoryID,
		Date:              date,
		Amount:            amount.Abs(),
		Direction:         direction,
		Description:       description,
	}
}
