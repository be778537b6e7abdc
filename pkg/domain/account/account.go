package account

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GeneratedTransferName is the name given to accounts auto-created as transfer counterparts.
const GeneratedTransferName = "GENERATED_TRANSFER_ACCOUNT"

// BankAccount is a user's account at a bank, identified globally by its IBAN.
//
// At most one account per user carries the Main flag.
type BankAccount struct {
	ID        uint      `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	IBAN      string    `json:"iban"`
	BankType  string    `json:"bank_type"`
	Main      bool      `json:"main_account"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`
}

// New builds an account owned by userID. The bank type is normalised to lower case.
func New(userID uuid.UUID, name, iban, bankType string) *BankAccount {
	now := time.Now().UTC()
	return &BankAccount{
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		IBAN:      NormalizeIBAN(iban),
		BankType:  strings.ToLower(strings.TrimSpace(bankType)),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewGeneratedTransfer builds the placeholder account created for a self-transfer counterpart.
func NewGeneratedTransfer(userID uuid.UUID, iban, bankType string) *BankAccount {
	return New(userID, GeneratedTransferName, iban, bankType)
}

// IsGenerated reports whether the account was created by an importer as transfer counterpart.
func (a *BankAccount) IsGenerated() bool {
	return a.Name == GeneratedTransferName
}

// NormalizeIBAN strips blanks and upper-cases an IBAN.
func NormalizeIBAN(iban string) string {
	return strings.ToUpper(strings.Join(strings.Fields(iban), ""))
}
