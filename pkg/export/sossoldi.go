// Package export renders persisted records into the CSV schema of external finance tools.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/amirasaad/txnimport/pkg/domain/account"
	"github.com/amirasaad/txnimport/pkg/domain/category"
	"github.com/amirasaad/txnimport/pkg/domain/transaction"
)

// TimestampLayout is the fractional-second timestamp format Sossoldi expects.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// CategoryIDOffset keeps synthetic category ids clear of real record ids.
const CategoryIDOffset = 10

const (
	tableBankAccount = "bankAccount"
	tableTransaction = "transaction"
	tableCategory    = "categoryTransaction"
)

// SossoldiHeader lists the 28 columns of a Sossoldi import file.
var SossoldiHeader = []string{
	"table_name", "id", "name", "symbol", "color", "startingValue", "active", "mainAccount",
	"createdAt", "updatedAt", "countNetWorth", "date", "amount", "type", "note", "idCategory",
	"idBankAccount", "idBankAccountTransfer", "recurring", "idRecurringTransaction", "fromDate",
	"toDate", "recurrency", "lastInsertion", "parent", "amountLimit", "code", "mainCurrency",
}

// Document is everything one user exports.
type Document struct {
	Accounts     []*account.BankAccount
	Transactions []*transaction.Transaction
	// Categories are optional; no category rows are written when empty.
	Categories []*category.Category
	// IncomeNames marks which categories are typed IN.
	IncomeNames []string
}

// Sossoldi writes a Document as a Sossoldi CSV.
type Sossoldi struct {
	now func() time.Time
}

// NewSossoldi creates an exporter stamping rows with the current time.
func NewSossoldi() *Sossoldi {
	return &Sossoldi{now: time.Now}
}

// WithClock returns a copy using now for createdAt/updatedAt of accounts and categories.
func (s *Sossoldi) WithClock(now func() time.Time) *Sossoldi {
	return &Sossoldi{now: now}
}

// Render writes the header, then bank account, transaction and category rows in that order.
func (s *Sossoldi) Render(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(SossoldiHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	stamp := s.now().Format(TimestampLayout)

	for _, a := range doc.Accounts {
		if err := cw.Write(accountRow(a, stamp)); err != nil {
			return fmt.Errorf("writing account %d: %w", a.ID, err)
		}
	}
	categoryIDs := make(map[uint]string, len(doc.Categories))
	for idx, c := range doc.Categories {
		categoryIDs[c.ID] = strconv.Itoa(CategoryIDOffset + idx)
	}
	for _, tx := range doc.Transactions {
		if err := cw.Write(transactionRow(tx, categoryIDs)); err != nil {
			return fmt.Errorf("writing transaction %d: %w", tx.ID, err)
		}
	}
	for idx, c := range doc.Categories {
		if err := cw.Write(categoryRow(idx, c, doc.IncomeNames, stamp)); err != nil {
			return fmt.Errorf("writing category %q: %w", c.Name, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func accountRow(a *account.BankAccount, stamp string) []string {
	id := strconv.FormatUint(uint64(a.ID), 10)
	return pad(
		tableBankAccount,
		id,
		a.Name,
		"payments",
		id,
		"0.0",
		"1",
		flag(a.Main),
		stamp,
		stamp,
		"",
		"1",
	)
}

// transactionRow references the category by its exported id; categories not in the
// document are left blank.
func transactionRow(tx *transaction.Transaction, categoryIDs map[uint]string) []string {
	date := tx.Date.Format(TimestampLayout)
	return pad(
		tableTransaction,
		strconv.FormatUint(uint64(tx.ID), 10),
		"", "", "", "", "", "",
		date,
		date,
		"",
		date,
		tx.Amount.Abs().StringFixed(2),
		string(tx.Direction),
		tx.Description,
		exportedCategoryID(tx.CategoryID, categoryIDs),
		strconv.FormatUint(uint64(tx.BankAccountID), 10),
		optionalID(tx.TransferAccountID),
		"0",
	)
}

func categoryRow(idx int, c *category.Category, incomeNames []string, stamp string) []string {
	kind := transaction.DirectionOut
	if slices.Contains(incomeNames, c.Name) {
		kind = transaction.DirectionIn
	}
	return pad(
		tableCategory,
		strconv.Itoa(CategoryIDOffset+idx),
		c.Name,
		c.Icon,
		strconv.Itoa(idx),
		"", "", "",
		stamp,
		stamp,
		"", "", "",
		string(kind),
	)
}

// pad fills a row with empty strings up to the header width.
func pad(fields ...string) []string {
	row := make([]string, len(SossoldiHeader))
	copy(row, fields)
	return row
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func exportedCategoryID(id *uint, categoryIDs map[uint]string) string {
	if id == nil {
		return ""
	}
	return categoryIDs[*id]
}

func optionalID(id *uint) string {
	if id == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*id), 10)
}
