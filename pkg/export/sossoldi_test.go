package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/amirasaad/txnimport/pkg/domain/account"
	"github.com/amirasaad/txnimport/pkg/domain/category"
	"github.com/amirasaad/txnimport/pkg/domain/transaction"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 123456000, time.UTC)

func render(t *testing.T, doc Document) [][]string {
	t.Helper()
	var buf bytes.Buffer
	err := NewSossoldi().WithClock(func() time.Time { return fixedNow }).Render(&buf, doc)
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	return records
}

func ptr(v uint) *uint { return &v }

func TestRender_EmptyExportHasHeaderAndAccounts(t *testing.T) {
	records := render(t, Document{
		Accounts: []*account.BankAccount{
			{ID: 1, Name: "N26", Main: true},
			{ID: 2, Name: "Savings"},
		},
	})

	require.Len(t, records, 3)
	assert.Equal(t, SossoldiHeader, records[0])
	assert.Equal(t, []string{
		"bankAccount", "1", "N26", "payments", "1", "0.0", "1", "1",
		"2024-03-01 09:30:00.123456", "2024-03-01 09:30:00.123456", "", "1",
		"", "", "", "", "", "", "", "", "", "", "", "", "", "", "", "",
	}, records[1])
	assert.Equal(t, "0", records[2][7])
}

func TestRender_HeaderOnlyWithoutData(t *testing.T) {
	records := render(t, Document{})
	require.Len(t, records, 1)
	assert.Len(t, records[0], 28)
}

func TestRender_TransactionRow(t *testing.T) {
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	records := render(t, Document{
		Accounts: []*account.BankAccount{{ID: 1, Name: "N26", Main: true}},
		Categories: []*category.Category{
			{ID: 5, Name: "Stipendio", Icon: "payments"},
			{ID: 3, Name: "Spesa", Icon: "shopping_cart"},
		},
		Transactions: []*transaction.Transaction{
			{
				ID:            7,
				BankAccountID: 1,
				CategoryID:    ptr(3),
				Date:          date,
				Amount:        decimal.RequireFromString("12.99"),
				Direction:     transaction.DirectionOut,
				Description:   "Esselunga | -",
			},
			{
				ID:                8,
				BankAccountID:     1,
				TransferAccountID: ptr(2),
				Date:              date,
				Amount:            decimal.RequireFromString("-50"),
				Direction:         transaction.DirectionTransfer,
			},
		},
	})

	require.Len(t, records, 6)
	row := records[2]
	require.Len(t, row, 28)
	assert.Equal(t, "transaction", row[0])
	assert.Equal(t, "7", row[1])
	assert.Equal(t, "2024-01-05 00:00:00.000000", row[8])
	assert.Equal(t, "2024-01-05 00:00:00.000000", row[9])
	assert.Equal(t, "", row[10])
	assert.Equal(t, "2024-01-05 00:00:00.000000", row[11])
	assert.Equal(t, "12.99", row[12])
	assert.Equal(t, "OUT", row[13])
	assert.Equal(t, "Esselunga | -", row[14])
	assert.Equal(t, "11", row[15], "references the exported category id")
	assert.Equal(t, "Spesa", records[5][2])
	assert.Equal(t, "11", records[5][1])
	assert.Equal(t, "1", row[16])
	assert.Equal(t, "", row[17])
	assert.Equal(t, "0", row[18])

	transfer := records[3]
	assert.Equal(t, "50.00", transfer[12], "amounts are absolute")
	assert.Equal(t, "TRSF", transfer[13])
	assert.Equal(t, "", transfer[15])
	assert.Equal(t, "2", transfer[17])
}

func TestRender_UnknownCategoryLeftBlank(t *testing.T) {
	records := render(t, Document{
		Transactions: []*transaction.Transaction{
			{ID: 1, BankAccountID: 1, CategoryID: ptr(99), Direction: transaction.DirectionOut},
		},
	})
	require.Len(t, records, 2)
	assert.Equal(t, "", records[1][15])
}

func TestRender_CategoryRows(t *testing.T) {
	records := render(t, Document{
		Categories: []*category.Category{
			{ID: 40, Name: "Stipendio", Icon: "payments"},
			{ID: 41, Name: "Spesa", Icon: "shopping_cart"},
		},
		IncomeNames: []string{"Stipendio"},
	})

	require.Len(t, records, 3)
	first := records[1]
	require.Len(t, first, 28)
	assert.Equal(t, "categoryTransaction", first[0])
	assert.Equal(t, "10", first[1])
	assert.Equal(t, "Stipendio", first[2])
	assert.Equal(t, "payments", first[3])
	assert.Equal(t, "0", first[4])
	assert.Equal(t, "2024-03-01 09:30:00.123456", first[8])
	assert.Equal(t, "IN", first[13])

	second := records[2]
	assert.Equal(t, "11", second[1])
	assert.Equal(t, "1", second[4])
	assert.Equal(t, "OUT", second[13])
}

func TestRender_UsesCRLF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSossoldi().Render(&buf, Document{}))
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("mainCurrency\r\n")))
}
