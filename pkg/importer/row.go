package importer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// NoDescription is stored when a row carries no usable description.
const NoDescription = "No description"

// Row-level errors. A row failing with one of these is skipped.
var (
	ErrShortRow  = errors.New("row has fewer columns than the layout")
	ErrBadAmount = errors.New("amount is not a number")
	ErrBadDate   = errors.New("date does not match layout")
)

// Row is one raw statement line.
type Row []string

// ColumnMap holds the index of every known field in a statement row.
// A negative index marks a field the layout does not carry.
type ColumnMap struct {
	Date        int
	ValueDate   int
	PartnerName int
	PartnerIBAN int
	Type        int
	Description int
	AccountName int
	Amount      int
	Currency    int
	Category    int
}

var columnNames = []string{
	"date", "value_date", "partner_name", "partner_iban", "type",
	"description", "account_name", "amount", "currency", "category",
}

// NewColumnMap returns a map where every field is absent.
func NewColumnMap() ColumnMap {
	return ColumnMap{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1}
}

func (c *ColumnMap) slot(name string) *int {
	switch name {
	case "date":
		return &c.Date
	case "value_date":
		return &c.ValueDate
	case "partner_name":
		return &c.PartnerName
	case "partner_iban":
		return &c.PartnerIBAN
	case "type":
		return &c.Type
	case "description":
		return &c.Description
	case "account_name":
		return &c.AccountName
	case "amount":
		return &c.Amount
	case "currency":
		return &c.Currency
	case "category":
		return &c.Category
	}
	return nil
}

// UnmarshalYAML reads a name→index mapping. Fields not listed stay absent.
func (c *ColumnMap) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]int
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*c = NewColumnMap()
	for name, idx := range raw {
		slot := c.slot(name)
		if slot == nil {
			return fmt.Errorf("unknown column %q (known: %s)", name, strings.Join(columnNames, ", "))
		}
		*slot = idx
	}
	if c.Date < 0 || c.Amount < 0 {
		return errors.New("columns: date and amount are required")
	}
	return nil
}

// Width returns the minimum number of columns a row needs.
func (c ColumnMap) Width() int {
	width := 0
	for _, name := range columnNames {
		if idx := *c.slot(name); idx+1 > width {
			width = idx + 1
		}
	}
	return width
}

// Fields are the typed values extracted from a row.
type Fields struct {
	Line        int
	Raw         Row
	Date        time.Time
	Amount      decimal.Decimal
	Description string
	PartnerName string
	PartnerIBAN string
	Type        string
	Category    string
}

// get returns the trimmed value at idx, or "" when the layout lacks the field.
func (r Row) get(idx int) string {
	if idx < 0 || idx >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[idx])
}

// parseRow extracts the fields every layout shares. Description is left to the strategy.
func parseRow(row Row, cols ColumnMap, dateLayout string) (*Fields, error) {
	if len(row) < cols.Width() {
		return nil, fmt.Errorf("%w: got %d, need %d", ErrShortRow, len(row), cols.Width())
	}
	amount, err := parseAmount(row.get(cols.Amount))
	if err != nil {
		return nil, err
	}
	date, err := time.ParseInLocation(dateLayout, row.get(cols.Date), time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadDate, row.get(cols.Date))
	}
	return &Fields{
		Raw:         row,
		Date:        date,
		Amount:      amount,
		PartnerName: row.get(cols.PartnerName),
		PartnerIBAN: row.get(cols.PartnerIBAN),
		Type:        row.get(cols.Type),
		Category:    row.get(cols.Category),
	}, nil
}

// parseAmount accepts a signed decimal with a dot as fractional separator.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" || strings.Contains(s, ",") {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrBadAmount, s)
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrBadAmount, s)
	}
	return amount, nil
}

func orPlaceholder(description string) string {
	if strings.TrimSpace(description) == "" {
		return NoDescription
	}
	return description
}
