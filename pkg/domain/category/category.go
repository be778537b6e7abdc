package category

import (
	"strings"

	"github.com/amirasaad/txnimport/pkg/domain/transaction"
	"github.com/google/uuid"
)

const (
	// FallbackName is the category rows fall back to when classification fails.
	FallbackName = "Altro"
	// DefaultIcon is used for categories created outside of a catalog.
	DefaultIcon = "category"
)

// Category is a per-user, per-bank-format classification of transactions.
type Category struct {
	ID        uint                  `json:"id"`
	Name      string                `json:"name"`
	Icon      string                `json:"icon"`
	Direction transaction.Direction `json:"txn_type"`
	Importer  string                `json:"importer"`
	CreatedBy uuid.UUID             `json:"created_by"`
}

// IsIncome reports whether the category collects incoming money.
func (c *Category) IsIncome() bool {
	return c.Direction == transaction.DirectionIn
}

// Definition is one entry of a bank catalog.
type Definition struct {
	Name   string `yaml:"name" json:"name"`
	Icon   string `yaml:"icon" json:"icon"`
	Income bool   `yaml:"income" json:"is_income"`
}

// Direction returns IN for income definitions and OUT otherwise.
func (d Definition) Direction() transaction.Direction {
	if d.Income {
		return transaction.DirectionIn
	}
	return transaction.DirectionOut
}

// Catalog is the ordered, fixed set of categories known to one bank format.
type Catalog []Definition

// Lookup finds a definition by exact name.
func (c Catalog) Lookup(name string) (Definition, bool) {
	for _, d := range c {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// Match finds a definition ignoring case and surrounding blanks.
func (c Catalog) Match(name string) (Definition, bool) {
	name = strings.TrimSpace(name)
	for _, d := range c {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return Definition{}, false
}

// Names lists the catalog names in order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for _, d := range c {
		names = append(names, d.Name)
	}
	return names
}

// IncomeNames lists the names of income definitions in order.
func (c Catalog) IncomeNames() []string {
	var names []string
	for _, d := range c {
		if d.Income {
			names = append(names, d.Name)
		}
	}
	return names
}

// Resolve returns the definition for name, or the definition for fallback when name is not in
// the catalog. If fallback is missing too, a generic expense definition named fallback is returned.
func (c Catalog) Resolve(name, fallback string) Definition {
	if d, ok := c.Lookup(name); ok {
		return d
	}
	if d, ok := c.Lookup(fallback); ok {
		return d
	}
	return Definition{Name: fallback, Icon: DefaultIcon}
}
