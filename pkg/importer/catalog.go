package importer

import (
	"embed"
	"fmt"
	"io"
	"strings"

	"github.com/amirasaad/txnimport/pkg/domain/category"
	"gopkg.in/yaml.v3"
)

// MaxFormatLength bounds format names; they are stored as account bank types and category importers.
const MaxFormatLength = 32

//go:embed catalogs/*.yaml
var catalogFS embed.FS

// BankConfig describes a bank format: its catalog and, for layout-driven formats, its columns.
type BankConfig struct {
	Format     string           `yaml:"format"`
	Bank       string           `yaml:"bank"`
	Fallback   string           `yaml:"fallback"`
	DateLayout string           `yaml:"date_layout"`
	Columns    *ColumnMap       `yaml:"columns"`
	Categories category.Catalog `yaml:"categories"`
}

// ParseBankConfig decodes a YAML bank definition and checks it is usable.
func ParseBankConfig(r io.Reader) (*BankConfig, error) {
	var cfg BankConfig
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decoding bank config: %w", err)
	}
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	if cfg.Format == "" {
		return nil, fmt.Errorf("bank config: format is required")
	}
	if len(cfg.Format) > MaxFormatLength {
		return nil, fmt.Errorf("bank config %s: format longer than %d characters", cfg.Format, MaxFormatLength)
	}
	if cfg.Bank == "" {
		cfg.Bank = cfg.Format
	}
	if cfg.Fallback == "" {
		cfg.Fallback = category.FallbackName
	}
	if cfg.DateLayout == "" {
		cfg.DateLayout = "2006-01-02"
	}
	if len(cfg.Categories) == 0 {
		return nil, fmt.Errorf("bank config %s: no categories", cfg.Format)
	}
	for i, d := range cfg.Categories {
		if d.Name == "" {
			return nil, fmt.Errorf("bank config %s: category %d has no name", cfg.Format, i)
		}
		if d.Icon == "" {
			cfg.Categories[i].Icon = category.DefaultIcon
		}
	}
	return &cfg, nil
}

// builtinConfig loads one of the embedded bank definitions.
func builtinConfig(format string) *BankConfig {
	f, err := catalogFS.Open("catalogs/" + format + ".yaml")
	if err != nil {
		panic("missing embedded catalog: " + format)
	}
	defer f.Close() //nolint:errcheck
	cfg, err := ParseBankConfig(f)
	if err != nil {
		panic(err)
	}
	return cfg
}
