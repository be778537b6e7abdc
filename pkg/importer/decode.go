package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/amirasaad/txnimport/pkg/domain"
	"golang.org/x/text/encoding/charmap"
)

// readStatement decodes an ISO-8859-1 statement and returns its rows without the header.
// The whole file is read before any row is processed.
func readStatement(r io.Reader) ([]Row, error) {
	decoded := charmap.ISO8859_1.NewDecoder().Reader(r)

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, Row(rec))
	}
	return rows, nil
}
