package catalog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/batiwork/batisearch/core"
)

// headerLines is the number of metadata lines preceding the data rows in the
// catalog export format.
const headerLines = 4

// Fixed column order of the catalog export.
const (
	colCode = iota
	colDesignation
	colUnit
	colMinimum
	colMean
	colMaximum
)

// Row is one cleaned catalog row as delivered by the export file.
type Row struct {
	Code        string
	Designation string
	Unit        string
	Prices      core.PriceSet
}

// ParseCatalog reads a semicolon-delimited catalog export: 4 metadata lines,
// then rows in the fixed column order [Code, Designation, Unit, Minimum,
// Mean, Maximum, Extra]. Rows are trimmed, prices formatted for display,
// designations shorter than 4 characters dropped, and duplicates collapsed
// by (designation, unit) keeping the first occurrence. Malformed lines are
// skipped, not fatal.
func ParseCatalog(r io.Reader) ([]Row, error) {
	buffered := bufio.NewReader(r)
	for i := 0; i < headerLines; i++ {
		if _, err := buffered.ReadString('\n'); err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, fmt.Errorf("skip catalog header: %w", err)
		}
	}

	reader := csv.NewReader(buffered)
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	type dedupKey struct{ designation, unit string }
	seen := make(map[dedupKey]struct{})
	var rows []Row

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, fmt.Errorf("read catalog: %w", err)
		}

		row := rowFromRecord(record)
		if core.ValidateEntry(&core.CatalogEntry{Designation: row.Designation}) != nil {
			continue
		}
		key := dedupKey{row.Designation, row.Unit}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, row)
	}
	return rows, nil
}

func rowFromRecord(record []string) Row {
	field := func(i int) string {
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	return Row{
		Code:        field(colCode),
		Designation: field(colDesignation),
		Unit:        field(colUnit),
		Prices: core.PriceSet{
			Minimum: formatPrice(field(colMinimum)),
			Mean:    formatPrice(field(colMean)),
			Maximum: formatPrice(field(colMaximum)),
		},
	}
}

// formatPrice renders a raw price cell for display: numbers are rounded to
// whole units with space-separated thousands groups, empty cells become
// "N/A", and anything non-numeric passes through unchanged.
func formatPrice(raw string) string {
	if raw == "" {
		return "N/A"
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(raw, " ", ""), 64)
	if err != nil {
		return raw
	}
	return groupThousands(int64(math.RoundToEven(value)))
}

func groupThousands(n int64) string {
	digits := strconv.FormatInt(n, 10)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign = "-"
		digits = digits[1:]
	}

	var b strings.Builder
	b.WriteString(sign)
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > len(sign) {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
