package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrUnreadable = errors.New("cost feed unreadable")

var (
	skuColumns  = []string{"sku"}
	costColumns = []string{"cost", "cost_usd", "price", "price_usd"}
)

type Stats struct {
	Rows            int
	Loaded          int
	SkippedEmptySKU int
	InvalidCost     int
	Duplicates      int
}

// LoadCostTable reads the bulk supplier feed at path into a SKU -> cost map.
func LoadCostTable(path string) (map[string]decimal.Decimal, Stats, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer file.Close()
	return ParseCostTable(file)
}

// ParseCostTable parses a CSV feed with a header row. Rows without a SKU are
// ignored, unparsable costs load as 0 and the last row wins on duplicate SKUs.
func ParseCostTable(r io.Reader) (map[string]decimal.Decimal, Stats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%w: read header: %v", ErrUnreadable, err)
	}
	skuIdx := columnIndexes(header, skuColumns)
	costIdx := columnIndexes(header, costColumns)
	if len(skuIdx) == 0 {
		return nil, Stats{}, fmt.Errorf("%w: no sku column in header %v", ErrUnreadable, header)
	}

	var stats Stats
	table := make(map[string]decimal.Decimal)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("%w: row %d: %v", ErrUnreadable, stats.Rows+2, err)
		}
		stats.Rows++

		sku := firstValue(record, skuIdx)
		if sku == "" {
			stats.SkippedEmptySKU++
			continue
		}
		cost, ok := parseCost(firstValue(record, costIdx))
		if !ok {
			stats.InvalidCost++
		}
		if _, exists := table[sku]; exists {
			stats.Duplicates++
		}
		table[sku] = cost
	}
	stats.Loaded = len(table)
	return table, stats, nil
}

// columnIndexes returns header positions ordered by candidate preference.
func columnIndexes(header []string, candidates []string) []int {
	indexes := make([]int, 0, len(candidates))
	for _, candidate := range candidates {
		for i, name := range header {
			name = strings.TrimPrefix(name, "\ufeff")
			if strings.EqualFold(strings.TrimSpace(name), candidate) {
				indexes = append(indexes, i)
			}
		}
	}
	return indexes
}

func firstValue(record []string, indexes []int) string {
	for _, i := range indexes {
		if i >= len(record) {
			continue
		}
		if value := strings.TrimSpace(record[i]); value != "" {
			return value
		}
	}
	return ""
}

func parseCost(value string) (decimal.Decimal, bool) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "$")
	if value == "" {
		return decimal.Zero, false
	}
	cost, err := decimal.NewFromString(value)
	if err != nil || cost.IsNegative() {
		return decimal.Zero, false
	}
	return cost, true
}
