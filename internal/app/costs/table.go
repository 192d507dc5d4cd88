// Package costs holds the in-memory cost table and resolves a supplier cost
// for each storefront variant.
package costs

import (
	"strings"
	"sync/atomic"

	"github.com/shopspring/decimal"
)

// Table is an immutable SKU → cost snapshot. Keys are trimmed and matched
// case-sensitively.
type Table struct {
	entries map[string]decimal.Decimal
}

func NewTable(entries map[string]decimal.Decimal) *Table {
	copied := make(map[string]decimal.Decimal, len(entries))
	for sku, cost := range entries {
		sku = strings.TrimSpace(sku)
		if sku == "" {
			continue
		}
		copied[sku] = cost
	}
	return &Table{entries: copied}
}

// Lookup returns the cost for sku, or zero when the table has no entry.
func (t *Table) Lookup(sku string) (decimal.Decimal, bool) {
	if t == nil {
		return decimal.Zero, false
	}
	cost, ok := t.entries[strings.TrimSpace(sku)]
	return cost, ok
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Store publishes the current Table. Readers always observe a complete snapshot.
type Store struct {
	current atomic.Pointer[Table]
}

func NewStore() *Store {
	s := &Store{}
	s.current.Store(NewTable(nil))
	return s
}

// Swap installs table and returns the previous snapshot.
func (s *Store) Swap(table *Table) *Table {
	if table == nil {
		table = NewTable(nil)
	}
	return s.current.Swap(table)
}

func (s *Store) Current() *Table {
	return s.current.Load()
}
