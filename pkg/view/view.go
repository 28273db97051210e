// Package view derives read-only product views from the raw collections.
// Every function here is pure: the result depends only on its arguments, and
// inputs are never mutated.
package view

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cajapos/caja/pkg/catalog"
)

// Column identifies a sortable product field.
type Column int

const (
	ColumnName Column = iota
	ColumnDescription
	ColumnPrice
	ColumnStock
	ColumnCategory
	ColumnSubcategory
	ColumnID
)

var columnNames = map[Column]string{
	ColumnName:        "name",
	ColumnDescription: "description",
	ColumnPrice:       "price",
	ColumnStock:       "stock",
	ColumnCategory:    "category",
	ColumnSubcategory: "subcategory",
	ColumnID:          "id",
}

// String returns the column's CLI name.
func (c Column) String() string {
	if name, ok := columnNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Column(%d)", int(c))
}

// ParseColumn resolves a CLI column name.
func ParseColumn(name string) (Column, error) {
	for col, n := range columnNames {
		if n == strings.ToLower(name) {
			return col, nil
		}
	}
	return ColumnName, fmt.Errorf("unknown sort column %q", name)
}

// Sort is the active sort state of the product list.
type Sort struct {
	Column    Column
	Ascending bool
}

// DefaultSort sorts by name ascending, matching the initial UI state.
func DefaultSort() Sort {
	return Sort{Column: ColumnName, Ascending: true}
}

// Toggle returns the sort state after the user selects col: selecting the
// active column flips the direction, selecting a new column resets to
// ascending.
func (s Sort) Toggle(col Column) Sort {
	if s.Column == col {
		return Sort{Column: col, Ascending: !s.Ascending}
	}
	return Sort{Column: col, Ascending: true}
}

// matches reports whether p's name contains term, case-insensitively. An
// empty term matches everything.
func matches(p catalog.Product, term string) bool {
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(term))
}

// compare orders a before b by col. String columns compare lowercased,
// numeric columns numerically. Returns -1, 0 or 1.
func compare(a, b catalog.Product, col Column) int {
	switch col {
	case ColumnPrice:
		return compareFloat(a.Price, b.Price)
	case ColumnStock:
		return compareFloat(float64(a.Stock), float64(b.Stock))
	case ColumnID:
		return compareFloat(float64(a.ID), float64(b.ID))
	case ColumnDescription:
		return compareString(a.Description, b.Description)
	case ColumnCategory:
		return compareString(a.Category, b.Category)
	case ColumnSubcategory:
		return compareString(a.Subcategory, b.Subcategory)
	default:
		return compareString(a.Name, b.Name)
	}
}

func compareString(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// FilterSort returns the products whose name contains term, ordered by the
// given sort state. The sort is stable: equal keys keep their input order.
func FilterSort(products []catalog.Product, term string, s Sort) []catalog.Product {
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if matches(p, term) {
			out = append(out, p)
		}
	}

	dir := 1
	if !s.Ascending {
		dir = -1
	}
	sort.SliceStable(out, func(i, j int) bool {
		return compare(out[i], out[j], s.Column)*dir < 0
	})
	return out
}

// Sellable returns the products matching term that have stock available.
func Sellable(products []catalog.Product, term string) []catalog.Product {
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if p.Stock > 0 && matches(p, term) {
			out = append(out, p)
		}
	}
	return out
}

// SubcategoryOptions returns the subcategories whose parent category name
// equals categoryName. Empty when no category is chosen.
func SubcategoryOptions(subs []catalog.Subcategory, categoryName string) []catalog.Subcategory {
	if categoryName == "" {
		return nil
	}
	out := make([]catalog.Subcategory, 0, len(subs))
	for _, sub := range subs {
		if sub.ParentCategory == categoryName {
			out = append(out, sub)
		}
	}
	return out
}
