// Package catalog implements the storefront's filter/sort/paginate
// pipeline as a pure function over an in-memory product snapshot.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/laka02/quickcart/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Result is one page of the catalog view.
type Result struct {
	// The products on the requested page, in display order
	Page []*domain.Product `json:"page"`

	// Number of pages in the filtered set; at least 1 even when empty
	TotalPages int `json:"totalPages"`

	// Number of products matching the filter across all pages
	TotalItems int `json:"totalItems"`

	// Distinct categories of the unfiltered snapshot, sorted. Computed
	// pre-filter so the category selector always offers every known value.
	Categories []string `json:"categories"`
}

// View applies spec to the product snapshot. It is pure: the same inputs
// always produce the same output, and products is never mutated.
func View(products []*domain.Product, spec domain.FilterSpec) (Result, error) {
	if err := checkSpec(spec); err != nil {
		return Result{}, err
	}
	// Out-of-range page numbers below 1 are clamped, not rejected; the view
	// re-anchors to the first page whenever the filtered set shrinks.
	if spec.PageNumber < 1 {
		spec.PageNumber = 1
	}

	nameNeedle := strings.ToLower(spec.NameSubstring)
	filtered := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if nameNeedle != "" && !strings.Contains(strings.ToLower(p.Name), nameNeedle) {
			continue
		}
		if p.Price < spec.PriceMin || p.Price > spec.PriceMax {
			continue
		}
		if spec.MinStock > 0 && p.Stock < spec.MinStock {
			continue
		}
		// The selector is built from canonical names, so match against the
		// canonical form; empty categories answer to Uncategorized.
		if spec.Category != "" && domain.CanonicalCategory(p.Category) != spec.Category {
			continue
		}
		filtered = append(filtered, p)
	}

	sortProducts(filtered, spec.SortKey)

	totalPages := (len(filtered) + spec.PageSize - 1) / spec.PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := (spec.PageNumber - 1) * spec.PageSize
	end := start + spec.PageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return Result{
		Page:       filtered[start:end],
		TotalPages: totalPages,
		TotalItems: len(filtered),
		Categories: Categories(products),
	}, nil
}

// Categories returns the distinct canonical categories present in the
// product list, sorted for stable output.
func Categories(products []*domain.Product) []string {
	seen := make(map[string]struct{})
	for _, p := range products {
		seen[domain.CanonicalCategory(p.Category)] = struct{}{}
	}
	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}

// sortProducts sorts in place, stable so products with equal keys keep
// their filtered (pre-sort) relative order.
func sortProducts(products []*domain.Product, key string) {
	if key == domain.SortNone || key == "" {
		return
	}

	var less func(a, b *domain.Product) bool
	switch key {
	case domain.SortPriceAsc:
		less = func(a, b *domain.Product) bool { return a.Price < b.Price }
	case domain.SortPriceDesc:
		less = func(a, b *domain.Product) bool { return a.Price > b.Price }
	case domain.SortNameAsc, domain.SortNameDesc:
		// A fresh collator per sort: collators carry internal buffers and
		// are not safe for concurrent use. The fixed locale keeps ordering
		// identical across calls.
		c := collate.New(language.English)
		if key == domain.SortNameAsc {
			less = func(a, b *domain.Product) bool { return c.CompareString(a.Name, b.Name) < 0 }
		} else {
			less = func(a, b *domain.Product) bool { return c.CompareString(a.Name, b.Name) > 0 }
		}
	case domain.SortStockDesc:
		less = func(a, b *domain.Product) bool { return a.Stock > b.Stock }
	}

	sort.SliceStable(products, func(i, j int) bool {
		return less(products[i], products[j])
	})
}

func checkSpec(spec domain.FilterSpec) error {
	if spec.PageSize < 1 {
		return fmt.Errorf("%w: page size must be positive, got %d", domain.ErrInvalidFilter, spec.PageSize)
	}
	if spec.PriceMin < 0 {
		return fmt.Errorf("%w: price minimum must not be negative", domain.ErrInvalidFilter)
	}
	if spec.PriceMin > spec.PriceMax {
		return fmt.Errorf("%w: price bounds are inverted (%v > %v)", domain.ErrInvalidFilter, spec.PriceMin, spec.PriceMax)
	}
	if spec.MinStock < 0 {
		return fmt.Errorf("%w: minimum stock must not be negative", domain.ErrInvalidFilter)
	}
	// An absent sort key means "none".
	valid := spec.SortKey == ""
	for _, k := range domain.SortKeys {
		if spec.SortKey == k {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: unknown sort key %q", domain.ErrInvalidFilter, spec.SortKey)
	}
	return nil
}
