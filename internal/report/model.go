// Package report builds the logical, layout-independent inventory report
// model and renders it to PDF. The builder knows nothing about pages or
// fonts; the renderer consumes only the Model.
package report

import (
	"sort"
	"strconv"
	"time"

	"github.com/laka02/quickcart/internal/domain"
	"github.com/shopspring/decimal"
)

// Header is the report's title block.
type Header struct {
	Title       string
	Subtitle    string
	GeneratedAt time.Time
}

// SummaryCard is one labelled aggregate value.
type SummaryCard struct {
	Label string
	Value string
}

// CategoryBucket is one bar of the category histogram. Scale is the bar
// height relative to the largest bucket, in [0, 1].
type CategoryBucket struct {
	Category string
	Count    int
	Scale    float64
}

// Table is a generic row table. Placeholder is shown instead of rows when
// the table is empty, so an empty report still gives the reader feedback.
type Table struct {
	Columns     []string
	Rows        [][]string
	Placeholder string
}

// Model is the full logical report consumed by a renderer.
type Model struct {
	Header      Header
	Cards       []SummaryCard
	Histogram   []CategoryBucket
	TopCategory string
	Table       Table
	Footer      string
}

// BuildInventory assembles the inventory report from the product list and
// its aggregation result. Currency values carry exactly two decimals,
// consistent with the aggregation engine's rounding.
func BuildInventory(products []*domain.Product, summary domain.InventorySummary, now time.Time) Model {
	m := Model{
		Header: Header{
			Title:       "QuickCart Inventory Report",
			Subtitle:    "Comprehensive product inventory summary with live analytics",
			GeneratedAt: now,
		},
		Cards: []SummaryCard{
			{Label: "Total Products", Value: strconv.Itoa(summary.TotalProducts)},
			{Label: "Total Stock", Value: strconv.Itoa(summary.TotalStock)},
			{Label: "Inventory Value", Value: "Rs. " + money(summary.TotalValue)},
			{Label: "Avg. Price", Value: "Rs. " + money(summary.AveragePrice)},
			{Label: "Categories", Value: strconv.Itoa(summary.CategoryCount)},
		},
		Histogram:   histogram(products),
		TopCategory: "N/A",
		Table: Table{
			Columns:     []string{"Name", "Price", "Stock", "Category", "Supplier"},
			Placeholder: "No products available to display.",
		},
		Footer: "QuickCart Grocery Store - Inventory Management System",
	}

	if len(m.Histogram) > 0 {
		m.TopCategory = m.Histogram[0].Category
	}

	for _, p := range products {
		m.Table.Rows = append(m.Table.Rows, []string{
			orDash(p.Name),
			"Rs. " + money(p.Price),
			strconv.Itoa(p.Stock),
			orDash(p.Category),
			orDash(p.Supplier),
		})
	}

	return m
}

// BuildSuppliers assembles the supplier listing report.
func BuildSuppliers(suppliers []*domain.Supplier, now time.Time) Model {
	m := Model{
		Header: Header{
			Title:       "Suppliers List",
			GeneratedAt: now,
		},
		Table: Table{
			Columns:     []string{"Name", "Email", "Phone", "Status"},
			Placeholder: "No suppliers available to display.",
		},
		Footer: "QuickCart Grocery Store - Inventory Management System",
	}

	for _, s := range suppliers {
		status := "Inactive"
		if s.IsActive {
			status = "Active"
		}
		m.Table.Rows = append(m.Table.Rows, []string{
			orDash(s.Name), orDash(s.Email), orDash(s.Phone), status,
		})
	}

	return m
}

// histogram counts products per canonical category, sorted by count
// descending with ties broken by name so output is deterministic.
func histogram(products []*domain.Product) []CategoryBucket {
	counts := make(map[string]int)
	for _, p := range products {
		counts[domain.CanonicalCategory(p.Category)]++
	}

	buckets := make([]CategoryBucket, 0, len(counts))
	maxCount := 0
	for category, count := range counts {
		buckets = append(buckets, CategoryBucket{Category: category, Count: count})
		if count > maxCount {
			maxCount = count
		}
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Category < buckets[j].Category
	})

	for i := range buckets {
		buckets[i].Scale = float64(buckets[i].Count) / float64(maxCount)
	}
	return buckets
}

func money(v float64) string {
	return decimal.NewFromFloat(v).Round(2).StringFixed(2)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
