package catalog

import (
	"testing"

	"github.com/laka02/quickcart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() []*domain.Product {
	return []*domain.Product{
		{ID: "1", Name: "Basmati Rice", Price: 120, Stock: 40, Category: "Grains"},
		{ID: "2", Name: "Red Lentils", Price: 95, Stock: 0, Category: "Pulses"},
		{ID: "3", Name: "Green Tea", Price: 250, Stock: 12, Category: "Beverages"},
		{ID: "4", Name: "Black Tea", Price: 180, Stock: 25, Category: "Beverages"},
		{ID: "5", Name: "Olive Oil", Price: 950, Stock: 8, Category: ""},
		{ID: "6", Name: "Rice Flour", Price: 60, Stock: 30, Category: "Grains"},
	}
}

func TestViewDefaultSpec(t *testing.T) {
	products := fixture()
	result, err := View(products, domain.DefaultFilterSpec())
	require.NoError(t, err)

	assert.Equal(t, len(products), result.TotalItems)
	assert.Equal(t, 1, result.TotalPages)
	assert.Len(t, result.Page, len(products))
	// Unsorted view keeps input order
	assert.Equal(t, "Basmati Rice", result.Page[0].Name)
}

func TestViewFilters(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*domain.FilterSpec)
		wantIDs []string
	}{
		{
			"Name substring is case-insensitive",
			func(s *domain.FilterSpec) { s.NameSubstring = "rice" },
			[]string{"1", "6"},
		},
		{
			"Price bounds are inclusive",
			func(s *domain.FilterSpec) { s.PriceMin = 95; s.PriceMax = 180 },
			[]string{"1", "2", "4"},
		},
		{
			"Min stock gate only applies when positive",
			func(s *domain.FilterSpec) { s.MinStock = 25 },
			[]string{"1", "4", "6"},
		},
		{
			"Category is an exact match",
			func(s *domain.FilterSpec) { s.Category = "Beverages" },
			[]string{"3", "4"},
		},
		{
			"Uncategorized selects products without a category",
			func(s *domain.FilterSpec) { s.Category = domain.Uncategorized },
			[]string{"5"},
		},
		{
			"Filters compose with AND",
			func(s *domain.FilterSpec) { s.Category = "Grains"; s.PriceMax = 100 },
			[]string{"6"},
		},
		{
			"No matches yields an empty first page",
			func(s *domain.FilterSpec) { s.NameSubstring = "caviar" },
			nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			spec := domain.DefaultFilterSpec()
			tc.mutate(&spec)

			result, err := View(fixture(), spec)
			require.NoError(t, err)

			var ids []string
			for _, p := range result.Page {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tc.wantIDs, ids)
			assert.Equal(t, len(tc.wantIDs), result.TotalItems)
			assert.GreaterOrEqual(t, result.TotalPages, 1)
		})
	}
}

func TestViewSorting(t *testing.T) {
	testCases := []struct {
		key     string
		wantIDs []string
	}{
		{domain.SortPriceAsc, []string{"6", "2", "1", "4", "3", "5"}},
		{domain.SortPriceDesc, []string{"5", "3", "4", "1", "2", "6"}},
		{domain.SortNameAsc, []string{"1", "4", "3", "5", "2", "6"}},
		{domain.SortNameDesc, []string{"6", "2", "5", "3", "4", "1"}},
		{domain.SortStockDesc, []string{"1", "6", "4", "3", "5", "2"}},
	}

	for _, tc := range testCases {
		t.Run(tc.key, func(t *testing.T) {
			spec := domain.DefaultFilterSpec()
			spec.SortKey = tc.key

			result, err := View(fixture(), spec)
			require.NoError(t, err)

			var ids []string
			for _, p := range result.Page {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tc.wantIDs, ids)
		})
	}
}

func TestViewSortIsStable(t *testing.T) {
	products := []*domain.Product{
		{ID: "a", Name: "First", Price: 10, Stock: 5},
		{ID: "b", Name: "Second", Price: 10, Stock: 5},
		{ID: "c", Name: "Third", Price: 10, Stock: 5},
	}
	spec := domain.DefaultFilterSpec()
	spec.SortKey = domain.SortPriceAsc

	result, err := View(products, spec)
	require.NoError(t, err)

	// Equal keys keep input order
	assert.Equal(t, "a", result.Page[0].ID)
	assert.Equal(t, "b", result.Page[1].ID)
	assert.Equal(t, "c", result.Page[2].ID)
}

func TestViewPagination(t *testing.T) {
	var products []*domain.Product
	for i := 0; i < 10; i++ {
		products = append(products, &domain.Product{
			ID: string(rune('a' + i)), Name: "P", Price: 1, Stock: 1,
		})
	}

	spec := domain.DefaultFilterSpec()
	spec.PageSize = 4

	t.Run("Ten items in pages of four gives three pages", func(t *testing.T) {
		result, err := View(products, spec)
		require.NoError(t, err)
		assert.Equal(t, 3, result.TotalPages)
		assert.Len(t, result.Page, 4)
	})

	t.Run("Last page holds the remainder", func(t *testing.T) {
		spec := spec
		spec.PageNumber = 3
		result, err := View(products, spec)
		require.NoError(t, err)
		assert.Len(t, result.Page, 2)
	})

	t.Run("Page past the end is empty", func(t *testing.T) {
		spec := spec
		spec.PageNumber = 7
		result, err := View(products, spec)
		require.NoError(t, err)
		assert.Empty(t, result.Page)
		assert.Equal(t, 3, result.TotalPages)
	})

	t.Run("Page below one is clamped to the first page", func(t *testing.T) {
		spec := spec
		spec.PageNumber = 0
		result, err := View(products, spec)
		require.NoError(t, err)
		assert.Len(t, result.Page, 4)
	})
}

func TestViewCategoriesComputedBeforeFiltering(t *testing.T) {
	spec := domain.DefaultFilterSpec()
	spec.Category = "Grains"

	result, err := View(fixture(), spec)
	require.NoError(t, err)

	// The selector still offers every known value, with the empty
	// category folded into Uncategorized, sorted.
	assert.Equal(t,
		[]string{"Beverages", "Grains", "Pulses", domain.Uncategorized},
		result.Categories)
}

func TestViewIsDeterministic(t *testing.T) {
	spec := domain.DefaultFilterSpec()
	spec.SortKey = domain.SortNameAsc
	products := fixture()

	first, err := View(products, spec)
	require.NoError(t, err)
	second, err := View(products, spec)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestViewRejectsInvalidSpecs(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*domain.FilterSpec)
	}{
		{"Zero page size", func(s *domain.FilterSpec) { s.PageSize = 0 }},
		{"Negative price minimum", func(s *domain.FilterSpec) { s.PriceMin = -1 }},
		{"Inverted price bounds", func(s *domain.FilterSpec) { s.PriceMin = 50; s.PriceMax = 10 }},
		{"Negative min stock", func(s *domain.FilterSpec) { s.MinStock = -2 }},
		{"Unknown sort key", func(s *domain.FilterSpec) { s.SortKey = "rating-desc" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			spec := domain.DefaultFilterSpec()
			tc.mutate(&spec)

			_, err := View(fixture(), spec)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidFilter)
		})
	}
}
