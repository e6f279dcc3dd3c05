package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduardojeem/Mipos-sub011/internal/domain"
)

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: "1", Name: "Cola", SKU: "DRK-001", CategoryID: "drinks", Price: decimal.RequireFromString("1.50"), Stock: 50},
		{ID: "2", Name: "Bread", SKU: "BAK-001", CategoryID: "bakery", Price: decimal.RequireFromString("2.00"), Stock: 10},
		{ID: "3", Name: "Apple", SKU: "FRT-001", CategoryID: "fruit", Price: decimal.RequireFromString("0.80"), Stock: 200},
		{ID: "4", Name: "Dark Chocolate", SKU: "SNK-001", CategoryID: "snacks", Price: decimal.RequireFromString("2.00"), Stock: 30},
	}
}

func names(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestFilterIdentityQuerySortsByName(t *testing.T) {
	got := Filter(testProducts(), Query{Search: "", Category: CategoryAll, SortBy: SortByName, Order: SortAsc})
	assert.Equal(t, []string{"Apple", "Bread", "Cola", "Dark Chocolate"}, names(got))
}

func TestFilterSearchMatchesNameCaseInsensitive(t *testing.T) {
	got := Filter(testProducts(), Query{Search: "daRK", Category: CategoryAll})
	require.Len(t, got, 1)
	assert.Equal(t, "Dark Chocolate", got[0].Name)
}

func TestFilterSearchMatchesSKU(t *testing.T) {
	got := Filter(testProducts(), Query{Search: "bak-", Category: CategoryAll})
	require.Len(t, got, 1)
	assert.Equal(t, "Bread", got[0].Name)
}

func TestFilterCategoryExactMatch(t *testing.T) {
	got := Filter(testProducts(), Query{Category: "drinks"})
	require.Len(t, got, 1)
	assert.Equal(t, "Cola", got[0].Name)
}

func TestFilterCategoryAllPassesThrough(t *testing.T) {
	assert.Len(t, Filter(testProducts(), Query{Category: CategoryAll}), 4)
	assert.Len(t, Filter(testProducts(), Query{Category: ""}), 4)
}

func TestFilterSortByPriceDesc(t *testing.T) {
	got := Filter(testProducts(), Query{Category: CategoryAll, SortBy: SortByPrice, Order: SortDesc})
	assert.Equal(t, []string{"Bread", "Dark Chocolate", "Cola", "Apple"}, names(got))
}

func TestFilterSortByStockAsc(t *testing.T) {
	got := Filter(testProducts(), Query{Category: CategoryAll, SortBy: SortByStock, Order: SortAsc})
	assert.Equal(t, []string{"Bread", "Dark Chocolate", "Cola", "Apple"}, names(got))
}

func TestFilterSortIsStableOnTies(t *testing.T) {
	// Bread and Dark Chocolate share a price; catalog order must hold
	// in both directions.
	asc := Filter(testProducts(), Query{Category: CategoryAll, SortBy: SortByPrice, Order: SortAsc})
	assert.Equal(t, []string{"Apple", "Cola", "Bread", "Dark Chocolate"}, names(asc))

	desc := Filter(testProducts(), Query{Category: CategoryAll, SortBy: SortByPrice, Order: SortDesc})
	assert.Equal(t, []string{"Bread", "Dark Chocolate", "Cola", "Apple"}, names(desc))
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	in := testProducts()
	Filter(in, Query{Category: CategoryAll, SortBy: SortByPrice, Order: SortDesc})
	assert.Equal(t, "Cola", in[0].Name)
}

func TestFilterReturnsFreshSlice(t *testing.T) {
	in := testProducts()
	got := Filter(in, Query{Category: CategoryAll})
	require.Len(t, got, len(in))
	got[0].Name = "mutated"
	assert.Equal(t, "Cola", in[0].Name)
}
