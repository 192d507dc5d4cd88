package printify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"shopify-repricer/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogPage(page, count int) []map[string]any {
	products := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		products = append(products, map[string]any{
			"id":    fmt.Sprintf("p%d-%d", page, i),
			"title": "Tee",
			"variants": []map[string]any{
				{"id": page*1000 + i, "sku": fmt.Sprintf("PF-%d-%d", page, i), "price": 5.5},
			},
		})
	}
	return products
}

func newCatalogServer(t *testing.T, handler func(page int) any) (*httptest.Server, *[]int) {
	t.Helper()
	var pages []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "Bearer pf-token", r.Header.Get("Authorization"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pages = append(pages, page)
		_ = json.NewEncoder(w).Encode(handler(page))
	}))
	t.Cleanup(server.Close)
	return server, &pages
}

func newTestClient(server *httptest.Server) *Client {
	return NewClient(config.PrintifyConfig{BaseUrl: server.URL + "/", Token: "pf-token"}, server.Client())
}

func TestFindVariantCost_MatchOnThirdPageStopsPaging(t *testing.T) {
	server, pages := newCatalogServer(t, func(page int) any {
		products := catalogPage(page, 50)
		if page == 3 {
			products[49]["variants"] = []map[string]any{
				{"id": 1, "sku": " TARGET ", "price": nil, "retail_price": "0", "default_price": "6.25", "variant_price": 9},
			}
		}
		return products
	})

	cost, found, err := newTestClient(server).FindVariantCost(context.Background(), "TARGET")

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "6.25", cost.StringFixed(2))
	assert.Equal(t, []int{1, 2, 3}, *pages)
}

func TestFindVariantCost_StopsOnShortPage(t *testing.T) {
	server, pages := newCatalogServer(t, func(page int) any {
		if page == 2 {
			return map[string]any{"data": catalogPage(page, 7)}
		}
		return catalogPage(page, 50)
	})

	cost, found, err := newTestClient(server).FindVariantCost(context.Background(), "MISSING")

	require.NoError(t, err)
	assert.False(t, found)
	assert.True(t, cost.IsZero())
	assert.Equal(t, []int{1, 2}, *pages)
}

func TestFindVariantCost_StopsOnEmptyPage(t *testing.T) {
	server, pages := newCatalogServer(t, func(page int) any {
		if page == 2 {
			return []any{}
		}
		return catalogPage(page, 50)
	})

	_, found, err := newTestClient(server).FindVariantCost(context.Background(), "MISSING")

	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, []int{1, 2}, *pages)
}

func TestFindVariantCost_OfferIDFallback(t *testing.T) {
	server, _ := newCatalogServer(t, func(page int) any {
		return []map[string]any{{
			"id": "p1",
			"variants": []map[string]any{
				{"id": 1, "sku": "", "offer_id": 778899, "retail_price": "3.10"},
			},
		}}
	})

	cost, found, err := newTestClient(server).FindVariantCost(context.Background(), "778899")

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "3.10", cost.StringFixed(2))
}

func TestFindVariantCost_MatchWithoutPrice(t *testing.T) {
	server, _ := newCatalogServer(t, func(page int) any {
		return []map[string]any{{
			"id":       "p1",
			"variants": []map[string]any{{"id": 1, "sku": "BARE", "price": 0}},
		}}
	})

	cost, found, err := newTestClient(server).FindVariantCost(context.Background(), "BARE")

	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, cost.IsZero())
}

func TestFindVariantCost_BlankPriceFieldsAreNotPopulated(t *testing.T) {
	server, _ := newCatalogServer(t, func(page int) any {
		return []map[string]any{{
			"id": 1,
			"variants": []map[string]any{
				{"sku": "OTHER", "price": ""},
				{"sku": "WANT", "price": "", "retail_price": "n/a", "default_price": "12.50"},
			},
		}}
	})

	cost, found, err := newTestClient(server).FindVariantCost(context.Background(), "WANT")

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "12.50", cost.StringFixed(2))
}

func TestFindVariantCost_Errors(t *testing.T) {
	_, _, err := NewClient(config.PrintifyConfig{}, nil).FindVariantCost(context.Background(), "SKU")
	assert.ErrorIs(t, err, config.ErrMissing)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer server.Close()

	_, found, err := newTestClient(server).FindVariantCost(context.Background(), "SKU")
	assert.Error(t, err)
	assert.False(t, found)
}
