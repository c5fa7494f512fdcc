package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	pricingapp "github.com/petshop/backend/internal/application/pricing"
	"github.com/petshop/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorefrontHandler_GetVariantPrice(t *testing.T) {
	env := newAPIEnv(t)
	path := "/api/v1/storefront/products/" + env.product.ID.String() + "/variants/" + env.large.ID.String() + "/price"

	t.Run("anonymous shopper sees the flash sale", func(t *testing.T) {
		w := env.do(http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		got := decode[pricingapp.VariantPriceResponse](t, w).Data
		assert.Equal(t, "IDR", got.Currency)
		assert.True(t, got.HasDiscount)
		assert.True(t, got.FinalPrice.Equal(decimal.NewFromInt(300000)), got.FinalPrice.String())
		assert.True(t, got.OriginalPrice.Equal(decimal.NewFromInt(400000)))
	})

	t.Run("reseller never gets the promotion", func(t *testing.T) {
		w := env.do(http.MethodGet, path, nil, withToken(env.tokenFor(env.reseller)))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		got := decode[pricingapp.VariantPriceResponse](t, w).Data
		assert.False(t, got.HasDiscount)
		assert.True(t, got.FinalPrice.Equal(decimal.NewFromInt(400000)))
	})

	t.Run("variant not priced in requested currency", func(t *testing.T) {
		w := env.do(http.MethodGet, path+"?currency=USD", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodePriceUnavailable, decode[any](t, w).Error.Code)
	})

	t.Run("unknown variant", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/v1/storefront/products/"+env.product.ID.String()+"/variants/"+uuid.NewString()+"/price", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed product id", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/v1/storefront/products/nope/variants/"+env.large.ID.String()+"/price", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStorefrontHandler_GetProductPrices_Currency(t *testing.T) {
	env := newAPIEnv(t)
	path := "/api/v1/storefront/products/" + env.product.ID.String() + "/prices"

	tests := []struct {
		name     string
		query    string
		country  string
		currency string
		variants int
	}{
		{"default currency", "", "", "IDR", 2},
		{"requested currency", "?currency=usd", "", "USD", 1},
		{"requested wins over geo", "?currency=USD", "SG", "USD", 1},
		{"geo currency", "", "SG", "SGD", 0},
		{"unsupported geo falls back", "", "JP", "IDR", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []requestOption
			if tt.country != "" {
				opts = append(opts, withHeader(geoHeader, tt.country))
			}
			w := env.do(http.MethodGet, path+tt.query, nil, opts...)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			got := decode[pricingapp.ProductPricesResponse](t, w).Data
			assert.Equal(t, tt.currency, got.Currency)
			assert.Len(t, got.Variants, tt.variants)
		})
	}
}

func TestStorefrontHandler_ListProducts(t *testing.T) {
	env := newAPIEnv(t)

	w := env.do(http.MethodGet, "/api/v1/storefront/products?page=1&page_size=10", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[[]pricingapp.ProductListingItem](t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, env.product.ID, resp.Data[0].ID)
	assert.True(t, resp.Data[0].MinPrice.Equal(decimal.NewFromInt(100000)))
	assert.True(t, resp.Data[0].HasDiscount)

	w = env.do(http.MethodGet, "/api/v1/storefront/products?page_size=1000", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, decode[any](t, w).Error.Code)
}

func TestStorefrontHandler_QuoteReseller(t *testing.T) {
	env := newAPIEnv(t)
	body := pricingapp.QuoteRequest{Items: []pricingapp.QuoteLine{
		{ProductID: env.product.ID, VariantID: env.small.ID, Quantity: 5},
	}}

	t.Run("reseller gets tier price", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/v1/storefront/reseller-quote", body, withToken(env.tokenFor(env.reseller)))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		quote := decode[pricingapp.QuoteResponse](t, w).Data
		assert.Equal(t, "IDR", quote.Currency)
		assert.Equal(t, "Gold", quote.ResellerCategory)
		require.Len(t, quote.Items, 1)
		assert.True(t, quote.Items[0].UnitPrice.Equal(decimal.NewFromInt(90000)))
		assert.True(t, quote.Total.Equal(decimal.NewFromInt(450000)))
		assert.True(t, quote.Discount.Equal(decimal.NewFromInt(50000)))
	})

	t.Run("customer is forbidden", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/v1/storefront/reseller-quote", body, withToken(env.tokenFor(env.customer)))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/v1/storefront/reseller-quote", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("empty quote is rejected", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/v1/storefront/reseller-quote", pricingapp.QuoteRequest{}, withToken(env.tokenFor(env.reseller)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
