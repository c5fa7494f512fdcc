package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	catalogapp "github.com/petshop/backend/internal/application/catalog"
	orderapp "github.com/petshop/backend/internal/application/order"
	"github.com/petshop/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *apiEnv) stockOf(sku string) int {
	e.t.Helper()
	p, err := e.products.FindByIDForTenant(context.Background(), e.tenantID, e.product.ID)
	require.NoError(e.t, err)
	v, ok := p.FindVariantBySKU(sku)
	require.True(e.t, ok)
	return v.Stock
}

func (e *apiEnv) placeOrder(token string, lines ...orderapp.OrderLineRequest) orderapp.OrderResponse {
	e.t.Helper()
	w := e.do(http.MethodPost, "/api/v1/orders", orderapp.PlaceOrderRequest{Items: lines}, withToken(token))
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[orderapp.OrderResponse](e.t, w).Data
}

func TestOrderHandler_Place(t *testing.T) {
	t.Run("retail order uses the promotion and takes stock", func(t *testing.T) {
		env := newAPIEnv(t)
		order := env.placeOrder(env.tokenFor(env.customer),
			orderapp.OrderLineRequest{ProductID: env.product.ID, VariantID: env.small.ID, Quantity: 2},
			orderapp.OrderLineRequest{ProductID: env.product.ID, VariantID: env.large.ID, Quantity: 1},
		)

		assert.Equal(t, "pending", order.Status)
		assert.Equal(t, "IDR", order.Currency)
		assert.Equal(t, env.customer.ID, order.UserID)
		assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(600000)), order.Subtotal.String())
		assert.True(t, order.Total.Equal(decimal.NewFromInt(500000)), order.Total.String())
		assert.True(t, order.Discount.Equal(decimal.NewFromInt(100000)))
		assert.Equal(t, 8, env.stockOf("KIB-1KG"))
		assert.Equal(t, 3, env.stockOf("KIB-5KG"))
	})

	t.Run("reseller order uses the tier", func(t *testing.T) {
		env := newAPIEnv(t)
		order := env.placeOrder(env.tokenFor(env.reseller),
			orderapp.OrderLineRequest{ProductID: env.product.ID, VariantID: env.small.ID, Quantity: 5},
		)

		assert.Equal(t, "reseller_tier", order.PricingMode)
		require.Len(t, order.Items, 1)
		assert.True(t, order.Items[0].UnitPrice.Equal(decimal.NewFromInt(90000)))
		assert.Equal(t, "reseller_tier:highest_threshold", order.Items[0].AppliedRule)
	})

	t.Run("reseller order completes on a single connection", func(t *testing.T) {
		env := newAPIEnv(t)
		token := env.tokenFor(env.reseller)
		done := make(chan int, 1)
		go func() {
			w := env.do(http.MethodPost, "/api/v1/orders", orderapp.PlaceOrderRequest{Items: []orderapp.OrderLineRequest{
				{ProductID: env.product.ID, VariantID: env.large.ID, Quantity: 2},
			}}, withToken(token))
			done <- w.Code
		}()

		select {
		case code := <-done:
			assert.Equal(t, http.StatusCreated, code)
		case <-time.After(5 * time.Second):
			t.Fatal("reseller order blocked waiting for a database connection")
		}
		assert.Equal(t, 2, env.stockOf("KIB-5KG"))
	})

	t.Run("insufficient stock leaves stock untouched", func(t *testing.T) {
		env := newAPIEnv(t)
		w := env.do(http.MethodPost, "/api/v1/orders", orderapp.PlaceOrderRequest{Items: []orderapp.OrderLineRequest{
			{ProductID: env.product.ID, VariantID: env.small.ID, Quantity: 1},
			{ProductID: env.product.ID, VariantID: env.large.ID, Quantity: 5},
		}}, withToken(env.tokenFor(env.customer)))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInsufficientStock, decode[any](t, w).Error.Code)
		assert.Equal(t, 10, env.stockOf("KIB-1KG"))
		assert.Equal(t, 4, env.stockOf("KIB-5KG"))
	})

	t.Run("anonymous caller", func(t *testing.T) {
		env := newAPIEnv(t)
		w := env.do(http.MethodPost, "/api/v1/orders", orderapp.PlaceOrderRequest{})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("empty order fails validation", func(t *testing.T) {
		env := newAPIEnv(t)
		w := env.do(http.MethodPost, "/api/v1/orders", orderapp.PlaceOrderRequest{}, withToken(env.tokenFor(env.customer)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, decode[any](t, w).Error.Code)
	})
}

func TestOrderHandler_ReadAccess(t *testing.T) {
	env := newAPIEnv(t)
	customerToken := env.tokenFor(env.customer)
	order := env.placeOrder(customerToken,
		orderapp.OrderLineRequest{ProductID: env.product.ID, VariantID: env.small.ID, Quantity: 1})

	w := env.do(http.MethodGet, "/api/v1/orders/"+order.ID.String(), nil, withToken(customerToken))
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/v1/orders/"+order.ID.String(), nil, withToken(env.tokenFor(env.reseller)))
	assert.Equal(t, http.StatusNotFound, w.Code, "other users cannot see the order")

	w = env.do(http.MethodGet, "/api/v1/orders/"+order.ID.String(), nil, withToken(env.tokenFor(env.admin)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/v1/orders", nil, withToken(customerToken))
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[[]orderapp.OrderResponse](t, w)
	assert.Equal(t, int64(1), mine.Meta.Total)

	w = env.do(http.MethodGet, "/api/v1/orders", nil, withToken(env.tokenFor(env.reseller)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), decode[[]orderapp.OrderResponse](t, w).Meta.Total)

	w = env.do(http.MethodGet, "/api/v1/orders/"+uuid.NewString(), nil, withToken(customerToken))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	env := newAPIEnv(t)
	order := env.placeOrder(env.tokenFor(env.customer),
		orderapp.OrderLineRequest{ProductID: env.product.ID, VariantID: env.small.ID, Quantity: 3})
	require.Equal(t, 7, env.stockOf("KIB-1KG"))
	path := "/api/v1/admin/orders/" + order.ID.String() + "/status"

	w := env.do(http.MethodPut, path, orderapp.UpdateStatusRequest{Status: "cancelled"}, withToken(env.tokenFor(env.customer)))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPut, path, orderapp.UpdateStatusRequest{Status: "cancelled"}, withToken(env.tokenFor(env.admin)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "cancelled", decode[orderapp.OrderResponse](t, w).Data.Status)
	assert.Equal(t, 10, env.stockOf("KIB-1KG"), "cancelling restores stock")

	w = env.do(http.MethodPut, path, orderapp.UpdateStatusRequest{Status: "paid"}, withToken(env.tokenFor(env.admin)))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = env.do(http.MethodPut, path, orderapp.UpdateStatusRequest{Status: "refunded"}, withToken(env.tokenFor(env.admin)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_UpdateStock(t *testing.T) {
	env := newAPIEnv(t)
	admin := env.tokenFor(env.admin)

	w := env.do(http.MethodPut, "/api/v1/admin/products/stock", catalogapp.BulkStockRequest{Items: []catalogapp.StockUpdate{
		{SKU: "KIB-1KG", Stock: 25},
		{SKU: "NOPE", Stock: 1},
	}}, withToken(admin))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	results := decode[[]catalogapp.StockUpdateResult](t, w).Data
	require.Len(t, results, 2)
	assert.True(t, results[0].Updated)
	assert.False(t, results[1].Updated)
	assert.NotEmpty(t, results[1].Error)
	assert.Equal(t, 25, env.stockOf("KIB-1KG"))

	w = env.do(http.MethodGet, "/api/v1/admin/products/"+env.product.ID.String(), nil, withToken(admin))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Salmon Kibble", decode[catalogapp.ProductResponse](t, w).Data.Name)
}
