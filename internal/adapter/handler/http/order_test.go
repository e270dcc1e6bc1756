package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/zishop/zishop/internal/core/domain"
	"github.com/zishop/zishop/internal/core/port"
	"github.com/zishop/zishop/internal/core/port/mock"
	"go.uber.org/zap"
)

func newCreateOrderContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ctx.Request = req
	ctx.Set(userPayloadKey, &port.TokenPayload{UserID: 7, Role: domain.RoleClient})

	return ctx, w
}

// Prices are decimal strings; they must arrive at the service with their
// exact value and scale, never reshaped by float64.
func TestOrderHandler_CreateOrderDecimalPrices(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	svc := mock.NewMockService(mockCtrl)
	svc.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, order *domain.Order) (*domain.Order, error) {
			assert.Len(t, order.Items, 2)
			assert.Equal(t, "19.99", order.Items[0].Price.String())
			assert.Equal(t, "0.10", order.Items[1].Price.String())
			assert.NotNil(t, order.ClientID)
			assert.Equal(t, uint64(7), *order.ClientID)
			return order, nil
		})

	handler, err := NewOrderHandler(svc, nil, zap.NewNop())
	assert.NoError(t, err)

	body := `{"hotel_id":10,"merchant_id":20,"items":[
		{"product_id":1,"product_name":"Souvenir mug","quantity":2,"price":"19.99"},
		{"product_id":2,"product_name":"Postcard","quantity":1,"price":"0.10"}]}`

	ctx, w := newCreateOrderContext(body)
	handler.CreateOrder(ctx)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestOrderHandler_CreateOrderBadPrice(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	svc := mock.NewMockService(mockCtrl)

	handler, err := NewOrderHandler(svc, nil, zap.NewNop())
	assert.NoError(t, err)

	body := `{"hotel_id":10,"merchant_id":20,"items":[
		{"product_id":1,"product_name":"Souvenir mug","quantity":1,"price":"nineteen"}]}`

	ctx, w := newCreateOrderContext(body)
	handler.CreateOrder(ctx)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
