package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"github.com/zishop/zishop/internal/adapter/metrics"
	"github.com/zishop/zishop/internal/core/domain"
	"github.com/zishop/zishop/internal/core/port"
	"go.uber.org/zap"
)

type OrderHandler struct {
	Handler
	service port.Service
	metrics *metrics.ServerMetrics
}

func NewOrderHandler(service port.Service, m *metrics.ServerMetrics, logger *zap.Logger) (*OrderHandler, error) {
	return &OrderHandler{
		Handler: *NewHandler(logger),
		service: service,
		metrics: m,
	}, nil
}

type orderItemRequest struct {
	ProductID   uint64 `json:"product_id" binding:"required"`
	ProductName string `json:"product_name" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required"`
	// Price is a decimal string, e.g. "19.99"; money never passes through
	// binary floating point.
	Price string `json:"price" binding:"required"`
}

type createOrderRequest struct {
	HotelID    uint64             `json:"hotel_id" binding:"required"`
	MerchantID uint64             `json:"merchant_id" binding:"required"`
	Items      []orderItemRequest `json:"items" binding:"required"`
}

type orderResponse struct {
	Number            string             `json:"number"`
	HotelID           uint64             `json:"hotel_id"`
	MerchantID        uint64             `json:"merchant_id"`
	ClientID          *uint64            `json:"client_id,omitempty"`
	Items             []domain.OrderItem `json:"items"`
	TotalAmount       decimal.Decimal    `json:"total_amount"`
	Status            string             `json:"status"`
	PickedUp          bool               `json:"picked_up"`
	PickedUpAt        *time.Time         `json:"picked_up_at,omitempty"`
	ConfirmedAt       *time.Time         `json:"confirmed_at,omitempty"`
	DeliveredAt       *time.Time         `json:"delivered_at,omitempty"`
	EstimatedDelivery *time.Time         `json:"estimated_delivery,omitempty"`
	DeliveryNotes     string             `json:"delivery_notes,omitempty"`

	MerchantCommission *decimal.Decimal `json:"merchant_commission,omitempty"`
	ZishopCommission   *decimal.Decimal `json:"zishop_commission,omitempty"`
	HotelCommission    *decimal.Decimal `json:"hotel_commission,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		Number:             o.Number,
		HotelID:            o.HotelID,
		MerchantID:         o.MerchantID,
		ClientID:           o.ClientID,
		Items:              o.Items,
		TotalAmount:        o.TotalAmount,
		Status:             string(o.Status),
		PickedUp:           o.PickedUp,
		PickedUpAt:         o.PickedUpAt,
		ConfirmedAt:        o.ConfirmedAt,
		DeliveredAt:        o.DeliveredAt,
		EstimatedDelivery:  o.EstimatedDelivery,
		DeliveryNotes:      o.DeliveryNotes,
		MerchantCommission: o.MerchantCommission,
		ZishopCommission:   o.ZishopCommission,
		HotelCommission:    o.HotelCommission,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

func (oh *OrderHandler) CreateOrder(ctx *gin.Context) {
	req := createOrderRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	payload := getAuthPayload(ctx)

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		price, err := decimal.Parse(item.Price)
		if err != nil {
			oh.handleValidationError(ctx, err)
			return
		}
		items = append(items, domain.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       price.Round(2),
		})
	}

	clientID := payload.UserID
	order := &domain.Order{
		HotelID:    req.HotelID,
		MerchantID: req.MerchantID,
		ClientID:   &clientID,
		Items:      items,
	}

	newOrder, err := oh.service.CreateOrder(ctx, order)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccessWithStatus(ctx, newOrderResponse(newOrder), http.StatusCreated)
}

func (oh *OrderHandler) GetOrder(ctx *gin.Context) {
	order, err := oh.service.GetOrder(ctx, ctx.Param("number"))
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResponse(order))
}

type transitionRequest struct {
	Status            string     `json:"status" binding:"required"`
	DeliveryNotes     string     `json:"delivery_notes"`
	EstimatedDelivery *time.Time `json:"estimated_delivery"`
	PickedUp          bool       `json:"picked_up"`
}

// UpdateStatus applies a single workflow transition. The acting role comes
// from the token, never from the request body.
func (oh *OrderHandler) UpdateStatus(ctx *gin.Context) {
	req := transitionRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	target, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	payload := getAuthPayload(ctx)
	extra := &domain.TransitionExtra{
		DeliveryNotes:     req.DeliveryNotes,
		EstimatedDelivery: req.EstimatedDelivery,
		PickedUp:          req.PickedUp,
	}

	order, err := oh.service.TransitionOrder(ctx, ctx.Param("number"), target, payload.Role, extra)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.metrics.ObserveTransition(string(order.Status))
	oh.handleSuccess(ctx, newOrderResponse(order))
}

type estimateRequest struct {
	EstimatedDelivery time.Time `json:"estimated_delivery" binding:"required"`
}

func (oh *OrderHandler) UpdateEstimate(ctx *gin.Context) {
	req := estimateRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.ReviseEstimate(ctx, ctx.Param("number"), req.EstimatedDelivery)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResponse(order))
}

// ListOrders returns the caller's orders: clients see their own, merchants
// and hotels their side of the marketplace, admins may filter by status.
func (oh *OrderHandler) ListOrders(ctx *gin.Context) {
	payload := getAuthPayload(ctx)

	var list []*domain.Order
	var err error

	switch payload.Role {
	case domain.RoleClient:
		list, err = oh.service.ListOrdersByClient(ctx, payload.UserID)
	case domain.RoleMerchant:
		list, err = oh.service.ListOrdersByMerchant(ctx, payload.UserID)
	case domain.RoleHotel:
		list, err = oh.service.ListOrdersByHotel(ctx, payload.UserID)
	case domain.RoleAdmin:
		var statuses []domain.OrderStatus
		statuses, err = parseStatusFilter(ctx.Query("status"))
		if err == nil {
			list, err = oh.service.ListOrdersByStatus(ctx, statuses)
		}
	default:
		err = domain.ErrForbidden
	}
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	result := make([]orderResponse, 0, len(list))
	for _, o := range list {
		result = append(result, newOrderResponse(o))
	}

	oh.handleSuccess(ctx, result)
}

func parseStatusFilter(filter string) ([]domain.OrderStatus, error) {
	if filter == "" {
		return domain.OrderStatuses, nil
	}

	statuses := make([]domain.OrderStatus, 0)
	for _, s := range strings.Split(filter, ",") {
		status, err := domain.ParseOrderStatus(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
