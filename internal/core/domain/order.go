package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "pending"
	OrderStatusConfirmed       OrderStatus = "confirmed"
	OrderStatusPreparing       OrderStatus = "preparing"
	OrderStatusReady           OrderStatus = "ready"
	OrderStatusDelivering      OrderStatus = "delivering"
	OrderStatusDelivered       OrderStatus = "delivered"
	OrderStatusCancelled       OrderStatus = "cancelled"
	OrderStatusRefundRequested OrderStatus = "refund_requested"
	OrderStatusRefunded        OrderStatus = "refunded"
)

// OrderStatuses lists every valid status.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusDelivering,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusRefundRequested,
	OrderStatusRefunded,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, status := range OrderStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", ErrUnknownStatus
}

// IsTerminal reports whether no further transition can leave the status.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusRefunded
}

type ActorRole string

const (
	RoleMerchant ActorRole = "merchant"
	RoleHotel    ActorRole = "hotel"
	RoleClient   ActorRole = "client"
	RoleAdmin    ActorRole = "admin"
)

var ActorRoles = []ActorRole{RoleMerchant, RoleHotel, RoleClient, RoleAdmin}

func ParseActorRole(s string) (ActorRole, error) {
	for _, role := range ActorRoles {
		if string(role) == s {
			return role, nil
		}
	}
	return "", ErrUnknownRole
}

// OrderItem is a snapshot of a product line at the time of ordering.
// Items are immutable after creation: changing an order means placing a new one.
type OrderItem struct {
	ProductID   uint64          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type Order struct {
	ID         uint64
	Number     string
	HotelID    uint64
	MerchantID uint64
	ClientID   *uint64
	Items      []OrderItem

	TotalAmount decimal.Decimal
	Status      OrderStatus

	PickedUp   bool
	PickedUpAt *time.Time

	ConfirmedAt       *time.Time
	DeliveredAt       *time.Time
	EstimatedDelivery *time.Time
	DeliveryNotes     string

	// Commission shares are computed once when the merchant confirms the
	// order and never recomputed, so historical orders keep the split that
	// was in effect when they were accepted.
	MerchantCommission *decimal.Decimal
	ZishopCommission   *decimal.Decimal
	HotelCommission    *decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time

	// Version is the optimistic concurrency token maintained by the
	// storage adapter.
	Version uint64
}

// Clone returns a copy of the order with its own items slice, so workflow
// transitions never mutate the caller's snapshot.
func (o *Order) Clone() *Order {
	clone := *o
	clone.Items = make([]OrderItem, len(o.Items))
	copy(clone.Items, o.Items)
	return &clone
}
