package domain

import (
	"time"

	"github.com/govalues/decimal"
)

// OrderEvent is published after a status change has been persisted, for
// dashboards and downstream consumers. Delivery is best-effort; losing an
// event never rolls back the transition.
type OrderEvent struct {
	EventID     string          `json:"event_id"`
	OrderNumber string          `json:"order_number"`
	Status      OrderStatus     `json:"status"`
	HotelID     uint64          `json:"hotel_id"`
	MerchantID  uint64          `json:"merchant_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OccurredAt  time.Time       `json:"occurred_at"`
}
