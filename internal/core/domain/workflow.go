package domain

import (
	"time"
)

// DefaultRefundWindow bounds how long after creation a delivered order stays
// eligible for a refund request.
const DefaultRefundWindow = 7 * 24 * time.Hour

// TransitionExtra carries the optional fields a transition may set.
type TransitionExtra struct {
	DeliveryNotes     string
	EstimatedDelivery *time.Time
	PickedUp          bool
}

type transitionKey struct {
	from OrderStatus
	role ActorRole
}

// transitionTable is the full status graph keyed by (current status, actor
// role). Keeping it as data makes the permitted edges reviewable in one
// place instead of scattered across branching code.
//
// The delivered->delivered edge is the hotel marking guest pickup; it
// requires TransitionExtra.PickedUp and an order not yet picked up.
var transitionTable = map[transitionKey][]OrderStatus{
	{OrderStatusPending, RoleMerchant}: {OrderStatusConfirmed, OrderStatusCancelled},
	{OrderStatusPending, RoleClient}:   {OrderStatusCancelled},
	{OrderStatusPending, RoleAdmin}:    {OrderStatusCancelled},

	{OrderStatusConfirmed, RoleMerchant}: {OrderStatusPreparing, OrderStatusCancelled},

	{OrderStatusPreparing, RoleMerchant}: {OrderStatusReady},
	{OrderStatusPreparing, RoleClient}:   {OrderStatusCancelled},
	{OrderStatusPreparing, RoleAdmin}:    {OrderStatusCancelled},

	{OrderStatusReady, RoleMerchant}: {OrderStatusDelivering},

	{OrderStatusDelivering, RoleHotel}: {OrderStatusDelivered},

	{OrderStatusDelivered, RoleHotel}:  {OrderStatusDelivered},
	{OrderStatusDelivered, RoleClient}: {OrderStatusRefundRequested},

	{OrderStatusRefundRequested, RoleAdmin}: {OrderStatusRefunded},
}

// WorkflowEngine owns the order status state machine. It is stateless and
// pure: Transition works on a snapshot and returns an updated copy, leaving
// persistence and notification to the caller.
type WorkflowEngine struct {
	rates        CommissionRates
	refundWindow time.Duration
}

func NewWorkflowEngine(rates CommissionRates, refundWindow time.Duration) (*WorkflowEngine, error) {
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	if refundWindow <= 0 {
		refundWindow = DefaultRefundWindow
	}
	return &WorkflowEngine{rates: rates, refundWindow: refundWindow}, nil
}

// Transition applies a single status change requested by the given actor.
// Exactly one edge is applied per call; repeating an already-applied
// transition fails with ErrInvalidTransition rather than being idempotent,
// so callers must check current status before retrying.
func (e *WorkflowEngine) Transition(order *Order, target OrderStatus, role ActorRole, extra *TransitionExtra) (*Order, error) {
	if !e.allowed(order.Status, target, role) {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	updated := order.Clone()

	from := order.Status
	switch {
	case from == OrderStatusPending && target == OrderStatusConfirmed:
		updated.ConfirmedAt = &now
		if err := e.attachCommissions(updated); err != nil {
			return nil, err
		}

	case from == OrderStatusConfirmed && target == OrderStatusPreparing:
		applyDeliveryExtra(updated, extra)

	case from == OrderStatusPreparing && target == OrderStatusReady:
		applyDeliveryExtra(updated, extra)

	case from == OrderStatusDelivering && target == OrderStatusDelivered:
		updated.DeliveredAt = &now

	case from == OrderStatusDelivered && target == OrderStatusDelivered:
		if extra == nil || !extra.PickedUp {
			return nil, ErrInvalidTransition
		}
		if order.PickedUp {
			return nil, ErrAlreadyPickedUp
		}
		updated.PickedUp = true
		updated.PickedUpAt = &now

	case target == OrderStatusRefundRequested:
		if !e.CanRequestRefund(order, now) {
			return nil, ErrRefundWindowExpired
		}
	}

	updated.Status = target
	updated.UpdatedAt = now
	return updated, nil
}

// ReviseEstimate updates the estimated delivery time; the estimate may only
// be revised while the merchant is still preparing the order.
func (e *WorkflowEngine) ReviseEstimate(order *Order, estimate time.Time) (*Order, error) {
	if order.Status != OrderStatusPreparing {
		return nil, ErrInvalidTransition
	}
	updated := order.Clone()
	updated.EstimatedDelivery = &estimate
	updated.UpdatedAt = time.Now()
	return updated, nil
}

// CanRequestRefund reports whether the order is delivered and still inside
// the refund window counted from its creation.
func (e *WorkflowEngine) CanRequestRefund(order *Order, now time.Time) bool {
	return order.Status == OrderStatusDelivered && now.Sub(order.CreatedAt) <= e.refundWindow
}

func (e *WorkflowEngine) allowed(from, target OrderStatus, role ActorRole) bool {
	for _, s := range transitionTable[transitionKey{from, role}] {
		if s == target {
			return true
		}
	}
	return false
}

// attachCommissions computes the split once, at confirmation. Commission
// fields already set are never touched again.
func (e *WorkflowEngine) attachCommissions(order *Order) error {
	if order.MerchantCommission != nil {
		return nil
	}
	split, err := e.rates.Split(order.TotalAmount)
	if err != nil {
		return err
	}
	order.MerchantCommission = &split.Merchant
	order.ZishopCommission = &split.Zishop
	order.HotelCommission = &split.Hotel
	return nil
}

func applyDeliveryExtra(order *Order, extra *TransitionExtra) {
	if extra == nil {
		return
	}
	if extra.DeliveryNotes != "" {
		order.DeliveryNotes = extra.DeliveryNotes
	}
	if extra.EstimatedDelivery != nil {
		order.EstimatedDelivery = extra.EstimatedDelivery
	}
}
