package domain_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/zishop/zishop/internal/core/domain"
)

func newEngine(t *testing.T) *domain.WorkflowEngine {
	t.Helper()
	engine, err := domain.NewWorkflowEngine(domain.DefaultCommissionRates(), domain.DefaultRefundWindow)
	assert.NoError(t, err)
	return engine
}

func newOrder(status domain.OrderStatus) *domain.Order {
	now := time.Now()
	return &domain.Order{
		ID:         1,
		Number:     "ZS-20260901-TEST01",
		HotelID:    10,
		MerchantID: 20,
		Items: []domain.OrderItem{
			{ProductID: 1, ProductName: "Souvenir mug", Quantity: 2, Price: decimal.MustParse("25.00")},
			{ProductID: 2, ProductName: "Postcard set", Quantity: 1, Price: decimal.MustParse("50.00")},
		},
		TotalAmount: decimal.MustParse("100.00"),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

type edge struct {
	from   domain.OrderStatus
	target domain.OrderStatus
	role   domain.ActorRole
}

// TestWorkflowEngine_TransitionGraph sweeps every (from, target, role)
// combination and checks that exactly the documented edges are accepted.
func TestWorkflowEngine_TransitionGraph(t *testing.T) {
	engine := newEngine(t)

	wantAllowed := map[edge]bool{
		{domain.OrderStatusPending, domain.OrderStatusConfirmed, domain.RoleMerchant}: true,
		{domain.OrderStatusPending, domain.OrderStatusCancelled, domain.RoleMerchant}: true,
		{domain.OrderStatusPending, domain.OrderStatusCancelled, domain.RoleClient}:   true,
		{domain.OrderStatusPending, domain.OrderStatusCancelled, domain.RoleAdmin}:    true,

		{domain.OrderStatusConfirmed, domain.OrderStatusPreparing, domain.RoleMerchant}: true,
		{domain.OrderStatusConfirmed, domain.OrderStatusCancelled, domain.RoleMerchant}: true,

		{domain.OrderStatusPreparing, domain.OrderStatusReady, domain.RoleMerchant}:   true,
		{domain.OrderStatusPreparing, domain.OrderStatusCancelled, domain.RoleClient}: true,
		{domain.OrderStatusPreparing, domain.OrderStatusCancelled, domain.RoleAdmin}:  true,

		{domain.OrderStatusReady, domain.OrderStatusDelivering, domain.RoleMerchant}: true,

		{domain.OrderStatusDelivering, domain.OrderStatusDelivered, domain.RoleHotel}: true,

		{domain.OrderStatusDelivered, domain.OrderStatusDelivered, domain.RoleHotel}:        true,
		{domain.OrderStatusDelivered, domain.OrderStatusRefundRequested, domain.RoleClient}: true,

		{domain.OrderStatusRefundRequested, domain.OrderStatusRefunded, domain.RoleAdmin}: true,
	}

	extra := &domain.TransitionExtra{PickedUp: true}

	for _, from := range domain.OrderStatuses {
		for _, target := range domain.OrderStatuses {
			for _, role := range domain.ActorRoles {
				name := fmt.Sprintf("%s to %s by %s", from, target, role)
				t.Run(name, func(t *testing.T) {
					order := newOrder(from)
					updated, err := engine.Transition(order, target, role, extra)

					if wantAllowed[edge{from, target, role}] {
						assert.NoError(t, err)
						assert.Equal(t, target, updated.Status)
					} else {
						assert.ErrorIs(t, err, domain.ErrInvalidTransition)
						assert.Nil(t, updated)
					}
				})
			}
		}
	}
}

func TestWorkflowEngine_ConfirmStampsAndSplits(t *testing.T) {
	engine := newEngine(t)
	order := newOrder(domain.OrderStatusPending)

	updated, err := engine.Transition(order, domain.OrderStatusConfirmed, domain.RoleMerchant, nil)
	assert.NoError(t, err)

	assert.Equal(t, domain.OrderStatusConfirmed, updated.Status)
	assert.NotNil(t, updated.ConfirmedAt)
	assert.WithinDuration(t, time.Now(), *updated.ConfirmedAt, time.Second)
	assert.WithinDuration(t, time.Now(), updated.UpdatedAt, time.Second)

	assert.NotNil(t, updated.MerchantCommission)
	assert.Equal(t, "75.00", updated.MerchantCommission.String())
	assert.Equal(t, "20.00", updated.ZishopCommission.String())
	assert.Equal(t, "5.00", updated.HotelCommission.String())

	// the input snapshot stays untouched
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Nil(t, order.MerchantCommission)

	// confirming twice is rejected, commissions stay as computed
	_, err = engine.Transition(updated, domain.OrderStatusConfirmed, domain.RoleMerchant, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestWorkflowEngine_CommissionsComputedOnce(t *testing.T) {
	engine := newEngine(t)

	order := newOrder(domain.OrderStatusPending)
	frozen := decimal.MustParse("99.99")
	order.MerchantCommission = &frozen
	order.ZishopCommission = &frozen
	order.HotelCommission = &frozen

	updated, err := engine.Transition(order, domain.OrderStatusConfirmed, domain.RoleMerchant, nil)
	assert.NoError(t, err)
	assert.Equal(t, "99.99", updated.MerchantCommission.String())
}

func TestWorkflowEngine_DeliveredLeavesPickupUnset(t *testing.T) {
	engine := newEngine(t)
	order := newOrder(domain.OrderStatusDelivering)

	updated, err := engine.Transition(order, domain.OrderStatusDelivered, domain.RoleHotel, nil)
	assert.NoError(t, err)
	assert.NotNil(t, updated.DeliveredAt)
	assert.False(t, updated.PickedUp)
	assert.Nil(t, updated.PickedUpAt)
}

func TestWorkflowEngine_Pickup(t *testing.T) {
	engine := newEngine(t)

	order := newOrder(domain.OrderStatusDelivered)
	updated, err := engine.Transition(order, domain.OrderStatusDelivered, domain.RoleHotel,
		&domain.TransitionExtra{PickedUp: true})
	assert.NoError(t, err)
	assert.True(t, updated.PickedUp)
	assert.NotNil(t, updated.PickedUpAt)

	// marking pickup twice conflicts
	_, err = engine.Transition(updated, domain.OrderStatusDelivered, domain.RoleHotel,
		&domain.TransitionExtra{PickedUp: true})
	assert.ErrorIs(t, err, domain.ErrAlreadyPickedUp)

	// a bare delivered->delivered repeat without the pickup flag is invalid
	_, err = engine.Transition(order, domain.OrderStatusDelivered, domain.RoleHotel, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestWorkflowEngine_RefundWindow(t *testing.T) {
	engine := newEngine(t)

	t.Run("inside window", func(t *testing.T) {
		order := newOrder(domain.OrderStatusDelivered)
		order.CreatedAt = time.Now().Add(-6 * 24 * time.Hour)

		updated, err := engine.Transition(order, domain.OrderStatusRefundRequested, domain.RoleClient, nil)
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusRefundRequested, updated.Status)
	})

	t.Run("expired", func(t *testing.T) {
		order := newOrder(domain.OrderStatusDelivered)
		order.CreatedAt = time.Now().Add(-8 * 24 * time.Hour)

		_, err := engine.Transition(order, domain.OrderStatusRefundRequested, domain.RoleClient, nil)
		assert.ErrorIs(t, err, domain.ErrRefundWindowExpired)
	})
}

func TestWorkflowEngine_CanRequestRefundBoundary(t *testing.T) {
	engine := newEngine(t)

	order := newOrder(domain.OrderStatusDelivered)
	created := order.CreatedAt

	assert.True(t, engine.CanRequestRefund(order, created.Add(7*24*time.Hour-time.Second)))
	assert.True(t, engine.CanRequestRefund(order, created.Add(7*24*time.Hour)))
	assert.False(t, engine.CanRequestRefund(order, created.Add(7*24*time.Hour+time.Second)))

	pending := newOrder(domain.OrderStatusPending)
	assert.False(t, engine.CanRequestRefund(pending, created))
}

func TestWorkflowEngine_CancelledIsTerminal(t *testing.T) {
	engine := newEngine(t)

	order := newOrder(domain.OrderStatusPending)
	cancelled, err := engine.Transition(order, domain.OrderStatusCancelled, domain.RoleMerchant, nil)
	assert.NoError(t, err)
	assert.True(t, cancelled.Status.IsTerminal())

	for _, target := range domain.OrderStatuses {
		for _, role := range domain.ActorRoles {
			_, err := engine.Transition(cancelled, target, role, nil)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		}
	}
}

func TestWorkflowEngine_DeliveryExtra(t *testing.T) {
	engine := newEngine(t)

	estimate := time.Now().Add(45 * time.Minute)
	order := newOrder(domain.OrderStatusPreparing)

	updated, err := engine.Transition(order, domain.OrderStatusReady, domain.RoleMerchant,
		&domain.TransitionExtra{DeliveryNotes: "leave at reception", EstimatedDelivery: &estimate})
	assert.NoError(t, err)
	assert.Equal(t, "leave at reception", updated.DeliveryNotes)
	assert.Equal(t, estimate, *updated.EstimatedDelivery)
}

func TestWorkflowEngine_ReviseEstimate(t *testing.T) {
	engine := newEngine(t)
	estimate := time.Now().Add(30 * time.Minute)

	order := newOrder(domain.OrderStatusPreparing)
	updated, err := engine.ReviseEstimate(order, estimate)
	assert.NoError(t, err)
	assert.Equal(t, estimate, *updated.EstimatedDelivery)

	ready := newOrder(domain.OrderStatusReady)
	_, err = engine.ReviseEstimate(ready, estimate)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
