package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/zishop/zishop/internal/core/domain"
	"github.com/zishop/zishop/internal/core/port"
	"github.com/zishop/zishop/internal/core/port/mock"
	"github.com/zishop/zishop/internal/core/service"
	"github.com/zishop/zishop/internal/core/utils"
	"go.uber.org/zap"
)

type prepareMocks func(repo *mock.MockRepository, events *mock.MockEventPublisher)

func newService(t *testing.T, repo *mock.MockRepository, ts *mock.MockTokenService,
	events *mock.MockEventPublisher) *service.Service {
	t.Helper()

	logger, _ := zap.NewProduction()
	engine, err := domain.NewWorkflowEngine(domain.DefaultCommissionRates(), domain.DefaultRefundWindow)
	assert.NoError(t, err)

	s, err := service.NewService(repo, ts, events, engine, logger)
	assert.NoError(t, err)
	return s
}

func clientID(id uint64) *uint64 { return &id }

func pendingOrder() *domain.Order {
	now := time.Now()
	return &domain.Order{
		ID:         1,
		Number:     "ZS-20260901-AB12CD34",
		HotelID:    10,
		MerchantID: 20,
		ClientID:   clientID(30),
		Items: []domain.OrderItem{
			{ProductID: 1, ProductName: "Souvenir mug", Quantity: 2, Price: decimal.MustParse("25.00")},
			{ProductID: 2, ProductName: "Postcard set", Quantity: 1, Price: decimal.MustParse("50.00")},
		},
		TotalAmount: decimal.MustParse("100.00"),
		Status:      domain.OrderStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestService_UserRegister(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	hashedPass, _ := utils.HashPassword("test")
	user := domain.User{
		Login:    "merchant1",
		Password: hashedPass,
		Role:     domain.RoleMerchant,
		ID:       1,
	}

	tests := []struct {
		name      string
		user      domain.User
		mock      prepareMocks
		expError  error
		expResult *domain.User
	}{
		{
			name: "Register good",
			user: domain.User{Login: user.Login, Password: "test", Role: domain.RoleMerchant},
			mock: func(repo *mock.MockRepository, events *mock.MockEventPublisher) {
				repo.EXPECT().GetUserByLogin(gomock.Any(), user.Login).Return(nil, domain.ErrDataNotFound)
				repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(&user, nil)
			},
			expError:  nil,
			expResult: &user,
		},
		{
			name: "Register already exists",
			user: domain.User{Login: user.Login, Password: "test", Role: domain.RoleMerchant},
			mock: func(repo *mock.MockRepository, events *mock.MockEventPublisher) {
				repo.EXPECT().GetUserByLogin(gomock.Any(), user.Login).Return(&user, nil)
			},
			expError:  domain.ErrConflictingData,
			expResult: nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockRepository(mockCtrl)
			ts := mock.NewMockTokenService(mockCtrl)
			events := mock.NewMockEventPublisher(mockCtrl)
			test.mock(repo, events)

			s := newService(t, repo, ts, events)

			result, err := s.RegisterUser(context.Background(), &test.user)

			assert.Equal(t, test.expResult, result)
			assert.Equal(t, test.expError, err)
		})
	}
}

func TestService_CreateOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	tests := []struct {
		name     string
		order    domain.Order
		mock     prepareMocks
		expError error
		expTotal string
	}{
		{
			name: "Create good order",
			order: domain.Order{
				HotelID:    10,
				MerchantID: 20,
				ClientID:   clientID(30),
				Items: []domain.OrderItem{
					{ProductID: 1, ProductName: "Souvenir mug", Quantity: 2, Price: decimal.MustParse("25.00")},
					{ProductID: 2, ProductName: "Postcard set", Quantity: 1, Price: decimal.MustParse("50.00")},
				},
			},
			mock: func(repo *mock.MockRepository, events *mock.MockEventPublisher) {
				repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, o *domain.Order) (*domain.Order, error) {
						return o, nil
					})
			},
			expError: nil,
			expTotal: "100.00",
		},
		{
			name:     "No items",
			order:    domain.Order{HotelID: 10, MerchantID: 20},
			mock:     func(repo *mock.MockRepository, events *mock.MockEventPublisher) {},
			expError: domain.ErrEmptyOrder,
		},
		{
			name: "Bad quantity",
			order: domain.Order{
				HotelID:    10,
				MerchantID: 20,
				Items: []domain.OrderItem{
					{ProductID: 1, ProductName: "Souvenir mug", Quantity: 0, Price: decimal.MustParse("25.00")},
				},
			},
			mock:     func(repo *mock.MockRepository, events *mock.MockEventPublisher) {},
			expError: domain.ErrInvalidAmount,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockRepository(mockCtrl)
			ts := mock.NewMockTokenService(mockCtrl)
			events := mock.NewMockEventPublisher(mockCtrl)
			test.mock(repo, events)

			s := newService(t, repo, ts, events)

			result, err := s.CreateOrder(context.Background(), &test.order)

			assert.Equal(t, test.expError, err)
			if test.expError == nil {
				assert.Equal(t, domain.OrderStatusPending, result.Status)
				assert.Equal(t, test.expTotal, result.TotalAmount.String())
				assert.NotEmpty(t, result.Number)
				assert.False(t, result.PickedUp)
				assert.Nil(t, result.MerchantCommission)
			}
		})
	}
}

func TestService_TransitionOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	number := "ZS-20260901-AB12CD34"

	applyUpdate := func(stored *domain.Order) func(context.Context, string, port.UpdateOrderFn) (*domain.Order, error) {
		return func(_ context.Context, _ string, fn port.UpdateOrderFn) (*domain.Order, error) {
			if err := fn(stored); err != nil {
				return nil, err
			}
			return stored, nil
		}
	}

	t.Run("merchant confirms pending order", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		ts := mock.NewMockTokenService(mockCtrl)
		events := mock.NewMockEventPublisher(mockCtrl)

		stored := pendingOrder()
		repo.EXPECT().UpdateOrder(gomock.Any(), number, gomock.Any()).
			DoAndReturn(applyUpdate(stored))
		events.EXPECT().PublishOrderStatus(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, event domain.OrderEvent) error {
				assert.Equal(t, number, event.OrderNumber)
				assert.Equal(t, domain.OrderStatusConfirmed, event.Status)
				assert.NotEmpty(t, event.EventID)
				return nil
			})

		s := newService(t, repo, ts, events)

		result, err := s.TransitionOrder(context.Background(), number,
			domain.OrderStatusConfirmed, domain.RoleMerchant, nil)
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusConfirmed, result.Status)
		assert.Equal(t, "75.00", result.MerchantCommission.String())
		assert.Equal(t, "20.00", result.ZishopCommission.String())
		assert.Equal(t, "5.00", result.HotelCommission.String())
	})

	t.Run("invalid transition skips publishing", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		ts := mock.NewMockTokenService(mockCtrl)
		events := mock.NewMockEventPublisher(mockCtrl)

		stored := pendingOrder()
		repo.EXPECT().UpdateOrder(gomock.Any(), number, gomock.Any()).
			DoAndReturn(applyUpdate(stored))

		s := newService(t, repo, ts, events)

		result, err := s.TransitionOrder(context.Background(), number,
			domain.OrderStatusDelivered, domain.RoleHotel, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Nil(t, result)
	})

	t.Run("order not found", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		ts := mock.NewMockTokenService(mockCtrl)
		events := mock.NewMockEventPublisher(mockCtrl)

		repo.EXPECT().UpdateOrder(gomock.Any(), number, gomock.Any()).
			Return(nil, domain.ErrDataNotFound)

		s := newService(t, repo, ts, events)

		_, err := s.TransitionOrder(context.Background(), number,
			domain.OrderStatusConfirmed, domain.RoleMerchant, nil)
		assert.ErrorIs(t, err, domain.ErrDataNotFound)
	})

	t.Run("broker failure does not fail the transition", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		ts := mock.NewMockTokenService(mockCtrl)
		events := mock.NewMockEventPublisher(mockCtrl)

		stored := pendingOrder()
		repo.EXPECT().UpdateOrder(gomock.Any(), number, gomock.Any()).
			DoAndReturn(applyUpdate(stored))
		events.EXPECT().PublishOrderStatus(gomock.Any(), gomock.Any()).
			Return(domain.ErrInternal)

		s := newService(t, repo, ts, events)

		result, err := s.TransitionOrder(context.Background(), number,
			domain.OrderStatusConfirmed, domain.RoleMerchant, nil)
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusConfirmed, result.Status)
	})
}

func TestService_ReviseEstimate(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	number := "ZS-20260901-AB12CD34"
	estimate := time.Now().Add(30 * time.Minute)

	repo := mock.NewMockRepository(mockCtrl)
	ts := mock.NewMockTokenService(mockCtrl)
	events := mock.NewMockEventPublisher(mockCtrl)

	stored := pendingOrder()
	stored.Status = domain.OrderStatusPreparing
	repo.EXPECT().UpdateOrder(gomock.Any(), number, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, fn port.UpdateOrderFn) (*domain.Order, error) {
			if err := fn(stored); err != nil {
				return nil, err
			}
			return stored, nil
		})

	s := newService(t, repo, ts, events)

	result, err := s.ReviseEstimate(context.Background(), number, estimate)
	assert.NoError(t, err)
	assert.Equal(t, estimate, *result.EstimatedDelivery)
}
