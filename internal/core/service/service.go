package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/zishop/zishop/internal/core/domain"
	"github.com/zishop/zishop/internal/core/port"
	"github.com/zishop/zishop/internal/core/utils"
	"go.uber.org/zap"
)

type Service struct {
	repo         port.Repository
	tokenService port.TokenService
	events       port.EventPublisher
	engine       *domain.WorkflowEngine
	logger       *zap.Logger
}

func NewService(repo port.Repository, tokenService port.TokenService,
	events port.EventPublisher, engine *domain.WorkflowEngine, logger *zap.Logger) (*Service, error) {
	return &Service{
		repo:         repo,
		tokenService: tokenService,
		events:       events,
		engine:       engine,
		logger:       logger,
	}, nil
}

func (s *Service) RegisterUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	exUser, err := s.repo.GetUserByLogin(ctx, user.Login)
	if err != nil && !errors.Is(err, domain.ErrDataNotFound) {
		s.logger.Error("Get user", zap.Error(err))
		return nil, domain.ErrInternal
	}

	if exUser != nil {
		return nil, domain.ErrConflictingData
	}

	newUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		s.logger.Error("Create user", zap.Error(err))
		return nil, domain.ErrInternal
	}

	return newUser, nil
}

func (s *Service) LoginUser(ctx context.Context, login string, password string) (string, error) {
	user, err := s.repo.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", domain.ErrInternal
	}

	err = utils.ComparePassword(password, user.Password)
	if err != nil {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokenService.CreateToken(user)
	if err != nil {
		s.logger.Error("Create token", zap.Error(err))
		return "", domain.ErrTokenCreation
	}

	return token, nil
}

// CreateOrder accepts a guest order: it snapshots the items, computes the
// total server-side and stores the order as pending. Commission fields stay
// empty until the merchant confirms.
func (s *Service) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if len(order.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	total := decimal.Zero
	for _, item := range order.Items {
		if item.Quantity <= 0 || !item.Price.IsPos() {
			return nil, domain.ErrInvalidAmount
		}

		qty, err := decimal.New(int64(item.Quantity), 0)
		if err != nil {
			return nil, domain.ErrInvalidAmount
		}
		line, err := item.Price.Mul(qty)
		if err != nil {
			return nil, domain.ErrInvalidAmount
		}
		total, err = total.Add(line)
		if err != nil {
			return nil, domain.ErrInvalidAmount
		}
	}

	now := time.Now()
	order.Number = utils.NewOrderNumber()
	order.TotalAmount = total.Pad(2)
	order.Status = domain.OrderStatusPending
	order.PickedUp = false
	order.CreatedAt = now
	order.UpdatedAt = now

	newOrder, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		if errors.Is(err, domain.ErrConflictingData) {
			return nil, err
		}
		s.logger.Error("Create order", zap.Error(err))
		return nil, err
	}

	return newOrder, nil
}

func (s *Service) GetOrder(ctx context.Context, number string) (*domain.Order, error) {
	return s.repo.ReadOrder(ctx, number)
}

// TransitionOrder applies one workflow transition under the repository's
// row lock, then publishes a status event. Event publishing is best-effort:
// a broker failure is logged but never undoes the persisted transition.
func (s *Service) TransitionOrder(ctx context.Context, number string, target domain.OrderStatus,
	role domain.ActorRole, extra *domain.TransitionExtra) (*domain.Order, error) {
	updated, err := s.repo.UpdateOrder(ctx, number, func(o *domain.Order) error {
		next, err := s.engine.Transition(o, target, role, extra)
		if err != nil {
			return err
		}
		*o = *next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishStatusEvent(ctx, updated)

	return updated, nil
}

func (s *Service) ReviseEstimate(ctx context.Context, number string, estimate time.Time) (*domain.Order, error) {
	return s.repo.UpdateOrder(ctx, number, func(o *domain.Order) error {
		next, err := s.engine.ReviseEstimate(o, estimate)
		if err != nil {
			return err
		}
		*o = *next
		return nil
	})
}

func (s *Service) ListOrdersByClient(ctx context.Context, clientID uint64) ([]*domain.Order, error) {
	list, err := s.repo.ListOrdersByClient(ctx, clientID)
	if err != nil {
		s.logger.Error("List orders for client", zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *Service) ListOrdersByMerchant(ctx context.Context, merchantID uint64) ([]*domain.Order, error) {
	list, err := s.repo.ListOrdersByMerchant(ctx, merchantID)
	if err != nil {
		s.logger.Error("List orders for merchant", zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *Service) ListOrdersByHotel(ctx context.Context, hotelID uint64) ([]*domain.Order, error) {
	list, err := s.repo.ListOrdersByHotel(ctx, hotelID)
	if err != nil {
		s.logger.Error("List orders for hotel", zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *Service) ListOrdersByStatus(ctx context.Context, statuses []domain.OrderStatus) ([]*domain.Order, error) {
	list, err := s.repo.ListOrdersByStatus(ctx, statuses)
	if err != nil {
		s.logger.Error("List orders by status", zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *Service) publishStatusEvent(ctx context.Context, order *domain.Order) {
	event := domain.OrderEvent{
		EventID:     uuid.NewString(),
		OrderNumber: order.Number,
		Status:      order.Status,
		HotelID:     order.HotelID,
		MerchantID:  order.MerchantID,
		TotalAmount: order.TotalAmount,
		OccurredAt:  order.UpdatedAt,
	}

	if err := s.events.PublishOrderStatus(ctx, event); err != nil {
		s.logger.Error("Publish order status event",
			zap.String("order", order.Number),
			zap.String("status", string(order.Status)),
			zap.Error(err))
	}
}
