package port

import (
	"context"
	"time"

	"github.com/zishop/zishop/internal/core/domain"
)

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock
type Service interface {
	RegisterUser(ctx context.Context, user *domain.User) (*domain.User, error)
	LoginUser(ctx context.Context, login string, password string) (string, error)

	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetOrder(ctx context.Context, number string) (*domain.Order, error)
	TransitionOrder(ctx context.Context, number string, target domain.OrderStatus,
		role domain.ActorRole, extra *domain.TransitionExtra) (*domain.Order, error)
	ReviseEstimate(ctx context.Context, number string, estimate time.Time) (*domain.Order, error)

	ListOrdersByClient(ctx context.Context, clientID uint64) ([]*domain.Order, error)
	ListOrdersByMerchant(ctx context.Context, merchantID uint64) ([]*domain.Order, error)
	ListOrdersByHotel(ctx context.Context, hotelID uint64) ([]*domain.Order, error)
	ListOrdersByStatus(ctx context.Context, statuses []domain.OrderStatus) ([]*domain.Order, error)
}
