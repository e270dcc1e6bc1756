package port

import (
	"context"

	"github.com/zishop/zishop/internal/core/domain"
)

// UpdateOrderFn mutates an order inside the repository's transaction. The
// repository locks the order row before invoking it, giving transitions the
// at-most-one-writer discipline the workflow engine assumes.
type UpdateOrderFn func(*domain.Order) error

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock
type Repository interface {
	// User
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByLogin(ctx context.Context, login string) (*domain.User, error)

	// Order
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ReadOrder(ctx context.Context, number string) (*domain.Order, error)
	UpdateOrder(ctx context.Context, number string, updateFn UpdateOrderFn) (*domain.Order, error)
	ListOrdersByClient(ctx context.Context, clientID uint64) ([]*domain.Order, error)
	ListOrdersByMerchant(ctx context.Context, merchantID uint64) ([]*domain.Order, error)
	ListOrdersByHotel(ctx context.Context, hotelID uint64) ([]*domain.Order, error)
	ListOrdersByStatus(ctx context.Context, statuses []domain.OrderStatus) ([]*domain.Order, error)
}
