package port

import (
	"context"

	"github.com/zishop/zishop/internal/core/domain"
)

//go:generate mockgen -source=events.go -destination=mock/events.go -package=mock
type EventPublisher interface {
	PublishOrderStatus(ctx context.Context, event domain.OrderEvent) error
}
