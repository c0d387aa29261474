package order

import (
	"context"

	"smart-retail-bookstore/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, order domain.Order) error
	GetByID(ctx context.Context, orderID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.OrderSummary, error)
}
