package book

import (
	"context"

	"smart-retail-bookstore/internal/domain"
)

type Repository interface {
	List(ctx context.Context, limit, offset int) ([]domain.Book, error)
	GetByID(ctx context.Context, id string) (*domain.Book, error)
	Search(ctx context.Context, query string) ([]domain.Book, error)
	Upsert(ctx context.Context, book domain.Book) (*domain.Book, error)
}
