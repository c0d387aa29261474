package catalog

import (
	"context"
	"strings"

	"smart-retail-bookstore/internal/domain"
	bookrepo "smart-retail-bookstore/internal/repository/book"
)

type Service struct {
	repo bookrepo.Repository
}

func New(repo bookrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.Book, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Book, error) {
	return s.repo.GetByID(ctx, id)
}

// Search matches title, author, or genre; a blank query falls back to a
// plain listing.
func (s *Service) Search(ctx context.Context, query string) ([]domain.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.repo.List(ctx, 50, 0)
	}
	return s.repo.Search(ctx, query)
}
