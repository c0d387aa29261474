package book

import (
	"context"
	"errors"
	"io"
	"log"

	"smart-retail-bookstore/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookColumns = `id::text, title, author, COALESCE(description, ''), COALESCE(genre, ''), price_cents, COALESCE(image_url, ''), COALESCE(pages, 0), COALESCE(release_year, 0), created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context, limit, offset int) ([]domain.Book, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const q = `
SELECT ` + bookColumns + `
FROM books
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`
	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		r.logger.Printf("book repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	books, err := scanBooks(rows)
	if err != nil {
		r.logger.Printf("book repo: list scan error=%v", err)
		return nil, err
	}
	return books, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	const q = `
SELECT ` + bookColumns + `
FROM books
WHERE id = $1
`
	var b domain.Book
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&b.ID, &b.Title, &b.Author, &b.Description, &b.Genre,
		&b.PriceCents, &b.ImageURL, &b.Pages, &b.ReleaseYear, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("book repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &b, nil
}

func (r *postgresRepo) Search(ctx context.Context, query string) ([]domain.Book, error) {
	const q = `
SELECT ` + bookColumns + `
FROM books
WHERE title ILIKE '%' || $1 || '%'
   OR author ILIKE '%' || $1 || '%'
   OR genre ILIKE '%' || $1 || '%'
ORDER BY title ASC
LIMIT 50
`
	rows, err := r.pool.Query(ctx, q, query)
	if err != nil {
		r.logger.Printf("book repo: search q=%q error=%v", query, err)
		return nil, err
	}
	defer rows.Close()

	return scanBooks(rows)
}

func (r *postgresRepo) Upsert(ctx context.Context, book domain.Book) (*domain.Book, error) {
	const q = `
INSERT INTO books (title, author, description, genre, price_cents, image_url, pages, release_year)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, NULLIF($6, ''), NULLIF($7, 0), NULLIF($8, 0))
ON CONFLICT (title, author) DO UPDATE SET
    description = EXCLUDED.description,
    genre = EXCLUDED.genre,
    price_cents = EXCLUDED.price_cents,
    image_url = EXCLUDED.image_url,
    pages = EXCLUDED.pages,
    release_year = EXCLUDED.release_year
RETURNING id::text, created_at
`
	res := book
	err := r.pool.QueryRow(ctx, q,
		book.Title,
		book.Author,
		book.Description,
		book.Genre,
		book.PriceCents,
		book.ImageURL,
		book.Pages,
		book.ReleaseYear,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("book repo: upsert title=%q error=%v", book.Title, err)
		return nil, err
	}
	r.logger.Printf("book repo: upserted title=%q id=%s", res.Title, res.ID)
	return &res, nil
}

func scanBooks(rows pgx.Rows) ([]domain.Book, error) {
	var result []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.Description, &b.Genre,
			&b.PriceCents, &b.ImageURL, &b.Pages, &b.ReleaseYear, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
