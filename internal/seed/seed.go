package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type bookSeed struct {
	Title       string
	Author      string
	Description string
	Genre       string
	PriceCents  int64
	Pages       int
	ReleaseYear int
}

// Apply inserts demo books for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	books := []bookSeed{
		{
			Title:       "Dune",
			Author:      "Frank Herbert",
			Description: "A desert planet, a noble house, and the spice that rules the universe",
			Genre:       "Science Fiction",
			PriceCents:  1599,
			Pages:       412,
			ReleaseYear: 1965,
		},
		{
			Title:       "Foundation",
			Author:      "Isaac Asimov",
			Description: "Psychohistory predicts the fall of the Galactic Empire",
			Genre:       "Science Fiction",
			PriceCents:  1299,
			Pages:       255,
			ReleaseYear: 1951,
		},
		{
			Title:       "Dracula",
			Author:      "Bram Stoker",
			Description: "The classic epistolary vampire novel",
			Genre:       "Horror",
			PriceCents:  999,
			Pages:       418,
			ReleaseYear: 1897,
		},
		{
			Title:       "Pride and Prejudice",
			Author:      "Jane Austen",
			Description: "Manners, marriage, and misjudgment in Regency England",
			Genre:       "Classic",
			PriceCents:  899,
			Pages:       279,
			ReleaseYear: 1813,
		},
		{
			Title:       "The Hobbit",
			Author:      "J.R.R. Tolkien",
			Description: "There and back again with Bilbo Baggins",
			Genre:       "Fantasy",
			PriceCents:  1499,
			Pages:       310,
			ReleaseYear: 1937,
		},
	}

	for _, b := range books {
		if err := upsertBook(ctx, pool, b); err != nil {
			return fmt.Errorf("upsert book %s: %w", b.Title, err)
		}
	}

	return nil
}

func upsertBook(ctx context.Context, pool *pgxpool.Pool, b bookSeed) error {
	const q = `
INSERT INTO books (title, author, description, genre, price_cents, pages, release_year)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (title, author) DO UPDATE
SET description = EXCLUDED.description,
    genre = EXCLUDED.genre,
    price_cents = EXCLUDED.price_cents,
    pages = EXCLUDED.pages,
    release_year = EXCLUDED.release_year
`
	_, err := pool.Exec(ctx, q, b.Title, b.Author, b.Description, b.Genre, b.PriceCents, b.Pages, b.ReleaseYear)
	if err != nil {
		return err
	}
	return nil
}
