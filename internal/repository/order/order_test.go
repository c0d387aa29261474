package order

import (
	"context"
	"os"
	"testing"
	"time"

	"smart-retail-bookstore/internal/domain"
	"smart-retail-bookstore/internal/migrate"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgres_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)

	placed := time.Now().UTC().Truncate(time.Second)
	o := domain.Order{
		OrderID:    uuid.NewString(),
		UserID:     "user-1",
		TotalCents: 3198,
		ShippingAddress: domain.Address{
			Street:  "1 Main St",
			City:    "Springfield",
			State:   "IL",
			ZipCode: "62701",
		},
		CardMasked:       "****1111",
		ExpiryDate:       "12/27",
		Status:           domain.OrderStatusPlaced,
		PlacedAt:         placed,
		ExpectedDelivery: placed.Add(5 * 24 * time.Hour),
		Lines: []domain.OrderLine{
			{Title: "Dune", UnitPriceCents: 1599, Quantity: 2, SubtotalCents: 3198},
		},
	}
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, o.OrderID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.UserID != "user-1" || got.TotalCents != 3198 {
		t.Fatalf("unexpected order %+v", got)
	}
	if len(got.Lines) != 1 || got.Lines[0].Quantity != 2 {
		t.Fatalf("unexpected lines %+v", got.Lines)
	}
	if got.CardMasked != "****1111" {
		t.Fatalf("expected masked card, got %q", got.CardMasked)
	}

	if _, err := repo.GetByID(ctx, uuid.NewString()); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgres_ListByUser(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		o := domain.Order{
			OrderID:          uuid.NewString(),
			UserID:           "user-1",
			Status:           domain.OrderStatusPlaced,
			PlacedAt:         base.Add(time.Duration(i) * time.Minute),
			ExpectedDelivery: base.Add(5 * 24 * time.Hour),
			Lines: []domain.OrderLine{
				{Title: "Dune", UnitPriceCents: 1599, Quantity: 1, SubtotalCents: 1599},
			},
		}
		if err := repo.Create(ctx, o); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	list, err := repo.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(list))
	}
	if !list[0].PlacedAt.After(list[2].PlacedAt) {
		t.Fatalf("expected newest first, got %+v", list)
	}

	empty, err := repo.ListByUser(ctx, "nobody")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no orders, got %d", len(empty))
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set; skipping postgres integration test")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE order_lines, orders CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
