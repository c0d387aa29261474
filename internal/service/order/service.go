// Package order implements order placement and lookup: the commit endpoint a
// chat session's checkout posts to. Cards are syntactically checked and
// stored masked; this is a checkout-intent store, not a payment processor.
package order

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"smart-retail-bookstore/internal/domain"
	orderrepo "smart-retail-bookstore/internal/repository/order"

	"github.com/google/uuid"
)

const deliveryLeadTime = 5 * 24 * time.Hour

var (
	ErrNoItems        = errors.New("order has no items")
	ErrInvalidCard    = errors.New("card number must be 16 digits")
	ErrInvalidExpiry  = errors.New("expiry date must be in MM/YY format")
	ErrInvalidCVV     = errors.New("cvv must be 3 digits")
	ErrMissingUser    = errors.New("user id required")
	expiryDatePattern = regexp.MustCompile(`^\d{2}/\d{2}$`)
	digitsPattern     = regexp.MustCompile(`^\d+$`)
)

type Service struct {
	repo orderrepo.Repository
	now  func() time.Time
}

func New(repo orderrepo.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// PlacementLine is one cart line at checkout time.
type PlacementLine struct {
	BookID         string
	Title          string
	UnitPriceCents int64
	Quantity       int
}

// UserDetails carries the shipping and payment form, already validated for
// completeness by the caller; card syntax is re-checked here.
type UserDetails struct {
	Name       string
	Street     string
	City       string
	State      string
	ZipCode    string
	CardNumber string
	ExpiryDate string
	CVV        string
}

type PlacementInput struct {
	UserID  string
	Lines   []PlacementLine
	Details UserDetails
}

// Confirmation mirrors the wire shape the chat widget renders: dollar-string
// total, space-separated timestamp, date-only delivery.
type Confirmation struct {
	OrderID          string `json:"order_id"`
	TotalCost        string `json:"total_cost"`
	OrderPlacedOn    string `json:"order_placed_on"`
	ExpectedDelivery string `json:"expected_delivery"`
	Status           string `json:"status"`
	Message          string `json:"message"`
}

type DetailItem struct {
	Title    string  `json:"title"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

type Details struct {
	OrderID          string         `json:"order_id"`
	TotalCost        string         `json:"total_cost"`
	OrderPlacedOn    string         `json:"order_placed_on"`
	ExpectedDelivery string         `json:"expected_delivery"`
	Status           string         `json:"status"`
	ShippingAddress  domain.Address `json:"shipping_address"`
	Items            []DetailItem   `json:"items"`
}

type Summary struct {
	OrderID          string `json:"order_id"`
	PurchaseDate     string `json:"purchase_date"`
	ExpectedDelivery string `json:"expected_delivery"`
}

// Place commits a checkout: one order id per call, one line per cart entry.
func (s *Service) Place(ctx context.Context, in PlacementInput) (*Confirmation, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return nil, ErrMissingUser
	}
	if len(in.Lines) == 0 {
		return nil, ErrNoItems
	}
	if err := ValidateCard(in.Details); err != nil {
		return nil, err
	}

	placedAt := s.now().UTC()
	expected := placedAt.Add(deliveryLeadTime)

	order := domain.Order{
		OrderID: uuid.NewString(),
		UserID:  in.UserID,
		ShippingAddress: domain.Address{
			Street:  strings.TrimSpace(in.Details.Street),
			City:    strings.TrimSpace(in.Details.City),
			State:   strings.TrimSpace(in.Details.State),
			ZipCode: strings.TrimSpace(in.Details.ZipCode),
		},
		CardMasked:       "****" + in.Details.CardNumber[len(in.Details.CardNumber)-4:],
		ExpiryDate:       in.Details.ExpiryDate,
		Status:           domain.OrderStatusPlaced,
		PlacedAt:         placedAt,
		ExpectedDelivery: expected,
	}

	for _, line := range in.Lines {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("line %q: quantity must be at least 1", line.Title)
		}
		subtotal := line.UnitPriceCents * int64(line.Quantity)
		order.Lines = append(order.Lines, domain.OrderLine{
			BookID:         line.BookID,
			Title:          line.Title,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
			SubtotalCents:  subtotal,
		})
		order.TotalCents += subtotal
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	return &Confirmation{
		OrderID:          order.OrderID,
		TotalCost:        centsToDollars(order.TotalCents),
		OrderPlacedOn:    placedAt.Format("2006-01-02 15:04:05"),
		ExpectedDelivery: expected.Format("2006-01-02"),
		Status:           "success",
		Message:          "Your order has been successfully placed. Thank you for shopping with us!",
	}, nil
}

// ListForUser returns order summaries newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Summary, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingUser
	}
	summaries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(summaries))
	for _, sum := range summaries {
		out = append(out, Summary{
			OrderID:          sum.OrderID,
			PurchaseDate:     sum.PlacedAt.Format("2006-01-02 15:04:05"),
			ExpectedDelivery: sum.ExpectedDelivery.Format("2006-01-02"),
		})
	}
	return out, nil
}

// Details returns one order with its lines. Orders belonging to a different
// user are reported as not found. A cancelled order keeps its stored status;
// otherwise the display status is derived from the delivery date.
func (s *Service) Details(ctx context.Context, orderID, userID string) (*Details, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if userID != "" && o.UserID != userID {
		return nil, domain.ErrNotFound
	}

	status := o.Status
	if status != domain.OrderStatusCancelled {
		if s.now().UTC().After(o.ExpectedDelivery) {
			status = "Delivered"
		} else {
			status = "In Transit"
		}
	}

	d := &Details{
		OrderID:          o.OrderID,
		TotalCost:        centsToDollars(o.TotalCents),
		OrderPlacedOn:    o.PlacedAt.Format("2006-01-02 15:04:05"),
		ExpectedDelivery: o.ExpectedDelivery.Format("2006-01-02"),
		Status:           status,
		ShippingAddress:  o.ShippingAddress,
	}
	for _, line := range o.Lines {
		d.Items = append(d.Items, DetailItem{
			Title:    line.Title,
			Quantity: line.Quantity,
			Subtotal: float64(line.SubtotalCents) / 100,
		})
	}
	return d, nil
}

// ValidateCard applies the syntactic card checks: 16-digit number, MM/YY
// expiry, 3-digit CVV. No Luhn check, no authorization.
func ValidateCard(details UserDetails) error {
	if len(details.CardNumber) != 16 || !digitsPattern.MatchString(details.CardNumber) {
		return ErrInvalidCard
	}
	if !expiryDatePattern.MatchString(details.ExpiryDate) {
		return ErrInvalidExpiry
	}
	if len(details.CVV) != 3 || !digitsPattern.MatchString(details.CVV) {
		return ErrInvalidCVV
	}
	return nil
}

func centsToDollars(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
