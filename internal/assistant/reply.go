package assistant

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ReplyType enumerates the closed set of tags the classifier may return.
type ReplyType string

const (
	TypeGreeting          ReplyType = "greeting"
	TypeClarification     ReplyType = "clarification"
	TypeOrderQuestion     ReplyType = "order_question"
	TypeRecommendation    ReplyType = "recommendation"
	TypeOrderList         ReplyType = "order_list"
	TypeOrderInfo         ReplyType = "order_info"
	TypeOrderConfirmation ReplyType = "order_confirmation"
)

// Reply is the classifier's response decoded into a tagged variant. Exactly
// one payload field is populated, selected by Type.
type Reply struct {
	Type            ReplyType
	Text            string
	Recommendations []RecommendedBook
	Orders          []OrderSummary
	OrderInfo       *OrderDetails
	Confirmation    *OrderConfirmation
}

// RecommendedBook carries the display metadata the assistant attaches to a
// recommendation. Price arrives in dollars from the upstream service and is
// normalized to cents here.
type RecommendedBook struct {
	BookID      string
	Title       string
	PriceCents  int64
	ImageURL    string
	Pages       int
	ReleaseYear int
	Reason      string
}

type OrderSummary struct {
	OrderID          string `json:"order_id"`
	PurchaseDate     string `json:"purchase_date"`
	ExpectedDelivery string `json:"expected_delivery"`
}

type OrderItem struct {
	Title    string  `json:"title"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

type OrderDetails struct {
	OrderID          string           `json:"order_id"`
	TotalCost        string           `json:"total_cost"`
	OrderPlacedOn    string           `json:"order_placed_on"`
	ExpectedDelivery string           `json:"expected_delivery"`
	Status           string           `json:"status"`
	Message          string           `json:"message,omitempty"`
	ShippingAddress  *ShippingAddress `json:"shipping_address,omitempty"`
	Items            []OrderItem      `json:"items,omitempty"`
}

type OrderConfirmation struct {
	OrderID          string `json:"order_id"`
	TotalCost        string `json:"total_cost"`
	OrderPlacedOn    string `json:"order_placed_on"`
	ExpectedDelivery string `json:"expected_delivery"`
	Status           string `json:"status"`
	Message          string `json:"message"`
}

// rawBook tolerates the upstream service's inconsistent field casing: price
// has shipped as both "Price" and "price", as a number and as a string.
type rawBook struct {
	BookID       string          `json:"book_id"`
	Title        string          `json:"title"`
	PriceUpper   json.RawMessage `json:"Price"`
	PriceLower   json.RawMessage `json:"price"`
	ImageURL     string          `json:"image_url"`
	Pages        int             `json:"pages"`
	ReleaseYear  int             `json:"release_year"`
	Reason       string          `json:"ReasonForRecommendation"`
	ReasonChecks string          `json:"reason_for_recommendation"`
}

func decodeReply(typ string, response json.RawMessage) (*Reply, error) {
	reply := &Reply{Type: ReplyType(typ)}

	switch reply.Type {
	case TypeGreeting, TypeClarification, TypeOrderQuestion:
		if err := json.Unmarshal(response, &reply.Text); err != nil {
			return nil, fmt.Errorf("decode %s text: %w", typ, err)
		}
	case TypeRecommendation:
		var raw []rawBook
		if err := json.Unmarshal(response, &raw); err != nil {
			return nil, fmt.Errorf("decode recommendations: %w", err)
		}
		reply.Recommendations = make([]RecommendedBook, 0, len(raw))
		for _, rb := range raw {
			book, err := rb.normalize()
			if err != nil {
				return nil, err
			}
			reply.Recommendations = append(reply.Recommendations, book)
		}
	case TypeOrderList:
		if err := json.Unmarshal(response, &reply.Orders); err != nil {
			return nil, fmt.Errorf("decode order list: %w", err)
		}
	case TypeOrderInfo:
		reply.OrderInfo = &OrderDetails{}
		if err := json.Unmarshal(response, reply.OrderInfo); err != nil {
			return nil, fmt.Errorf("decode order info: %w", err)
		}
	case TypeOrderConfirmation:
		reply.Confirmation = &OrderConfirmation{}
		if err := json.Unmarshal(response, reply.Confirmation); err != nil {
			return nil, fmt.Errorf("decode order confirmation: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown reply type %q", typ)
	}

	return reply, nil
}

func (rb rawBook) normalize() (RecommendedBook, error) {
	priceRaw := rb.PriceUpper
	if len(priceRaw) == 0 {
		priceRaw = rb.PriceLower
	}
	cents, err := dollarsToCents(priceRaw)
	if err != nil {
		return RecommendedBook{}, fmt.Errorf("book %q: %w", rb.Title, err)
	}
	reason := rb.Reason
	if reason == "" {
		reason = rb.ReasonChecks
	}
	return RecommendedBook{
		BookID:      rb.BookID,
		Title:       rb.Title,
		PriceCents:  cents,
		ImageURL:    rb.ImageURL,
		Pages:       rb.Pages,
		ReleaseYear: rb.ReleaseYear,
		Reason:      reason,
	}, nil
}

func dollarsToCents(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	s := strings.TrimSpace(string(raw))
	s = strings.Trim(s, `"`)
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0, nil
	}
	dollars, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", s, err)
	}
	return int64(math.Round(dollars * 100)), nil
}
