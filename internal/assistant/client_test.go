package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func classifierStub(t *testing.T, payload string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req classifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Message == "" {
			t.Fatalf("expected message in request")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
}

func TestClassify_Greeting(t *testing.T) {
	srv := classifierStub(t, `{"type":"greeting","response":"Hello! How can I help?"}`)
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	reply, err := client.Classify(context.Background(), "hi", nil)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if reply.Type != TypeGreeting || reply.Text != "Hello! How can I help?" {
		t.Fatalf("unexpected reply %+v", reply)
	}
}

func TestClassify_RecommendationPriceVariants(t *testing.T) {
	srv := classifierStub(t, `{"type":"recommendation","response":[
		{"title":"Foundation","Price":12,"pages":255,"release_year":1951,"ReasonForRecommendation":"Classic sci-fi"},
		{"title":"Dune","price":"15.99","image_url":"https://example.com/dune.jpg"}
	]}`)
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	reply, err := client.Classify(context.Background(), "recommend books", nil)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if reply.Type != TypeRecommendation || len(reply.Recommendations) != 2 {
		t.Fatalf("unexpected reply %+v", reply)
	}

	first := reply.Recommendations[0]
	if first.Title != "Foundation" || first.PriceCents != 1200 {
		t.Fatalf("unexpected first book %+v", first)
	}
	if first.Reason != "Classic sci-fi" || first.Pages != 255 || first.ReleaseYear != 1951 {
		t.Fatalf("unexpected first book metadata %+v", first)
	}

	second := reply.Recommendations[1]
	if second.PriceCents != 1599 {
		t.Fatalf("expected string price parsed to 1599 cents, got %d", second.PriceCents)
	}
	if second.Reason != "" {
		t.Fatalf("expected empty reason, got %q", second.Reason)
	}
}

func TestClassify_OrderList(t *testing.T) {
	srv := classifierStub(t, `{"type":"order_list","response":[
		{"order_id":"abc-123","purchase_date":"2026-08-01 10:00:00","expected_delivery":"2026-08-06"}
	]}`)
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	reply, err := client.Classify(context.Background(), "show my orders", nil)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if reply.Type != TypeOrderList || len(reply.Orders) != 1 {
		t.Fatalf("unexpected reply %+v", reply)
	}
	if reply.Orders[0].OrderID != "abc-123" {
		t.Fatalf("unexpected order %+v", reply.Orders[0])
	}
}

func TestClassify_OrderInfo(t *testing.T) {
	srv := classifierStub(t, `{"type":"order_info","response":{
		"order_id":"abc-123","total_cost":"31.98","order_placed_on":"2026-08-01 10:00:00",
		"expected_delivery":"2026-08-06","status":"In Transit",
		"shipping_address":{"street":"1 Main St","city":"Springfield","state":"IL","zip_code":"62701"},
		"items":[{"title":"Dune","quantity":2,"subtotal":31.98}]
	}}`)
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	reply, err := client.Classify(context.Background(), "order status", map[string]any{"type": "order_info", "order_id": "abc-123"})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if reply.Type != TypeOrderInfo || reply.OrderInfo == nil {
		t.Fatalf("unexpected reply %+v", reply)
	}
	if reply.OrderInfo.Status != "In Transit" || len(reply.OrderInfo.Items) != 1 {
		t.Fatalf("unexpected order info %+v", reply.OrderInfo)
	}
	if reply.OrderInfo.ShippingAddress == nil || reply.OrderInfo.ShippingAddress.City != "Springfield" {
		t.Fatalf("unexpected shipping address %+v", reply.OrderInfo.ShippingAddress)
	}
}

func TestClassify_UnknownType(t *testing.T) {
	srv := classifierStub(t, `{"type":"telemetry","response":"whatever"}`)
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	if _, err := client.Classify(context.Background(), "hi", nil); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestClassify_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	if _, err := client.Classify(context.Background(), "hi", nil); err == nil {
		t.Fatalf("expected error for 500 response")
	}
}

func TestClassify_MalformedPayload(t *testing.T) {
	srv := classifierStub(t, `{"type":"recommendation","response":"not-a-list"}`)
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	if _, err := client.Classify(context.Background(), "recommend", nil); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
