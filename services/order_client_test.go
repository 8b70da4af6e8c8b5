package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCreateOrderSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]int64
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if body["amount"] != 300 {
			t.Errorf("amount = %d, want 300", body["amount"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"order_id":"order_abc"}`))
	}))
	defer server.Close()

	client := NewOrderClient(server.URL, time.Second)
	orderID, err := client.CreateOrder(context.Background(), 300)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if orderID != "order_abc" {
		t.Errorf("orderID = %q", orderID)
	}
}

func TestCreateOrderFallsBackToIDField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"order_xyz"}`))
	}))
	defer server.Close()

	client := NewOrderClient(server.URL, time.Second)
	orderID, err := client.CreateOrder(context.Background(), 100)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if orderID != "order_xyz" {
		t.Errorf("orderID = %q", orderID)
	}
}

func TestCreateOrderNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("order service down"))
	}))
	defer server.Close()

	client := NewOrderClient(server.URL, time.Second)
	_, err := client.CreateOrder(context.Background(), 100)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "order service down") {
		t.Errorf("error should carry status and body: %v", err)
	}
}

func TestCreateOrderMissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"created"}`))
	}))
	defer server.Close()

	client := NewOrderClient(server.URL, time.Second)
	_, err := client.CreateOrder(context.Background(), 100)
	if err == nil || !strings.Contains(err.Error(), "invalid order response") {
		t.Errorf("missing id: %v", err)
	}
}
