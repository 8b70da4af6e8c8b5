package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// OrderClient creates Razorpay orders through the council backend. Order
// creation failure is fatal to the whole checkout flow, so errors propagate to
// the caller instead of being folded into a staged result.
type OrderClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewOrderClient creates an order client for the given endpoint.
func NewOrderClient(orderURL string, timeout time.Duration) *OrderClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OrderClient{
		BaseURL: orderURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type createOrderRequest struct {
	Amount int64 `json:"amount"`
}

type createOrderResponse struct {
	OrderID string `json:"order_id"`
	ID      string `json:"id"`
}

// CreateOrder creates an order for the given amount in paise and returns the
// provider order id. Non-2xx responses surface the status and body text.
func (c *OrderClient) CreateOrder(ctx context.Context, amountPaise int64) (string, error) {
	log.Printf("[Payment] Creating Razorpay order, amount (paise): %d", amountPaise)

	payload, err := json.Marshal(createOrderRequest{Amount: amountPaise})
	if err != nil {
		return "", fmt.Errorf("failed to marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("order creation request failed: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("[Payment] Order creation response status: %d", resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read order response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[Payment] Order creation failed - Response: %s", string(body))
		return "", fmt.Errorf("failed to create order: %d %s", resp.StatusCode, string(body))
	}

	var data createOrderResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("failed to decode order response: %w", err)
	}

	orderID := data.OrderID
	if orderID == "" {
		orderID = data.ID
	}
	if orderID == "" {
		log.Printf("[Payment] Invalid order response: %s", string(body))
		return "", fmt.Errorf("invalid order response: missing order_id")
	}

	log.Printf("[Payment] Order ID: %s", orderID)
	return orderID, nil
}
