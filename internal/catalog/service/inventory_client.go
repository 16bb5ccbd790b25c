package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	invDomain "github.com/danuarta/shop-microservices/internal/inventory/domain"
)

// InventoryClient diabstraksi sebagai interface supaya bisa di-mock di test.
type InventoryClient interface {
	GetProductAvailability(ctx context.Context, productID string) (*invDomain.ProductAvailability, error)
}

type httpInventoryClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewHTTPInventoryClient(baseURL string) InventoryClient {
	return &httpInventoryClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (c *httpInventoryClient) GetProductAvailability(ctx context.Context, productID string) (*invDomain.ProductAvailability, error) {
	reqURL := fmt.Sprintf("%s/api/v1/stock-info/products/%s", c.BaseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request to inventory service: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call inventory service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inventory service returned status: %d", resp.StatusCode)
	}

	var availability invDomain.ProductAvailability
	if err := json.NewDecoder(resp.Body).Decode(&availability); err != nil {
		return nil, fmt.Errorf("failed to decode response from inventory service: %w", err)
	}
	return &availability, nil
}
