package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	cartDomain "github.com/danuarta/shop-microservices/internal/cart/domain"
	"github.com/danuarta/shop-microservices/internal/platform/logger"
)

type CartClient interface {
	GetCart(ctx context.Context, userID string) (*cartDomain.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

type httpCartClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewHTTPCartClient(baseURL string) CartClient {
	return &httpCartClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (c *httpCartClient) GetCart(ctx context.Context, userID string) (*cartDomain.Cart, error) {
	reqURL := fmt.Sprintf("%s/api/v1/carts/%s", c.BaseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create get cart request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logger.Error("CartClient.GetCart: HTTPClient.Do failed", err)
		return nil, fmt.Errorf("failed to call cart service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cart service get cart returned status %d", resp.StatusCode)
	}

	var cart cartDomain.Cart
	if err := json.NewDecoder(resp.Body).Decode(&cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart response: %w", err)
	}
	return &cart, nil
}

func (c *httpCartClient) ClearCart(ctx context.Context, userID string) error {
	reqURL := fmt.Sprintf("%s/api/v1/carts/%s", c.BaseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create clear cart request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logger.Error("CartClient.ClearCart: HTTPClient.Do failed", err)
		return fmt.Errorf("failed to call cart service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("cart service clear cart returned status %d", resp.StatusCode)
	}
	return nil
}
