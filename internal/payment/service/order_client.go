package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danuarta/shop-microservices/internal/platform/logger"
)

type OrderClient interface {
	ConfirmPayment(ctx context.Context, orderID string) error
}

type httpOrderClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewHTTPOrderClient(baseURL string) OrderClient {
	return &httpOrderClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second, // Konfirmasi memicu deduct stok, bisa lama.
		},
	}
}

func (c *httpOrderClient) ConfirmPayment(ctx context.Context, orderID string) error {
	reqURL := fmt.Sprintf("%s/api/v1/orders/%s/confirm-payment", c.BaseURL, orderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create confirm payment request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logger.Error("OrderClient.ConfirmPayment: HTTPClient.Do failed", err)
		return fmt.Errorf("failed to call order service for confirm payment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("order service confirm payment returned status %d", resp.StatusCode)
	}
	return nil
}
