package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	catalogDomain "github.com/danuarta/shop-microservices/internal/catalog/domain"
)

var errProductNotInCatalog = fmt.Errorf("product not found in catalog")

type CatalogClient interface {
	GetProduct(ctx context.Context, productID string) (*catalogDomain.Product, error)
}

type httpCatalogClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewHTTPCatalogClient(baseURL string) CatalogClient {
	return &httpCatalogClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (c *httpCatalogClient) GetProduct(ctx context.Context, productID string) (*catalogDomain.Product, error) {
	reqURL := fmt.Sprintf("%s/api/v1/products/%s", c.BaseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request to catalog service: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call catalog service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errProductNotInCatalog
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog service returned status: %d", resp.StatusCode)
	}

	var product catalogDomain.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("failed to decode response from catalog service: %w", err)
	}
	return &product, nil
}
