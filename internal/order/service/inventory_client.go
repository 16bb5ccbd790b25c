package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	inventoryDomain "github.com/danuarta/shop-microservices/internal/inventory/domain"
	"github.com/danuarta/shop-microservices/internal/platform/logger"
)

type InventoryClient interface {
	ReserveStock(ctx context.Context, productID string, quantity int) error
	ReleaseStock(ctx context.Context, productID string, quantity int) error
	FindReservations(ctx context.Context, productIDs []string) ([]inventoryDomain.ProductLocationReservation, error)
	DeductStock(ctx context.Context, req inventoryDomain.DeductStockRequest) error
}

type httpInventoryClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewHTTPInventoryClient(baseURL string) InventoryClient {
	return &httpInventoryClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second, // Operasi stok bisa butuh lock, kasih napas lebih.
		},
	}
}

func (c *httpInventoryClient) doStockOperation(ctx context.Context, operation string, productID string, quantity int) error {
	reqURL := fmt.Sprintf("%s/api/v1/stocks/%s", c.BaseURL, operation)

	payload := inventoryDomain.StockOperationRequest{
		ProductID: productID,
		Quantity:  quantity,
	}
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s stock request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create %s stock request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logger.Error(fmt.Sprintf("InventoryClient.%s: HTTPClient.Do failed", operation), err)
		return fmt.Errorf("failed to call inventory service for %s stock: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp inventoryDomain.StockOperationResponse
		// Decode body error best-effort saja, status code tetap jadi sumber kebenaran.
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		errMsg := fmt.Sprintf("inventory service %s stock returned status %d", operation, resp.StatusCode)
		if errResp.Message != "" {
			errMsg = fmt.Sprintf("%s - %s", errMsg, errResp.Message)
		}
		logger.Error(errMsg, nil)
		return errors.New(errMsg)
	}

	return nil
}

func (c *httpInventoryClient) ReserveStock(ctx context.Context, productID string, quantity int) error {
	return c.doStockOperation(ctx, "reserve", productID, quantity)
}

func (c *httpInventoryClient) ReleaseStock(ctx context.Context, productID string, quantity int) error {
	return c.doStockOperation(ctx, "release", productID, quantity)
}

func (c *httpInventoryClient) FindReservations(ctx context.Context, productIDs []string) ([]inventoryDomain.ProductLocationReservation, error) {
	reqURL := fmt.Sprintf("%s/api/v1/stock-info/reservations", c.BaseURL)

	payload := inventoryDomain.FindReservationsRequest{ProductIDs: productIDs}
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reservations request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create reservations request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logger.Error("InventoryClient.FindReservations: HTTPClient.Do failed", err)
		return nil, fmt.Errorf("failed to call inventory service for reservations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inventory service reservations returned status %d", resp.StatusCode)
	}

	var infos []inventoryDomain.ProductLocationReservation
	if err := json.NewDecoder(resp.Body).Decode(&infos); err != nil {
		return nil, fmt.Errorf("failed to decode reservations response: %w", err)
	}
	return infos, nil
}

func (c *httpInventoryClient) DeductStock(ctx context.Context, deductReq inventoryDomain.DeductStockRequest) error {
	reqURL := fmt.Sprintf("%s/api/v1/stocks/deduct", c.BaseURL)

	jsonPayload, err := json.Marshal(deductReq)
	if err != nil {
		return fmt.Errorf("failed to marshal deduct stock request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create deduct stock request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logger.Error("InventoryClient.DeductStock: HTTPClient.Do failed", err)
		return fmt.Errorf("failed to call inventory service for deduct stock: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp inventoryDomain.StockOperationResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		errMsg := fmt.Sprintf("inventory service deduct stock returned status %d", resp.StatusCode)
		if errResp.Message != "" {
			errMsg = fmt.Sprintf("%s - %s", errMsg, errResp.Message)
		}
		logger.Error(errMsg, nil)
		return errors.New(errMsg)
	}
	return nil
}
