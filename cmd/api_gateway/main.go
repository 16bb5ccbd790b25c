package main

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/danuarta/shop-microservices/internal/platform/config"
	"github.com/danuarta/shop-microservices/internal/platform/logger"
)

func newSingleHostReverseProxy(targetHost string) (*httputil.ReverseProxy, error) {
	targetURL, err := url.Parse(targetHost)
	if err != nil {
		return nil, fmt.Errorf("failed to parse target URL '%s': %w", targetHost, err)
	}

	proxy := httputil.NewSingleHostReverseProxy(targetURL)
	proxy.ErrorHandler = func(rw http.ResponseWriter, req *http.Request, err error) {
		logger.Error(fmt.Sprintf("Gateway: proxy error for %s %s to %s", req.Method, req.URL.Path, targetURL), err)
		http.Error(rw, "Service unavailable or proxy error", http.StatusBadGateway)
	}
	return proxy, nil
}

func main() {
	cfg := config.LoadGatewayConfig()
	logger.Info("Starting API Gateway on port " + cfg.ListenPort)

	mux := http.NewServeMux()

	// Trailing slash penting supaya ServeMux mencocokkan semua subpath.
	// Path diteruskan apa adanya, tanpa strip prefix.
	serviceMappings := map[string]string{
		"/api/v1/users/":      cfg.UserServiceURL,
		"/api/v1/products/":   cfg.CatalogServiceURL,
		"/api/v1/carts/":      cfg.CartServiceURL,
		"/api/v1/orders/":     cfg.OrderServiceURL,
		"/api/v1/payments/":   cfg.PaymentServiceURL,
		"/api/v1/locations/":  cfg.InventoryServiceURL,
		"/api/v1/stocks/":     cfg.InventoryServiceURL,
		"/api/v1/stock-info/": cfg.InventoryServiceURL,
	}

	for pathPrefix, targetHost := range serviceMappings {
		proxy, err := newSingleHostReverseProxy(targetHost)
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to create reverse proxy for target %s (prefix %s)", targetHost, pathPrefix), err)
			continue
		}

		mux.Handle(pathPrefix, http.HandlerFunc(func(p *httputil.ReverseProxy, target string) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				logger.Info(fmt.Sprintf("Gateway: %s %s -> %s", r.Method, r.URL.Path, target))
				p.ServeHTTP(w, r)
			}
		}(proxy, targetHost)))

		logger.Info(fmt.Sprintf("Routing %s to %s", pathPrefix, targetHost))
	}

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	server := &http.Server{
		Addr:    ":" + cfg.ListenPort,
		Handler: mux,
	}

	logger.Info(fmt.Sprintf("API Gateway successfully configured and listening on :%s", cfg.ListenPort))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("API Gateway failed to start or crashed", err)
	}
}
