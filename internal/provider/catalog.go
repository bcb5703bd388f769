package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/viper"
)

// CatalogRefresher triggers a full catalog re-pull in the Product service.
// The refresh itself is someone else's job; the engine only decides when to
// ask for it.
type CatalogRefresher interface {
	Refresh(ctx context.Context) error
}

// ProductClient invokes the internal Product service over HTTP.
type ProductClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewProductClient creates a Product service client from configuration.
func NewProductClient() *ProductClient {
	timeout := viper.GetDuration("product.timeout")
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &ProductClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    viper.GetString("product.base_url"),
	}
}

// Refresh asks the Product service to re-pull the full provider catalog.
func (c *ProductClient) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/internal/catalog/refresh", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to trigger catalog refresh: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("catalog refresh returned status %d", resp.StatusCode)
	}

	return nil
}
