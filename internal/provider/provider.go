package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/roomtab/webhook-svc/internal/service/models/event"
	"github.com/spf13/viper"
)

// API is the payment-provider surface the engine consumes. Both calls are
// synchronous with a bounded timeout; transient failures are logged by the
// caller and not retried.
type API interface {
	RetrieveOrder(ctx context.Context, orderID string) (*event.Order, error)
	DisableCatalogItem(ctx context.Context, itemID string) error
}

// Client is the HTTP implementation of the provider API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a provider client from configuration.
func NewClient() *Client {
	timeout := viper.GetDuration("provider.timeout")
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    viper.GetString("provider.base_url"),
		token:      os.Getenv("PROVIDER_ACCESS_TOKEN"),
	}
}

// RetrieveOrder fetches the full order, including line items and metadata,
// and returns it normalized.
func (c *Client) RetrieveOrder(ctx context.Context, orderID string) (*event.Order, error) {
	body, err := c.do(ctx, http.MethodGet, "/v2/orders/"+orderID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve order %s: %w", orderID, err)
	}

	var payload struct {
		Order json.RawMessage `json:"order"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode order %s: %w", orderID, err)
	}
	raw := payload.Order
	if len(raw) == 0 {
		raw = body
	}

	return event.NormalizeOrder(raw)
}

// DisableCatalogItem marks the provider-side catalog item unavailable so
// the closed tab can no longer be ordered against.
func (c *Client) DisableCatalogItem(ctx context.Context, itemID string) error {
	reqBody, err := json.Marshal(map[string]any{"available": false})
	if err != nil {
		return err
	}

	if _, err := c.do(ctx, http.MethodPut, "/v2/catalog/items/"+itemID+"/availability", reqBody); err != nil {
		return fmt.Errorf("failed to disable catalog item %s: %w", itemID, err)
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, path string, reqBody []byte) ([]byte, error) {
	var body io.Reader
	if reqBody != nil {
		body = bytes.NewReader(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, respBody)
	}

	return respBody, nil
}
