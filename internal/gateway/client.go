// Package gateway talks to the Multicaixa payment reference provider.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/config"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new payment gateway client
func NewClient(cfg config.GatewayConfig, logger *zap.Logger) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// ReferenceRequest asks the provider for a payment reference.
type ReferenceRequest struct {
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
}

// Reference is a payable Multicaixa entity/reference pair.
type Reference struct {
	Entity    string    `json:"entity"`
	Reference string    `json:"reference"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateReference requests a payment reference for an invoice.
func (c *Client) CreateReference(ctx context.Context, in ReferenceRequest) (*Reference, error) {
	if in.Currency == "" {
		in.Currency = "AOA"
	}

	body, err := c.post(ctx, "/v1/references", in)
	if err != nil {
		return nil, err
	}

	var ref Reference
	if err := json.Unmarshal(body, &ref); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &ref, nil
}

// Ping probes the provider. Used by the admin connectivity check.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/ping", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway ping: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("gateway error: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
