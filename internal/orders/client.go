package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/solune/storefront/pkg/httpclient"
)

// HistoryClient asks the order service whether a user purchased a product. It
// implements repository.PurchaseChecker for deployments where order data
// lives behind the order service rather than in the storefront database.
//
// Calls go through the circuit-breaker client, so a struggling order service
// is cut off instead of stalling every review-eligibility check.
type HistoryClient struct {
	baseURL string
	client  *httpclient.CircuitBreakerClient
	logger  *slog.Logger
}

// NewHistoryClient creates an order-history client against the given base URL.
func NewHistoryClient(baseURL string, logger *slog.Logger) *HistoryClient {
	cfg := httpclient.DefaultConfig()
	cfg.Timeout = 10 * time.Second

	base := httpclient.New(cfg)
	cb := httpclient.NewCircuitBreakerClient(base, httpclient.DefaultCircuitBreakerConfig("order-history"), logger)

	return &HistoryClient{
		baseURL: baseURL,
		client:  cb,
		logger:  logger,
	}
}

type purchaseResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Purchased bool `json:"purchased"`
	} `json:"data"`
}

// HasPurchased reports whether at least one order line exists for the pair.
func (c *HistoryClient) HasPurchased(ctx context.Context, userID, productID string) (bool, error) {
	endpoint := fmt.Sprintf("%s/internal/purchases/%s/%s",
		c.baseURL, url.PathEscape(userID), url.PathEscape(productID))

	resp, err := c.client.Get(ctx, endpoint)
	if err != nil {
		return false, fmt.Errorf("query order history: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := httpclient.DecodeError(resp); err != nil {
		return false, fmt.Errorf("order history lookup: %w", err)
	}

	var body purchaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode order history response: %w", err)
	}

	return body.Data.Purchased, nil
}
