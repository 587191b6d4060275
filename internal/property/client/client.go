// Package client provides the HTTP client for the RentCast property API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hvac_quote_backend/internal/property/transport"
	"hvac_quote_backend/platform/logger"
)

const defaultBaseURL = "https://api.rentcast.io/v1"

// ErrNoProperty is returned when RentCast has no record for the address.
var ErrNoProperty = errors.New("No property found for this address")

// Client is the HTTP client for RentCast.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	log        *logger.Logger
}

func New(apiKey, baseURL string, log *logger.Logger) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        log,
	}
}

// GetProperty returns the first record RentCast matches to address.
func (c *Client) GetProperty(ctx context.Context, address string) (*transport.Property, error) {
	params := url.Values{}
	params.Set("address", address)
	reqURL := fmt.Sprintf("%s/properties?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("rentcast request failed", "error", err)
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("rentcast upstream error", "status", resp.StatusCode)
		return nil, fmt.Errorf("rentcast api error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var records []transport.Property
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		c.log.Error("rentcast decode failed", "error", err)
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(records) == 0 {
		c.log.Debug("rentcast no property found")
		return nil, ErrNoProperty
	}

	property := records[0]
	if property.FormattedAddress == "" {
		property.FormattedAddress = property.AddressLine1
	}
	return &property, nil
}
