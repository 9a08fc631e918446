// Package resolver maps human-readable aliases to claimant addresses through
// the upstream wallet API. Only *.swop.id names go upstream; anything else is
// assumed to already be a raw address and is returned unchanged.
package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const aliasSuffix = ".swop.id"

// solanaChainID keys the address map in the upstream response.
const solanaChainID = "501"

// Client resolves aliases against the upstream wallet API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a resolver client for the given API base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Resolve turns an alias into a wallet address. Inputs without the alias
// suffix pass through untouched; syntactic validation is the caller's job.
func (c *Client) Resolve(ctx context.Context, recipient string) (string, error) {
	if !strings.HasSuffix(recipient, aliasSuffix) {
		return recipient, nil
	}

	endpoint := fmt.Sprintf("%s/getEnsAddress/%s", c.baseURL, url.PathEscape(recipient))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("resolve alias %q: %w", recipient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("resolve alias %q: upstream returned %d", recipient, resp.StatusCode)
	}

	var payload struct {
		Addresses map[string]string `json:"addresses"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("resolve alias %q: decode response: %w", recipient, err)
	}

	address, ok := payload.Addresses[solanaChainID]
	if !ok || address == "" {
		return "", fmt.Errorf("resolve alias %q: no address in response", recipient)
	}

	return address, nil
}
