// Package nautobot is the HTTP client for the upstream Nautobot API. The
// dashboard reads inventory through its GraphQL endpoint and probes
// liveness through REST.
package nautobot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"netops-cockpit/internal/model"
	"netops-cockpit/pkg/apierror"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL string, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

// GraphQL posts a query and decodes the response's data object into out.
// GraphQL-level errors surface as an upstream APIError; transport failures
// wrap ErrUpstreamUnavailable so handlers can answer 502 uniformly.
func (c *Client) GraphQL(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encode graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/graphql/", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return apierror.Upstream(
			fmt.Sprintf("nautobot returned status %d", resp.StatusCode),
			strings.TrimSpace(string(payload)),
		)
	}

	var parsed graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decode graphql response: %w", err)
	}

	if len(parsed.Errors) > 0 {
		messages := make([]string, 0, len(parsed.Errors))
		for _, e := range parsed.Errors {
			messages = append(messages, e.Message)
		}
		return apierror.Upstream("graphql query failed", strings.Join(messages, "; "))
	}

	if out != nil {
		if err := json.Unmarshal(parsed.Data, out); err != nil {
			return fmt.Errorf("decode graphql data: %w", err)
		}
	}

	return nil
}

// TestConnection probes the REST root and reports the advertised API
// version and round-trip latency.
func (c *Client) TestConnection(ctx context.Context) (string, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/", nil)
	if err != nil {
		return "", 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", 0, classifyTransportError(err)
	}
	defer resp.Body.Close()
	latency := time.Since(started)

	if resp.StatusCode != http.StatusOK {
		return "", latency, apierror.Upstream(
			fmt.Sprintf("nautobot returned status %d", resp.StatusCode), "")
	}

	return resp.Header.Get("API-Version"), latency, nil
}

func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: request timed out", model.ErrUpstreamUnavailable)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request timed out", model.ErrUpstreamUnavailable)
	}
	return fmt.Errorf("%w: %v", model.ErrUpstreamUnavailable, err)
}
