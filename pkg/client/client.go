// Package client is a typed REST client for the alert management API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/logger"
)

// Client is the main alert management API client
type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	token      string // JWT token for authenticated requests
	limiter    *rate.Limiter
	log        *logger.Logger
}

// Config holds the client configuration
type Config struct {
	BaseURL           string         // API base URL (e.g., "http://localhost:8080")
	APIKey            string         // Optional API key for authentication
	Token             string         // Optional bearer token from a previous login
	Timeout           time.Duration  // HTTP client timeout (default: 30s)
	HTTPClient        *http.Client   // Optional custom HTTP client
	RequestsPerSecond float64        // Client-side rate limit; zero disables it
	Logger            *logger.Logger // Request/response logging; nil disables it
}

// NewClient creates a new API client
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
		}
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		apiKey:     cfg.APIKey,
		token:      cfg.Token,
		limiter:    limiter,
		log:        log,
	}
}

// SetToken sets the JWT token for authenticated requests
func (c *Client) SetToken(token string) {
	c.token = token
}

// GetToken returns the current JWT token
func (c *Client) GetToken() string {
	return c.token
}

// BaseURL returns the API base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs an HTTP request with proper error handling.
// Network failures are returned as TRANSPORT_FAILURE; HTTP error responses
// as *APIError.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	// Add authentication
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	} else if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	c.log.WithFields(map[string]interface{}{
		"method":       method,
		"url":          url,
		"body_preview": previewValue(body),
	}).Info(fmt.Sprintf("API Request: %s %s", method, url))

	// Perform request
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.log.WithFields(map[string]interface{}{
			"method": method,
			"url":    url,
			"status": "NETWORK_ERROR",
		}).ErrorWithErr(err, fmt.Sprintf("API Error: NETWORK_ERROR %s %s", method, url))
		return apperrors.TransportFailure(fmt.Sprintf("%s %s failed", method, url), err)
	}
	defer resp.Body.Close()

	// Read response body
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.TransportFailure(fmt.Sprintf("%s %s: failed to read response", method, url), err)
	}

	fields := map[string]interface{}{
		"method":       method,
		"url":          url,
		"status":       resp.StatusCode,
		"duration":     time.Since(start).String(),
		"body_preview": previewBytes(respBody),
	}

	// Check for errors
	if resp.StatusCode >= 400 {
		c.log.WithFields(fields).Error(fmt.Sprintf("API Error: %d %s %s", resp.StatusCode, method, url))
		return parseAPIError(resp.StatusCode, respBody)
	}
	c.log.WithFields(fields).Info(fmt.Sprintf("API Response: %d %s %s", resp.StatusCode, method, url))

	// Parse success response
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(unwrapEnvelope(respBody), result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// unwrapEnvelope returns the data member of a {"success":true,"data":...}
// envelope, or body unchanged when it is not one.
func unwrapEnvelope(body []byte) []byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return body
	}
	var env struct {
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil || env.Success == nil || env.Data == nil {
		return body
	}
	return env.Data
}

// Alerts returns the alert service
func (c *Client) Alerts() *AlertService {
	return &AlertService{client: c}
}

// Scans returns the scan service
func (c *Client) Scans() *ScanService {
	return &ScanService{client: c}
}

// Policies returns the policy service
func (c *Client) Policies() *PolicyService {
	return &PolicyService{client: c}
}

// Admin returns the administrative service
func (c *Client) Admin() *AdminService {
	return &AdminService{client: c}
}
