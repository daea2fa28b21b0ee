package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Error is the failure result of a remote operation: the HTTP status plus
// the server's human-readable detail when it sent one. Callers classify by
// status instead of digging through response shapes.
type Error struct {
	Status int
	Detail string
	// Fields carries field-level validation messages (e.g. the register
	// endpoint returns {"email": ["..."]}) when no detail is present.
	Fields map[string][]string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api: %d", e.Status)
}

// Message returns the best user-facing text carried by the error: the
// detail, the first field message, or the given fallback.
func (e *Error) Message(fallback string) string {
	if e.Detail != "" {
		return e.Detail
	}
	for _, msgs := range e.Fields {
		if len(msgs) > 0 {
			return msgs[0]
		}
	}
	return fallback
}

// IsAuthError reports whether err is a 401 from the remote API.
func IsAuthError(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// ErrorMessage extracts user-facing text from any error, using fallback
// for non-API failures (network errors, timeouts).
func ErrorMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message(fallback)
	}
	return fallback
}

// Client is a thin typed wrapper over the remote account API. It holds no
// state beyond the base URL; tokens are supplied per call.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// do sends a JSON request and decodes a JSON response into out (when out is
// non-nil). accessToken, when non-empty, is attached as a bearer token.
func (c *Client) do(ctx context.Context, method, path, accessToken string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response body: %w", err)
		}
	}
	return nil
}

// decodeError builds an *Error from a non-2xx response body. The API sends
// either {"detail": "..."} or a map of field name to message list.
func decodeError(status int, raw []byte) *Error {
	apiErr := &Error{Status: status}

	var shaped struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &shaped); err == nil && shaped.Detail != "" {
		apiErr.Detail = shaped.Detail
		return apiErr
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err == nil {
		for name, msg := range fields {
			var list []string
			if err := json.Unmarshal(msg, &list); err == nil && len(list) > 0 {
				if apiErr.Fields == nil {
					apiErr.Fields = make(map[string][]string)
				}
				apiErr.Fields[name] = list
			}
		}
	}
	return apiErr
}
