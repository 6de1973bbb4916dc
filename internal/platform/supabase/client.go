// Package supabase is a small REST client for the Supabase Auth (GoTrue) and
// Storage APIs.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	jwtSecret  string
	httpClient *http.Client
}

type Config struct {
	URL string
	// AnonKey authenticates end-user auth calls.
	AnonKey string
	// ServiceKey authenticates storage administration. Falls back to AnonKey.
	ServiceKey string
	// JWTSecret enables local verification of access tokens.
	JWTSecret  string
	HTTPClient *http.Client
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if strings.TrimSpace(cfg.AnonKey) == "" && strings.TrimSpace(cfg.ServiceKey) == "" {
		return nil, fmt.Errorf("supabase API key is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	serviceKey := strings.TrimSpace(cfg.ServiceKey)
	if serviceKey == "" {
		serviceKey = strings.TrimSpace(cfg.AnonKey)
	}
	anonKey := strings.TrimSpace(cfg.AnonKey)
	if anonKey == "" {
		anonKey = serviceKey
	}
	return &Client{
		baseURL:    strings.TrimSuffix(strings.TrimSpace(cfg.URL), "/"),
		anonKey:    anonKey,
		serviceKey: serviceKey,
		jwtSecret:  strings.TrimSpace(cfg.JWTSecret),
		httpClient: httpClient,
	}, nil
}

// Error is a non-2xx Supabase response.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("supabase error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("supabase error: status %d", e.StatusCode)
}

func (e *Error) HTTPStatusCode() int { return e.StatusCode }

type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Error returns an *Error when the response indicates failure.
func (r *Response) Error() error {
	if r.StatusCode < 400 {
		return nil
	}
	var errResp struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		StatusCode       string `json:"statusCode"`
	}
	out := &Error{StatusCode: r.StatusCode}
	if err := json.Unmarshal(r.Body, &errResp); err == nil {
		for _, m := range []string{errResp.Message, errResp.Msg, errResp.ErrorDescription, errResp.Error} {
			if strings.TrimSpace(m) != "" {
				out.Message = m
				break
			}
		}
		// Storage reports conflicts as 400 with statusCode "409" in the body.
		if errResp.StatusCode == "409" {
			out.StatusCode = http.StatusConflict
		}
	}
	return out
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// setHeaders authenticates req with apiKey, using bearer as the Authorization
// token when set (end-user calls) and the key itself otherwise.
func (c *Client) setHeaders(req *http.Request, apiKey, bearer string) {
	req.Header.Set("apikey", apiKey)
	if bearer == "" {
		bearer = apiKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
}

func (c *Client) do(req *http.Request) (*Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: body, Headers: resp.Header}, nil
}
