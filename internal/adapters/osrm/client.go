package osrm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// Client talks to an OSRM instance over its public HTTP API. The demo
// server is keyless and rate-limited, so the client issues one request per
// call and never retries.
//
// The client is safe for concurrent use.
type Client struct {
	session *http.Client
	baseURL string
	profile string
}

func NewClient(baseURL, profile string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("OSRM base URL is empty")
	}
	if profile == "" {
		profile = "driving"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		session: &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: profile,
	}, nil
}

// Name identifies the source in artifact metadata and logs.
func (c *Client) Name() string { return "osrm" }

func (c *Client) newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}
