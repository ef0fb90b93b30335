// Package http provides a fluent, retry-aware client for outgoing GET calls.
//
//	c := http.NewClient(5 * time.Second)
//	resp, err := c.Get("https://www.googleapis.com/books/v1/volumes").
//	    Query("q", "dune").
//	    Retry(3, 200*time.Millisecond).
//	    WithContext(ctx).
//	    Send()
//
//	var out volumes
//	err = resp.JSON(&out)
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	gohttp "net/http"
	"net/url"
	"time"

	"github.com/shashiranjanraj/bookstore/pkg/logger"
)

// Client holds the connection pool shared by every request it builds.
type Client struct {
	hc      *gohttp.Client
	timeout time.Duration
}

// NewClient returns a pooled client whose requests time out after timeout
// per attempt.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		hc: &gohttp.Client{
			Transport: &gohttp.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		timeout: timeout,
	}
}

// ------------------- Request -------------------

// Request is a fluent HTTP request builder.
type Request struct {
	client    *Client
	method    string
	url       string
	query     url.Values
	timeout   time.Duration
	retries   int
	retryWait time.Duration
	ctx       context.Context
}

func (c *Client) Get(rawURL string) *Request { return c.newRequest(gohttp.MethodGet, rawURL) }

func (c *Client) newRequest(method, rawURL string) *Request {
	timeout := c.timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Request{
		client:    c,
		method:    method,
		url:       rawURL,
		query:     url.Values{},
		timeout:   timeout,
		retries:   1,
		retryWait: 500 * time.Millisecond,
		ctx:       context.Background(),
	}
}

// Query adds a query-string parameter. Empty values are skipped.
func (r *Request) Query(key, value string) *Request {
	if value != "" {
		r.query.Add(key, value)
	}
	return r
}

// Retry configures automatic retries on transport errors and 5xx/429
// responses. n is total attempts (1 = no retry); wait doubles each attempt.
func (r *Request) Retry(n int, wait time.Duration) *Request {
	if n < 1 {
		n = 1
	}
	r.retries = n
	r.retryWait = wait
	return r
}

func (r *Request) WithContext(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// URL returns the full request URL including the query string.
func (r *Request) URL() string {
	if len(r.query) == 0 {
		return r.url
	}
	return r.url + "?" + r.query.Encode()
}

// ------------------- Send -------------------

// Send executes the request. A non-2xx final response is returned without
// error; use Throw to turn it into one.
func (r *Request) Send() (*Response, error) {
	log := logger.WithCtx(r.ctx)
	var lastErr error
	var lastResp *Response

	for attempt := 1; attempt <= r.retries; attempt++ {
		resp, err := r.do()
		if err == nil && !retryable(resp.StatusCode) {
			return resp, nil
		}
		lastErr, lastResp = err, resp

		if attempt == r.retries {
			break
		}

		backoff := time.Duration(float64(r.retryWait) * math.Pow(2, float64(attempt-1)))
		log.Warn("http: request failed, retrying",
			"url", r.url, "attempt", attempt, "backoff", backoff.String(), "error", err, "status", statusOf(resp))

		select {
		case <-r.ctx.Done():
			return nil, fmt.Errorf("http: %s %s: %w", r.method, r.url, r.ctx.Err())
		case <-time.After(backoff):
		}
	}

	if lastErr == nil {
		return lastResp, nil
	}
	return nil, fmt.Errorf("http: all %d attempts failed for %s %s: %w", r.retries, r.method, r.url, lastErr)
}

func retryable(status int) bool {
	return status == gohttp.StatusTooManyRequests || status >= 500
}

func statusOf(resp *Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

func (r *Request) do() (*Response, error) {
	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()

	req, err := gohttp.NewRequestWithContext(ctx, r.method, r.URL(), nil)
	if err != nil {
		return nil, fmt.Errorf("http: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: send: %w", err)
	}

	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("http: read body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Raw:        raw,
	}, nil
}

// ------------------- Response -------------------

// Response wraps the HTTP response with convenience methods.
type Response struct {
	StatusCode int
	Headers    gohttp.Header
	Raw        []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON unmarshals the response body into dest.
func (r *Response) JSON(dest interface{}) error {
	if err := json.Unmarshal(r.Raw, dest); err != nil {
		return fmt.Errorf("http: decode JSON: %w", err)
	}
	return nil
}

// Throw returns an error if the response status is not 2xx.
func (r *Response) Throw() error {
	if !r.OK() {
		return fmt.Errorf("http: request failed with status %d", r.StatusCode)
	}
	return nil
}
