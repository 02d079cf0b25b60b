package main

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

// APIError represents an error response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// Client is an HTTP client for the Wise Institute backend.
type Client struct {
	rest  *resty.Client
	debug bool
}

func newClient(baseURL, session string, debug bool) *Client {
	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if session != "" {
		rest.SetCookie(&http.Cookie{Name: sessionCookieName, Value: session})
	}
	return &Client{rest: rest, debug: debug}
}

// getClient returns a client carrying the stored admin session.
func getClient() (*Client, error) {
	session := getConfigSession()
	if session == "" {
		return nil, fmt.Errorf("admin session is required. Run 'wisectl login', or set --session / WISECTL_SESSION")
	}
	return newClient(getConfigURL(), session, flagDebug), nil
}

// getPublicClient returns a client for endpoints that need no session.
func getPublicClient() *Client {
	return newClient(getConfigURL(), getConfigSession(), flagDebug)
}

func (c *Client) do(req *resty.Request, method, path string) (*resty.Response, error) {
	if c.debug {
		fmt.Fprintf(os.Stderr, "DEBUG: %s %s\n", method, path)
	}

	resp, err := req.SetError(&ErrorResponse{}).Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if c.debug {
		fmt.Fprintf(os.Stderr, "DEBUG: Status %d\n", resp.StatusCode())
		fmt.Fprintf(os.Stderr, "DEBUG: Body: %s\n", resp.String())
	}

	if resp.IsError() {
		if errResp, ok := resp.Error().(*ErrorResponse); ok && errResp.Error != "" {
			return nil, &APIError{StatusCode: resp.StatusCode(), Message: errResp.Error}
		}
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: resp.String()}
	}

	return resp, nil
}

// Get issues a GET and returns the raw body.
func (c *Client) Get(path string, query url.Values) ([]byte, error) {
	req := c.rest.R()
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	resp, err := c.do(req, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// Post issues a POST with a JSON body and returns the full response.
func (c *Client) Post(path string, body interface{}) (*resty.Response, error) {
	req := c.rest.R()
	if body != nil {
		req.SetBody(body)
	}
	return c.do(req, http.MethodPost, path)
}
