package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
)

// HTTPTestClient sends JSON requests to a test server
type HTTPTestClient struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPTestClient(baseURL string) *HTTPTestClient {
	return &HTTPTestClient{
		BaseURL: baseURL,
		Client:  &http.Client{},
	}
}

// Do sends a request with an optional JSON body and extra headers
func (c *HTTPTestClient) Do(t *testing.T, method, path string, body interface{}, headers map[string]string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	return resp
}

func (c *HTTPTestClient) GET(t *testing.T, path string) *http.Response {
	t.Helper()
	return c.Do(t, http.MethodGet, path, nil, nil)
}

func (c *HTTPTestClient) POST(t *testing.T, path string, body interface{}) *http.Response {
	t.Helper()
	return c.Do(t, http.MethodPost, path, body, nil)
}

func (c *HTTPTestClient) PUT(t *testing.T, path string, body interface{}) *http.Response {
	t.Helper()
	return c.Do(t, http.MethodPut, path, body, nil)
}

func (c *HTTPTestClient) PATCH(t *testing.T, path string, body interface{}) *http.Response {
	t.Helper()
	return c.Do(t, http.MethodPatch, path, body, nil)
}

// DecodeJSON decodes response body into target
func DecodeJSON(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	if err := json.Unmarshal(body, target); err != nil {
		t.Fatalf("Failed to decode response (body: %s): %v", string(body), err)
	}
}

// ReadBody reads and returns the response body as string
func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	return string(body)
}

// AssertStatusCode asserts the response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()

	if resp.StatusCode != expected {
		body := ReadBody(t, resp)
		t.Errorf("Expected status %d, got %d. Body: %s", expected, resp.StatusCode, body)
	}
}
