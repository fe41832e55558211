// Package gradio implements a minimal client for the Gradio HTTP API, enough
// to invoke a named prediction route on a Hugging Face Space or a self-hosted
// Gradio app.
package gradio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const callPathPrefix = "/gradio_api/call/"

var subdomainInvalidChars = regexp.MustCompile(`[^a-z0-9-]`)

// Config configures a Client.
type Config struct {
	// Endpoint is either a full URL or a Hugging Face space id ("owner/space").
	Endpoint string
	// Token is an optional bearer token for private endpoints.
	Token string
	// Timeout bounds every HTTP request, including the result stream read.
	Timeout time.Duration
	// HTTPClient overrides the default client; used by tests.
	HTTPClient *http.Client
}

// Client is a handle to a single Gradio app.
type Client struct {
	root  string
	token string
	http  *http.Client
}

// ResolveEndpoint turns a space id into its public URL. Full URLs pass
// through with any trailing slash removed.
func ResolveEndpoint(endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", fmt.Errorf("empty endpoint")
	}
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return strings.TrimRight(endpoint, "/"), nil
	}

	// owner/space -> https://owner-space.hf.space
	parts := strings.Split(endpoint, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("endpoint %q is neither a URL nor an owner/space id", endpoint)
	}
	subdomain := strings.ToLower(parts[0] + "-" + parts[1])
	subdomain = subdomainInvalidChars.ReplaceAllString(subdomain, "-")
	return "https://" + subdomain + ".hf.space", nil
}

// New resolves the endpoint and verifies the app is reachable by fetching its
// config. Construction fails when the endpoint is malformed, unreachable, or
// rejects the token.
func New(ctx context.Context, cfg Config) (*Client, error) {
	root, err := ResolveEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	c := &Client{
		root:  root,
		token: cfg.Token,
		http:  httpClient,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, root+"/config", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create config request: %v", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("endpoint %s is unreachable: %v", root, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("endpoint %s returned %d for config: %s", root, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return c, nil
}

// Root returns the resolved base URL of the app.
func (c *Client) Root() string {
	return c.root
}

// Predict invokes a named API route with positional arguments and returns the
// route's output values. apiName may carry the conventional leading slash
// ("/predict").
func (c *Client) Predict(ctx context.Context, apiName string, args ...interface{}) ([]interface{}, error) {
	name := strings.TrimPrefix(apiName, "/")
	if name == "" {
		return nil, fmt.Errorf("empty api name")
	}

	eventID, err := c.submit(ctx, name, args)
	if err != nil {
		return nil, err
	}

	return c.awaitResult(ctx, name, eventID)
}

// submit queues the prediction and returns the event id to poll.
func (c *Client) submit(ctx context.Context, name string, args []interface{}) (string, error) {
	if args == nil {
		args = []interface{}{}
	}
	payload, err := json.Marshal(map[string]interface{}{"data": args})
	if err != nil {
		return "", fmt.Errorf("failed to marshal predict payload: %v", err)
	}

	url := c.root + callPathPrefix + name
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create predict request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("predict call failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("predict call returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var submitResp struct {
		EventID string `json:"event_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&submitResp); err != nil {
		return "", fmt.Errorf("failed to decode predict response: %v", err)
	}
	if submitResp.EventID == "" {
		return "", fmt.Errorf("predict response carried no event id")
	}

	return submitResp.EventID, nil
}

// awaitResult reads the server-sent event stream for the queued prediction
// until a terminal event arrives.
func (c *Client) awaitResult(ctx context.Context, name, eventID string) ([]interface{}, error) {
	url := c.root + callPathPrefix + name + "/" + eventID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create result request: %v", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("result stream failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("result stream returned %d", resp.StatusCode)
	}

	var event string
	var dataLines []string
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			// Repeated data fields in one message join with newlines
			value := strings.TrimPrefix(line, "data:")
			dataLines = append(dataLines, strings.TrimPrefix(value, " "))
		case line == "":
			// Blank line terminates one SSE message
			data := strings.Join(dataLines, "\n")
			switch event {
			case "complete":
				return decodeOutputs(data)
			case "error":
				return nil, fmt.Errorf("upstream reported an error: %s", errorDetail(data))
			}
			event, dataLines = "", nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("result stream read failed: %v", err)
	}

	// Streams that end mid-message may leave a terminal event unflushed
	data := strings.Join(dataLines, "\n")
	switch event {
	case "complete":
		return decodeOutputs(data)
	case "error":
		return nil, fmt.Errorf("upstream reported an error: %s", errorDetail(data))
	}

	return nil, fmt.Errorf("result stream ended without a terminal event")
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func decodeOutputs(data string) ([]interface{}, error) {
	if data == "" || data == "null" {
		return nil, fmt.Errorf("complete event carried no data")
	}
	var outputs []interface{}
	if err := json.Unmarshal([]byte(data), &outputs); err != nil {
		return nil, fmt.Errorf("failed to decode outputs: %v", err)
	}
	return outputs, nil
}

func errorDetail(data string) string {
	if data == "" || data == "null" {
		return "no detail"
	}
	return data
}
