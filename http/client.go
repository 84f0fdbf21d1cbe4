// Package http talks to the chat endpoint over HTTP: Client posts user
// messages as multipart forms, and NewHandler serves the endpoint.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fwojciec/xanadium"
	"github.com/google/uuid"
)

// Endpoint paths.
const (
	ChatPath   = "/chat"
	LogoutPath = "/logout"
)

// maxResponseBytes caps how much of a reply body is read.
const maxResponseBytes = 4 << 20

// Interface compliance check.
var _ xanadium.ChatClient = (*Client)(nil)

// Client implements xanadium.ChatClient against a remote chat endpoint.
// It is safe for concurrent use; Logout may run while a Chat is in flight.
type Client struct {
	baseURL string
	logger  *log.Logger

	mu         sync.Mutex // guards token and httpClient
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Client for the endpoint rooted at baseURL. Cookies set
// by the server are kept between requests.
func NewClient(baseURL string, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil) // never fails without options
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Jar: jar},
		logger:     log.New(io.Discard),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type chatResponse struct {
	Response *string `json:"response"`
}

// Chat posts the message as a multipart form with a "message" field and an
// optional "file" part, and returns the "response" field of the JSON reply.
// A reply with a non-2xx status still counts when it carries a response
// text. Anything without one is xanadium.ErrMalformedResponse.
func (c *Client) Chat(ctx context.Context, out xanadium.Outgoing) (string, error) {
	body, contentType, err := encodeForm(out)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ChatPath, body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)
	hc, token := c.credentials()
	authorize(req, token)

	resp, err := hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("chat response", "request_id", requestID, "status", resp.StatusCode, "bytes", len(data))

	var cr chatResponse
	if err := json.Unmarshal(data, &cr); err != nil {
		return "", fmt.Errorf("status %d: %w", resp.StatusCode, xanadium.ErrMalformedResponse)
	}
	if cr.Response == nil || *cr.Response == "" {
		return "", fmt.Errorf("status %d, no response text: %w", resp.StatusCode, xanadium.ErrMalformedResponse)
	}
	return *cr.Response, nil
}

// Logout tells the endpoint to end the session and forgets local
// credentials. Credentials are dropped even when the request fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.forget()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+LogoutPath, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	shared, token := c.credentials()
	authorize(req, token)
	// The endpoint answers with a redirect meant for browsers.
	hc := *shared
	hc.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("logout: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) credentials() (*http.Client, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.httpClient, c.token
}

func authorize(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// forget drops the token and swaps in a client with an empty cookie jar.
// The old client is left untouched for requests still using it.
func (c *Client) forget() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	if c.httpClient.Jar != nil {
		hc := *c.httpClient
		hc.Jar, _ = cookiejar.New(nil)
		c.httpClient = &hc
	}
}

func encodeForm(out xanadium.Outgoing) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("message", out.Text); err != nil {
		return nil, "", fmt.Errorf("write message field: %w", err)
	}
	if img := out.Image; img != nil {
		name := img.Name
		if name == "" {
			name = "image"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
		h.Set("Content-Type", img.MimeType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create file part: %w", err)
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, "", fmt.Errorf("write file part: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
