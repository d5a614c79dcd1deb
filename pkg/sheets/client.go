package sheets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgmodel "github.com/goliatone/go-tripform/pkg/model"
)

const (
	// DefaultEndpoint is the Apps Script deployment that writes booking rows.
	DefaultEndpoint = "https://script.google.com/macros/s/AKfycbzGTBFbK1_qqZiGXLNPYzcOICG4mxEOCeRozRlHdr_d5R09ltFKHxVUEcE1NrevM-hgkQ/exec"
	// DefaultAction is the action identifier the script expects.
	DefaultAction = "write"
	// DefaultPath is the target sheet name.
	DefaultPath = "Sheet1"
	// DefaultTimeout bounds a single submission.
	DefaultTimeout = 10 * time.Second
)

// Control parameter names appended to every request.
const (
	ParamAction = "action"
	ParamPath   = "path"
)

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout bounds each submission. Zero disables the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout >= 0 {
			c.timeout = timeout
		}
	}
}

// WithAction overrides the action control parameter.
func WithAction(action string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(action); trimmed != "" {
			c.action = trimmed
		}
	}
}

// WithPath overrides the target sheet control parameter.
func WithPath(path string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			c.path = trimmed
		}
	}
}

// Client issues booking submissions to the spreadsheet endpoint.
type Client struct {
	endpoint string
	action   string
	path     string
	timeout  time.Duration
	http     *http.Client
}

// New constructs a Client for the given endpoint.
func New(endpoint string, options ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("sheets: parse endpoint: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("sheets: endpoint %q must use http or https", endpoint)
	}

	c := &Client{
		endpoint: endpoint,
		action:   DefaultAction,
		path:     DefaultPath,
		timeout:  DefaultTimeout,
		http:     http.DefaultClient,
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Endpoint reports the configured endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// RequestURL builds the full request URL for a booking: the endpoint's own
// query, the booking fields, then the control parameters.
func (c *Client) RequestURL(booking pkgmodel.BookingForm) (string, error) {
	target, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("sheets: parse endpoint: %w", err)
	}
	query := target.Query()
	for key, values := range booking.Query() {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	query.Set(ParamAction, c.action)
	query.Set(ParamPath, c.path)
	target.RawQuery = query.Encode()
	return target.String(), nil
}

// Submit sends the booking. Any transport failure, timeout or non-2xx status
// yields a *SubmissionError. The response body is not interpreted.
func (c *Client) Submit(ctx context.Context, booking pkgmodel.BookingForm) error {
	requestURL, err := c.RequestURL(booking)
	if err != nil {
		return err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("sheets: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &SubmissionError{Kind: ErrorKindTransport, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &SubmissionError{Kind: ErrorKindStatus, StatusCode: resp.StatusCode}
	}
	return nil
}
