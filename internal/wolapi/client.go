package wolapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wolapp/wolctl/internal/logging"
	"github.com/wolapp/wolctl/internal/macaddr"
)

const (
	// DefaultServer is the address of a wolapp server started with its defaults.
	DefaultServer = "http://localhost:8080"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// RequestIDHeader carries a per-request UUID for correlating client and server logs.
	RequestIDHeader = "X-Request-ID"
)

// Client talks to a wolapp server.
type Client struct {
	// BaseURL is the server root (e.g. "http://192.168.1.10:8080")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client
}

// NewClient creates a client for the server at baseURL. A trailing slash is
// ignored.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// ListMachines fetches all registered machines.
func (c *Client) ListMachines(ctx context.Context) ([]Machine, error) {
	var machines []Machine
	if err := c.do(ctx, http.MethodGet, "/api/machines", nil, nil, &machines); err != nil {
		return nil, err
	}
	if machines == nil {
		machines = []Machine{}
	}
	return machines, nil
}

// AddMachine registers a new machine. The MAC is sent in canonical form.
func (c *Client) AddMachine(ctx context.Context, m Machine) error {
	if m.ID == "" {
		return NewValidationError("machine name is empty")
	}
	if !macaddr.Validate(m.MAC) {
		return NewValidationError(fmt.Sprintf("invalid mac address %q", m.MAC))
	}
	m.MAC = macaddr.Normalize(m.MAC)
	return c.do(ctx, http.MethodPost, "/api/machines", nil, m, nil)
}

// DeleteMachine removes the machine registered under id.
func (c *Client) DeleteMachine(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/machines", url.Values{"id": {id}}, nil, nil)
}

// WakeMachine asks the server to send a Wake-on-LAN packet to mac. A malformed
// address is rejected without a request.
func (c *Client) WakeMachine(ctx context.Context, mac string) error {
	hw, err := macaddr.Parse(mac)
	if err != nil {
		return NewValidationError(err.Error())
	}
	canonical := net.HardwareAddr(hw[:]).String()
	return c.do(ctx, http.MethodPost, "/api/machines/wake", url.Values{"mac": {canonical}}, nil, nil)
}

// ArpTable fetches the server's ARP table, in the order the server reports it.
func (c *Client) ArpTable(ctx context.Context) ([]ArpRow, error) {
	var rows []ArpRow
	if err := c.do(ctx, http.MethodGet, "/api/arp", nil, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ArpSelf fetches the hardware addresses the server sees for this client.
func (c *Client) ArpSelf(ctx context.Context) (*SelfArpInfo, error) {
	var info SelfArpInfo
	if err := c.do(ctx, http.MethodGet, "/api/arp/me", nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// do performs a single request. Any non-2xx status is an error. When out is
// non-nil the response body is decoded into it.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	target := c.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return NewParseError("failed to encode request body", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return NewNetworkError(fmt.Sprintf("failed to create %s request", method), err)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		apiErr := NewNetworkError(fmt.Sprintf("%s %s failed", method, path), err)
		apiErr.Path = path
		logging.LogRequest(requestID, method, path, 0, time.Since(start), apiErr)
		return apiErr
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		apiErr := NewHTTPError(resp.StatusCode, fmt.Sprintf("%s %s returned %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg))))
		apiErr.Path = path
		logging.LogRequest(requestID, method, path, resp.StatusCode, time.Since(start), apiErr)
		return apiErr
	}
	logging.LogRequest(requestID, method, path, resp.StatusCode, time.Since(start), nil)

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		apiErr := NewParseError(fmt.Sprintf("failed to decode %s response", path), err)
		apiErr.Path = path
		return apiErr
	}
	return nil
}
