package aoryx

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

	"golang.org/x/time/rate"

	"github.com/hasratyan/aoryx.am/internal/adapters/observability"
	"github.com/hasratyan/aoryx.am/internal/domain"
)

// Client talks to the Aoryx distribution API: JSON over HTTPS, PascalCase
// field names, API-key header, one endpoint per operation. Calls are
// bounded by the client timeout and the caller's ctx; there is no retry.
type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, timeout time.Duration, rps int) (*Client, error) {
	if strings.TrimSpace(base) == "" {
		return nil, errors.New("aoryx: base URL is required")
	}
	if key == "" {
		return nil, errors.New("aoryx: API key is required")
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: timeout},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ClientError is a transport failure: non-2xx status or undecodable body.
type ClientError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("aoryx %s: status %d: %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("aoryx %s: status %d", e.Endpoint, e.Status)
}

func (e *ClientError) Unwrap() error { return e.Err }

// VendorError is a business failure the vendor reports inside a 2xx body
// via an explicit failure flag.
type VendorError struct {
	Endpoint string
	Code     string
	Message  string
}

func (e *VendorError) Error() string {
	return fmt.Sprintf("aoryx %s: vendor error %s: %s", e.Endpoint, e.Code, e.Message)
}

// ---- Operations ----

func (c *Client) Search(ctx context.Context, p domain.SearchParams) (map[string]any, error) {
	body := map[string]any{
		"CheckInDate":  p.CheckIn,
		"CheckOutDate": p.CheckOut,
		"Currency":     p.Currency,
	}
	if p.Nationality != "" {
		body["Nationality"] = p.Nationality
	}
	if p.HotelCode != nil {
		body["HotelCode"] = *p.HotelCode
	} else if p.Destination != nil {
		body["DestinationCode"] = *p.Destination
	}
	rooms := make([]map[string]any, 0, len(p.Rooms))
	for _, r := range p.Rooms {
		room := map[string]any{"Adults": r.Adults}
		if len(r.ChildrenAges) > 0 {
			room["ChildrenAges"] = r.ChildrenAges
		}
		rooms = append(rooms, room)
	}
	body["Rooms"] = rooms
	return c.post(ctx, "/hotels/search", body)
}

func (c *Client) HotelInfo(ctx context.Context, hotelCode string) (map[string]any, error) {
	return c.post(ctx, "/hotels/info", map[string]any{"HotelCode": hotelCode})
}

func (c *Client) RoomDetails(ctx context.Context, sessionID, hotelCode string) (map[string]any, error) {
	return c.post(ctx, "/hotels/roomdetails", map[string]any{
		"SessionId": sessionID,
		"HotelCode": hotelCode,
	})
}

func (c *Client) Destinations(ctx context.Context, countryCode string) (map[string]any, error) {
	body := map[string]any{}
	if countryCode != "" {
		body["CountryCode"] = countryCode
	}
	return c.post(ctx, "/static/destinations", body)
}

func (c *Client) Countries(ctx context.Context) (map[string]any, error) {
	return c.post(ctx, "/static/countries", map[string]any{})
}

func (c *Client) ExchangeRates(ctx context.Context, base string) (map[string]any, error) {
	return c.post(ctx, "/static/exchangerates", map[string]any{"BaseCurrency": base})
}

// ---- Internals ----

func (c *Client) post(ctx context.Context, endpoint string, body map[string]any) (map[string]any, error) {
	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", c.key)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "aoryx-am/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("aoryx", endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ClientError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()
	observability.ObserveExternal("aoryx", endpoint, resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		var out map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, &ClientError{Endpoint: endpoint, Status: resp.StatusCode, Err: err}
		}
		if verr := vendorFailure(endpoint, out); verr != nil {
			return nil, verr
		}
		return out, nil

	case http.StatusUnauthorized, http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: aoryx %s: status %d", domain.ErrUnauthorized, endpoint, resp.StatusCode)

	case http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: aoryx %s", domain.ErrNotFound, endpoint)

	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &ClientError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Err:      errors.New(strings.TrimSpace(string(b))),
		}
	}
}

// vendorFailure detects the explicit failure flag inside a 2xx body.
// The schema is reverse-engineered, so several flag spellings are tried.
func vendorFailure(endpoint string, m map[string]any) error {
	failed := false
	if b, ok := m["IsError"].(bool); ok && b {
		failed = true
	}
	if b, ok := m["Error"].(bool); ok && b {
		failed = true
	}
	if s, ok := m["Status"].(string); ok && strings.EqualFold(s, "Failed") {
		failed = true
	}
	msg := firstString(m, "ErrorMessage", "ExceptionMessage", "Message")
	if !failed && firstString(m, "ErrorMessage", "ExceptionMessage") != "" {
		failed = true
	}
	if !failed {
		return nil
	}
	code := firstString(m, "ErrorCode", "Code")
	if code == "" {
		code = "UNKNOWN"
	}
	return &VendorError{Endpoint: endpoint, Code: code, Message: msg}
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
