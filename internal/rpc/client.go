package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const maxResponseBytes = 8 << 20

// Client calls whitelisted methods on a Frappe-style backend:
// POST {base}/api/method/{method} with a flat JSON object, answered by
// {"message": <payload>}.
type Client struct {
	baseURL   string
	apiKey    string
	apiSecret string
	http      *http.Client
}

// NewClient builds a client. An empty key disables the Authorization header.
func NewClient(baseURL, apiKey, apiSecret string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		apiSecret: apiSecret,
		http:      &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient swaps the transport, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

type envelope struct {
	Message json.RawMessage `json:"message"`
}

// Call invokes method with params and decodes the message payload into out.
// out may be nil when the caller does not need the payload.
func (c *Client) Call(ctx context.Context, method string, params any, out any) error {
	if params == nil {
		params = map[string]any{}
	}
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("%s: encode params: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/method/"+method, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", method, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("token %s:%s", c.apiKey, c.apiSecret))
	}

	log := logrus.WithFields(logrus.Fields{"method": method, "request_id": requestID})
	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Warn("remote call failed")
		return transportError(method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return transportError(method, err)
	}
	log = log.WithFields(logrus.Fields{"status": resp.StatusCode, "elapsed": time.Since(started).String()})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rerr := decodeError(method, resp.StatusCode, raw)
		log.WithField("exc_type", rerr.Type).Warn(rerr.Message)
		return rerr
	}
	log.Debug("remote call ok")

	if out == nil {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%s: decode response: %w", method, err)
	}
	if len(env.Message) == 0 || string(env.Message) == "null" {
		// A list method with nothing to list answers null.
		if v := reflect.ValueOf(out); v.Kind() == reflect.Pointer && v.Elem().Kind() == reflect.Slice {
			v.Elem().Set(reflect.MakeSlice(v.Elem().Type(), 0, 0))
			return nil
		}
		return &Error{Method: method, StatusCode: resp.StatusCode, Type: "DoesNotExistError", Message: "empty response"}
	}
	if err := json.Unmarshal(env.Message, out); err != nil {
		return fmt.Errorf("%s: decode message: %w", method, err)
	}
	return nil
}

func transportError(method string, err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return fmt.Errorf("%s: %w", method, ErrTimeout)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", method, err)
	}
	return fmt.Errorf("%s: %w: %v", method, ErrUnavailable, err)
}
