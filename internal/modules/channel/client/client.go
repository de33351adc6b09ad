// Package client talks to the streaming service JSON API.
package client

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/reshetovitsme/streamboard/internal/shared/errors"
	"github.com/samber/oops"
)

const acceptHeader = "application/vnd.twitchtv.v3+json"

// Profile is the payload of GET /channels/{id}
type Profile struct {
	DisplayName string `json:"display_name"`
	Logo        string `json:"logo"`
	URL         string `json:"url"`
}

// StreamStatus is the payload of GET /streams/{id}. Stream is nil while the
// channel is offline.
type StreamStatus struct {
	Stream *Stream `json:"stream"`
}

type Stream struct {
	Channel StreamChannel `json:"channel"`
}

type StreamChannel struct {
	Status string `json:"status"`
}

// Live reports whether the payload describes a running stream
func (s *StreamStatus) Live() bool {
	return s != nil && s.Stream != nil
}

// StatusError is returned when the API answers with a non-success status.
// The API answers 422 for channels that do not exist.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("streaming API answered %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// Client is a small JSON client for the streaming API
type Client struct {
	baseURL  *url.URL
	clientID string
	http     *http.Client
}

// Option configures a Client
type Option func(c *Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithClientID sends a Client-ID header with every request
func WithClientID(id string) Option {
	return func(c *Client) {
		c.clientID = id
	}
}

// New creates a client for the API rooted at baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, oops.In("streaming-api").With("base_url", baseURL).Wrap(stdErrors.Join(errors.ErrInvalidBaseURL, err))
	}

	c := &Client{
		baseURL: u,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchChannel fetches the profile of a channel
func (c *Client) FetchChannel(ctx context.Context, channelID string) (*Profile, error) {
	var profile Profile
	if err := c.getJSON(ctx, "channels", channelID, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// FetchStream fetches the live stream of a channel
func (c *Client) FetchStream(ctx context.Context, channelID string) (*StreamStatus, error) {
	var status StreamStatus
	if err := c.getJSON(ctx, "streams", channelID, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) getJSON(ctx context.Context, resource, channelID string, payload any) error {
	u := c.baseURL.JoinPath(resource, channelID)
	errBuilder := oops.In("streaming-api").With("url", u.String(), "channel_id", channelID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return errBuilder.Wrap(stdErrors.Join(errors.ErrTransport, err))
	}
	req.Header.Set("Accept", acceptHeader)
	if c.clientID != "" {
		req.Header.Set("Client-ID", c.clientID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errBuilder.Wrap(stdErrors.Join(errors.ErrTransport, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errBuilder.Wrap(&StatusError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(b)),
		})
	}

	if err := json.NewDecoder(resp.Body).Decode(payload); err != nil {
		return errBuilder.With("context", "decoding response").Wrap(err)
	}
	return nil
}

// IsTransportError reports whether err means the request never got an
// answer from the API, as opposed to an answer with a failure status.
func IsTransportError(err error) bool {
	return stdErrors.Is(err, errors.ErrTransport)
}
