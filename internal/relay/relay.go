// Package relay sends signed events to Nostr relays over WebSocket (NIP-01).
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alnah/go-draftweaver/internal/nostr"
)

// Sentinel errors for relay operations.
var (
	ErrDial     = errors.New("failed to connect to relay")
	ErrSend     = errors.New("failed to send event")
	ErrReceive  = errors.New("failed to read relay response")
	ErrRejected = errors.New("relay rejected event")
)

// defaultHandshakeTimeout bounds the WebSocket opening handshake.
const defaultHandshakeTimeout = 5 * time.Second

// RejectedError carries the relay's reason for refusing an event.
type RejectedError struct {
	URL     string
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", ErrRejected, e.URL)
	}
	return fmt.Sprintf("%s: %s: %s", ErrRejected, e.URL, e.Message)
}

// Is matches ErrRejected.
func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}

// Client publishes events to relays. The zero value is not usable; use New.
type Client struct {
	dialer    *websocket.Dialer
	header    http.Header
	logger    *slog.Logger
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger for relay notices and outcomes.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithUserAgent sets the User-Agent sent in the handshake.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a relay client.
func New(opts ...Option) *Client {
	c := &Client{
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: defaultHandshakeTimeout,
		},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.header = http.Header{}
	if c.userAgent != "" {
		c.header.Set("User-Agent", c.userAgent)
	}
	return c
}

// Send delivers ev to the relay at url and waits for the matching OK
// message. It returns nil when the relay accepted the event and a
// *RejectedError when it refused it. NOTICE messages are logged and
// ignored. The wait ends when ctx is done.
func (c *Client) Send(ctx context.Context, url string, ev *nostr.Event) error {
	logger := c.logger.With(slog.String("relay", url))

	conn, _, err := c.dialer.DialContext(ctx, url, c.header)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDial, url, contextErr(ctx, err))
	}
	defer conn.Close()

	// Unblock pending reads and writes once ctx is done.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
		_ = conn.SetWriteDeadline(time.Now())
	})
	defer stop()

	if err := conn.WriteJSON([]any{"EVENT", ev}); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSend, url, contextErr(ctx, err))
	}
	logger.Debug("event sent", slog.String("id", ev.ID))

	for {
		var frame []json.RawMessage
		if err := conn.ReadJSON(&frame); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrReceive, url, contextErr(ctx, err))
		}

		label, ok := frameLabel(frame)
		if !ok {
			continue
		}

		switch label {
		case "OK":
			res, err := parseOK(frame)
			if err != nil {
				logger.Debug("malformed OK message", slog.Any("error", err))
				continue
			}
			if res.id != ev.ID {
				continue
			}
			if !res.accepted {
				return &RejectedError{URL: url, Message: res.message}
			}
			logger.Debug("event accepted", slog.String("message", res.message))
			return nil
		case "NOTICE":
			var notice string
			if len(frame) > 1 {
				_ = json.Unmarshal(frame[1], &notice)
			}
			logger.Info("relay notice", slog.String("notice", notice))
		}
	}
}

type okResult struct {
	id       string
	accepted bool
	message  string
}

// frameLabel returns the message type of a relay frame.
func frameLabel(frame []json.RawMessage) (string, bool) {
	if len(frame) == 0 {
		return "", false
	}
	var label string
	if err := json.Unmarshal(frame[0], &label); err != nil {
		return "", false
	}
	return label, true
}

// parseOK decodes ["OK", <id>, <accepted>, <message>]. The message is
// optional for lenient relays.
func parseOK(frame []json.RawMessage) (okResult, error) {
	var res okResult
	if len(frame) < 3 {
		return res, fmt.Errorf("OK message has %d elements", len(frame))
	}
	if err := json.Unmarshal(frame[1], &res.id); err != nil {
		return res, fmt.Errorf("OK id: %w", err)
	}
	if err := json.Unmarshal(frame[2], &res.accepted); err != nil {
		return res, fmt.Errorf("OK status: %w", err)
	}
	if len(frame) > 3 {
		_ = json.Unmarshal(frame[3], &res.message)
	}
	return res, nil
}

// contextErr prefers the context error over the I/O error it caused.
func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
