package draftweaver

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alnah/go-draftweaver/internal/nostr"
	"github.com/alnah/go-draftweaver/internal/relay"
)

// DefaultPublishTimeout bounds one publish across all relays.
const DefaultPublishTimeout = 8 * time.Second

// publishFailedMessage is shown when no relay accepted the event.
const publishFailedMessage = "could not publish to any configured relays: " +
	"check that wss://jumble.social (or your selected relays) are reachable and write-enabled"

// Signer signs events for an identity.
type Signer interface {
	Identity
	// SignEvent sets PubKey, ID and Sig on ev. CreatedAt is already set.
	SignEvent(ev *Event) error
}

// Transport delivers a signed event to one relay and returns nil once the
// relay accepted it.
type Transport interface {
	Send(ctx context.Context, url string, ev *Event) error
}

// Compile-time interface implementation checks.
var (
	_ Signer    = (*nostr.Keypair)(nil)
	_ Transport = (*relay.Client)(nil)
)

// RelayOutcome is the result of sending to one relay.
type RelayOutcome struct {
	URL      string
	Err      error
	Duration time.Duration
}

// Accepted reports whether the relay accepted the event.
func (o RelayOutcome) Accepted() bool {
	return o.Err == nil
}

// PublishResult holds the signed event and what each relay answered.
type PublishResult struct {
	Event    Event
	Outcomes []RelayOutcome
}

// AcceptedBy returns the URLs of relays that accepted the event.
func (r *PublishResult) AcceptedBy() []string {
	var urls []string
	for _, o := range r.Outcomes {
		if o.Accepted() {
			urls = append(urls, o.URL)
		}
	}
	return urls
}

// PublishError reports that no relay accepted the event. Its message is
// fixed; the per-relay errors are kept in Outcomes.
type PublishError struct {
	Outcomes []RelayOutcome
}

func (e *PublishError) Error() string {
	return publishFailedMessage
}

// Is matches ErrPublishFailed.
func (e *PublishError) Is(target error) bool {
	return target == ErrPublishFailed
}

// Publisher signs events and sends them to write-enabled relays.
type Publisher struct {
	transport Transport
	timeout   time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithTimeout sets the overall publish timeout. Non-positive values keep
// the default.
func WithTimeout(d time.Duration) PublisherOption {
	return func(p *Publisher) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithLogger sets the logger for per-relay outcomes.
func WithLogger(l *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithTransport replaces the WebSocket relay transport.
func WithTransport(t Transport) PublisherOption {
	return func(p *Publisher) {
		p.transport = t
	}
}

// WithClock sets the time source for created_at.
func WithClock(now func() time.Time) PublisherOption {
	return func(p *Publisher) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPublisher creates a publisher with the given options.
func NewPublisher(opts ...PublisherOption) *Publisher {
	p := &Publisher{
		timeout: DefaultPublishTimeout,
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.transport == nil {
		p.transport = relay.New(relay.WithLogger(p.logger))
	}
	return p
}

// Publish signs ev and sends it to every write-enabled relay concurrently.
// It succeeds when at least one relay accepted the event. When none did, it
// returns the result together with a *PublishError. A client tag is added
// if missing and created_at is set when zero.
func (p *Publisher) Publish(ctx context.Context, ev Event, signer Signer, relays *RelayList) (*PublishResult, error) {
	if signer == nil {
		return nil, ErrNoSigner
	}

	var urls []string
	if relays != nil {
		urls = relays.WriteURLs()
	}
	if len(urls) == 0 {
		return nil, ErrNoWriteRelays
	}

	ev.Tags = withClientTag(ev.Tags)
	if ev.CreatedAt == 0 {
		ev.CreatedAt = p.now().Unix()
	}
	if err := signer.SignEvent(&ev); err != nil {
		return nil, fmt.Errorf("signing event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	result := &PublishResult{
		Event:    ev,
		Outcomes: p.fanOut(ctx, &ev, urls),
	}

	if len(result.AcceptedBy()) == 0 {
		return result, &PublishError{Outcomes: result.Outcomes}
	}
	return result, nil
}

// fanOut sends to every URL in parallel and waits for all of them.
func (p *Publisher) fanOut(ctx context.Context, ev *Event, urls []string) []RelayOutcome {
	outcomes := make([]RelayOutcome, len(urls))
	var wg sync.WaitGroup

	for i, u := range urls {
		wg.Add(1)
		go func() {
			defer wg.Done()

			start := time.Now()
			err := p.transport.Send(ctx, u, ev)
			outcomes[i] = RelayOutcome{URL: u, Err: err, Duration: time.Since(start)}

			if err != nil {
				p.logger.Warn("relay did not accept event",
					slog.String("relay", u),
					slog.Any("error", err))
				return
			}
			p.logger.Info("relay accepted event",
				slog.String("relay", u),
				slog.String("id", ev.ID),
				slog.Duration("duration", outcomes[i].Duration))
		}()
	}

	wg.Wait()
	return outcomes
}
