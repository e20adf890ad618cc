package draftweaver

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-draftweaver/internal/nostr"
)

// fakeTransport answers per URL with a fixed error, or blocks until the
// context ends when the URL is listed in hang.
type fakeTransport struct {
	mu     sync.Mutex
	errs   map[string]error
	hang   map[string]bool
	sent   []string
	events []Event
}

func (f *fakeTransport) Send(ctx context.Context, url string, ev *Event) error {
	f.mu.Lock()
	f.sent = append(f.sent, url)
	f.events = append(f.events, *ev)
	hang := f.hang[url]
	err := f.errs[url]
	f.mu.Unlock()

	if hang {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

// failingSigner refuses to sign.
type failingSigner struct{ stubIdentity }

func (failingSigner) SignEvent(*Event) error { return errors.New("hardware key unplugged") }

func testKeys(t *testing.T) *nostr.Keypair {
	t.Helper()
	k, err := nostr.KeypairFromHex("67dea2ed018072d675f5415ecfaed7d2597555e202d85b3d65ea4e58d2d92ffa")
	if err != nil {
		t.Fatalf("KeypairFromHex() error = %v", err)
	}
	return k
}

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

// ---------------------------------------------------------------------------
// TestPublish - Signing and relay fan-out
// ---------------------------------------------------------------------------

func TestPublish_Success(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{}
	relays := NewRelayList(
		Relay{URL: "wss://a.example", Read: true, Write: true},
		Relay{URL: "wss://b.example", Read: true, Write: false},
		Relay{URL: "wss://c.example", Read: false, Write: true},
	)
	keys := testKeys(t)

	p := NewPublisher(WithTransport(transport), WithClock(fixedClock))
	ev := Event{Kind: KindLongForm, Content: "Hello", Tags: []Tag{{"d", "my-post"}}}

	result, err := p.Publish(context.Background(), ev, keys, relays)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	slices.Sort(transport.sent)
	if want := []string{"wss://a.example", "wss://c.example"}; !slices.Equal(transport.sent, want) {
		t.Errorf("sent to %v, want %v", transport.sent, want)
	}
	if got := result.AcceptedBy(); len(got) != 2 {
		t.Errorf("AcceptedBy() = %v, want 2 relays", got)
	}

	signed := result.Event
	if signed.CreatedAt != fixedClock().Unix() {
		t.Errorf("CreatedAt = %d, want %d", signed.CreatedAt, fixedClock().Unix())
	}
	if signed.PubKey != keys.PublicKeyHex() {
		t.Errorf("PubKey = %s, want %s", signed.PubKey, keys.PublicKeyHex())
	}
	if err := signed.Verify(); err != nil {
		t.Errorf("signed event does not verify: %v", err)
	}
	if !signed.HasTag("client") {
		t.Error("signed event has no client tag")
	}
	for _, sent := range transport.events {
		if sent.ID != signed.ID {
			t.Errorf("relay received id %s, want %s", sent.ID, signed.ID)
		}
	}

	// The caller's event is untouched.
	if len(ev.Tags) != 1 || ev.ID != "" {
		t.Errorf("input event modified: %+v", ev)
	}
}

func TestPublish_KeepsExistingCreatedAt(t *testing.T) {
	t.Parallel()

	p := NewPublisher(WithTransport(&fakeTransport{}), WithClock(fixedClock))
	ev := Event{Kind: KindLongForm, CreatedAt: 1600000000}

	result, err := p.Publish(context.Background(), ev, testKeys(t), DefaultRelayList())
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if result.Event.CreatedAt != 1600000000 {
		t.Errorf("CreatedAt = %d, want 1600000000", result.Event.CreatedAt)
	}
}

func TestPublish_PartialFailureSucceeds(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{
		errs: map[string]error{"wss://a.example": errors.New("connection refused")},
	}
	relays := NewRelayList(
		Relay{URL: "wss://a.example", Write: true},
		Relay{URL: "wss://b.example", Write: true},
	)

	result, err := NewPublisher(WithTransport(transport)).
		Publish(context.Background(), Event{Kind: KindLongForm}, testKeys(t), relays)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if got := result.AcceptedBy(); !slices.Equal(got, []string{"wss://b.example"}) {
		t.Errorf("AcceptedBy() = %v, want [wss://b.example]", got)
	}
}

func TestPublish_AllFail(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{
		errs: map[string]error{
			"wss://a.example": errors.New("connection refused"),
			"wss://b.example": errors.New("blocked"),
		},
	}
	relays := NewRelayList(
		Relay{URL: "wss://a.example", Write: true},
		Relay{URL: "wss://b.example", Write: true},
	)

	result, err := NewPublisher(WithTransport(transport)).
		Publish(context.Background(), Event{Kind: KindLongForm}, testKeys(t), relays)

	if !errors.Is(err, ErrPublishFailed) {
		t.Fatalf("Publish() error = %v, want ErrPublishFailed", err)
	}

	var pubErr *PublishError
	if !errors.As(err, &pubErr) {
		t.Fatalf("error type = %T, want *PublishError", err)
	}
	if len(pubErr.Outcomes) != 2 {
		t.Errorf("Outcomes = %d, want 2", len(pubErr.Outcomes))
	}
	if strings.Contains(err.Error(), "connection refused") {
		t.Errorf("error message leaks relay error: %q", err)
	}
	if !strings.Contains(err.Error(), "wss://jumble.social") {
		t.Errorf("error message = %q, want hint about relays", err)
	}
	if result == nil || result.Event.ID == "" {
		t.Error("result with signed event should be returned on failure")
	}
}

func TestPublish_Timeout(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{
		hang: map[string]bool{"wss://slow.example": true},
	}
	relays := NewRelayList(Relay{URL: "wss://slow.example", Write: true})

	start := time.Now()
	_, err := NewPublisher(WithTransport(transport), WithTimeout(50*time.Millisecond)).
		Publish(context.Background(), Event{Kind: KindLongForm}, testKeys(t), relays)

	if !errors.Is(err, ErrPublishFailed) {
		t.Errorf("Publish() error = %v, want ErrPublishFailed", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Publish() took %v, want bounded by timeout", elapsed)
	}
}

func TestPublish_Preconditions(t *testing.T) {
	t.Parallel()

	readOnly := NewRelayList(Relay{URL: "wss://a.example", Read: true})

	tests := []struct {
		name    string
		signer  Signer
		relays  *RelayList
		wantErr error
	}{
		{name: "no signer", signer: nil, relays: DefaultRelayList(), wantErr: ErrNoSigner},
		{name: "nil relay list", signer: testKeys(t), relays: nil, wantErr: ErrNoWriteRelays},
		{name: "no write relays", signer: testKeys(t), relays: readOnly, wantErr: ErrNoWriteRelays},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			transport := &fakeTransport{}
			_, err := NewPublisher(WithTransport(transport)).
				Publish(context.Background(), Event{Kind: KindLongForm}, tt.signer, tt.relays)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
			if len(transport.sent) != 0 {
				t.Errorf("sent to %v, want nothing", transport.sent)
			}
		})
	}
}

func TestPublish_SignerError(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{}
	_, err := NewPublisher(WithTransport(transport)).
		Publish(context.Background(), Event{Kind: KindLongForm}, failingSigner{}, DefaultRelayList())

	if err == nil || !strings.Contains(err.Error(), "hardware key unplugged") {
		t.Errorf("Publish() error = %v, want signer error", err)
	}
	if len(transport.sent) != 0 {
		t.Errorf("sent to %v, want nothing", transport.sent)
	}
}

func TestPublish_LogsOutcomes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	transport := &fakeTransport{
		errs: map[string]error{"wss://b.example": errors.New("blocked")},
	}
	relays := NewRelayList(
		Relay{URL: "wss://a.example", Write: true},
		Relay{URL: "wss://b.example", Write: true},
	)

	_, err := NewPublisher(WithTransport(transport), WithLogger(logger)).
		Publish(context.Background(), Event{Kind: KindLongForm}, testKeys(t), relays)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "relay=wss://a.example") || !strings.Contains(out, "relay accepted event") {
		t.Errorf("log missing acceptance for a.example:\n%s", out)
	}
	if !strings.Contains(out, "relay=wss://b.example") || !strings.Contains(out, "error=blocked") {
		t.Errorf("log missing failure for b.example:\n%s", out)
	}
}
