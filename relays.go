package draftweaver

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// DefaultRelayURLs seed a new relay list.
var DefaultRelayURLs = []string{
	"wss://jumble.social",
	"wss://relay.damus.io",
	"wss://nos.lol",
}

// Relay describes one relay endpoint and how it is used.
type Relay struct {
	URL   string `json:"url" yaml:"url"`
	Read  bool   `json:"read" yaml:"read"`
	Write bool   `json:"write" yaml:"write"`
}

// RelayList is an ordered set of relays keyed by normalized URL. It never
// becomes empty through Remove.
type RelayList struct {
	relays []Relay
}

// NewRelayList builds a list from relays, skipping invalid and duplicate
// URLs. The first occurrence of a URL wins.
func NewRelayList(relays ...Relay) *RelayList {
	l := &RelayList{}
	for _, r := range relays {
		u, err := NormalizeRelayURL(r.URL)
		if err != nil || l.index(u) >= 0 {
			continue
		}
		r.URL = u
		l.relays = append(l.relays, r)
	}
	return l
}

// DefaultRelayList returns the default relays, each enabled for read and
// write.
func DefaultRelayList() *RelayList {
	relays := make([]Relay, len(DefaultRelayURLs))
	for i, u := range DefaultRelayURLs {
		relays[i] = Relay{URL: u, Read: true, Write: true}
	}
	return NewRelayList(relays...)
}

// NormalizeRelayURL trims the URL, drops a trailing slash and checks that
// it is a ws:// or wss:// URL with a host.
func NormalizeRelayURL(raw string) (string, error) {
	s := strings.TrimRight(strings.TrimSpace(raw), "/")
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidRelayURL, raw, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return "", fmt.Errorf("%w: %q: scheme must be ws or wss", ErrInvalidRelayURL, raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: %q: missing host", ErrInvalidRelayURL, raw)
	}
	return s, nil
}

// Relays returns a copy of the relays in order.
func (l *RelayList) Relays() []Relay {
	return slices.Clone(l.relays)
}

// Len returns the number of relays.
func (l *RelayList) Len() int {
	return len(l.relays)
}

// Add appends a read and write enabled relay.
func (l *RelayList) Add(rawURL string) error {
	u, err := NormalizeRelayURL(rawURL)
	if err != nil {
		return err
	}
	if l.index(u) >= 0 {
		return fmt.Errorf("%w: %s", ErrRelayExists, u)
	}
	l.relays = append(l.relays, Relay{URL: u, Read: true, Write: true})
	return nil
}

// Remove deletes a relay and reports whether the list changed. Removing
// the last remaining relay is refused.
func (l *RelayList) Remove(rawURL string) bool {
	i := l.lookup(rawURL)
	if i < 0 || len(l.relays) <= 1 {
		return false
	}
	l.relays = slices.Delete(l.relays, i, i+1)
	return true
}

// ToggleRead flips the read flag of a relay.
func (l *RelayList) ToggleRead(rawURL string) error {
	i := l.lookup(rawURL)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRelayNotFound, rawURL)
	}
	l.relays[i].Read = !l.relays[i].Read
	return nil
}

// ToggleWrite flips the write flag of a relay.
func (l *RelayList) ToggleWrite(rawURL string) error {
	i := l.lookup(rawURL)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRelayNotFound, rawURL)
	}
	l.relays[i].Write = !l.relays[i].Write
	return nil
}

// WriteURLs returns the URLs of write-enabled relays in order.
func (l *RelayList) WriteURLs() []string {
	var urls []string
	for _, r := range l.relays {
		if r.Write {
			urls = append(urls, r.URL)
		}
	}
	return urls
}

// lookup finds a relay by a possibly unnormalized URL.
func (l *RelayList) lookup(rawURL string) int {
	u, err := NormalizeRelayURL(rawURL)
	if err != nil {
		return -1
	}
	return l.index(u)
}

func (l *RelayList) index(u string) int {
	return slices.IndexFunc(l.relays, func(r Relay) bool { return r.URL == u })
}
