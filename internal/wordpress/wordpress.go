// Package wordpress imports posts from the WordPress REST API.
package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/patrickmn/go-cache"
	"golang.org/x/net/html"

	draftweaver "github.com/alnah/go-draftweaver"
)

// Sentinel errors for import operations.
var (
	ErrInvalidURL       = errors.New("invalid post URL")
	ErrNoSlug           = errors.New("could not infer post slug from URL, paste a direct post URL")
	ErrRequest          = errors.New("WordPress request failed")
	ErrUnexpectedStatus = errors.New("WordPress API responded with unexpected status")
	ErrDecode           = errors.New("failed to decode WordPress response")
	ErrPostNotFound     = errors.New("no post found for that URL")
)

// Client defaults.
const (
	DefaultCacheTTL  = 5 * time.Minute
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "draftweaver"

	// maxResponseSize bounds the decoded API response.
	maxResponseSize = 16 << 20
)

// Post holds the raw fields of a WordPress post.
type Post struct {
	Title         string // title.rendered, HTML
	Content       string // content.rendered, HTML
	Excerpt       string // excerpt.rendered, HTML
	Link          string
	Tags          []string // string entries of tags; numeric term ids are skipped
	FeaturedImage string   // jetpack_featured_media_url
}

// Client fetches posts and caches responses per API URL.
type Client struct {
	http      *http.Client
	cache     *cache.Cache
	userAgent string
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	cacheTTL   time.Duration
	userAgent  string
	logger     *slog.Logger
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithCacheTTL sets how long responses are cached. Zero or negative
// disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *clientOptions) {
		o.cacheTTL = ttl
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *clientOptions) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *clientOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates a WordPress client.
func New(opts ...Option) *Client {
	o := clientOptions{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		cacheTTL:   DefaultCacheTTL,
		userAgent:  DefaultUserAgent,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Client{
		http:      o.httpClient,
		userAgent: o.userAgent,
		logger:    o.logger,
	}
	if o.cacheTTL > 0 {
		c.cache = cache.New(o.cacheTTL, 2*o.cacheTTL)
	}
	return c
}

// ResolveAPIURL maps a post URL to its REST endpoint. URLs already under
// wp-json/ are used as is; otherwise the last path segment is the slug.
func ResolveAPIURL(postURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(postURL))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, postURL)
	}

	if strings.Contains(u.Path, "wp-json/") {
		return u.String(), nil
	}

	slug := lastSegment(u.Path)
	if slug == "" {
		return "", ErrNoSlug
	}

	return u.Scheme + "://" + u.Host + "/wp-json/wp/v2/posts?slug=" + url.QueryEscape(slug), nil
}

// lastSegment returns the last non-empty path segment.
func lastSegment(p string) string {
	segments := strings.Split(strings.Trim(p, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return ""
}

// FetchPost retrieves the post behind postURL.
func (c *Client) FetchPost(ctx context.Context, postURL string) (*Post, error) {
	apiURL, err := ResolveAPIURL(postURL)
	if err != nil {
		return nil, err
	}

	logger := c.logger.With(slog.String("api_url", apiURL))

	if c.cache != nil {
		if x, found := c.cache.Get(apiURL); found {
			logger.Debug("post served from cache")
			return x.(*Post), nil
		}
	}

	body, err := c.get(ctx, apiURL)
	if err != nil {
		return nil, err
	}

	post, err := decodePost(body)
	if err != nil {
		return nil, err
	}
	logger.Debug("post fetched", slog.String("link", post.Link))

	if c.cache != nil {
		c.cache.Set(apiURL, post, cache.DefaultExpiration)
	}
	return post, nil
}

// Import fetches a post and maps it to a document. The body is converted
// to Markdown with links resolved against the canonical URL, which is the
// post link or, failing that, postURL.
func (c *Client) Import(ctx context.Context, postURL string) (draftweaver.Document, error) {
	post, err := c.FetchPost(ctx, postURL)
	if err != nil {
		return draftweaver.Document{}, err
	}
	return post.Document(strings.TrimSpace(postURL)), nil
}

// Document maps the post to a document. fallbackURL is the canonical URL
// when the post has no link.
func (p *Post) Document(fallbackURL string) draftweaver.Document {
	canonical := p.Link
	if canonical == "" {
		canonical = fallbackURL
	}

	title := html.UnescapeString(p.Title)
	return draftweaver.Document{
		Title:        title,
		Identifier:   draftweaver.DeriveIdentifier(title, canonical),
		Summary:      truncateRunes(ExtractText(p.Excerpt), draftweaver.MaxSummaryLength),
		Body:         draftweaver.HTMLToMarkdown(p.Content, canonical),
		OriginalBody: p.Content,
		Image:        p.FeaturedImage,
		CanonicalURL: canonical,
		Labels:       slices.Clone(p.Tags),
	}
}

func (c *Client) get(ctx context.Context, apiURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	return body, nil
}

type rendered struct {
	Rendered string `json:"rendered"`
}

type apiPost struct {
	Title         rendered `json:"title"`
	Content       rendered `json:"content"`
	Excerpt       rendered `json:"excerpt"`
	Link          any      `json:"link"`
	Tags          []any    `json:"tags"`
	FeaturedImage any      `json:"jetpack_featured_media_url"`
}

// decodePost accepts a single post object or an array of posts, in which
// case the first one is used.
func decodePost(body []byte) (*Post, error) {
	body = bytes.TrimSpace(body)

	var raw apiPost
	switch {
	case bytes.HasPrefix(body, []byte("[")):
		var posts []apiPost
		if err := json.Unmarshal(body, &posts); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		if len(posts) == 0 {
			return nil, ErrPostNotFound
		}
		raw = posts[0]
	case bytes.HasPrefix(body, []byte("{")):
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
	case bytes.Equal(body, []byte("null")):
		return nil, ErrPostNotFound
	default:
		return nil, fmt.Errorf("%w: response is not a JSON object or array", ErrDecode)
	}

	post := &Post{
		Title:   raw.Title.Rendered,
		Content: raw.Content.Rendered,
		Excerpt: raw.Excerpt.Rendered,
	}
	if link, ok := raw.Link.(string); ok {
		post.Link = link
	}
	if img, ok := raw.FeaturedImage.(string); ok {
		post.FeaturedImage = img
	}
	for _, t := range raw.Tags {
		if s, ok := t.(string); ok {
			post.Tags = append(post.Tags, s)
		}
	}
	return post, nil
}

// ExtractText returns the text content of an HTML fragment with entities
// decoded and surrounding whitespace trimmed.
func ExtractText(fragment string) string {
	if fragment == "" {
		return ""
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
