package wordpress_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	draftweaver "github.com/alnah/go-draftweaver"
	"github.com/alnah/go-draftweaver/internal/wordpress"
)

const samplePost = `[{
  "id": 42,
  "link": "https://blog.example.com/2024/05/my-post/",
  "title": {"rendered": "My Post &#8211; Part&nbsp;1"},
  "content": {"rendered": "<h2>Intro</h2>\n<p>Hello <strong>World</strong> <img src=\"/img/a.png\" alt=\"A\"></p>\n"},
  "excerpt": {"rendered": "<p>A short &amp; sweet summary&#8230;</p>\n"},
  "tags": [12, "Nostr", 7, "OER"],
  "jetpack_featured_media_url": "https://blog.example.com/cover.png"
}]`

// ---------------------------------------------------------------------------
// TestResolveAPIURL - Post URL to REST endpoint
// ---------------------------------------------------------------------------

func TestResolveAPIURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{
			name:  "pretty permalink",
			input: "https://blog.example.com/2024/05/my-post/",
			want:  "https://blog.example.com/wp-json/wp/v2/posts?slug=my-post",
		},
		{
			name:  "no trailing slash",
			input: "https://blog.example.com/my-post",
			want:  "https://blog.example.com/wp-json/wp/v2/posts?slug=my-post",
		},
		{
			name:  "port kept and query dropped",
			input: "http://localhost:8080/hello-world/?utm_source=x",
			want:  "http://localhost:8080/wp-json/wp/v2/posts?slug=hello-world",
		},
		{
			name:  "slug is query escaped",
			input: "https://blog.example.com/caf%C3%A9-post/",
			want:  "https://blog.example.com/wp-json/wp/v2/posts?slug=caf%C3%A9-post",
		},
		{
			name:  "direct api url passes through",
			input: "https://blog.example.com/wp-json/wp/v2/posts/42",
			want:  "https://blog.example.com/wp-json/wp/v2/posts/42",
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  https://blog.example.com/p/  ",
			want:  "https://blog.example.com/wp-json/wp/v2/posts?slug=p",
		},
		{
			name:    "root url has no slug",
			input:   "https://blog.example.com/",
			wantErr: wordpress.ErrNoSlug,
		},
		{
			name:    "not absolute",
			input:   "blog.example.com/my-post",
			wantErr: wordpress.ErrInvalidURL,
		},
		{
			name:    "unsupported scheme",
			input:   "ftp://blog.example.com/my-post",
			wantErr: wordpress.ErrInvalidURL,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: wordpress.ErrInvalidURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := wordpress.ResolveAPIURL(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ResolveAPIURL(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveAPIURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestImport - Fetch and map to a document
// ---------------------------------------------------------------------------

// newServer serves body for /wp-json/ requests and counts hits.
func newServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q, want application/json", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestImport(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t, http.StatusOK, samplePost)
	c := wordpress.New(wordpress.WithHTTPClient(srv.Client()))

	doc, err := c.Import(context.Background(), srv.URL+"/2024/05/my-post/")
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	want := draftweaver.Document{
		Title:        "My Post – Part\u00a01",
		Identifier:   "my-post-part-1",
		Summary:      "A short & sweet summary…",
		Body:         "## Intro\n\nHello **World** ![A](https://blog.example.com/img/a.png)",
		OriginalBody: "<h2>Intro</h2>\n<p>Hello <strong>World</strong> <img src=\"/img/a.png\" alt=\"A\"></p>\n",
		Image:        "https://blog.example.com/cover.png",
		CanonicalURL: "https://blog.example.com/2024/05/my-post/",
		Labels:       []string{"Nostr", "OER"},
	}
	if !reflect.DeepEqual(doc, want) {
		t.Errorf("Import() =\n  %+v\nwant\n  %+v", doc, want)
	}
}

func TestImport_SingleObjectWithoutLink(t *testing.T) {
	t.Parallel()

	body := `{"title":{"rendered":""},"content":{"rendered":"<p>x</p>"},"excerpt":{"rendered":""},"tags":[],"jetpack_featured_media_url":false}`
	srv, _ := newServer(t, http.StatusOK, body)
	c := wordpress.New(wordpress.WithHTTPClient(srv.Client()))

	postURL := srv.URL + "/wp-json/wp/v2/posts/7"
	doc, err := c.Import(context.Background(), postURL)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if doc.CanonicalURL != postURL {
		t.Errorf("CanonicalURL = %q, want %q", doc.CanonicalURL, postURL)
	}
	if doc.Image != "" {
		t.Errorf("Image = %q, want empty for non-string media url", doc.Image)
	}
	if doc.Identifier != draftweaver.SanitizeIdentifier(postURL) {
		t.Errorf("Identifier = %q, want derived from URL", doc.Identifier)
	}
	if doc.Labels != nil {
		t.Errorf("Labels = %v, want nil", doc.Labels)
	}
}

func TestImport_SummaryTruncated(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("é", 300)
	body := `{"title":{"rendered":"T"},"excerpt":{"rendered":"<p>` + long + `</p>"}}`
	srv, _ := newServer(t, http.StatusOK, body)
	c := wordpress.New(wordpress.WithHTTPClient(srv.Client()))

	doc, err := c.Import(context.Background(), srv.URL+"/t/")
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if n := utf8.RuneCountInString(doc.Summary); n != draftweaver.MaxSummaryLength {
		t.Errorf("summary length = %d runes, want %d", n, draftweaver.MaxSummaryLength)
	}
}

func TestImport_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "not found status", status: http.StatusNotFound, body: `{"code":"rest_no_route"}`, wantErr: wordpress.ErrUnexpectedStatus},
		{name: "server error", status: http.StatusInternalServerError, body: ``, wantErr: wordpress.ErrUnexpectedStatus},
		{name: "empty array", status: http.StatusOK, body: `[]`, wantErr: wordpress.ErrPostNotFound},
		{name: "null", status: http.StatusOK, body: `null`, wantErr: wordpress.ErrPostNotFound},
		{name: "html page", status: http.StatusOK, body: `<!doctype html><title>Blog</title>`, wantErr: wordpress.ErrDecode},
		{name: "malformed json", status: http.StatusOK, body: `[{"title":`, wantErr: wordpress.ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, _ := newServer(t, tt.status, tt.body)
			c := wordpress.New(wordpress.WithHTTPClient(srv.Client()))

			_, err := c.Import(context.Background(), srv.URL+"/post/")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Import() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestImport_NoSlug(t *testing.T) {
	t.Parallel()

	srv, hits := newServer(t, http.StatusOK, samplePost)
	c := wordpress.New(wordpress.WithHTTPClient(srv.Client()))

	_, err := c.Import(context.Background(), srv.URL+"/")
	if !errors.Is(err, wordpress.ErrNoSlug) {
		t.Errorf("Import() error = %v, want ErrNoSlug", err)
	}
	if hits.Load() != 0 {
		t.Errorf("server hit %d times, want 0", hits.Load())
	}
}

func TestImport_ContextCanceled(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t, http.StatusOK, samplePost)
	c := wordpress.New(wordpress.WithHTTPClient(srv.Client()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Import(ctx, srv.URL+"/my-post/")
	if !errors.Is(err, wordpress.ErrRequest) || !errors.Is(err, context.Canceled) {
		t.Errorf("Import() error = %v, want ErrRequest wrapping context.Canceled", err)
	}
}

// ---------------------------------------------------------------------------
// TestFetchPost_Cache - Response caching
// ---------------------------------------------------------------------------

func TestFetchPost_Cache(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		ttl      time.Duration
		wantHits int32
	}{
		{name: "cached", ttl: time.Minute, wantHits: 1},
		{name: "cache disabled", ttl: 0, wantHits: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, hits := newServer(t, http.StatusOK, samplePost)
			c := wordpress.New(wordpress.WithHTTPClient(srv.Client()), wordpress.WithCacheTTL(tt.ttl))

			for range 2 {
				if _, err := c.FetchPost(context.Background(), srv.URL+"/my-post/"); err != nil {
					t.Fatalf("FetchPost() error = %v", err)
				}
			}
			if got := hits.Load(); got != tt.wantHits {
				t.Errorf("server hits = %d, want %d", got, tt.wantHits)
			}
		})
	}
}

func TestFetchPost_ErrorsNotCached(t *testing.T) {
	t.Parallel()

	srv, hits := newServer(t, http.StatusBadGateway, ``)
	c := wordpress.New(wordpress.WithHTTPClient(srv.Client()))

	for range 2 {
		_, _ = c.FetchPost(context.Background(), srv.URL+"/my-post/")
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("server hits = %d, want 2", got)
	}
}

func TestFetchPost_UserAgent(t *testing.T) {
	t.Parallel()

	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(samplePost))
	}))
	t.Cleanup(srv.Close)

	c := wordpress.New(wordpress.WithHTTPClient(srv.Client()), wordpress.WithUserAgent("draftweaver-test/1.0"))
	if _, err := c.FetchPost(context.Background(), srv.URL+"/my-post/"); err != nil {
		t.Fatalf("FetchPost() error = %v", err)
	}
	if ua := <-got; ua != "draftweaver-test/1.0" {
		t.Errorf("User-Agent = %q, want %q", ua, "draftweaver-test/1.0")
	}
}

// ---------------------------------------------------------------------------
// TestExtractText - Excerpt text extraction
// ---------------------------------------------------------------------------

func TestExtractText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"plain", "plain"},
		{"<p>Hello <b>World</b></p>\n", "Hello World"},
		{"<p>Fish &amp; Chips&#8230;</p>", "Fish & Chips…"},
		{"<p>a</p><p>b</p>", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := wordpress.ExtractText(tt.input); got != tt.want {
				t.Errorf("ExtractText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
