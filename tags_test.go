package draftweaver

import (
	"errors"
	"reflect"
	"testing"
)

// stubIdentity is an Identity with a fixed npub or encoding error.
type stubIdentity struct {
	npub string
	err  error
}

func (s stubIdentity) PublicKeyHex() string { return "00" }

func (s stubIdentity) EncodePublic() (string, error) { return s.npub, s.err }

// ---------------------------------------------------------------------------
// TestBuildTags - Document to NIP-23 tags
// ---------------------------------------------------------------------------

func TestBuildTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  Document
		id   Identity
		want []Tag
	}{
		{
			name: "title and labels without identity",
			doc: Document{
				Title:      "My Post",
				Identifier: "my-post",
				Body:       "Hello",
				Labels:     []string{"Nostr", "OER"},
			},
			want: []Tag{
				{"d", "my-post"},
				{"title", "My Post"},
				{"t", "nostr"},
				{"t", "oer"},
				{"alt", "NIP-23 long-form article mapped from WordPress (markdown content)"},
				{"client", "draftweaver"},
			},
		},
		{
			name: "all fields with identity",
			doc: Document{
				Title:        "Full",
				Identifier:   "full",
				Summary:      "Short summary",
				Image:        "https://x.com/cover.png",
				CanonicalURL: "https://x.com/full/",
				Labels:       []string{"Go"},
			},
			id: stubIdentity{npub: "npub1abc"},
			want: []Tag{
				{"d", "full"},
				{"title", "Full"},
				{"summary", "Short summary"},
				{"image", "https://x.com/cover.png"},
				{"r", "https://x.com/full/"},
				{"t", "go"},
				{"alt", AltText},
				{"client", ClientName},
				{"author", "npub1abc"},
			},
		},
		{
			name: "empty identifier still emits d",
			doc:  Document{},
			want: []Tag{
				{"d", ""},
				{"alt", AltText},
				{"client", ClientName},
			},
		},
		{
			name: "labels trimmed lowercased and blank ones skipped",
			doc: Document{
				Identifier: "x",
				Labels:     []string{"  Go  ", "", "   ", "NOSTR"},
			},
			want: []Tag{
				{"d", "x"},
				{"t", "go"},
				{"t", "nostr"},
				{"alt", AltText},
				{"client", ClientName},
			},
		},
		{
			name: "duplicate labels are not deduplicated",
			doc: Document{
				Identifier: "x",
				Labels:     []string{"Go", "go"},
			},
			want: []Tag{
				{"d", "x"},
				{"t", "go"},
				{"t", "go"},
				{"alt", AltText},
				{"client", ClientName},
			},
		},
		{
			name: "encoding failure omits author",
			doc:  Document{Identifier: "x"},
			id:   stubIdentity{err: errors.New("bad key")},
			want: []Tag{
				{"d", "x"},
				{"alt", AltText},
				{"client", ClientName},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := BuildTags(tt.doc, tt.id)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildTags() =\n  %v\nwant\n  %v", got, tt.want)
			}
		})
	}
}

func TestBuildTags_Order(t *testing.T) {
	t.Parallel()

	doc := Document{
		Title:        "T",
		Identifier:   "t",
		Summary:      "S",
		Image:        "https://x.com/i.png",
		CanonicalURL: "https://x.com/t",
		Labels:       []string{"a", "b", "c"},
	}

	tags := BuildTags(doc, stubIdentity{npub: "npub1xyz"})

	if tags[0].Name() != "d" {
		t.Errorf("first tag = %q, want d", tags[0].Name())
	}
	if last := tags[len(tags)-1]; last.Name() != "author" {
		t.Errorf("last tag = %q, want author", last.Name())
	}
	for _, tag := range tags[:len(tags)-1] {
		if tag.Name() == "author" {
			t.Error("author tag appears before the end")
		}
	}
}

func TestBuildTags_DoesNotModifyLabels(t *testing.T) {
	t.Parallel()

	labels := []string{"  Mixed Case  "}
	BuildTags(Document{Labels: labels}, nil)

	if labels[0] != "  Mixed Case  " {
		t.Errorf("labels modified: %q", labels[0])
	}
}

// ---------------------------------------------------------------------------
// TestNewEvent - Unsigned event construction
// ---------------------------------------------------------------------------

func TestNewEvent(t *testing.T) {
	t.Parallel()

	doc := Document{Title: "My Post", Identifier: "my-post", Body: "Hello"}
	ev := NewEvent(doc, nil)

	if ev.Kind != 30023 {
		t.Errorf("Kind = %d, want 30023", ev.Kind)
	}
	if ev.Content != "Hello" {
		t.Errorf("Content = %q, want %q", ev.Content, "Hello")
	}
	if ev.ID != "" || ev.Sig != "" || ev.PubKey != "" || ev.CreatedAt != 0 {
		t.Errorf("unsigned event has signing fields set: %+v", ev)
	}
	if !reflect.DeepEqual(ev.Tags, BuildTags(doc, nil)) {
		t.Errorf("Tags = %v, want BuildTags output", ev.Tags)
	}
}

func TestPreviewJSON(t *testing.T) {
	t.Parallel()

	ev := NewEvent(Document{Identifier: "x", Body: "a <b> & c"}, nil)

	got, err := PreviewJSON(ev)
	if err != nil {
		t.Fatalf("PreviewJSON() error = %v", err)
	}

	want := `{
  "kind": 30023,
  "content": "a <b> & c",
  "tags": [
    [
      "d",
      "x"
    ],
    [
      "alt",
      "NIP-23 long-form article mapped from WordPress (markdown content)"
    ],
    [
      "client",
      "draftweaver"
    ]
  ]
}`
	if string(got) != want {
		t.Errorf("PreviewJSON() =\n%s\nwant\n%s", got, want)
	}
}

func TestPreviewJSON_NilTags(t *testing.T) {
	t.Parallel()

	got, err := PreviewJSON(Event{Kind: KindLongForm})
	if err != nil {
		t.Fatalf("PreviewJSON() error = %v", err)
	}
	want := "{\n  \"kind\": 30023,\n  \"content\": \"\",\n  \"tags\": []\n}"
	if string(got) != want {
		t.Errorf("PreviewJSON() = %s, want %s", got, want)
	}
}

func TestWithClientTag(t *testing.T) {
	t.Parallel()

	t.Run("appends when missing", func(t *testing.T) {
		t.Parallel()
		in := []Tag{{"d", "x"}}
		got := withClientTag(in)
		want := []Tag{{"d", "x"}, {"client", "draftweaver"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("withClientTag() = %v, want %v", got, want)
		}
		if len(in) != 1 {
			t.Errorf("input modified: %v", in)
		}
	})

	t.Run("keeps existing client", func(t *testing.T) {
		t.Parallel()
		in := []Tag{{"d", "x"}, {"client", "other"}}
		got := withClientTag(in)
		if !reflect.DeepEqual(got, in) {
			t.Errorf("withClientTag() = %v, want %v", got, in)
		}
	})
}
