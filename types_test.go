package draftweaver

import (
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestDocument_Validate - Publishability checks
// ---------------------------------------------------------------------------

func TestDocument_Validate(t *testing.T) {
	t.Parallel()

	valid := Document{
		Title:        "My Post",
		Identifier:   "my-post",
		Summary:      "Short.",
		Body:         "Hello",
		Image:        "https://x.com/cover.png",
		CanonicalURL: "https://x.com/my-post/",
	}

	tests := []struct {
		name      string
		mutate    func(*Document)
		wantErr   bool
		wantField string
	}{
		{name: "valid", mutate: func(*Document) {}},
		{name: "optional fields empty", mutate: func(d *Document) {
			d.Summary, d.Image, d.CanonicalURL, d.Title = "", "", "", ""
		}},
		{name: "unicode identifier", mutate: func(d *Document) { d.Identifier = "café-crème" }},
		{name: "missing identifier", mutate: func(d *Document) { d.Identifier = "" }, wantErr: true, wantField: "Identifier"},
		{name: "uppercase identifier", mutate: func(d *Document) { d.Identifier = "My-Post" }, wantErr: true, wantField: "Identifier"},
		{name: "double hyphen", mutate: func(d *Document) { d.Identifier = "my--post" }, wantErr: true, wantField: "Identifier"},
		{name: "trailing hyphen", mutate: func(d *Document) { d.Identifier = "my-post-" }, wantErr: true, wantField: "Identifier"},
		{name: "identifier too long", mutate: func(d *Document) { d.Identifier = strings.Repeat("a", 129) }, wantErr: true, wantField: "Identifier"},
		{name: "summary too long", mutate: func(d *Document) { d.Summary = strings.Repeat("é", 281) }, wantErr: true, wantField: "Summary"},
		{name: "summary at limit", mutate: func(d *Document) { d.Summary = strings.Repeat("é", 280) }},
		{name: "bad image url", mutate: func(d *Document) { d.Image = "not a url" }, wantErr: true, wantField: "Image"},
		{name: "bad canonical url", mutate: func(d *Document) { d.CanonicalURL = "just some words" }, wantErr: true, wantField: "CanonicalURL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := valid
			tt.mutate(&doc)

			err := doc.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidDocument) {
				t.Fatalf("Validate() error = %v, want ErrInvalidDocument", err)
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("Validate() error = %q, want mention of %s", err, tt.wantField)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestDocument_Regenerate - Body rebuilt from source HTML
// ---------------------------------------------------------------------------

func TestDocument_Regenerate(t *testing.T) {
	t.Parallel()

	doc := Document{
		Body:         "edited",
		OriginalBody: `<p>See <a href="/about">about</a></p>`,
		CanonicalURL: "https://x.com/post/",
	}
	doc.Regenerate()

	want := "See [about](https://x.com/about)"
	if doc.Body != want {
		t.Errorf("Body = %q, want %q", doc.Body, want)
	}

	empty := Document{Body: "kept"}
	empty.Regenerate()
	if empty.Body != "kept" {
		t.Errorf("Regenerate without source changed Body to %q", empty.Body)
	}
}
