package draftweaver

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/alnah/go-draftweaver/internal/nostr"
)

// KindLongForm is the NIP-23 long-form article event kind.
const KindLongForm = nostr.KindLongForm

// MaxSummaryLength is the conventional summary cap, in runes.
const MaxSummaryLength = 280

// Tag is one event tag; the first element is the tag name.
type Tag = nostr.Tag

// Event is a NIP-01 event. Unsigned events carry only Kind, Content and
// Tags; signing fills ID, PubKey, CreatedAt and Sig.
type Event = nostr.Event

// Document is an article being prepared for publication.
type Document struct {
	Title        string
	Identifier   string   // "d" tag; see SanitizeIdentifier
	Summary      string   // plain text, at most MaxSummaryLength runes by convention
	Body         string   // Markdown
	OriginalBody string   // source HTML, kept for regeneration
	Image        string   // optional cover image URL
	CanonicalURL string   // optional source URL
	Labels       []string // free-form topics, emitted as "t" tags
}

// ResolveIdentifier returns the sanitized Identifier, or one derived from
// Title and CanonicalURL when Identifier is blank.
func (d *Document) ResolveIdentifier() string {
	if strings.TrimSpace(d.Identifier) != "" {
		return SanitizeIdentifier(d.Identifier)
	}
	return DeriveIdentifier(d.Title, d.CanonicalURL)
}

// Regenerate rebuilds Body from OriginalBody, resolving relative links
// against CanonicalURL. It is a no-op when OriginalBody is empty.
func (d *Document) Regenerate() {
	if d.OriginalBody == "" {
		return
	}
	d.Body = HTMLToMarkdown(d.OriginalBody, d.CanonicalURL)
}

// Validate checks that the document can be published as is.
func (d Document) Validate() error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.Identifier,
			validation.Required,
			validation.RuneLength(1, MaxIdentifierLength),
			validation.By(func(value any) error {
				s, _ := value.(string)
				if SanitizeIdentifier(s) != s {
					return validation.NewError("validation_identifier_format",
						"must be lowercase letters and digits joined by single hyphens")
				}
				return nil
			}),
		),
		validation.Field(&d.Summary, validation.RuneLength(0, MaxSummaryLength)),
		validation.Field(&d.Image, is.URL),
		validation.Field(&d.CanonicalURL, is.URL),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return nil
}
