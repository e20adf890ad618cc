package draftweaver

import "strings"

// Fixed tag values.
const (
	AltText    = "NIP-23 long-form article mapped from WordPress (markdown content)"
	ClientName = "draftweaver"
)

// Identity is the public side of a signing key.
type Identity interface {
	// PublicKeyHex returns the x-only public key as hex.
	PublicKeyHex() string
	// EncodePublic returns the npub form of the public key.
	EncodePublic() (string, error)
}

// BuildTags maps a document to NIP-23 tags. Emission order is fixed:
// d, title, summary, image, r, t (one per label), alt, client, author.
// Optional tags are omitted when their field is empty; author is omitted
// when id is nil or its npub cannot be encoded.
func BuildTags(doc Document, id Identity) []Tag {
	tags := make([]Tag, 0, 8+len(doc.Labels))

	tags = append(tags, Tag{"d", doc.Identifier})
	if doc.Title != "" {
		tags = append(tags, Tag{"title", doc.Title})
	}
	if doc.Summary != "" {
		tags = append(tags, Tag{"summary", doc.Summary})
	}
	if doc.Image != "" {
		tags = append(tags, Tag{"image", doc.Image})
	}
	if doc.CanonicalURL != "" {
		tags = append(tags, Tag{"r", doc.CanonicalURL})
	}

	for _, label := range doc.Labels {
		if label = strings.TrimSpace(label); label != "" {
			tags = append(tags, Tag{"t", strings.ToLower(label)})
		}
	}

	tags = append(tags, Tag{"alt", AltText}, Tag{"client", ClientName})

	if id != nil {
		if npub, err := id.EncodePublic(); err == nil {
			tags = append(tags, Tag{"author", npub})
		}
	}

	return tags
}
