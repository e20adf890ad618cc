package draftweaver

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NewEvent builds the unsigned kind 30023 event for a document. The result
// is recomputed from scratch on every call.
func NewEvent(doc Document, id Identity) Event {
	return Event{
		Kind:    KindLongForm,
		Content: doc.Body,
		Tags:    BuildTags(doc, id),
	}
}

// eventPreview is the unsigned wire shape shown before publishing.
type eventPreview struct {
	Kind    int    `json:"kind"`
	Content string `json:"content"`
	Tags    []Tag  `json:"tags"`
}

// PreviewJSON returns the indented {kind, content, tags} JSON of an event.
func PreviewJSON(ev Event) ([]byte, error) {
	tags := ev.Tags
	if tags == nil {
		tags = []Tag{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(eventPreview{Kind: ev.Kind, Content: ev.Content, Tags: tags}); err != nil {
		return nil, fmt.Errorf("encoding event preview: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// withClientTag returns the tags with a client tag appended when none is
// present. The input slice is not modified.
func withClientTag(tags []Tag) []Tag {
	for _, t := range tags {
		if t.Name() == "client" {
			return tags
		}
	}
	out := make([]Tag, len(tags), len(tags)+1)
	copy(out, tags)
	return append(out, Tag{"client", ClientName})
}
