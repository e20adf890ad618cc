package draftweaver

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/alnah/go-draftweaver/internal/fileutil"
	"github.com/alnah/go-draftweaver/internal/yamlutil"
)

// draftHeader is the YAML front matter of a draft file.
type draftHeader struct {
	Title        string   `yaml:"title"`
	Identifier   string   `yaml:"identifier,omitempty"`
	Summary      string   `yaml:"summary,omitempty"`
	Image        string   `yaml:"image,omitempty"`
	CanonicalURL string   `yaml:"canonical_url,omitempty"`
	Labels       []string `yaml:"labels,omitempty"`
	Source       string   `yaml:"source,omitempty"`
}

// ParseDraft reads a Markdown draft with an optional YAML front matter
// header. A file without a header becomes a document with only a Body.
func ParseDraft(r io.Reader) (Document, error) {
	var h draftHeader
	body, err := frontmatter.Parse(r, &h, yamlutil.FrontMatter())
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrReadDraft, err)
	}

	return Document{
		Title:        h.Title,
		Identifier:   h.Identifier,
		Summary:      h.Summary,
		Body:         strings.TrimSpace(string(body)),
		OriginalBody: h.Source,
		Image:        h.Image,
		CanonicalURL: h.CanonicalURL,
		Labels:       h.Labels,
	}, nil
}

// LoadDraft reads the draft file at path.
func LoadDraft(path string) (Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrReadDraft, err)
	}
	return ParseDraft(bytes.NewReader(data))
}

// MarshalDraft encodes a document as front matter followed by its body.
func MarshalDraft(doc Document) ([]byte, error) {
	header, err := yamlutil.Marshal(draftHeader{
		Title:        doc.Title,
		Identifier:   doc.Identifier,
		Summary:      doc.Summary,
		Image:        doc.Image,
		CanonicalURL: doc.CanonicalURL,
		Labels:       doc.Labels,
		Source:       doc.OriginalBody,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteDraft, err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	if !bytes.HasSuffix(header, []byte("\n")) {
		buf.WriteByte('\n')
	}
	buf.WriteString("---\n\n")
	buf.WriteString(doc.Body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// SaveDraft writes the document to path, replacing any existing file.
func SaveDraft(path string, doc Document) error {
	data, err := MarshalDraft(doc)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, data, fileutil.FilePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteDraft, err)
	}
	return nil
}
