// Package yamlutil decodes and encodes the YAML used by config files and
// draft headers. All input goes through one size check.
package yamlutil

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/adrg/frontmatter"
	"github.com/goccy/go-yaml"
)

// MaxInputSize caps the bytes accepted by the decoders (1MB).
var MaxInputSize = 1 << 20

// Sentinel errors for YAML decoding.
var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// HeaderDelimiter opens and closes a front matter block.
const HeaderDelimiter = "---"

func checkInput(data []byte, v any) error {
	switch {
	case len(data) == 0:
		return ErrNilData
	case len(data) > MaxInputSize:
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	case v == nil:
		return ErrNilDestination
	}
	return nil
}

// Unmarshal decodes data into v, ignoring unknown keys.
func Unmarshal(data []byte, v any) error {
	if err := checkInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalStrict decodes data into v and fails on unknown keys.
func UnmarshalStrict(data []byte, v any) error {
	if err := checkInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// Marshal encodes v. Multi-line strings use literal block style so draft
// headers stay readable.
func Marshal(v any) ([]byte, error) {
	out, err := yaml.MarshalWithOptions(v, yaml.UseLiteralStyleIfMultiline(true))
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return out, nil
}

// FrontMatter returns the "---" delimited header format for
// github.com/adrg/frontmatter, decoded with Unmarshal. An empty header
// leaves the destination untouched.
func FrontMatter() *frontmatter.Format {
	return frontmatter.NewFormat(HeaderDelimiter, HeaderDelimiter, func(data []byte, v any) error {
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		return Unmarshal(data, v)
	})
}
