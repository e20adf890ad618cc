package assets

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultStyleName is the style used when none is configured.
const DefaultStyleName = "default"

// StyleLoader loads a CSS style by name, without the .css extension.
type StyleLoader interface {
	LoadStyle(name string) (string, error)
}

var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a built-in style.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// ValidateAssetName rejects empty names and names that could leave the
// styles directory or change the extension.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, `/\.`) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrStyleNotFound)
}
