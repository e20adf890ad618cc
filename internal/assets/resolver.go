package assets

// Resolver loads styles from a custom directory first and falls back to
// the built-in styles when a name is not found there.
type Resolver struct {
	custom   StyleLoader // nil without a custom directory
	embedded StyleLoader
}

// NewResolver creates a Resolver. An empty customBasePath uses only the
// built-in styles; an unusable one is an error.
func NewResolver(customBasePath string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}
	return r, nil
}

// LoadStyle loads the named style. Only "not found" errors from the custom
// directory fall back; validation and I/O errors are returned.
func (r *Resolver) LoadStyle(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.LoadStyle(name)
	}

	css, err := r.custom.LoadStyle(name)
	if err == nil {
		return css, nil
	}
	if !isNotFound(err) {
		return "", err
	}
	return r.embedded.LoadStyle(name)
}

// HasCustomLoader reports whether a custom directory is configured.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

var _ StyleLoader = (*Resolver)(nil)
