package markup

import (
	"net/url"
	"regexp"
	"strings"
)

// schemePrefix matches an RFC 3986 scheme followed by a colon
// (http:, https:, data:, mailto:, ...).
var schemePrefix = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:`)

// Base is the origin and directory against which relative references resolve.
// The zero value means no base is known.
type Base struct {
	Origin string // scheme://host[:port], no trailing slash
	Path   string // directory part of the path, ending in "/" (may be empty)
}

// IsZero reports whether no origin is known.
func (b Base) IsZero() bool {
	return b.Origin == ""
}

// ParseBase derives a Base from an absolute address.
// Malformed or relative addresses yield the zero Base.
func ParseBase(raw string) Base {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Base{}
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Base{}
	}

	var dir string
	p := u.EscapedPath()
	if i := strings.LastIndex(p, "/"); i >= 0 {
		dir = p[:i+1]
	}

	return Base{
		Origin: u.Scheme + "://" + u.Host,
		Path:   dir,
	}
}

// HasScheme reports whether ref starts with a URL scheme.
func HasScheme(ref string) bool {
	return schemePrefix.MatchString(ref)
}

// Absolutize resolves ref against base.
//
// Rules, in order:
//   - references with a scheme are returned unchanged
//   - without a base, ref is returned unchanged
//   - "//host/x" takes the scheme of the base
//   - "/x" resolves against the origin
//   - "x" resolves against the base directory, or the origin root when
//     the base has no directory
func Absolutize(ref string, base Base) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || HasScheme(ref) || base.IsZero() {
		return ref
	}

	if strings.HasPrefix(ref, "//") {
		scheme, _, _ := strings.Cut(base.Origin, ":")
		return scheme + ":" + ref
	}
	if strings.HasPrefix(ref, "/") {
		return base.Origin + ref
	}
	if base.Path != "" {
		return base.Origin + base.Path + ref
	}
	return strings.TrimRight(base.Origin, "/") + "/" + ref
}
