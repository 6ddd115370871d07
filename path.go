package navhistory

import "strings"

// Path holds the three pieces of a path string. An empty field means the
// piece was absent, which lets callers apply their own defaults.
type Path struct {
	// Pathname is the URL pathname, conventionally beginning with '/'.
	Pathname string
	// Search is the query string, including the leading '?'.
	Search string
	// Hash is the fragment, including the leading '#'.
	Hash string
}

// ParsePath splits a path string into its pieces. Everything from the first
// '#' is the hash, everything from the first '?' in the remainder is the
// search, and whatever is left is the pathname.
func ParsePath(path string) Path {
	var p Path
	if path == "" {
		return p
	}
	if i := strings.IndexByte(path, '#'); i >= 0 {
		p.Hash = path[i:]
		path = path[:i]
	}
	if i := strings.IndexByte(path, '?'); i >= 0 {
		p.Search = path[i:]
		path = path[:i]
	}
	p.Pathname = path
	return p
}

// String renders the pieces back into a path string. A missing pathname
// defaults to "/"; missing search and hash contribute nothing.
func (p Path) String() string {
	pathname := p.Pathname
	if pathname == "" {
		pathname = "/"
	}
	return pathname + p.Search + p.Hash
}

// IsZero reports whether no piece is present.
func (p Path) IsZero() bool {
	return p.Pathname == "" && p.Search == "" && p.Hash == ""
}
