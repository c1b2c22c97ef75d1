package protocol

import (
	"net/url"
	"path/filepath"
	"strings"
)

// DocumentURI is a file:// URI as sent by the client.
type DocumentURI string

// Path returns the filesystem path of a file URI. Anything that is not a
// file URI is returned with a leading file: prefix removed, which matches how
// some clients send bare paths.
func (uri DocumentURI) Path() string {
	s := string(uri)
	if !strings.HasPrefix(s, "file:") {
		return filepath.FromSlash(s)
	}

	u, err := url.Parse(s)
	if err != nil {
		return filepath.FromSlash(strings.TrimPrefix(strings.TrimPrefix(s, "file://"), "file:"))
	}

	p := u.Path
	if p == "" {
		p = u.Opaque
	}

	// file:///C:/x on windows
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}

	return filepath.FromSlash(p)
}

// URIFromPath converts an absolute filesystem path into a file:// URI.
func URIFromPath(path string) DocumentURI {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		// windows drive letters
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return DocumentURI(u.String())
}
