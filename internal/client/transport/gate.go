package transport

import (
	"net/http"
	"regexp"
	"strings"
)

// protectedPaths lists the resources whose mutating calls need a session.
// Matching is by path shape, so new endpoints under these prefixes are
// gated too.
var protectedPaths = []*regexp.Regexp{
	regexp.MustCompile(`^/notes/[^/]+/like$`),
	regexp.MustCompile(`^/notes/[^/]+/favorite$`),
	regexp.MustCompile(`^/notes/[^/]+/comments$`),
	regexp.MustCompile(`/user/`),
	regexp.MustCompile(`^/notes(/|$)`),
}

// RequiresAuth reports whether a call is a write operation that must not
// leave the client without a session token.
func RequiresAuth(method, path string) bool {
	switch strings.ToUpper(method) {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return false
	}
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	for _, re := range protectedPaths {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}
