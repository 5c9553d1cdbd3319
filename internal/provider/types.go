package provider

import (
	"net/url"
	"strings"
)

// Passage is one positional entry of an edition, before alignment.
type Passage struct {
	GlobalID int
	Number   int
	Text     string
}

// joinURL appends path segments to a base URL, escaping each segment.
func joinURL(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// withQuery adds an encoded query string to rawURL.
func withQuery(rawURL string, q url.Values) string {
	if len(q) == 0 {
		return rawURL
	}
	return rawURL + "?" + q.Encode()
}
