package client

import (
	"net/url"
	"strconv"
)

// searchURL builds the request target for one results page. The free
// text query rides in "keys" and the zero-based page index in "page".
// url.Values percent-encodes the term, so spaces, punctuation and
// non-ASCII runes all round-trip and two distinct terms never encode to
// the same target. An empty term is valid and matches every document.
func searchURL(base *url.URL, query string, page int) string {
	u := *base
	vals := u.Query()
	vals.Set("keys", query)
	vals.Set("page", strconv.Itoa(page))
	u.RawQuery = vals.Encode()
	return u.String()
}
