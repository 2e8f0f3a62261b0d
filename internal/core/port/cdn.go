package port

import "net/url"

type URLBuilder interface {
	// Build returns a signed CDN transformation URL for the source URL with the given parameters applied.
	Build(source string, params url.Values) string
}
