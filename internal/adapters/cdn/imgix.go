package cdn

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"remoteimages/internal/core/domain"
	"strings"
)

// Imgix builds signed imgix web proxy URLs.
type Imgix struct {
	domain      string
	secureToken string
}

func NewImgix(domainName, secureToken string) (*Imgix, error) {
	if domainName == "" {
		return nil, fmt.Errorf("%w: missing imgix domain", domain.ErrConfiguration)
	}

	if strings.Contains(domainName, "/") || strings.Contains(domainName, ":") {
		return nil, fmt.Errorf("%w: imgix domain %q must be a bare host name", domain.ErrConfiguration, domainName)
	}

	if secureToken == "" {
		return nil, fmt.Errorf("%w: missing imgix secure token", domain.ErrConfiguration)
	}

	return &Imgix{domain: domainName, secureToken: secureToken}, nil
}

// Build returns the signed URL for source with params applied. The signature covers
// the path and the query, so params must not be changed after signing.
func (i *Imgix) Build(source string, params url.Values) string {
	path := "/" + encodeURIComponent(source)
	query := params.Encode()

	toSign := i.secureToken + path
	if query != "" {
		toSign += "?" + query
	}

	sum := md5.Sum([]byte(toSign))
	signature := hex.EncodeToString(sum[:])

	if query != "" {
		query += "&"
	}

	return fmt.Sprintf("https://%s%s?%ss=%s", i.domain, path, query, signature)
}

var uriComponentReplacer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeURIComponent escapes s the way imgix expects web proxy sources to be escaped.
func encodeURIComponent(s string) string {
	return uriComponentReplacer.Replace(url.QueryEscape(s))
}
