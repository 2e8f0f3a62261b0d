package service

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"remoteimages/internal/core/domain"
)

// EncodeURL returns a token for rawURL that is safe to use as a single URL path segment.
func EncodeURL(rawURL string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(rawURL))
}

// DecodeURL reverses EncodeURL. Tokens that do not decode to an absolute URL yield domain.ErrDecode.
func DecodeURL(token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("%w: empty token", domain.ErrDecode)
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}

	u, err := url.Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}

	if !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("%w: %q is not an absolute URL", domain.ErrDecode, raw)
	}

	return string(raw), nil
}
