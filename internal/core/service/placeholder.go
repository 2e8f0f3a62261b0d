package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"remoteimages/internal/core/domain"
	"remoteimages/internal/core/port"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultPlaceholderTimeout = 10 * time.Second

// PlaceholderFetcher downloads low resolution renditions and inlines them as data URLs.
type PlaceholderFetcher struct {
	fetcher port.Fetcher
	timeout time.Duration
}

func NewPlaceholderFetcher(fetcher port.Fetcher, timeout time.Duration) *PlaceholderFetcher {
	if timeout <= 0 {
		timeout = DefaultPlaceholderTimeout
	}

	return &PlaceholderFetcher{fetcher: fetcher, timeout: timeout}
}

func (p *PlaceholderFetcher) Fetch(ctx context.Context, lowResURL, format string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	buf, err := p.fetcher.Fetch(ctx, lowResURL)
	if err != nil {
		log.Error().Err(err).Str("url", lowResURL).Msg("placeholder fetch failed")
		return "", fmt.Errorf("%w: %s: %w", domain.ErrUpstreamFetch, lowResURL, err)
	}

	if len(buf) == 0 {
		return "", fmt.Errorf("%w: %s: empty response", domain.ErrUpstreamFetch, lowResURL)
	}

	return fmt.Sprintf("data:%s;base64,%s", mimeType(format), base64.StdEncoding.EncodeToString(buf)), nil
}
