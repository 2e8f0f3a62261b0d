package port

import "context"

type Fetcher interface {
	// Fetch returns the full body of the resource at url, or an error if it could not be retrieved.
	Fetch(ctx context.Context, url string) ([]byte, error)
}
