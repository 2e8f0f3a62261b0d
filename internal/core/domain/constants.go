package domain

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration = errors.New("invalid configuration")
	ErrSourceShape   = errors.New("unexpected source node shape")
	ErrDecode        = errors.New("malformed token")
	ErrUpstreamFetch = errors.New("upstream fetch failed")
	ErrRegistryWrite = errors.New("remote file registry write failed")
	ErrInvalidArgs   = errors.New("invalid image arguments")
	ErrNodeNotFound  = errors.New("node not found")
)

// UpstreamError carries the status of a failed upstream response.
type UpstreamError struct {
	URL    string
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.Status, e.URL)
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamFetch
}
