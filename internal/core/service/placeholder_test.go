package service

import (
	"context"
	"remoteimages/internal/core/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPlaceholderFetch(t *testing.T) {
	fetcher := &MockFetcher{}
	fetcher.On("Fetch", mock.Anything, "https://cdn.test/low").Return([]byte{0x89, 'P', 'N', 'G'}, nil)

	p := NewPlaceholderFetcher(fetcher, time.Second)

	got, err := p.Fetch(t.Context(), "https://cdn.test/low", "png")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,iVBORw==", got)
}

func TestPlaceholderFetchAppliesTimeout(t *testing.T) {
	fetcher := &MockFetcher{}
	fetcher.On("Fetch", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), mock.Anything).Return([]byte("x"), nil)

	p := NewPlaceholderFetcher(fetcher, 0)
	assert.Equal(t, DefaultPlaceholderTimeout, p.timeout)

	_, err := p.Fetch(context.Background(), "https://cdn.test/low", "jpg")
	require.NoError(t, err)
	fetcher.AssertExpectations(t)
}

func TestPlaceholderFetchErrors(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		err  error
	}{
		{name: "fetch error", err: errMock},
		{name: "empty body", buf: []byte{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := &MockFetcher{}
			fetcher.On("Fetch", mock.Anything, mock.Anything).Return(tc.buf, tc.err)

			_, err := NewPlaceholderFetcher(fetcher, time.Second).Fetch(t.Context(), "https://cdn.test/low", "jpg")
			require.ErrorIs(t, err, domain.ErrUpstreamFetch)
			assert.Contains(t, err.Error(), "https://cdn.test/low")
		})
	}
}
