package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"remoteimages/internal/core/domain"
	"remoteimages/internal/core/port"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
	"github.com/zeebo/blake3"
)

var nodeNamespace = uuid.NewV5(uuid.NamespaceURL, "remote-images")

// NodeID derives the stable node ID for a remote URL.
func NodeID(rawURL string) string {
	return uuid.NewV5(nodeNamespace, rawURL).String()
}

// ContentDigest derives the change-detection digest from a cache key.
func ContentDigest(cacheKey string) string {
	sum := blake3.Sum256([]byte(cacheKey))
	return hex.EncodeToString(sum[:])
}

type RemoteFileRegistry struct {
	store port.NodeStore
}

func NewRemoteFileRegistry(store port.NodeStore) *RemoteFileRegistry {
	return &RemoteFileRegistry{store: store}
}

// Register creates or refreshes the RemoteFile node for input.URL and returns its ID.
// Registering the same URL again always yields the same ID; the latest attributes win.
func (r *RemoteFileRegistry) Register(ctx context.Context, input domain.RemoteFileInput, cacheKey string) (string, error) {
	if input.URL == "" {
		return "", fmt.Errorf("%w: remote file without url", domain.ErrSourceShape)
	}

	id := NodeID(input.URL)

	node := domain.RemoteFile{
		ID:            id,
		URL:           input.URL,
		ContentType:   input.ContentType,
		Filename:      input.Filename,
		Filesize:      input.Filesize,
		Width:         input.Width,
		Height:        input.Height,
		ContentDigest: ContentDigest(cacheKey),
	}

	if err := r.store.CreateNode(ctx, node); err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrRegistryWrite, input.URL, err)
	}

	log.Debug().Str("id", id).Str("url", input.URL).Msg("registered remote file")

	return id, nil
}
