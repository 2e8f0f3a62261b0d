package port

import (
	"context"
	"remoteimages/internal/core/domain"
)

type NodeStore interface {
	// CreateNode inserts a remote file node or replaces the node with the same ID.
	CreateNode(ctx context.Context, node domain.RemoteFile) error
	// GetNode returns the node with the given ID or domain.ErrNodeNotFound.
	GetNode(ctx context.Context, id string) (domain.RemoteFile, error)
	// ListNodes returns all nodes currently held by the store.
	ListNodes(ctx context.Context) ([]domain.RemoteFile, error)
}
