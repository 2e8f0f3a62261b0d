package port

import "remoteimages/internal/core/domain"

type SourceAdapter interface {
	// NodeType returns the content node type tag handled by the adapter.
	NodeType() string
	// Extract maps a content node to a registry input and the cache key used for change detection.
	Extract(node domain.ContentNode) (domain.RemoteFileInput, string, error)
}

type SourceRegistry interface {
	// Register adds an adapter keyed by its node type.
	Register(adapter SourceAdapter)
	// Get returns the adapter for a node type or an error if none is registered.
	Get(nodeType string) (SourceAdapter, error)
	// ListTypes returns all registered node types.
	ListTypes() []string
}
