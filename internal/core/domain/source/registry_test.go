package source

import (
	"remoteimages/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockAdapter struct {
	nodeType string
}

func (m *MockAdapter) NodeType() string {
	return m.nodeType
}

func (m *MockAdapter) Extract(node domain.ContentNode) (domain.RemoteFileInput, string, error) {
	return domain.RemoteFileInput{URL: "https://example.org/" + node.ID}, node.ContentDigest, nil
}

func TestRegister(t *testing.T) {
	r := &Registry{}
	r.Register(&MockAdapter{nodeType: "Test"})

	assert.Len(t, r.adapters, 1)
}

func TestRegisterReplacesSameType(t *testing.T) {
	r := &Registry{}
	r.Register(&MockAdapter{nodeType: "Test"})
	r.Register(&MockAdapter{nodeType: "Test"})

	assert.Len(t, r.adapters, 1)
}

func TestGetNotRegistered(t *testing.T) {
	r := &Registry{}

	_, err := r.Get("Test")
	require.EqualError(t, err, "can't fetch adapter, registry not initialized")
}

func TestGetAdapterNotFound(t *testing.T) {
	r := &Registry{}
	r.Register(&MockAdapter{nodeType: "Test"})

	_, err := r.Get("Other")
	require.EqualError(t, err, "adapter not found")
}

func TestGetAdapterFound(t *testing.T) {
	r := &Registry{}
	r.Register(&MockAdapter{nodeType: "Test"})

	adapter, err := r.Get("Test")
	require.NoError(t, err)
	assert.Equal(t, "Test", adapter.NodeType())
}

func TestNewRegistryHasBuiltinAdapters(t *testing.T) {
	r := NewRegistry()

	list := r.ListTypes()
	assert.Len(t, list, 2)
	assert.Contains(t, list, "ContentfulAsset")
	assert.Contains(t, list, "WpMediaItem")
}
