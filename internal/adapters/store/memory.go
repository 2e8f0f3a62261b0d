package store

import (
	"context"
	"fmt"
	"remoteimages/internal/core/domain"
	"sort"
	"sync"
)

// Memory is a NodeStore kept in process memory for the lifetime of one build.
type Memory struct {
	nodes map[string]domain.RemoteFile
	mutex *sync.RWMutex
}

func NewMemory() *Memory {
	return &Memory{
		nodes: make(map[string]domain.RemoteFile),
		mutex: &sync.RWMutex{},
	}
}

func (m *Memory) CreateNode(_ context.Context, node domain.RemoteFile) error {
	if node.ID == "" {
		return fmt.Errorf("node for %s has no id", node.URL)
	}

	m.mutex.Lock()
	m.nodes[node.ID] = node
	m.mutex.Unlock()

	return nil
}

func (m *Memory) GetNode(_ context.Context, id string) (domain.RemoteFile, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	node, ok := m.nodes[id]
	if !ok {
		return domain.RemoteFile{}, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}

	return node, nil
}

// ListNodes returns the nodes ordered by URL.
func (m *Memory) ListNodes(_ context.Context) ([]domain.RemoteFile, error) {
	m.mutex.RLock()
	nodes := make([]domain.RemoteFile, 0, len(m.nodes))
	for _, n := range m.nodes {
		nodes = append(nodes, n)
	}
	m.mutex.RUnlock()

	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].URL < nodes[j].URL
	})

	return nodes, nil
}
