package service

import (
	"context"
	"errors"
	"net/url"
	"remoteimages/internal/core/domain"
	"sync"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	nodes map[string]domain.RemoteFile
	mutex sync.Mutex
	err   error
}

func NewMockStore() *MockStore {
	return &MockStore{nodes: make(map[string]domain.RemoteFile)}
}

func (m *MockStore) CreateNode(_ context.Context, node domain.RemoteFile) error {
	if m.err != nil {
		return m.err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.nodes[node.ID] = node

	return nil
}

func (m *MockStore) GetNode(_ context.Context, id string) (domain.RemoteFile, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	node, ok := m.nodes[id]
	if !ok {
		return domain.RemoteFile{}, domain.ErrNodeNotFound
	}

	return node, nil
}

func (m *MockStore) ListNodes(_ context.Context) ([]domain.RemoteFile, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var nodes []domain.RemoteFile
	for _, n := range m.nodes {
		nodes = append(nodes, n)
	}

	return nodes, nil
}

type MockBuilder struct{}

func (m *MockBuilder) Build(source string, params url.Values) string {
	return "https://cdn.test/" + url.PathEscape(source) + "?" + params.Encode()
}

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)

	var buf []byte
	if b := args.Get(0); b != nil {
		buf = b.([]byte)
	}

	return buf, args.Error(1)
}

var errMock = errors.New("mock error")

func intPtr(i int) *int {
	return &i
}

func testImage() domain.RemoteFile {
	return domain.RemoteFile{
		ID:          NodeID("https://x/img.jpg"),
		URL:         "https://x/img.jpg",
		ContentType: "image/jpeg",
		Filename:    "img.jpg",
		Width:       intPtr(800),
		Height:      intPtr(600),
	}
}
