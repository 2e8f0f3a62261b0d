package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"remoteimages/internal/adapters/store"
	"remoteimages/internal/core/domain"
	"remoteimages/internal/core/domain/source"
	"remoteimages/internal/core/service"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBuilder struct{}

func (stubBuilder) Build(source string, params url.Values) string {
	return "https://cdn.test/" + url.PathEscape(source) + "?" + params.Encode()
}

type failingFetcher struct{}

func (failingFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	return nil, domain.ErrUpstreamFetch
}

const testNodes = `[
  {"id": "asset-1", "type": "ContentfulAsset", "contentDigest": "a1", "fields": {
    "file": {"url": "//x/img.jpg", "contentType": "image/jpeg", "fileName": "img.jpg",
      "details": {"size": 1000, "image": {"width": 800, "height": 600}}}}},
  {"id": "asset-2", "type": "ContentfulAsset", "contentDigest": "a2", "fields": {
    "file": {"url": "//x/doc.pdf", "contentType": "application/pdf", "fileName": "doc.pdf"}}},
  {"id": "wp-1", "type": "WpMediaItem", "contentDigest": "w1", "fields": {
    "sourceUrl": "https://blog.test/cat.png", "mimeType": "image/png",
    "mediaDetails": {"file": "2024/cat.png", "width": 400, "height": 400}}},
  {"id": "wp-broken", "type": "WpMediaItem", "contentDigest": "w2", "fields": {"mimeType": "image/png"}},
  {"id": "post-1", "type": "ContentfulBlogPost", "contentDigest": "p1", "fields": {"title": "hello"}}
]`

func newTestBuilder(imageArgs map[string]any) (*builder, *store.Memory) {
	nodeStore := store.NewMemory()
	generator := service.NewImageGenerator(stubBuilder{}, service.NewPlaceholderFetcher(failingFetcher{}, time.Second))
	plugin := service.NewPlugin(source.NewRegistry(), service.NewRemoteFileRegistry(nodeStore),
		service.NewBuildContext(), generator, nodeStore)

	return &builder{plugin: plugin, store: nodeStore, concurrency: 4, imageArgs: imageArgs}, nodeStore
}

func writeNodes(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "nodes.json")
	require.NoError(t, os.WriteFile(path, []byte(testNodes), 0o600))

	return path
}

func TestBuilderRun(t *testing.T) {
	b, nodeStore := newTestBuilder(map[string]any{"layout": "fixed", "width": 200})
	outPath := filepath.Join(t.TempDir(), "out.jsonl")

	require.NoError(t, b.run(t.Context(), writeNodes(t), outPath))

	files, err := nodeStore.ListNodes(t.Context())
	require.NoError(t, err)
	assert.Len(t, files, 3)

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var lines []imageData
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 1<<20), 1<<20)
	for scanner.Scan() {
		var line imageData
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, lines, 2)
	assert.Equal(t, "https://blog.test/cat.png", lines[0].URL)
	assert.Equal(t, "https://x/img.jpg", lines[1].URL)
	assert.Equal(t, service.LocalImageURL("https://x/img.jpg", 200, 150, "jpg"), lines[1].ImageData.Sources[0].Src)
}

func TestBuilderRunFailsOnPlaceholderError(t *testing.T) {
	b, _ := newTestBuilder(map[string]any{"placeholder": "blurred"})

	err := b.run(t.Context(), writeNodes(t), filepath.Join(t.TempDir(), "out.jsonl"))
	require.ErrorIs(t, err, domain.ErrUpstreamFetch)
}

func TestReadNodesErrors(t *testing.T) {
	_, err := readNodes(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err = readNodes(path)
	require.Error(t, err)
}
