package source

import (
	"remoteimages/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentfulAssetExtract(t *testing.T) {
	tests := []struct {
		name         string
		fields       map[string]any
		wantInput    domain.RemoteFileInput
		wantCacheKey string
		wantErr      bool
	}{
		{
			name: "image asset",
			fields: map[string]any{
				"file": map[string]any{
					"url":         "//images.ctfassets.net/space/abc/photo.jpg",
					"contentType": "image/jpeg",
					"fileName":    "photo.jpg",
					"details": map[string]any{
						"size":  float64(12345),
						"image": map[string]any{"width": float64(800), "height": float64(600)},
					},
				},
			},
			wantInput: domain.RemoteFileInput{
				URL:         "https://images.ctfassets.net/space/abc/photo.jpg",
				ContentType: "image/jpeg",
				Filename:    "photo.jpg",
				Filesize:    int64Ptr(12345),
				Width:       intPtr(800),
				Height:      intPtr(600),
			},
			wantCacheKey: "digest-1",
		},
		{
			name: "non-image asset keeps dimensions empty",
			fields: map[string]any{
				"file": map[string]any{
					"url":         "//assets.ctfassets.net/space/abc/doc.pdf",
					"contentType": "application/pdf",
					"fileName":    "doc.pdf",
				},
			},
			wantInput: domain.RemoteFileInput{
				URL:         "https://assets.ctfassets.net/space/abc/doc.pdf",
				ContentType: "application/pdf",
				Filename:    "doc.pdf",
			},
			wantCacheKey: "digest-1",
		},
		{
			name:    "missing file",
			fields:  map[string]any{"title": "no file"},
			wantErr: true,
		},
		{
			name: "missing url",
			fields: map[string]any{
				"file": map[string]any{"contentType": "image/png"},
			},
			wantErr: true,
		},
		{
			name: "missing content type",
			fields: map[string]any{
				"file": map[string]any{"url": "//x/img.png"},
			},
			wantErr: true,
		},
		{
			name:    "file of wrong kind",
			fields:  map[string]any{"file": "not a map"},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			node := domain.ContentNode{ID: "n1", Type: "ContentfulAsset", ContentDigest: "digest-1", Fields: tc.fields}

			got, cacheKey, err := NewContentfulAsset().Extract(node)
			if tc.wantErr {
				require.ErrorIs(t, err, domain.ErrSourceShape)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantInput, got)
			assert.Equal(t, tc.wantCacheKey, cacheKey)
		})
	}
}

func intPtr(i int) *int {
	return &i
}

func int64Ptr(i int64) *int64 {
	return &i
}
