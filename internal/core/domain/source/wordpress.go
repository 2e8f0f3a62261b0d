package source

import (
	"path"
	"remoteimages/internal/core/domain"
)

// WpMediaItem adapts media library items from WordPress.
type WpMediaItem struct{}

func NewWpMediaItem() *WpMediaItem {
	return &WpMediaItem{}
}

type wpFields struct {
	SourceURL    string `mapstructure:"sourceUrl"`
	MimeType     string `mapstructure:"mimeType"`
	MediaDetails *struct {
		File     string `mapstructure:"file"`
		Filesize *int64 `mapstructure:"filesize"`
		Width    *int   `mapstructure:"width"`
		Height   *int   `mapstructure:"height"`
		Image    struct {
			Width  *int `mapstructure:"width"`
			Height *int `mapstructure:"height"`
		} `mapstructure:"image"`
	} `mapstructure:"mediaDetails"`
}

func (w *WpMediaItem) NodeType() string {
	return "WpMediaItem"
}

func (w *WpMediaItem) Extract(node domain.ContentNode) (domain.RemoteFileInput, string, error) {
	var fields wpFields
	if err := decodeFields(node, &fields); err != nil {
		return domain.RemoteFileInput{}, "", err
	}

	if fields.SourceURL == "" {
		return domain.RemoteFileInput{}, "", shapeError(node, "sourceUrl")
	}

	if fields.MimeType == "" {
		return domain.RemoteFileInput{}, "", shapeError(node, "mimeType")
	}

	if fields.MediaDetails == nil || fields.MediaDetails.File == "" {
		return domain.RemoteFileInput{}, "", shapeError(node, "mediaDetails.file")
	}

	// Older exports nest dimensions under mediaDetails.image.
	width, height := fields.MediaDetails.Width, fields.MediaDetails.Height
	if width == nil || height == nil {
		width, height = fields.MediaDetails.Image.Width, fields.MediaDetails.Image.Height
	}

	return domain.RemoteFileInput{
		URL:         fields.SourceURL,
		ContentType: fields.MimeType,
		Filename:    path.Base(fields.MediaDetails.File),
		Filesize:    fields.MediaDetails.Filesize,
		Width:       width,
		Height:      height,
	}, node.ContentDigest, nil
}
