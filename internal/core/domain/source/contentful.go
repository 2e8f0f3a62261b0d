package source

import (
	"remoteimages/internal/core/domain"
	"strings"
)

// ContentfulAsset adapts assets from the Contentful CMS.
type ContentfulAsset struct{}

func NewContentfulAsset() *ContentfulAsset {
	return &ContentfulAsset{}
}

type contentfulFields struct {
	File *struct {
		URL         string `mapstructure:"url"`
		ContentType string `mapstructure:"contentType"`
		FileName    string `mapstructure:"fileName"`
		Details     struct {
			Size  *int64 `mapstructure:"size"`
			Image struct {
				Width  *int `mapstructure:"width"`
				Height *int `mapstructure:"height"`
			} `mapstructure:"image"`
		} `mapstructure:"details"`
	} `mapstructure:"file"`
}

func (c *ContentfulAsset) NodeType() string {
	return "ContentfulAsset"
}

func (c *ContentfulAsset) Extract(node domain.ContentNode) (domain.RemoteFileInput, string, error) {
	var fields contentfulFields
	if err := decodeFields(node, &fields); err != nil {
		return domain.RemoteFileInput{}, "", err
	}

	if fields.File == nil {
		return domain.RemoteFileInput{}, "", shapeError(node, "file")
	}

	if fields.File.URL == "" {
		return domain.RemoteFileInput{}, "", shapeError(node, "file.url")
	}

	if fields.File.ContentType == "" {
		return domain.RemoteFileInput{}, "", shapeError(node, "file.contentType")
	}

	// Contentful serves protocol-relative asset URLs.
	url := fields.File.URL
	if strings.HasPrefix(url, "//") {
		url = "https:" + url
	}

	return domain.RemoteFileInput{
		URL:         url,
		ContentType: fields.File.ContentType,
		Filename:    fields.File.FileName,
		Filesize:    fields.File.Details.Size,
		Width:       fields.File.Details.Image.Width,
		Height:      fields.File.Details.Image.Height,
	}, node.ContentDigest, nil
}
