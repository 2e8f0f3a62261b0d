package domain

import (
	"fmt"
	"strings"
)

// RemoteFile is the canonical node for one externally hosted asset.
type RemoteFile struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	ContentType   string `json:"contentType"`
	Filename      string `json:"filename"`
	Filesize      *int64 `json:"filesize,omitempty"`
	Width         *int   `json:"width,omitempty"`
	Height        *int   `json:"height,omitempty"`
	ContentDigest string `json:"contentDigest"`
}

// IsImage reports whether the file has an image content type and known dimensions.
func (f RemoteFile) IsImage() bool {
	return strings.HasPrefix(f.ContentType, "image/") &&
		f.Width != nil && *f.Width > 0 &&
		f.Height != nil && *f.Height > 0
}

// RemoteFileInput is what a source adapter hands to the registry.
type RemoteFileInput struct {
	URL         string
	ContentType string
	Filename    string
	Filesize    *int64
	Width       *int
	Height      *int
}

// ContentNode is a raw node emitted by a source plugin.
type ContentNode struct {
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	ContentDigest string         `json:"contentDigest"`
	Fields        map[string]any `json:"fields"`
}

type Layout string

const (
	Constrained Layout = "constrained"
	Fixed       Layout = "fixed"
	FullWidth   Layout = "fullWidth"
)

type Placeholder string

const (
	NoPlaceholder Placeholder = "none"
	Blurred       Placeholder = "blurred"
)

// AutoFormat resolves to the source format of the image.
const AutoFormat = "auto"

// ImageArgs are the arguments accepted by the gatsbyImageData field.
type ImageArgs struct {
	Layout               Layout      `mapstructure:"layout"`
	Width                int         `mapstructure:"width"`
	Height               int         `mapstructure:"height"`
	AspectRatio          float64     `mapstructure:"aspectRatio"`
	Formats              []string    `mapstructure:"formats"`
	Placeholder          Placeholder `mapstructure:"placeholder"`
	OutputPixelDensities []float64   `mapstructure:"outputPixelDensities"`
	Breakpoints          []int       `mapstructure:"breakpoints"`
	Sizes                string      `mapstructure:"sizes"`
	BackgroundColor      string      `mapstructure:"backgroundColor"`
}

// Strategy selects how candidate source URLs are built.
type Strategy int

const (
	// Local URLs point at the development proxy.
	Local Strategy = iota
	// External URLs are signed CDN transformation URLs.
	External
)

func (s Strategy) String() string {
	switch s {
	case Local:
		return "local"
	case External:
		return "external"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

type SourceMetadata struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

type ImageSource struct {
	Src    string `json:"src"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

type PlaceholderData struct {
	Fallback string `json:"fallback"`
}

// ImageDescriptor describes the responsive renditions of one remote image.
type ImageDescriptor struct {
	Layout          Layout           `json:"layout"`
	Width           int              `json:"width"`
	Height          int              `json:"height"`
	Sizes           string           `json:"sizes"`
	SourceMetadata  SourceMetadata   `json:"sourceMetadata"`
	Sources         []ImageSource    `json:"sources"`
	Placeholder     *PlaceholderData `json:"placeholder,omitempty"`
	BackgroundColor string           `json:"backgroundColor,omitempty"`
}

// SrcSet renders the srcset attribute value for one format.
func (d ImageDescriptor) SrcSet(format string) string {
	var parts []string
	for _, s := range d.Sources {
		if s.Format != format {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %dw", s.Src, s.Width))
	}

	return strings.Join(parts, ",\n")
}

// FieldDefinition describes a field of a schema type in the host's type language.
type FieldDefinition struct {
	Type string
	Args map[string]string
}

// TypeDefinition is a node type declared to the host schema.
type TypeDefinition struct {
	Name       string
	Fields     map[string]FieldDefinition
	Interfaces []string
	Infer      bool
}
