package service

import (
	"context"
	"fmt"
	"net/url"
	"remoteimages/internal/core/domain"
	"remoteimages/internal/core/port"
	"strconv"

	"github.com/rs/zerolog/log"
)

const (
	LocalImagePath = "/_gatsby/image/"
	LocalFilePath  = "/_gatsby/file/"
)

// LocalImageURL returns the development proxy URL for a transformed rendition of rawURL.
func LocalImageURL(rawURL string, width, height int, format string) string {
	return fmt.Sprintf("%s%s?w=%d&h=%d&fm=%s", LocalImagePath, EncodeURL(rawURL), width, height, url.QueryEscape(format))
}

// LocalFileURL returns the development proxy URL for the unmodified resource.
func LocalFileURL(rawURL string) string {
	return LocalFilePath + EncodeURL(rawURL)
}

// TransformParams are the CDN parameters for one rendition.
func TransformParams(width, height int, format string) url.Values {
	params := url.Values{}
	params.Set("w", strconv.Itoa(width))
	params.Set("h", strconv.Itoa(height))
	params.Set("fm", format)

	return params
}

type ImageGenerator struct {
	builder     port.URLBuilder
	placeholder *PlaceholderFetcher
}

func NewImageGenerator(builder port.URLBuilder, placeholder *PlaceholderFetcher) *ImageGenerator {
	return &ImageGenerator{builder: builder, placeholder: placeholder}
}

// Generate builds the responsive image descriptor for file. Only a blurred placeholder touches the network.
func (g *ImageGenerator) Generate(ctx context.Context, file domain.RemoteFile, args domain.ImageArgs,
	strategy domain.Strategy) (domain.ImageDescriptor, error) {
	l := log.With().
		Str("id", file.ID).
		Str("url", file.URL).
		Str("strategy", strategy.String()).
		Logger()

	if !file.IsImage() {
		return domain.ImageDescriptor{}, fmt.Errorf("%w: %s is not an image with known dimensions",
			domain.ErrSourceShape, file.URL)
	}

	if args.Layout == "" {
		args.Layout = domain.Constrained
	}

	if args.Placeholder == "" {
		args.Placeholder = domain.NoPlaceholder
	}

	if args.Placeholder != domain.NoPlaceholder && args.Placeholder != domain.Blurred {
		return domain.ImageDescriptor{}, fmt.Errorf("%w: unknown placeholder %q", domain.ErrInvalidArgs, args.Placeholder)
	}

	metadata := domain.SourceMetadata{
		Width:  *file.Width,
		Height: *file.Height,
		Format: sourceFormat(file.ContentType),
	}

	sizes, err := calculateSizes(args, metadata)
	if err != nil {
		return domain.ImageDescriptor{}, err
	}

	formats := resolveFormats(args.Formats, metadata.Format)

	descriptor := domain.ImageDescriptor{
		Layout:          args.Layout,
		Width:           sizes.width,
		Height:          sizes.height,
		Sizes:           sizesAttribute(args, sizes.width),
		SourceMetadata:  metadata,
		BackgroundColor: args.BackgroundColor,
	}

	for _, format := range formats {
		for _, width := range sizes.widths {
			descriptor.Sources = append(descriptor.Sources,
				g.imageSource(strategy, file.URL, width, sizes.heightFor(width), format))
		}
	}

	if args.Placeholder == domain.Blurred {
		lowRes := g.imageSource(domain.External, file.URL, PlaceholderWidth, sizes.heightFor(PlaceholderWidth), formats[0])

		dataURL, err := g.placeholder.Fetch(ctx, lowRes.Src, lowRes.Format)
		if err != nil {
			return domain.ImageDescriptor{}, fmt.Errorf("error generating placeholder for %s: %w", file.URL, err)
		}

		descriptor.Placeholder = &domain.PlaceholderData{Fallback: dataURL}
	}

	l.Debug().Int("sources", len(descriptor.Sources)).Str("layout", string(args.Layout)).Msg("generated image data")

	return descriptor, nil
}

func (g *ImageGenerator) imageSource(strategy domain.Strategy, rawURL string, width, height int,
	format string) domain.ImageSource {
	var src string
	switch strategy {
	case domain.External:
		src = g.builder.Build(rawURL, TransformParams(width, height, format))
	default:
		src = LocalImageURL(rawURL, width, height, format)
	}

	return domain.ImageSource{Src: src, Width: width, Height: height, Format: format}
}
