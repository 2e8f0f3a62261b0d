package service

import (
	"fmt"
	"math"
	"remoteimages/internal/core/domain"
	"slices"
	"strings"
)

const (
	DefaultFixedWidth       = 800
	DefaultConstrainedWidth = 800
	PlaceholderWidth        = 20
)

var (
	DefaultBreakpoints          = []int{750, 1080, 1366, 1920}
	defaultFixedDensities       = []float64{1, 2}
	defaultConstrainedDensities = []float64{0.25, 0.5, 1, 2}
)

// imageSizes holds the display size of an image and the rendition widths to generate.
type imageSizes struct {
	width       int
	height      int
	aspectRatio float64
	widths      []int
}

func (s imageSizes) heightFor(width int) int {
	return int(math.Round(float64(width) / s.aspectRatio))
}

// sourceFormat maps a content type to the CDN's format name.
func sourceFormat(contentType string) string {
	format := strings.TrimPrefix(contentType, "image/")

	switch format {
	case "jpeg":
		return "jpg"
	case "svg+xml":
		return "svg"
	default:
		return format
	}
}

// resolveFormats replaces auto with the source format and drops duplicates.
func resolveFormats(formats []string, source string) []string {
	if len(formats) == 0 {
		return []string{source}
	}

	var resolved []string
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || f == domain.AutoFormat {
			f = source
		}
		if f == "jpeg" {
			f = "jpg"
		}
		if !slices.Contains(resolved, f) {
			resolved = append(resolved, f)
		}
	}

	return resolved
}

func calculateSizes(args domain.ImageArgs, source domain.SourceMetadata) (imageSizes, error) {
	aspectRatio := float64(source.Width) / float64(source.Height)
	switch {
	case args.AspectRatio > 0:
		aspectRatio = args.AspectRatio
	case args.Width > 0 && args.Height > 0:
		aspectRatio = float64(args.Width) / float64(args.Height)
	}

	sizes := imageSizes{aspectRatio: aspectRatio}

	switch args.Layout {
	case domain.Fixed:
		sizes.width = requestedWidth(args, aspectRatio, DefaultFixedWidth, source.Width)
		sizes.widths = densityWidths(sizes.width, densitiesOr(args, defaultFixedDensities), source.Width)
	case domain.Constrained:
		sizes.width = requestedWidth(args, aspectRatio, DefaultConstrainedWidth, source.Width)
		sizes.widths = densityWidths(sizes.width, densitiesOr(args, defaultConstrainedDensities), source.Width)
	case domain.FullWidth:
		sizes.widths = breakpointWidths(args.Breakpoints, source.Width)
		sizes.width = sizes.widths[len(sizes.widths)-1]
	default:
		return imageSizes{}, fmt.Errorf("%w: unknown layout %q", domain.ErrInvalidArgs, args.Layout)
	}

	sizes.height = sizes.heightFor(sizes.width)

	return sizes, nil
}

func requestedWidth(args domain.ImageArgs, aspectRatio float64, fallback, limit int) int {
	width := args.Width
	if width <= 0 && args.Height > 0 {
		width = int(math.Round(float64(args.Height) * aspectRatio))
	}
	if width <= 0 {
		width = fallback
	}

	return min(width, limit)
}

func densitiesOr(args domain.ImageArgs, fallback []float64) []float64 {
	if len(args.OutputPixelDensities) > 0 {
		return args.OutputPixelDensities
	}
	return fallback
}

func densityWidths(width int, densities []float64, limit int) []int {
	widths := []int{width}
	for _, d := range densities {
		w := int(math.Round(float64(width) * d))
		if w > 0 && w <= limit {
			widths = append(widths, w)
		}
	}

	return sortedUnique(widths)
}

func breakpointWidths(breakpoints []int, limit int) []int {
	if len(breakpoints) == 0 {
		breakpoints = DefaultBreakpoints
	}

	var widths []int
	for _, bp := range breakpoints {
		if bp > 0 && bp <= limit {
			widths = append(widths, bp)
		}
	}

	if limit < slices.Max(breakpoints) || len(widths) == 0 {
		widths = append(widths, limit)
	}

	return sortedUnique(widths)
}

func sortedUnique(widths []int) []int {
	slices.Sort(widths)
	return slices.Compact(widths)
}

func sizesAttribute(args domain.ImageArgs, width int) string {
	if args.Sizes != "" {
		return args.Sizes
	}

	switch args.Layout {
	case domain.Fixed:
		return fmt.Sprintf("%dpx", width)
	case domain.FullWidth:
		return "100vw"
	default:
		return fmt.Sprintf("(min-width: %dpx) %dpx, 100vw", width, width)
	}
}

func mimeType(format string) string {
	switch format {
	case "jpg", "pjpg":
		return "image/jpeg"
	case "svg":
		return "image/svg+xml"
	default:
		return "image/" + format
	}
}
