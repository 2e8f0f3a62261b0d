package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"remoteimages/internal/core/domain"
	"remoteimages/internal/core/port"
	"remoteimages/internal/core/service"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

// imageData is one line of build output.
type imageData struct {
	ID        string                 `json:"id"`
	URL       string                 `json:"url"`
	ImageData domain.ImageDescriptor `json:"gatsbyImageData"`
}

// builder drives the plugin hooks the way the site generator would during one build.
type builder struct {
	plugin      *service.Plugin
	store       port.NodeStore
	concurrency int
	imageArgs   map[string]any
}

func (b *builder) run(ctx context.Context, nodesPath, outPath string) error {
	nodes, err := readNodes(nodesPath)
	if err != nil {
		return err
	}

	log.Info().Int("nodes", len(nodes)).Str("path", nodesPath).Msg("observing source nodes")

	if err := b.observe(ctx, nodes); err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	if outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("error creating output file %w", err)
		}
		defer f.Close()
		out = f
	}

	return b.writeImageData(ctx, out)
}

func readNodes(path string) ([]domain.ContentNode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening nodes file %w", err)
	}
	defer f.Close()

	var nodes []domain.ContentNode
	if err := json.NewDecoder(f).Decode(&nodes); err != nil {
		return nil, fmt.Errorf("error decoding nodes file %w", err)
	}

	return nodes, nil
}

func (b *builder) workers(ctx context.Context) *pool.ContextPool {
	return pool.New().WithMaxGoroutines(max(b.concurrency, 1)).WithContext(ctx).WithCancelOnError()
}

// observe runs the node observed hook for every node concurrently.
func (b *builder) observe(ctx context.Context, nodes []domain.ContentNode) error {
	p := b.workers(ctx)

	for _, node := range nodes {
		p.Go(func(ctx context.Context) error {
			return b.plugin.OnCreateNode(ctx, node)
		})
	}

	return p.Wait()
}

// writeImageData resolves gatsbyImageData for every image RemoteFile and writes one JSON line per file.
func (b *builder) writeImageData(ctx context.Context, out io.Writer) error {
	files, err := b.store.ListNodes(ctx)
	if err != nil {
		return err
	}

	resolve := b.plugin.Resolvers()[service.RemoteFileType]["gatsbyImageData"]
	results := make([]*imageData, len(files))

	p := b.workers(ctx)

	for i, f := range files {
		if !f.IsImage() {
			log.Debug().Str("url", f.URL).Str("contentType", f.ContentType).Msg("skipping non-image file")
			continue
		}

		p.Go(func(ctx context.Context) error {
			data, err := resolve(ctx, f, b.imageArgs)
			if err != nil {
				return err
			}

			results[i] = &imageData{ID: f.ID, URL: f.URL, ImageData: data.(domain.ImageDescriptor)}
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	for _, r := range results {
		if r == nil {
			continue
		}
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("error writing image data %w", err)
		}
	}

	log.Info().Int("files", len(files)).Msg("image data written")

	return nil
}
