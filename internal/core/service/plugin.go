package service

import (
	"context"
	"errors"
	"fmt"
	"remoteimages/internal/core/domain"
	"remoteimages/internal/core/port"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog/log"
)

const RemoteFileType = "RemoteFile"

// FieldResolver resolves one schema field for a source value.
type FieldResolver func(ctx context.Context, source any, args map[string]any) (any, error)

// Plugin wires the remote file components into the host pipeline hooks.
type Plugin struct {
	sources   port.SourceRegistry
	registry  *RemoteFileRegistry
	build     *BuildContext
	generator *ImageGenerator
	store     port.NodeStore
}

func NewPlugin(sources port.SourceRegistry,
	registry *RemoteFileRegistry,
	build *BuildContext,
	generator *ImageGenerator,
	store port.NodeStore) *Plugin {
	return &Plugin{
		sources:   sources,
		registry:  registry,
		build:     build,
		generator: generator,
		store:     store,
	}
}

// OnCreateNode registers a RemoteFile for every content node with a matching source adapter.
// Nodes with an unexpected shape are skipped; registry failures are returned.
func (p *Plugin) OnCreateNode(ctx context.Context, node domain.ContentNode) error {
	adapter, err := p.sources.Get(node.Type)
	if err != nil {
		return nil
	}

	l := log.With().
		Str("nodeId", node.ID).
		Str("nodeType", node.Type).
		Logger()

	if p.build.Unchanged(node.ID, node.ContentDigest) {
		l.Debug().Msg("origin unchanged, skipping registration")
		return nil
	}

	input, cacheKey, err := adapter.Extract(node)
	if err != nil {
		l.Warn().Err(err).Msg("skipping source node")
		return nil
	}

	id, err := p.registry.Register(ctx, input, cacheKey)
	if err != nil {
		if errors.Is(err, domain.ErrSourceShape) {
			l.Warn().Err(err).Msg("skipping source node")
			return nil
		}
		return err
	}

	p.build.Set(node.ID, id, cacheKey)

	l.Debug().Str("remoteFileId", id).Msg("mapped source node")

	return nil
}

var imageDataArgs = map[string]string{
	"layout":               "GatsbyImageLayout",
	"width":                "Int",
	"height":               "Int",
	"aspectRatio":          "Float",
	"formats":              "[GatsbyImageFormat]",
	"placeholder":          "GatsbyImagePlaceholder",
	"outputPixelDensities": "[Float]",
	"breakpoints":          "[Int]",
	"sizes":                "String",
	"backgroundColor":      "String",
}

// SchemaTypes declares the RemoteFile node type.
func (p *Plugin) SchemaTypes() []domain.TypeDefinition {
	return []domain.TypeDefinition{
		{
			Name: RemoteFileType,
			Fields: map[string]domain.FieldDefinition{
				"url":             {Type: "String!"},
				"filename":        {Type: "String!"},
				"contentType":     {Type: "String!"},
				"filesize":        {Type: "Int"},
				"width":           {Type: "Int"},
				"height":          {Type: "Int"},
				"gatsbyImageData": {Type: "JSON", Args: imageDataArgs},
			},
			Interfaces: []string{"Node"},
			Infer:      false,
		},
	}
}

// Resolvers returns the image data resolvers keyed by type and field name.
func (p *Plugin) Resolvers() map[string]map[string]FieldResolver {
	return map[string]map[string]FieldResolver{
		RemoteFileType: {
			"gatsbyImageData": p.resolveRemoteFile,
		},
		"ContentfulAsset": {
			"gatsbyImageData": p.resolveContentfulAsset,
		},
	}
}

func (p *Plugin) resolveRemoteFile(ctx context.Context, source any, args map[string]any) (any, error) {
	file, ok := source.(domain.RemoteFile)
	if !ok {
		return nil, fmt.Errorf("%w: expected %s source, got %T", domain.ErrSourceShape, RemoteFileType, source)
	}

	imageArgs, err := DecodeImageArgs(args)
	if err != nil {
		return nil, err
	}

	return p.generator.Generate(ctx, file, imageArgs, domain.Local)
}

func (p *Plugin) resolveContentfulAsset(ctx context.Context, source any, args map[string]any) (any, error) {
	node, ok := source.(domain.ContentNode)
	if !ok {
		return nil, fmt.Errorf("%w: expected content node source, got %T", domain.ErrSourceShape, source)
	}

	file, err := p.RemoteFileFor(ctx, node.ID)
	if err != nil {
		return nil, err
	}

	imageArgs, err := DecodeImageArgs(args)
	if err != nil {
		return nil, err
	}

	return p.generator.Generate(ctx, file, imageArgs, domain.External)
}

// RemoteFileFor returns the RemoteFile registered for an origin node during this build.
func (p *Plugin) RemoteFileFor(ctx context.Context, originID string) (domain.RemoteFile, error) {
	id, ok := p.build.Lookup(originID)
	if !ok {
		return domain.RemoteFile{}, fmt.Errorf("%w: no remote file mapped for %s", domain.ErrNodeNotFound, originID)
	}

	return p.store.GetNode(ctx, id)
}

// DecodeImageArgs converts raw field arguments into ImageArgs.
func DecodeImageArgs(args map[string]any) (domain.ImageArgs, error) {
	var imageArgs domain.ImageArgs

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &imageArgs,
	})
	if err != nil {
		return domain.ImageArgs{}, err
	}

	if err := decoder.Decode(args); err != nil {
		return domain.ImageArgs{}, fmt.Errorf("%w: %w", domain.ErrInvalidArgs, err)
	}

	return imageArgs, nil
}
