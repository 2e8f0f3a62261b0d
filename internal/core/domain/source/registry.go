package source

import (
	"errors"
	"fmt"
	"remoteimages/internal/core/domain"
	"remoteimages/internal/core/port"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog/log"
)

type Registry struct {
	adapters map[string]port.SourceAdapter
}

// NewRegistry returns a registry holding the built-in adapters.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(NewContentfulAsset())
	r.Register(NewWpMediaItem())

	return r
}

func (r *Registry) Register(adapter port.SourceAdapter) {
	if r.adapters == nil {
		r.adapters = make(map[string]port.SourceAdapter)
	}

	log.Info().Str("nodeType", adapter.NodeType()).Msg("adding source adapter to registry")
	r.adapters[adapter.NodeType()] = adapter
}

func (r *Registry) Get(nodeType string) (port.SourceAdapter, error) {
	if r.adapters == nil {
		return nil, errors.New("can't fetch adapter, registry not initialized")
	}

	adapter, ok := r.adapters[nodeType]
	if !ok {
		return nil, errors.New("adapter not found")
	}

	return adapter, nil
}

func (r *Registry) ListTypes() []string {
	keys := make([]string, len(r.adapters))

	i := 0
	for k := range r.adapters {
		keys[i] = k
		i++
	}

	return keys
}

// decodeFields maps raw node fields onto a typed shape.
func decodeFields(node domain.ContentNode, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(node.Fields); err != nil {
		return fmt.Errorf("%w: node %s: %w", domain.ErrSourceShape, node.ID, err)
	}

	return nil
}

func shapeError(node domain.ContentNode, field string) error {
	return fmt.Errorf("%w: %s node %s is missing %s", domain.ErrSourceShape, node.Type, node.ID, field)
}
