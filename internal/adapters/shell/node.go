package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/xlcache/internal/adapters/logger"
	"go.trai.ch/xlcache/internal/core/ports"
)

// NodeID is the unique identifier for the translator Graft node.
const NodeID graft.ID = "adapter.translator"

func init() {
	graft.Register(graft.Node[ports.Translator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Translator, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewTranslator(log), nil
		},
	})
}
