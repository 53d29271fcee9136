package pipeline

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/xlcache/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xlcache/internal/adapters/shell"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xlcache/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xlcache/internal/core/ports"
)

// NodeID is the unique identifier for the pipeline Graft node.
const NodeID graft.ID = "engine.pipeline"

func init() {
	graft.Register(graft.Node[*Pipeline]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Pipeline, error) {
			translator, err := graft.Dep[ports.Translator](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return New(translator, log, tracer), nil
		},
	})
}
