// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/xlcache/internal/adapters/config"
	_ "go.trai.ch/xlcache/internal/adapters/logger"
	_ "go.trai.ch/xlcache/internal/adapters/shell"
	_ "go.trai.ch/xlcache/internal/adapters/storage"
	_ "go.trai.ch/xlcache/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/xlcache/internal/app"
	_ "go.trai.ch/xlcache/internal/engine/pipeline"
)
