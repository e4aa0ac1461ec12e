package engine

import (
	"context"

	"github.com/alexisbeaulieu97/powar/internal/execute"
	"github.com/alexisbeaulieu97/powar/internal/logger"
	"github.com/alexisbeaulieu97/powar/pkg/module"
)

// ExecutionContext carries everything one run needs.
type ExecutionContext struct {
	Settings module.Settings
	Config   module.GlobalConfig
	// Logger is the depth-0 logger. When nil one is built from Settings.LogLevel on stderr.
	Logger *logger.Logger
	// Runner executes shell commands for every API instance. Defaults to /bin/sh.
	Runner  execute.Runner
	Context context.Context
}
