// Package api implements the file and shell vocabulary handed to module actions.
package api

import (
	"context"
	"fmt"
	"path/filepath"

	"mvdan.cc/sh/v3/syntax"

	"github.com/alexisbeaulieu97/powar/internal/execute"
	"github.com/alexisbeaulieu97/powar/internal/logger"
	"github.com/alexisbeaulieu97/powar/pkg/module"
)

const (
	runPrefix    = "[RUN]"
	dryRunPrefix = "[DRY RUN]"
)

// Options bind an API instance to one scope.
type Options struct {
	Logger   *logger.Logger
	Path     string
	Settings module.Settings
	// Runner executes Exec commands. Defaults to a /bin/sh runner.
	Runner execute.Runner
}

// API is the module.API implementation. Build one per module and one for the root hooks.
type API struct {
	log      *logger.Logger
	path     string
	settings module.Settings
	runner   execute.Runner
}

var _ module.API = (*API)(nil)

// New returns an API bound to opts.Path, opts.Settings and opts.Logger.
func New(opts Options) *API {
	runner := opts.Runner
	if runner == nil {
		runner = &execute.ShellRunner{}
	}
	return &API{
		log:      opts.Logger,
		path:     opts.Path,
		settings: opts.Settings,
		runner:   runner,
	}
}

// Path returns the directory relative paths resolve against.
func (a *API) Path() string { return a.path }

// Info logs at info level at this instance's depth.
func (a *API) Info(msg string) { a.log.Info(msg) }

// Warn logs at warn level at this instance's depth.
func (a *API) Warn(msg string) { a.log.Warn(msg) }

// Exec runs command through the shell, or only logs it in dry-run mode.
func (a *API) Exec(ctx context.Context, command string, opts ...module.ExecOption) (module.Output, error) {
	if a.settings.DryRun {
		a.log.Info(fmt.Sprintf("%s %s", dryRunPrefix, command))
		return module.EmptyOutput(), nil
	}
	a.log.Info(fmt.Sprintf("%s %s", runPrefix, command))

	var execOpts module.ExecOptions
	for _, opt := range opts {
		opt(&execOpts)
	}

	dir := a.path
	if execOpts.Dir != "" {
		dir = a.resolve(execOpts.Dir)
	}

	return a.runner.Run(ctx, command, execute.Options{Dir: dir, Stdin: execOpts.Stdin})
}

// announce logs the shell equivalent of a file operation and reports whether to perform it.
func (a *API) announce(command string) bool {
	if a.settings.DryRun {
		a.log.Info(fmt.Sprintf("%s %s", dryRunPrefix, command))
		return false
	}
	a.log.Info(fmt.Sprintf("%s %s", runPrefix, command))
	return true
}

func (a *API) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(a.path, path)
}

// quote renders path the way a POSIX shell would need it, for log lines only.
func quote(path string) string {
	quoted, err := syntax.Quote(path, syntax.LangPOSIX)
	if err != nil {
		return fmt.Sprintf("%q", path)
	}
	return quoted
}
