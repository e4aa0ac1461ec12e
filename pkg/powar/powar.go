// Package powar is the entry point for configurations written in Go.
//
// A configuration is a main package that builds a module.GlobalConfig:
//
//	func main() {
//		powar.RunCLI(func(settings module.Settings) module.GlobalConfig {
//			return module.GlobalConfig{
//				RootPath: ".",
//				Modules:  []module.Module{zsh.Module(zsh.Vars{})},
//			}
//		})
//	}
package powar

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/powar/internal/engine"
	"github.com/alexisbeaulieu97/powar/internal/logger"
	powarerrors "github.com/alexisbeaulieu97/powar/pkg/errors"
	"github.com/alexisbeaulieu97/powar/pkg/module"
)

// BuildFunc produces the configuration for the parsed settings.
type BuildFunc func(settings module.Settings) module.GlobalConfig

// Options tune NewCommand. Zero values fall back to the process defaults.
type Options struct {
	Name string
	// Stderr receives log output. Defaults to os.Stderr.
	Stderr io.Writer
	// Exit ends the process on fatal errors. Defaults to os.Exit.
	Exit func(code int)
}

// RunCLI parses settings from os.Args, builds the configuration and runs it.
// Any failure prints an ERROR line and exits with status 1.
func RunCLI(build BuildFunc) {
	cmd := NewCommand(build, Options{})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		Fatal(Options{}, err)
	}
}

// Run executes cfg with settings, logging to stderr.
func Run(ctx context.Context, settings module.Settings, cfg module.GlobalConfig) error {
	return run(ctx, settings, cfg, Options{})
}

// NewCommand returns the root command RunCLI executes, for embedding or testing.
func NewCommand(build BuildFunc, opts Options) *cobra.Command {
	name := opts.Name
	if name == "" {
		name = "powar"
	}

	var flags *SettingsFlags
	cmd := &cobra.Command{
		Use:           name,
		Short:         "Apply the modules of this powar configuration",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := flags.Settings()
			if err != nil {
				return err
			}
			return run(cmd.Context(), settings, build(settings), opts)
		},
	}
	flags = BindSettingsFlags(cmd.Flags())

	return cmd
}

// Fatal prints err as an ERROR line and exits with status 1.
func Fatal(opts Options, err error) {
	log, _ := logger.New(logger.Options{Level: module.LogLevelInfo, HumanReadable: true, Writer: opts.Stderr, Exit: opts.Exit})
	log.Fatal(Message(err))
}

// Message renders err for an ERROR line, dropping the type prefix of field-less validation errors.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var validationErr *powarerrors.ValidationError
	if errors.As(err, &validationErr) && validationErr.Field == "" {
		return validationErr.Message
	}
	return err.Error()
}

func run(ctx context.Context, settings module.Settings, cfg module.GlobalConfig, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	writer := opts.Stderr
	if writer == nil {
		writer = os.Stderr
	}

	log, err := logger.New(logger.Options{
		Level:         settings.LogLevel,
		HumanReadable: true,
		Writer:        writer,
		Exit:          opts.Exit,
	})
	if err != nil {
		return powarerrors.NewValidationError(flagLogLevel, err.Error(), err)
	}

	_, err = engine.Run(&engine.ExecutionContext{
		Settings: settings,
		Config:   cfg,
		Logger:   log,
		Context:  ctx,
	})
	return err
}
