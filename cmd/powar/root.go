package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/powar/internal/logger"
	"github.com/alexisbeaulieu97/powar/pkg/module"
	"github.com/alexisbeaulieu97/powar/pkg/powar"
)

const defaultManifest = "powar.yaml"

type rootFlags struct {
	configPath string
	settings   *powar.SettingsFlags

	stderr io.Writer
	exit   func(code int)
}

func newRootCmd(opts powar.Options) *cobra.Command {
	flags := &rootFlags{stderr: opts.Stderr, exit: opts.Exit}
	if flags.stderr == nil {
		flags.stderr = os.Stderr
	}

	cmd := &cobra.Command{
		Use:           "powar",
		Short:         "powar applies dotfile modules declared in a manifest",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", defaultManifest, "Path to the manifest (.yaml, .yml or .toml)")
	flags.settings = powar.BindSettingsFlags(cmd.PersistentFlags())

	cmd.AddCommand(newApplyCmd(flags))
	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newListCmd(flags))
	cmd.AddCommand(newInitCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func (f *rootFlags) logger(level module.LogLevel) (*logger.Logger, error) {
	return logger.New(logger.Options{
		Level:         level,
		HumanReadable: true,
		Writer:        f.stderr,
		Exit:          f.exit,
	})
}
