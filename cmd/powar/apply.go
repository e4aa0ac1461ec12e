package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/powar/internal/config"
	"github.com/alexisbeaulieu97/powar/internal/engine"
	"github.com/alexisbeaulieu97/powar/internal/ui"
	"github.com/alexisbeaulieu97/powar/pkg/module"
)

func newApplyCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Run the selected modules of a manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, root)
		},
	}
}

func runApply(cmd *cobra.Command, root *rootFlags) error {
	if err := validateConfigPath(root.configPath); err != nil {
		return err
	}

	settings, err := root.settings.Settings()
	if err != nil {
		return err
	}

	manifest, cfg, err := config.Load(root.configPath)
	if err != nil {
		return err
	}
	settings.DryRun = settings.DryRun || manifest.Settings.DryRun

	log, err := root.logger(settings.LogLevel)
	if err != nil {
		return err
	}

	report, err := engine.Run(&engine.ExecutionContext{
		Settings: settings,
		Config:   cfg,
		Logger:   log,
		Context:  cmd.Context(),
	})
	if report != nil && settings.LogLevel != module.LogLevelNone {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.NewTheme(out).Report(report))
	}
	return err
}
