package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/powar/internal/config"
	"github.com/alexisbeaulieu97/powar/internal/engine"
)

func newValidateCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a manifest and its module dependencies without running anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, root)
		},
	}
}

func runValidate(cmd *cobra.Command, root *rootFlags) error {
	if err := validateConfigPath(root.configPath); err != nil {
		return err
	}

	settings, err := root.settings.Settings()
	if err != nil {
		return err
	}

	_, cfg, err := config.Load(root.configPath)
	if err != nil {
		return err
	}

	selected := engine.SelectModules(cfg.Modules, settings.Modules)
	if err := engine.Validate(cfg.Modules, selected); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d module(s), %d selected\n", root.configPath, len(cfg.Modules), len(selected))
	return nil
}
