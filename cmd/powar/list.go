package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/powar/internal/config"
	"github.com/alexisbeaulieu97/powar/internal/engine"
	"github.com/alexisbeaulieu97/powar/internal/ui"
)

func newListCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the modules of a manifest and whether the current flags select them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, root)
		},
	}
}

func runList(cmd *cobra.Command, root *rootFlags) error {
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

	selected := make(map[string]bool)
	for _, mod := range engine.SelectModules(cfg.Modules, settings.Modules) {
		selected[mod.Name] = true
	}

	rows := make([]ui.ModuleRow, len(cfg.Modules))
	for i, mod := range cfg.Modules {
		rows[i] = ui.ModuleRow{
			Name:      mod.Name,
			Path:      mod.Path,
			DependsOn: mod.DependsOn,
			Selected:  selected[mod.Name],
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.NewTheme(out).ModuleTable(rows))
	return nil
}
