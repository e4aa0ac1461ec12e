package main

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
)

//go:embed template
var projectTemplate embed.FS

const (
	templateRoot   = "template"
	templateSuffix = ".tmpl"
)

// projectInfo fills the placeholders of the starter files ending in .tmpl.
type projectInfo struct {
	Name   string
	Author string
}

func newInitCmd(root *rootFlags) *cobra.Command {
	var (
		path string
		info projectInfo
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new powar project from the starter template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(root, path, info)
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "The directory to initialise the project in")
	cmd.Flags().StringVar(&info.Name, "name", "", "The name of the project (defaults to the directory name)")
	cmd.Flags().StringVar(&info.Author, "author", "", "The author of the project")
	cmd.MarkFlagRequired("path") //nolint:errcheck

	return cmd
}

func runInit(root *rootFlags, path string, info projectInfo) error {
	settings, err := root.settings.Settings()
	if err != nil {
		return err
	}
	log, err := root.logger(settings.LogLevel)
	if err != nil {
		return err
	}

	if info.Name == "" {
		info.Name = filepath.Base(filepath.Clean(path))
	}
	if strings.ContainsAny(info.Name+info.Author, "\r\n") {
		return fmt.Errorf("--name and --author must fit on one line")
	}

	manifest := filepath.Join(path, defaultManifest)
	if _, err := os.Stat(manifest); err == nil {
		return fmt.Errorf("%s already exists", manifest)
	}

	if err := writeTemplate(path, info, settings.DryRun, log.Info); err != nil {
		return err
	}

	log.Info(fmt.Sprintf("Created a new powar project in %s! To get started, run `cd %s; powar apply`.", path, path))
	return nil
}

// writeTemplate copies the embedded starter project into dir, rendering .tmpl files with info.
func writeTemplate(dir string, info projectInfo, dryRun bool, logInfo func(string)) error {
	return fs.WalkDir(projectTemplate, templateRoot, func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(templateRoot, filepath.FromSlash(name))
		if err != nil {
			return err
		}
		target := filepath.Join(dir, strings.TrimSuffix(rel, templateSuffix))

		if dryRun {
			if !entry.IsDir() {
				logInfo(fmt.Sprintf("[DRY RUN] create %s", target))
			}
			return nil
		}

		if entry.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		data, err := projectTemplate.ReadFile(name)
		if err != nil {
			return err
		}
		if strings.HasSuffix(name, templateSuffix) {
			if data, err = renderProjectFile(name, data, info); err != nil {
				return err
			}
		}
		return os.WriteFile(target, data, 0o644)
	})
}

func renderProjectFile(name string, data []byte, info projectInfo) ([]byte, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, info); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
