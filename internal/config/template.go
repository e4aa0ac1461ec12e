package config

import (
	"bytes"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"text/template"

	powarerrors "github.com/alexisbeaulieu97/powar/pkg/errors"
)

// templateData is what a template step's source can reference.
type templateData struct {
	Module string
	Path   string
	Home   string
	Vars   map[string]string
}

// renderTemplate executes the text/template at source, relative to base, against data.
// Referencing an undefined var is an error.
func renderTemplate(base, source string, data templateData) (string, error) {
	path := source
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	operation := "render " + source

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", powarerrors.NewExecutionError(operation, err)
	}

	tmpl, err := template.New(filepath.Base(source)).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return "", powarerrors.NewExecutionError(operation, fmt.Errorf("invalid template syntax: %w", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", powarerrors.NewExecutionError(operation, err)
	}
	return buf.String(), nil
}

func copyVars(vars map[string]string) map[string]string {
	out := make(map[string]string, len(vars))
	maps.Copy(out, vars)
	return out
}
