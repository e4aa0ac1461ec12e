package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	powarerrors "github.com/alexisbeaulieu97/powar/pkg/errors"
)

func TestRenderTemplate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gitconfig.tmpl"),
		[]byte("[user]\n\tname = {{ .Vars.name }}\n# {{ .Module }} at {{ .Path }}\n"), 0o644))

	out, err := renderTemplate(dir, "gitconfig.tmpl", templateData{
		Module: "git",
		Path:   dir,
		Vars:   map[string]string{"name": "Ada"},
	})
	require.NoError(t, err)
	require.Equal(t, "[user]\n\tname = Ada\n# git at "+dir+"\n", out)
}

func TestRenderTemplate_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "missing-var.tmpl"), []byte("{{ .Vars.email }}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.tmpl"), []byte("{{ .Vars.name "), 0o644))

	cases := map[string]string{
		"missing-var.tmpl": "email",
		"broken.tmpl":      "invalid template syntax",
		"absent.tmpl":      "no such file",
	}
	for source, want := range cases {
		_, err := renderTemplate(dir, source, templateData{Vars: map[string]string{"name": "Ada"}})
		var execErr *powarerrors.ExecutionError
		require.ErrorAs(t, err, &execErr, source)
		require.Contains(t, err.Error(), want, source)
	}
}

func TestCompile_TemplateStepUsesModuleVars(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "git", "gitconfig.tmpl"), []byte("name = {{ .Vars.name }}"), 0o644))

	m := &Manifest{
		Version: "1.0",
		Modules: []Module{{
			Name:  "git",
			Vars:  map[string]string{"name": "Ada"},
			Steps: []Step{{Type: StepTemplate, Source: "gitconfig.tmpl", Destinations: []string{"~/.gitconfig"}}},
		}},
	}
	require.NoError(t, ValidateManifest(m))

	cfg, err := Compile(m, CompileOptions{BaseDir: root, HomeDir: "/home/ada"})
	require.NoError(t, err)

	rec := &recordingAPI{path: cfg.Modules[0].Path}
	require.NoError(t, cfg.Modules[0].Action(context.Background(), rec))
	require.Equal(t, []string{"contents [{name = Ada [/home/ada/.gitconfig]}]"}, rec.calls)
}
