package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexisbeaulieu97/powar/internal/validation"
	powarerrors "github.com/alexisbeaulieu97/powar/pkg/errors"
	"github.com/alexisbeaulieu97/powar/pkg/module"
)

// CompileOptions control how manifest paths are anchored.
type CompileOptions struct {
	// BaseDir anchors a relative root, usually the manifest's directory.
	BaseDir string
	// HomeDir replaces a leading ~. Defaults to the current user's home directory.
	HomeDir string
}

// Load parses the manifest at path and compiles it relative to the manifest's directory.
func Load(path string) (*Manifest, module.GlobalConfig, error) {
	manifest, err := ParseManifest(path)
	if err != nil {
		return nil, module.GlobalConfig{}, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, module.GlobalConfig{}, powarerrors.NewParseError(path, 0, err)
	}

	cfg, err := Compile(manifest, CompileOptions{BaseDir: filepath.Dir(abs)})
	if err != nil {
		return nil, module.GlobalConfig{}, err
	}
	return manifest, cfg, nil
}

// Compile turns a validated manifest into the configuration the engine runs.
func Compile(m *Manifest, opts CompileOptions) (module.GlobalConfig, error) {
	if m == nil {
		return module.GlobalConfig{}, powarerrors.NewValidationError("manifest", "manifest is nil", nil)
	}

	home := opts.HomeDir
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return module.GlobalConfig{}, powarerrors.NewValidationError("home", "cannot determine home directory", err)
		}
	}
	c := compiler{home: home}

	root := c.expand(m.Root)
	if root == "" {
		root = "."
	}
	if !filepath.IsAbs(root) {
		root = filepath.Join(opts.BaseDir, root)
	}
	root = filepath.Clean(root)

	cfg := module.GlobalConfig{RootPath: root}

	global := templateData{Path: root, Home: home}
	if len(m.Pre) > 0 {
		cfg.PreAction = c.stepsAction(m.Pre, global)
	}

	checks := make([]validation.Check, len(m.Checks))
	for i, check := range m.Checks {
		checks[i] = validation.Check{
			Type:    check.Type,
			Command: check.Command,
			Path:    c.anchor(root, check.Path),
			File:    c.anchor(root, check.File),
			Text:    check.Text,
		}
	}
	if len(m.Post) > 0 || len(checks) > 0 {
		cfg.PostAction = c.postAction(m.Post, checks, global)
	}

	cfg.Modules = make([]module.Module, len(m.Modules))
	for i, mod := range m.Modules {
		path := c.expand(mod.Path)
		if path == "" {
			path = mod.Name
		}
		path = c.anchor(root, path)
		data := templateData{Module: mod.Name, Path: path, Home: home, Vars: copyVars(mod.Vars)}
		cfg.Modules[i] = module.Module{
			Name:      mod.Name,
			Path:      path,
			DependsOn: append([]string(nil), mod.DependsOn...),
			Action:    c.stepsAction(mod.Steps, data),
		}
	}

	return cfg, nil
}

type compiler struct {
	home string
}

// expand replaces a leading ~ with the home directory.
func (c compiler) expand(path string) string {
	switch {
	case path == "~":
		return c.home
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(c.home, path[2:])
	default:
		return path
	}
}

// anchor expands path and joins it onto base when relative. Empty stays empty.
func (c compiler) anchor(base, path string) string {
	if path == "" {
		return ""
	}
	path = c.expand(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

func (c compiler) expandAll(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = c.expand(p)
	}
	return out
}

func (c compiler) stepsAction(steps []Step, data templateData) module.Action {
	steps = append([]Step(nil), steps...)
	return func(ctx context.Context, api module.API) error {
		return c.runSteps(ctx, api, steps, data)
	}
}

func (c compiler) postAction(steps []Step, checks []validation.Check, data templateData) module.Action {
	steps = append([]Step(nil), steps...)
	return func(ctx context.Context, api module.API) error {
		if err := c.runSteps(ctx, api, steps, data); err != nil {
			return err
		}

		results, err := validation.RunChecks(ctx, checks)
		for _, res := range results {
			if res.Passed {
				api.Info(fmt.Sprintf("check passed: %s (%s)", res.Check, res.Message))
			} else {
				api.Warn("check failed: " + res.Message)
			}
		}
		return err
	}
}

func (c compiler) runSteps(ctx context.Context, api module.API, steps []Step, data templateData) error {
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.runStep(ctx, api, step, data); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Type, err)
		}
	}
	return nil
}

func (c compiler) runStep(ctx context.Context, api module.API, step Step, data templateData) error {
	switch step.Type {
	case StepInstall:
		return api.Install(ctx, module.Entries{module.To(c.expand(step.Source), c.expandAll(step.Destinations)...)})
	case StepLink:
		return api.Link(ctx, module.Entries{module.To(c.expand(step.Source), c.expandAll(step.Destinations)...)})
	case StepContents:
		return api.InstallContents(ctx, module.Contents{module.Write(step.Text, c.expandAll(step.Destinations)...)})
	case StepMkdir:
		return api.MakeDir(ctx, c.expand(step.Dir))
	case StepExec:
		var opts []module.ExecOption
		if step.WorkDir != "" {
			opts = append(opts, module.WithDir(c.expand(step.WorkDir)))
		}
		if step.Stdin != "" {
			opts = append(opts, module.WithStdin([]byte(step.Stdin)))
		}
		_, err := api.Exec(ctx, step.Command, opts...)
		return err
	case StepClone:
		var opts []module.CloneOption
		if step.Branch != "" {
			opts = append(opts, module.WithBranch(step.Branch))
		}
		if step.Depth > 0 {
			opts = append(opts, module.WithDepth(step.Depth))
		}
		return api.Clone(ctx, step.URL, c.expand(step.Destination), opts...)
	case StepTemplate:
		text, err := renderTemplate(api.Path(), c.expand(step.Source), data)
		if err != nil {
			return err
		}
		return api.InstallContents(ctx, module.Contents{module.Write(text, c.expandAll(step.Destinations)...)})
	default:
		return powarerrors.NewValidationError("type", fmt.Sprintf("unknown step type %q", step.Type), nil)
	}
}
