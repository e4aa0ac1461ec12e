// Package config loads powar manifests and compiles them into module configurations.
package config

const (
	StepInstall  = "install"
	StepLink     = "link"
	StepContents = "contents"
	StepMkdir    = "mkdir"
	StepExec     = "exec"
	StepClone    = "clone"
	StepTemplate = "template"
)

// Manifest is the declarative form of a powar configuration.
type Manifest struct {
	Version  string   `yaml:"version" toml:"version" validate:"required"`
	Root     string   `yaml:"root,omitempty" toml:"root,omitempty"`
	Settings Settings `yaml:"settings,omitempty" toml:"settings,omitempty"`
	Pre      []Step   `yaml:"pre,omitempty" toml:"pre,omitempty" validate:"omitempty,dive"`
	Post     []Step   `yaml:"post,omitempty" toml:"post,omitempty" validate:"omitempty,dive"`
	Checks   []Check  `yaml:"checks,omitempty" toml:"checks,omitempty" validate:"omitempty,dive"`
	Modules  []Module `yaml:"modules" toml:"modules" validate:"required,min=1,dive"`
}

// Settings holds manifest level defaults merged with command line settings.
type Settings struct {
	DryRun bool `yaml:"dry_run,omitempty" toml:"dry_run,omitempty"`
}

// Module declares one named unit of work.
type Module struct {
	Name      string            `yaml:"name" toml:"name" validate:"required,module_name"`
	Path      string            `yaml:"path,omitempty" toml:"path,omitempty"`
	DependsOn []string          `yaml:"depends_on,omitempty" toml:"depends_on,omitempty"`
	Vars      map[string]string `yaml:"vars,omitempty" toml:"vars,omitempty"`
	Steps     []Step            `yaml:"steps,omitempty" toml:"steps,omitempty" validate:"omitempty,dive"`
}

// Step is one API call. Which fields apply depends on Type.
type Step struct {
	Type string `yaml:"type" toml:"type" validate:"required,oneof=install link contents mkdir exec clone template"`

	// install, link, template
	Source string `yaml:"source,omitempty" toml:"source,omitempty"`
	// install, link, contents, template
	Destinations []string `yaml:"destinations,omitempty" toml:"destinations,omitempty"`
	// contents
	Text string `yaml:"text,omitempty" toml:"text,omitempty"`
	// mkdir
	Dir string `yaml:"dir,omitempty" toml:"dir,omitempty"`
	// exec
	Command string `yaml:"command,omitempty" toml:"command,omitempty"`
	WorkDir string `yaml:"workdir,omitempty" toml:"workdir,omitempty"`
	Stdin   string `yaml:"stdin,omitempty" toml:"stdin,omitempty"`
	// clone
	URL         string `yaml:"url,omitempty" toml:"url,omitempty"`
	Destination string `yaml:"destination,omitempty" toml:"destination,omitempty"`
	Branch      string `yaml:"branch,omitempty" toml:"branch,omitempty"`
	Depth       int    `yaml:"depth,omitempty" toml:"depth,omitempty" validate:"min=0"`
}

// Check is a post-run assertion.
type Check struct {
	Type    string `yaml:"type" toml:"type" validate:"required,oneof=command_exists file_exists path_contains"`
	Command string `yaml:"command,omitempty" toml:"command,omitempty" validate:"required_if=Type command_exists"`
	Path    string `yaml:"path,omitempty" toml:"path,omitempty" validate:"required_if=Type file_exists"`
	File    string `yaml:"file,omitempty" toml:"file,omitempty" validate:"required_if=Type path_contains"`
	Text    string `yaml:"text,omitempty" toml:"text,omitempty" validate:"required_if=Type path_contains"`
}

// ModuleNames lists module names in declaration order.
func (m *Manifest) ModuleNames() []string {
	if m == nil {
		return nil
	}
	names := make([]string, len(m.Modules))
	for i, mod := range m.Modules {
		names[i] = mod.Name
	}
	return names
}
