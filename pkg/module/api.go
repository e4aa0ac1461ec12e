package module

import "context"

// Output is the result of a command, or of Read where the file contents are Stdout.
type Output struct {
	Code   int
	Stdout []byte
	Stderr []byte
}

// StdoutString decodes stdout as text.
func (o Output) StdoutString() string { return string(o.Stdout) }

// StderrString decodes stderr as text.
func (o Output) StderrString() string { return string(o.Stderr) }

// EmptyOutput is what dry-run operations return.
func EmptyOutput() Output {
	return Output{Code: 0, Stdout: []byte{}, Stderr: []byte{}}
}

// Entry maps one source path to one or more destination paths.
type Entry struct {
	Source       string
	Destinations []string
}

// Entries are processed in order, and each entry's destinations in order.
type Entries []Entry

// To builds an Entry.
func To(source string, destinations ...string) Entry {
	return Entry{Source: source, Destinations: destinations}
}

// Content maps literal file text to one or more destination paths.
type Content struct {
	Text         string
	Destinations []string
}

// Contents are processed in order, and each content's destinations in order.
type Contents []Content

// Write builds a Content.
func Write(text string, destinations ...string) Content {
	return Content{Text: text, Destinations: destinations}
}

// ExecOptions tune a single Exec call.
type ExecOptions struct {
	// Stdin is written to the command's standard input, which is then closed.
	Stdin []byte
	// Dir overrides the working directory. Relative values resolve against the API path.
	Dir string
}

// ExecOption mutates ExecOptions.
type ExecOption func(*ExecOptions)

// WithStdin feeds input to the command.
func WithStdin(input []byte) ExecOption {
	return func(o *ExecOptions) { o.Stdin = input }
}

// WithDir runs the command in dir instead of the API path.
func WithDir(dir string) ExecOption {
	return func(o *ExecOptions) { o.Dir = dir }
}

// CloneOptions tune a Clone call.
type CloneOptions struct {
	Branch string
	Depth  int
}

// CloneOption mutates CloneOptions.
type CloneOption func(*CloneOptions)

// WithBranch checks out branch instead of the remote HEAD.
func WithBranch(branch string) CloneOption {
	return func(o *CloneOptions) { o.Branch = branch }
}

// WithDepth limits history to depth commits.
func WithDepth(depth int) CloneOption {
	return func(o *CloneOptions) { o.Depth = depth }
}

// API is the dry-run aware vocabulary handed to module actions and global hooks.
// Relative paths resolve against Path().
type API interface {
	Path() string

	Info(msg string)
	Warn(msg string)

	Exec(ctx context.Context, command string, opts ...ExecOption) (Output, error)
	MakeDir(ctx context.Context, dir string) error
	Install(ctx context.Context, entries Entries) error
	Link(ctx context.Context, entries Entries) error
	InstallContents(ctx context.Context, contents Contents) error
	Read(ctx context.Context, filename string) (Output, error)
	Clone(ctx context.Context, url, destination string, opts ...CloneOption) error
}
