// Package execute runs shell commands and captures their output.
package execute

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"

	powarerrors "github.com/alexisbeaulieu97/powar/pkg/errors"
	"github.com/alexisbeaulieu97/powar/pkg/module"
)

// DefaultShell is the POSIX shell every command runs under.
const DefaultShell = "/bin/sh"

// Options describe a single command invocation.
type Options struct {
	// Dir is the working directory. Empty means the current process directory.
	Dir string
	// Stdin, when non-nil, is written to the command and then closed.
	Stdin []byte
}

// Runner executes a command string.
type Runner interface {
	Run(ctx context.Context, command string, opts Options) (module.Output, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, command string, opts Options) (module.Output, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, command string, opts Options) (module.Output, error) {
	return f(ctx, command, opts)
}

// ShellRunner runs commands through `<Shell> -c`.
type ShellRunner struct {
	Shell string
	// Stdout and Stderr, when set, also receive the command's streams as they are produced.
	Stdout io.Writer
	Stderr io.Writer
}

var _ Runner = (*ShellRunner)(nil)

// Run spawns the shell and waits for it to exit.
//
// A non-zero exit yields an ExecutionError whose message is the captured stderr; the
// returned Output still carries whatever was captured.
func (r *ShellRunner) Run(ctx context.Context, command string, opts Options) (module.Output, error) {
	shell := r.Shell
	if shell == "" {
		shell = DefaultShell
	}

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd := exec.CommandContext(ctx, shell, "-c", command)
	cmd.Dir = opts.Dir
	cmd.Stdout = tee(r.Stdout, &stdoutBuf)
	cmd.Stderr = tee(r.Stderr, &stderrBuf)
	if opts.Stdin != nil {
		cmd.Stdin = bytes.NewReader(opts.Stdin)
	}

	err := cmd.Run()

	out := module.Output{
		Code:   0,
		Stdout: stdoutBuf.Bytes(),
		Stderr: stderrBuf.Bytes(),
	}
	if err == nil {
		return out, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.Code = exitErr.ExitCode()
		return out, powarerrors.NewExitError(command, out.Code, stderrBuf.String())
	}

	out.Code = -1
	return out, powarerrors.NewExecutionError(command, err)
}

// Run executes command with the default shell runner.
func Run(ctx context.Context, command string, opts Options) (module.Output, error) {
	return (&ShellRunner{}).Run(ctx, command, opts)
}

func tee(stream io.Writer, buf *bytes.Buffer) io.Writer {
	if stream == nil {
		return buf
	}
	return io.MultiWriter(stream, buf)
}
