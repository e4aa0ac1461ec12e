package api

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/powar/internal/execute"
	"github.com/alexisbeaulieu97/powar/internal/logger"
	powarerrors "github.com/alexisbeaulieu97/powar/pkg/errors"
	"github.com/alexisbeaulieu97/powar/pkg/module"
)

type recordedCall struct {
	Command string
	Opts    execute.Options
}

type fakeRunner struct {
	mu     sync.Mutex
	calls  []recordedCall
	output module.Output
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, command string, opts execute.Options) (module.Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedCall{Command: command, Opts: opts})
	return f.output, f.err
}

func (f *fakeRunner) recorded() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedCall(nil), f.calls...)
}

func newTestAPI(t *testing.T, path string, dryRun bool, runner execute.Runner) (*API, *bytes.Buffer) {
	t.Helper()

	buf := &bytes.Buffer{}
	log, err := logger.New(logger.Options{Level: module.LogLevelInfo, HumanReadable: true, Writer: buf})
	require.NoError(t, err)

	settings := module.DefaultSettings()
	settings.DryRun = dryRun

	return New(Options{Logger: log, Path: path, Settings: settings, Runner: runner}), buf
}

func TestExec_DryRunNeverInvokesRunner(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{output: module.Output{Code: 7, Stdout: []byte("nope")}}
	a, buf := newTestAPI(t, t.TempDir(), true, runner)

	out, err := a.Exec(context.Background(), "rm -rf ~/.config")
	require.NoError(t, err)
	require.Equal(t, module.EmptyOutput(), out)
	require.Empty(t, runner.recorded())
	require.Equal(t, "[DRY RUN] rm -rf ~/.config\n", buf.String())
}

func TestExec_DefaultsToBoundPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	runner := &fakeRunner{output: module.Output{Code: 0, Stdout: []byte("ok")}}
	a, buf := newTestAPI(t, dir, false, runner)

	out, err := a.Exec(context.Background(), "echo ok", module.WithStdin([]byte("input")))
	require.NoError(t, err)
	require.Equal(t, "ok", out.StdoutString())
	require.Equal(t, "[RUN] echo ok\n", buf.String())

	calls := runner.recorded()
	require.Len(t, calls, 1)
	require.Equal(t, "echo ok", calls[0].Command)
	require.Equal(t, dir, calls[0].Opts.Dir)
	require.Equal(t, []byte("input"), calls[0].Opts.Stdin)
}

func TestExec_DirOverrideResolvesAgainstBoundPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	runner := &fakeRunner{}
	a, _ := newTestAPI(t, dir, false, runner)

	_, err := a.Exec(context.Background(), "make", module.WithDir("build"))
	require.NoError(t, err)
	_, err = a.Exec(context.Background(), "make", module.WithDir("/opt/src"))
	require.NoError(t, err)

	calls := runner.recorded()
	require.Equal(t, filepath.Join(dir, "build"), calls[0].Opts.Dir)
	require.Equal(t, "/opt/src", calls[1].Opts.Dir)
}

func TestExec_PropagatesCommandFailure(t *testing.T) {
	t.Parallel()

	a, _ := newTestAPI(t, t.TempDir(), false, &execute.ShellRunner{})

	_, err := a.Exec(context.Background(), "echo 'permission denied' >&2; exit 1")
	require.Error(t, err)

	var execErr *powarerrors.ExecutionError
	require.ErrorAs(t, err, &execErr)
	require.Equal(t, "permission denied\n", err.Error())
}

func TestMakeDir_IsIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a, _ := newTestAPI(t, dir, false, nil)

	require.NoError(t, a.MakeDir(context.Background(), "test-dest/4/5"))
	require.NoError(t, a.MakeDir(context.Background(), "test-dest/4/5"))
	require.DirExists(t, filepath.Join(dir, "test-dest", "4", "5"))
}

func TestInstall_FansOutToEveryDestination(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o640))
	a, _ := newTestAPI(t, dir, false, nil)

	err := a.Install(context.Background(), module.Entries{module.To("a.txt", "b/c.txt", "d/deep/e.txt")})
	require.NoError(t, err)

	for _, dest := range []string{"b/c.txt", "d/deep/e.txt"} {
		data, err := os.ReadFile(filepath.Join(dir, dest))
		require.NoError(t, err)
		require.Equal(t, "alpha", string(data))

		info, err := os.Stat(filepath.Join(dir, dest))
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	}
}

func TestInstall_OverwritesDestination(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("old content that is longer"), 0o644))
	a, _ := newTestAPI(t, dir, false, nil)

	require.NoError(t, a.Install(context.Background(), module.Entries{module.To("a.txt", "b.txt")}))

	data, err := os.ReadFile(filepath.Join(dir, "b.txt"))
	require.NoError(t, err)
	require.Equal(t, "new", string(data))
}

func TestInstall_RefusesToCopyFileOntoItself(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("precious"), 0o644))
	a, _ := newTestAPI(t, dir, false, nil)

	err := a.Install(context.Background(), module.Entries{module.To("a.txt", "./a.txt")})
	var execErr *powarerrors.ExecutionError
	require.ErrorAs(t, err, &execErr)
	require.ErrorContains(t, err, "are the same file")

	data, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	require.Equal(t, "precious", string(data))
}

func TestInstall_RefusesToCopyThroughLinkBackToSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zshrc"), []byte("precious"), 0o644))
	a, _ := newTestAPI(t, dir, false, nil)

	require.NoError(t, a.Link(context.Background(), module.Entries{module.To("zshrc", "home/.zshrc")}))

	err := a.Install(context.Background(), module.Entries{module.To("zshrc", "home/.zshrc")})
	require.ErrorContains(t, err, "are the same file")

	data, err := os.ReadFile(filepath.Join(dir, "zshrc"))
	require.NoError(t, err)
	require.Equal(t, "precious", string(data))
}

func TestInstall_ReplacesLinkToAnotherFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old"), []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new"), []byte("new"), 0o644))
	require.NoError(t, os.Symlink(filepath.Join(dir, "old"), filepath.Join(dir, "dest")))
	a, _ := newTestAPI(t, dir, false, nil)

	require.NoError(t, a.Install(context.Background(), module.Entries{module.To("new", "dest")}))

	data, err := os.ReadFile(filepath.Join(dir, "dest"))
	require.NoError(t, err)
	require.Equal(t, "new", string(data))

	data, err = os.ReadFile(filepath.Join(dir, "old"))
	require.NoError(t, err)
	require.Equal(t, "old", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3, "no staging file may be left behind")
}

func TestInstall_MissingSourceFails(t *testing.T) {
	t.Parallel()

	a, _ := newTestAPI(t, t.TempDir(), false, nil)

	err := a.Install(context.Background(), module.Entries{module.To("missing.txt", "out.txt")})
	var execErr *powarerrors.ExecutionError
	require.ErrorAs(t, err, &execErr)
	require.Contains(t, execErr.Command, "cp")
}

func TestInstall_DryRunLeavesFilesystemUntouched(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o644))
	a, buf := newTestAPI(t, dir, true, nil)

	require.NoError(t, a.Install(context.Background(), module.Entries{module.To("a.txt", "b/c.txt")}))

	require.NoDirExists(t, filepath.Join(dir, "b"))
	require.Contains(t, buf.String(), "[DRY RUN] mkdir -p b\n")
	require.Contains(t, buf.String(), "[DRY RUN] cp a.txt b/c.txt\n")
}

func TestLink_UsesCanonicalAbsoluteSource(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	moduleDir := filepath.Join(root, "modules", "zsh")
	require.NoError(t, os.MkdirAll(moduleDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(moduleDir, "zshrc"), []byte("export A=1"), 0o644))

	// A symlinked alias of the module directory must not leak into the link target.
	alias := filepath.Join(root, "alias")
	require.NoError(t, os.Symlink(moduleDir, alias))

	a, _ := newTestAPI(t, alias, false, nil)
	dest := filepath.Join(root, "home", ".zshrc")

	require.NoError(t, a.Link(context.Background(), module.Entries{module.To("zshrc", dest)}))

	target, err := os.Readlink(dest)
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(target))

	want, err := filepath.EvalSymlinks(filepath.Join(moduleDir, "zshrc"))
	require.NoError(t, err)
	require.Equal(t, want, target)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "export A=1", string(data))
}

func TestLink_ReplacesExistingFileAndLink(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one"), []byte("1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "two"), []byte("2"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dest"), []byte("plain file"), 0o644))
	a, _ := newTestAPI(t, dir, false, nil)

	require.NoError(t, a.Link(context.Background(), module.Entries{module.To("one", "dest")}))
	require.NoError(t, a.Link(context.Background(), module.Entries{module.To("two", "dest")}))

	data, err := os.ReadFile(filepath.Join(dir, "dest"))
	require.NoError(t, err)
	require.Equal(t, "2", string(data))
}

func TestLink_RefusesToReplaceItsOwnSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("precious"), 0o644))
	a, _ := newTestAPI(t, dir, false, nil)

	err := a.Link(context.Background(), module.Entries{module.To("a.txt", "a.txt")})
	require.ErrorContains(t, err, "are the same file")

	info, err := os.Lstat(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	require.True(t, info.Mode().IsRegular())

	data, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	require.Equal(t, "precious", string(data))
}

func TestLink_RelinkingIsIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zshrc"), []byte("precious"), 0o644))
	a, _ := newTestAPI(t, dir, false, nil)

	entries := module.Entries{module.To("zshrc", "home/.zshrc")}
	require.NoError(t, a.Link(context.Background(), entries))
	require.NoError(t, a.Link(context.Background(), entries))

	data, err := os.ReadFile(filepath.Join(dir, "home", ".zshrc"))
	require.NoError(t, err)
	require.Equal(t, "precious", string(data))
}

func TestLink_RefusesToReplaceDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "occupied"), 0o755))
	a, _ := newTestAPI(t, dir, false, nil)

	err := a.Link(context.Background(), module.Entries{module.To("src", "occupied")})
	require.Error(t, err)
	require.DirExists(t, filepath.Join(dir, "occupied"))
}

func TestLink_MissingSourceFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a, _ := newTestAPI(t, dir, false, nil)

	err := a.Link(context.Background(), module.Entries{module.To("nope", "dest")})
	require.Error(t, err)
	_, statErr := os.Lstat(filepath.Join(dir, "dest"))
	require.True(t, os.IsNotExist(statErr))
}

func TestInstallContents_WritesAndOverwrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a, _ := newTestAPI(t, dir, false, nil)

	contents := module.Contents{
		module.Write("Use the force luke", "test-dest/2.txt", "other/2.txt"),
	}
	require.NoError(t, a.InstallContents(context.Background(), contents))
	require.NoError(t, a.InstallContents(context.Background(), module.Contents{module.Write("short", "test-dest/2.txt")}))

	data, err := os.ReadFile(filepath.Join(dir, "test-dest", "2.txt"))
	require.NoError(t, err)
	require.Equal(t, "short", string(data))

	data, err = os.ReadFile(filepath.Join(dir, "other", "2.txt"))
	require.NoError(t, err)
	require.Equal(t, "Use the force luke", string(data))
}

func TestInstallContents_DryRunPreviewsDiff(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gitconfig"), []byte("[user]\nname = old\n"), 0o644))
	a, buf := newTestAPI(t, dir, true, nil)

	err := a.InstallContents(context.Background(), module.Contents{module.Write("[user]\nname = new\n", "gitconfig")})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "gitconfig"))
	require.NoError(t, err)
	require.Equal(t, "[user]\nname = old\n", string(data))

	require.Contains(t, buf.String(), "[DRY RUN] tee gitconfig\n")
	require.Contains(t, buf.String(), "-name = old\n")
	require.Contains(t, buf.String(), "+name = new\n")
}

func TestRead_ReturnsContentsAsStdout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "motd"), []byte("hello"), 0o644))
	a, _ := newTestAPI(t, dir, false, nil)

	out, err := a.Read(context.Background(), "motd")
	require.NoError(t, err)
	require.Equal(t, 0, out.Code)
	require.Equal(t, "hello", out.StdoutString())
}

func TestRead_MissingFileFails(t *testing.T) {
	t.Parallel()

	a, _ := newTestAPI(t, t.TempDir(), false, nil)

	_, err := a.Read(context.Background(), "missing")
	var execErr *powarerrors.ExecutionError
	require.ErrorAs(t, err, &execErr)
}

func TestRead_DryRunReturnsEmptyOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "motd"), []byte("hello"), 0o644))
	a, _ := newTestAPI(t, dir, true, nil)

	out, err := a.Read(context.Background(), "motd")
	require.NoError(t, err)
	require.Equal(t, module.EmptyOutput(), out)
}

func TestInfoAndWarnUseBoundDepth(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	root, err := logger.New(logger.Options{Level: module.LogLevelInfo, HumanReadable: true, Writer: buf})
	require.NoError(t, err)

	a := New(Options{Logger: root.WithDepth(1), Path: t.TempDir(), Settings: module.DefaultSettings()})
	a.Info("Hello, world!")
	a.Warn("careful")

	require.Equal(t, "  Hello, world!\n  careful\n", buf.String())
}

func TestCanceledContextStopsFileOperations(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a, _ := newTestAPI(t, dir, false, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := a.InstallContents(ctx, module.Contents{module.Write("x", "x.txt")})
	require.ErrorIs(t, err, context.Canceled)
	require.NoFileExists(t, filepath.Join(dir, "x.txt"))
}
