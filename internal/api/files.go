package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alexisbeaulieu97/powar/pkg/diff"
	powarerrors "github.com/alexisbeaulieu97/powar/pkg/errors"
	"github.com/alexisbeaulieu97/powar/pkg/module"
)

// MakeDir creates dir and any missing parents.
func (a *API) MakeDir(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	command := "mkdir -p " + quote(dir)
	if !a.announce(command) {
		return nil
	}
	if err := os.MkdirAll(a.resolve(dir), 0o755); err != nil {
		return powarerrors.NewExecutionError(command, err)
	}
	return nil
}

func (a *API) ensureParentExists(ctx context.Context, path string) error {
	return a.MakeDir(ctx, filepath.Dir(path))
}

// Install copies every entry source to each of its destinations, overwriting.
func (a *API) Install(ctx context.Context, entries module.Entries) error {
	return iterateEntries(ctx, entries, func(src, dest string) error {
		if err := a.ensureParentExists(ctx, dest); err != nil {
			return err
		}

		command := fmt.Sprintf("cp %s %s", quote(src), quote(dest))
		if !a.announce(command) {
			return nil
		}
		if err := copyFile(a.resolve(src), a.resolve(dest)); err != nil {
			return powarerrors.NewExecutionError(command, err)
		}
		return nil
	})
}

// Link symlinks each destination to the absolute, symlink-free form of its source.
func (a *API) Link(ctx context.Context, entries module.Entries) error {
	return iterateEntries(ctx, entries, func(src, dest string) error {
		if err := a.ensureParentExists(ctx, dest); err != nil {
			return err
		}

		target, resolveErr := canonicalPath(a.resolve(src))
		command := fmt.Sprintf("ln -sf %s %s", quote(target), quote(dest))
		if !a.announce(command) {
			return nil
		}
		if resolveErr != nil {
			return powarerrors.NewExecutionError(command, resolveErr)
		}
		if err := replaceWithSymlink(target, a.resolve(dest)); err != nil {
			return powarerrors.NewExecutionError(command, err)
		}
		return nil
	})
}

// InstallContents writes each literal text as the full contents of its destinations.
func (a *API) InstallContents(ctx context.Context, contents module.Contents) error {
	for _, content := range contents {
		for _, dest := range content.Destinations {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := a.ensureParentExists(ctx, dest); err != nil {
				return err
			}

			path := a.resolve(dest)
			command := "tee " + quote(dest)
			if !a.announce(command) {
				a.previewContents(path, dest, content.Text)
				continue
			}
			if err := os.WriteFile(path, []byte(content.Text), 0o644); err != nil {
				return powarerrors.NewExecutionError(command, err)
			}
		}
	}
	return nil
}

func (a *API) previewContents(path, label, text string) {
	current, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return
	}
	if preview := diff.Unified(current, []byte(text), label); preview != "" {
		a.log.Info(preview)
	}
}

// Read returns the contents of filename as Output.Stdout.
func (a *API) Read(ctx context.Context, filename string) (module.Output, error) {
	if err := ctx.Err(); err != nil {
		return module.Output{}, err
	}

	command := "cat " + quote(filename)
	if !a.announce(command) {
		return module.EmptyOutput(), nil
	}

	data, err := os.ReadFile(a.resolve(filename))
	if err != nil {
		return module.Output{}, powarerrors.NewExecutionError(command, err)
	}
	return module.Output{Code: 0, Stdout: data, Stderr: []byte{}}, nil
}

func iterateEntries(ctx context.Context, entries module.Entries, fn func(src, dest string) error) error {
	for _, entry := range entries {
		for _, dest := range entry.Destinations {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(entry.Source, dest); err != nil {
				return err
			}
		}
	}
	return nil
}

// copyFile replaces dst with a copy of src. The copy is staged next to dst and renamed
// into place, so dst never holds partial contents.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", src)
	}
	if err := refuseSameFile(info, src, dst); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".powar-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name()) //nolint:errcheck
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		tmp.Close() //nolint:errcheck
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), info.Mode().Perm()); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

// refuseSameFile fails when dst, after following links, is the file described by srcInfo.
func refuseSameFile(srcInfo fs.FileInfo, src, dst string) error {
	dstInfo, err := os.Stat(dst)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if os.SameFile(srcInfo, dstInfo) {
		return fmt.Errorf("%s and %s are the same file", src, dst)
	}
	return nil
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path, err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs, err
	}
	return resolved, nil
}

func replaceWithSymlink(target, dest string) error {
	info, err := os.Lstat(dest)
	switch {
	case err == nil:
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", dest)
		}
		// Replacing a link never touches its target, but removing a regular file that is
		// the target would leave the new link pointing at itself.
		if info.Mode()&fs.ModeSymlink == 0 {
			targetInfo, err := os.Stat(target)
			if err != nil {
				return err
			}
			if err := refuseSameFile(targetInfo, target, dest); err != nil {
				return err
			}
		}
		if err := os.Remove(dest); err != nil {
			return err
		}
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}
	return os.Symlink(target, dest)
}
