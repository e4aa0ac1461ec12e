// Package validation runs the post-apply checks declared in a manifest.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"regexp"

	powarerrors "github.com/alexisbeaulieu97/powar/pkg/errors"
)

// inspector examines the machine for one check type. On success it describes what it found.
type inspector func(Check) (string, error)

var inspectors = map[string]inspector{
	TypeCommandExists: lookupCommand,
	TypeFileExists:    statPath,
	TypePathContains:  matchFile,
}

// Evaluate runs c against the current machine state. A failed Result's message
// starts with the check as written in the manifest.
func Evaluate(c Check) Result {
	run, ok := inspectors[c.Type]
	if !ok {
		err := powarerrors.NewValidationError("checks.type", fmt.Sprintf("unknown check type %q", c.Type), nil)
		return Result{Check: c, Message: err.Error(), Error: err}
	}

	found, err := run(c)
	if err != nil {
		err = fmt.Errorf("%s: %w", c, err)
		return Result{Check: c, Message: err.Error(), Error: err}
	}
	return Result{Check: c, Passed: true, Message: found}
}

func lookupCommand(c Check) (string, error) {
	if c.Command == "" {
		return "", errors.New("command is required")
	}
	resolved, err := exec.LookPath(c.Command)
	if err != nil {
		return "", fmt.Errorf("%s is not on PATH", c.Command)
	}
	return resolved, nil
}

func statPath(c Check) (string, error) {
	if c.Path == "" {
		return "", errors.New("path is required")
	}
	info, err := os.Stat(c.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%s does not exist", c.Path)
	case err != nil:
		return "", err
	case info.IsDir():
		return "directory " + c.Path, nil
	default:
		return "file " + c.Path, nil
	}
}

// matchFile reports the line of the first match of the pattern in Text.
func matchFile(c Check) (string, error) {
	if c.File == "" {
		return "", errors.New("file is required")
	}
	if c.Text == "" {
		return "", errors.New("text is required")
	}

	pattern, err := regexp.Compile(c.Text)
	if err != nil {
		return "", fmt.Errorf("invalid pattern %q: %w", c.Text, err)
	}
	data, err := os.ReadFile(c.File)
	if err != nil {
		return "", err
	}

	loc := pattern.FindIndex(data)
	if loc == nil {
		return "", fmt.Errorf("no match for %q in %s", c.Text, c.File)
	}
	return fmt.Sprintf("%s:%d", c.File, bytes.Count(data[:loc[0]], []byte("\n"))+1), nil
}
