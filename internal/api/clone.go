package api

import (
	"context"
	"fmt"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	powarerrors "github.com/alexisbeaulieu97/powar/pkg/errors"
	"github.com/alexisbeaulieu97/powar/pkg/module"
)

// Clone checks out url into destination. An existing repository at destination is left untouched.
func (a *API) Clone(ctx context.Context, url, destination string, opts ...module.CloneOption) error {
	var cloneOpts module.CloneOptions
	for _, opt := range opts {
		opt(&cloneOpts)
	}

	path := a.resolve(destination)
	if _, err := git.PlainOpen(path); err == nil {
		a.log.Info(fmt.Sprintf("%s already contains a git repository", destination))
		return nil
	}

	if err := a.ensureParentExists(ctx, destination); err != nil {
		return err
	}

	command := fmt.Sprintf("git clone %s %s", quote(url), quote(destination))
	if cloneOpts.Branch != "" {
		command += " --branch " + quote(cloneOpts.Branch)
	}
	if cloneOpts.Depth > 0 {
		command += fmt.Sprintf(" --depth %d", cloneOpts.Depth)
	}
	if !a.announce(command) {
		return nil
	}

	gitOpts := &git.CloneOptions{
		URL:   url,
		Depth: cloneOpts.Depth,
	}
	if cloneOpts.Branch != "" {
		gitOpts.ReferenceName = plumbing.NewBranchReferenceName(cloneOpts.Branch)
		gitOpts.SingleBranch = true
	}

	if _, err := git.PlainCloneContext(ctx, path, false, gitOpts); err != nil {
		return powarerrors.NewExecutionError(command, err)
	}
	return nil
}
