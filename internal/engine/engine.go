package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alexisbeaulieu97/powar/internal/api"
	"github.com/alexisbeaulieu97/powar/internal/logger"
	"github.com/alexisbeaulieu97/powar/internal/model"
	powarerrors "github.com/alexisbeaulieu97/powar/pkg/errors"
	"github.com/alexisbeaulieu97/powar/pkg/module"
)

const (
	preActionName  = "pre-action"
	postActionName = "post-action"
)

// Run validates the configuration and then runs the pre-action, every selected
// module action, and the post-action.
//
// A validation failure is fatal: it is printed through Logger.Fatal, which exits the
// process. Run only returns that error when the logger's exit function returns.
//
// Module actions run concurrently and Run waits for all of them. Their failures are
// joined into the returned error; a failure skips the post-action.
func Run(execCtx *ExecutionContext) (*model.RunReport, error) {
	if execCtx == nil {
		return nil, powarerrors.NewValidationError("", "execution context is nil", nil)
	}

	ctx := execCtx.Context
	if ctx == nil {
		ctx = context.Background()
	}

	log := execCtx.Logger
	if log == nil {
		var err error
		log, err = logger.New(logger.Options{Level: execCtx.Settings.LogLevel, HumanReadable: true})
		if err != nil {
			return nil, powarerrors.NewValidationError("log-level", err.Error(), err)
		}
	}

	cfg := execCtx.Config
	root := api.New(api.Options{
		Logger:   log,
		Path:     cfg.RootPath,
		Settings: execCtx.Settings,
		Runner:   execCtx.Runner,
	})

	selected := SelectModules(cfg.Modules, execCtx.Settings.Modules)
	if err := Validate(cfg.Modules, selected); err != nil {
		log.Fatal(err.Error())
		return nil, err
	}
	log.Info("All module dependencies met.")

	report, err := performActions(ctx, execCtx, log, root, selected)
	if err != nil {
		return report, err
	}

	log.Info("Done.")
	return report, nil
}

func performActions(ctx context.Context, execCtx *ExecutionContext, log *logger.Logger, root *api.API, selected []module.Module) (*model.RunReport, error) {
	start := time.Now()
	report := &model.RunReport{DryRun: execCtx.Settings.DryRun}
	cfg := execCtx.Config

	if err := invoke(ctx, cfg.PreAction, root); err != nil {
		report.Duration = time.Since(start)
		return report, powarerrors.NewModuleError(preActionName, err)
	}

	results, err := performModuleActions(ctx, execCtx, log, selected)
	report.Modules = results
	if err != nil {
		if cfg.PostAction != nil {
			log.Warn("Skipping post-action because a module failed.")
		}
		report.Duration = time.Since(start)
		return report, err
	}

	if err := invoke(ctx, cfg.PostAction, root); err != nil {
		report.Duration = time.Since(start)
		return report, powarerrors.NewModuleError(postActionName, err)
	}

	report.Duration = time.Since(start)
	return report, nil
}

func performModuleActions(ctx context.Context, execCtx *ExecutionContext, log *logger.Logger, selected []module.Module) ([]model.ModuleResult, error) {
	results := make([]model.ModuleResult, len(selected))
	errs := make([]error, len(selected))
	moduleLog := log.WithDepth(1)

	var wg sync.WaitGroup
	for idx, mod := range selected {
		log.Info(fmt.Sprintf("Running %s...", mod.Name))

		wg.Add(1)
		go func(idx int, mod module.Module) {
			defer wg.Done()

			modAPI := api.New(api.Options{
				Logger:   moduleLog,
				Path:     mod.Path,
				Settings: execCtx.Settings,
				Runner:   execCtx.Runner,
			})

			start := time.Now()
			err := invoke(ctx, mod.Action, modAPI)
			res := model.ModuleResult{
				Module:    mod.Name,
				Status:    model.StatusSuccess,
				Duration:  time.Since(start),
				Timestamp: time.Now(),
			}
			switch {
			case err != nil:
				res.Status = model.StatusFailed
				res.Error = err
				errs[idx] = powarerrors.NewModuleError(mod.Name, err)
			case execCtx.Settings.DryRun:
				res.Status = model.StatusDryRun
			}
			results[idx] = res
		}(idx, mod)
	}
	wg.Wait()

	return results, errors.Join(errs...)
}

// invoke runs action, converting a panic into an error so sibling modules keep running.
func invoke(ctx context.Context, action module.Action, a module.API) (err error) {
	if action == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return action(ctx, a)
}
