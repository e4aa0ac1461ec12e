package engine

import (
	"errors"

	powarerrors "github.com/alexisbeaulieu97/powar/pkg/errors"
	"github.com/alexisbeaulieu97/powar/pkg/module"
)

// ValidateDependencies checks that every dependency of every selected module is
// registered somewhere in registry. Selection is irrelevant to the lookup: a
// dependency that is filtered out of this run still counts as present.
//
// All violations are returned together as powarerrors.DependencyErrors.
func ValidateDependencies(registry, selected []module.Module) error {
	registered := make(map[string]bool, len(registry))
	for _, m := range registry {
		registered[m.Name] = true
	}

	var violations powarerrors.DependencyErrors
	for _, m := range selected {
		for _, dep := range m.DependsOn {
			if !registered[dep] {
				violations = append(violations, powarerrors.DependencyError{Module: m.Name, Dependency: dep})
			}
		}
	}

	if len(violations) == 0 {
		return nil
	}
	return violations
}

// ValidateNames reports every module name registered more than once.
func ValidateNames(registry []module.Module) error {
	counts := make(map[string]int, len(registry))
	var order []string
	for _, m := range registry {
		if counts[m.Name] == 0 {
			order = append(order, m.Name)
		}
		counts[m.Name]++
	}

	var errs []error
	for _, name := range order {
		if counts[name] > 1 {
			errs = append(errs, &powarerrors.DuplicateModuleError{Module: name, Count: counts[name]})
		}
	}
	return errors.Join(errs...)
}

// Validate runs every pre-flight check for a run of selected out of registry.
func Validate(registry, selected []module.Module) error {
	return errors.Join(ValidateNames(registry), ValidateDependencies(registry, selected))
}
