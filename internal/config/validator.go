package config

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"mvdan.cc/sh/v3/syntax"

	powarerrors "github.com/alexisbeaulieu97/powar/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	moduleNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
			if name == "-" || name == "" {
				return strings.ToLower(field.Name)
			}
			return name
		})

		_ = v.RegisterValidation("module_name", func(fl validator.FieldLevel) bool {
			return moduleNamePattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// ValidateManifest performs schema and cross-field validation on the manifest.
// Whether depends_on targets exist is left to the engine, which reports every miss at once.
func ValidateManifest(m *Manifest) error {
	if m == nil {
		return powarerrors.NewValidationError("manifest", "manifest is nil", nil)
	}

	if err := validatorInstance().Struct(m); err != nil {
		return convertValidationError(err)
	}

	seen := make(map[string]int, len(m.Modules))
	for i, mod := range m.Modules {
		if first, ok := seen[mod.Name]; ok {
			return powarerrors.NewValidationError(fmt.Sprintf("modules[%d].name", i),
				fmt.Sprintf("duplicate module name %q (first declared at modules[%d])", mod.Name, first), nil)
		}
		seen[mod.Name] = i
	}

	for i, step := range m.Pre {
		if err := ValidateStep(step, fmt.Sprintf("pre[%d]", i)); err != nil {
			return err
		}
	}
	for i, step := range m.Post {
		if err := ValidateStep(step, fmt.Sprintf("post[%d]", i)); err != nil {
			return err
		}
	}
	for i, mod := range m.Modules {
		for j, step := range mod.Steps {
			if err := ValidateStep(step, fmt.Sprintf("modules[%d].steps[%d]", i, j)); err != nil {
				return err
			}
		}
	}

	return nil
}

// ValidateStep checks the fields required by the step's type. field prefixes error locations.
func ValidateStep(step Step, field string) error {
	if err := validatorInstance().Struct(step); err != nil {
		return convertValidationError(err)
	}

	require := func(name, value string) error {
		if strings.TrimSpace(value) == "" {
			return powarerrors.NewValidationError(field+"."+name, fmt.Sprintf("%s is required for %s steps", name, step.Type), nil)
		}
		return nil
	}
	requireDestinations := func() error {
		if len(step.Destinations) == 0 {
			return powarerrors.NewValidationError(field+".destinations", fmt.Sprintf("at least one destination is required for %s steps", step.Type), nil)
		}
		for k, dest := range step.Destinations {
			if strings.TrimSpace(dest) == "" {
				return powarerrors.NewValidationError(fmt.Sprintf("%s.destinations[%d]", field, k), "destination is empty", nil)
			}
		}
		return nil
	}

	switch step.Type {
	case StepInstall, StepLink, StepTemplate:
		return errors.Join(require("source", step.Source), requireDestinations())
	case StepContents:
		return requireDestinations()
	case StepMkdir:
		return require("dir", step.Dir)
	case StepExec:
		if err := require("command", step.Command); err != nil {
			return err
		}
		return validateShell(step.Command, field+".command")
	case StepClone:
		return errors.Join(require("url", step.URL), require("destination", step.Destination))
	default:
		return powarerrors.NewValidationError(field+".type", fmt.Sprintf("unknown step type %q", step.Type), nil)
	}
}

// validateShell rejects commands /bin/sh would fail to parse.
func validateShell(command, field string) error {
	parser := syntax.NewParser(syntax.Variant(syntax.LangPOSIX))
	if _, err := parser.Parse(strings.NewReader(command), ""); err != nil {
		return powarerrors.NewValidationError(field, fmt.Sprintf("invalid shell syntax: %v", err), err)
	}
	return nil
}

// convertValidationError normalizes validator errors into powar validation errors.
func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		ve := ves[0]
		field := manifestFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		if ve.Param() != "" {
			msg = fmt.Sprintf("%s failed validation for tag '%s=%s'", field, ve.Tag(), ve.Param())
		}
		return powarerrors.NewValidationError(field, msg, err)
	}

	return powarerrors.NewValidationError("manifest", err.Error(), err)
}

// manifestFieldName drops the root struct name, leaving the manifest path such as modules[0].name.
func manifestFieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
