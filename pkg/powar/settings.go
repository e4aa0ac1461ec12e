package powar

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	powarerrors "github.com/alexisbeaulieu97/powar/pkg/errors"
	"github.com/alexisbeaulieu97/powar/pkg/module"
)

const (
	flagDryRun     = "dry-run"
	flagOnlyModule = "only-module"
	flagSkipModule = "skip-module"
	flagLogLevel   = "log-level"

	envPrefix = "POWAR"
)

// SettingsFlags registers the run settings on a flag set and reads them back,
// letting POWAR_* environment variables fill in flags that were not passed.
type SettingsFlags struct {
	v *viper.Viper
}

// BindSettingsFlags adds --dry-run, --only-module, --skip-module and --log-level to fs.
func BindSettingsFlags(fs *pflag.FlagSet) *SettingsFlags {
	defaults := module.DefaultSettings()

	fs.Bool(flagDryRun, defaults.DryRun, "Don't actually do anything.")
	fs.StringArray(flagOnlyModule, nil, "Only run the given module. Repeatable.")
	fs.StringArray(flagSkipModule, nil, "Skip the given module. Repeatable.")
	fs.String(flagLogLevel, string(defaults.LogLevel), "Set the log level (none, info or warn).")

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, name := range []string{flagDryRun, flagOnlyModule, flagSkipModule, flagLogLevel} {
		_ = v.BindPFlag(name, fs.Lookup(name))
	}

	return &SettingsFlags{v: v}
}

// Settings converts the parsed flags into module.Settings.
func (s *SettingsFlags) Settings() (module.Settings, error) {
	only := nonEmpty(s.v.GetStringSlice(flagOnlyModule))
	skip := nonEmpty(s.v.GetStringSlice(flagSkipModule))

	return SettingsFrom(s.v.GetBool(flagDryRun), only, skip, s.v.GetString(flagLogLevel))
}

// SettingsFrom builds Settings from raw values. Passing both only and skip names is an error.
func SettingsFrom(dryRun bool, only, skip []string, logLevel string) (module.Settings, error) {
	if len(only) > 0 && len(skip) > 0 {
		return module.Settings{}, powarerrors.NewValidationError("", "Cannot specify both --only-module and --skip-module.", nil)
	}

	level, err := module.ParseLogLevel(logLevel)
	if err != nil {
		return module.Settings{}, powarerrors.NewValidationError(flagLogLevel, err.Error(), err)
	}

	settings := module.Settings{DryRun: dryRun, Modules: module.SelectAll(), LogLevel: level}
	switch {
	case len(only) > 0:
		settings.Modules = module.SelectOnly(only...)
	case len(skip) > 0:
		settings.Modules = module.SelectSkip(skip...)
	}
	return settings, nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
