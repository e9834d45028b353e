// Package config loads the configuration profile of a run from a YAML
// file, RECIPE_* environment variables and command line assignments, in
// increasing order of precedence. The environment reaches the settings,
// the top level keys and the option keys passed in LoadOptions.OptionKeys.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goplus/recipe/internal/validate"
	"github.com/spf13/viper"
)

// DefaultProfile is the profile looked up in the project root.
const DefaultProfile = "recipe.yaml"

// EnvPrefix prefixes the environment variables overriding profile keys,
// e.g. RECIPE_SETTINGS_COMPILER_CPPSTD.
const EnvPrefix = "RECIPE"

// Compiler describes the active compiler.
type Compiler struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	CppStd  string `mapstructure:"cppstd"`
}

// Settings are the facts of the build environment.
type Settings struct {
	OS        string   `mapstructure:"os"`
	Arch      string   `mapstructure:"arch"`
	Compiler  Compiler `mapstructure:"compiler"`
	BuildType string   `mapstructure:"build_type"`
}

// Config is a loaded profile.
type Config struct {
	Settings Settings       `mapstructure:"settings"`
	Options  map[string]any `mapstructure:"options"`
	Graph    string         `mapstructure:"graph"`    // dependency graph file
	Metadata string         `mapstructure:"metadata"` // metadata dir inside the project
	Output   string         `mapstructure:"output"`   // generators dir, empty for the layout default
	LogLevel string         `mapstructure:"log_level"`

	file string
}

// File returns the profile file the configuration was read from, if any.
func (c *Config) File() string { return c.file }

// Environment returns the settings as seen by the validator.
func (c *Config) Environment() validate.Environment {
	return validate.Environment{
		OS:              c.Settings.OS,
		Arch:            c.Settings.Arch,
		Compiler:        c.Settings.Compiler.Name,
		CompilerVersion: c.Settings.Compiler.Version,
		CppStd:          c.Settings.Compiler.CppStd,
		BuildType:       c.Settings.BuildType,
	}
}

// Path resolves p against root unless it is absolute.
func Path(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// LoadOptions controls Load.
type LoadOptions struct {
	Root     string   // project root, searched for DefaultProfile
	Profile  string   // explicit profile file; must exist when set
	Options  []string // "key=value" option assignments
	Settings []string // "key=value" settings assignments, e.g. compiler.cppstd=20

	// OptionKeys are the options the recipe declares. Each is bound to
	// RECIPE_OPTIONS_<KEY>.
	OptionKeys []string
}

// Load reads the profile selected by opts and applies the environment and
// command line on top of it.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range opts.OptionKeys {
		key = strings.ToLower(key)
		env := EnvPrefix + "_OPTIONS_" + strings.ToUpper(key)
		if err := v.BindEnv("options."+key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if opts.Profile != "" {
		v.SetConfigFile(opts.Profile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read profile %s: %w", opts.Profile, err)
		}
	} else {
		v.AddConfigPath(opts.Root)
		v.SetConfigName(strings.TrimSuffix(DefaultProfile, filepath.Ext(DefaultProfile)))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read profile: %w", err)
			}
		}
	}

	for _, a := range opts.Settings {
		key, val, err := ParseAssignment(a)
		if err != nil {
			return nil, err
		}
		if !v.IsSet("settings." + key) {
			return nil, fmt.Errorf("unknown setting %q", key)
		}
		v.Set("settings."+key, val)
	}
	for _, a := range opts.Options {
		key, val, err := ParseAssignment(a)
		if err != nil {
			return nil, err
		}
		v.Set("options."+key, val)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	c.file = v.ConfigFileUsed()
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("settings.os", runtime.GOOS)
	v.SetDefault("settings.arch", runtime.GOARCH)
	v.SetDefault("settings.compiler.name", "")
	v.SetDefault("settings.compiler.version", "")
	v.SetDefault("settings.compiler.cppstd", "")
	v.SetDefault("settings.build_type", "")
	v.SetDefault("graph", "")
	v.SetDefault("metadata", "meta")
	v.SetDefault("output", "")
	v.SetDefault("log_level", "info")
}

// ParseAssignment splits "key=value". The key is lower-cased to match how
// profile keys are read.
func ParseAssignment(s string) (key, value string, err error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.ToLower(strings.TrimSpace(key))
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid assignment %q: want key=value", s)
	}
	return key, strings.TrimSpace(value), nil
}
