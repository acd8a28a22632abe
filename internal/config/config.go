// Package config holds the settings ftctl reads from its config file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/sap-gg/ftctl/internal"
)

const (
	LogLevelKey   = "log.level"
	LogFormatKey  = "log.format"
	LogNoColorKey = "log.no_color"

	ChartFileKey      = "release.chart_file"
	ValuesFileKey     = "release.values_file"
	PipelineFileKey   = "release.pipeline_file"
	PreserveFormatKey = "release.preserve_format"

	GitRemoteKey = "git.remote"
	GitTokenKey  = "git.token"
)

// Config is the resolved ftctl configuration.
type Config struct {
	Release Release `mapstructure:"release"`
	Git     Git     `mapstructure:"git"`
}

// Release holds the conventional artifact file names.
type Release struct {
	ChartFile      string `mapstructure:"chart_file" validate:"required,excludesall=/\\"`
	ValuesFile     string `mapstructure:"values_file" validate:"required,excludesall=/\\"`
	PipelineFile   string `mapstructure:"pipeline_file" validate:"required,excludesall=/\\"`
	PreserveFormat bool   `mapstructure:"preserve_format"`
}

// Git holds the settings of the tag extension.
type Git struct {
	Remote string `mapstructure:"remote" validate:"required"`
	// Token authenticates pushes over HTTPS. Empty means no authentication.
	Token string `mapstructure:"token"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(ChartFileKey, internal.ChartFileName)
	v.SetDefault(ValuesFileKey, internal.ValuesFileName)
	v.SetDefault(PipelineFileKey, internal.PipelineFileName)
	v.SetDefault(PreserveFormatKey, false)
	v.SetDefault(GitRemoteKey, internal.DefaultRemote)
	v.SetDefault(GitTokenKey, "")
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Release.ChartFile = strings.TrimSpace(cfg.Release.ChartFile)
	cfg.Release.ValuesFile = strings.TrimSpace(cfg.Release.ValuesFile)
	cfg.Release.PipelineFile = strings.TrimSpace(cfg.Release.PipelineFile)

	if err := validator.New().Struct(&cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fe := validationErrors[0]
			return nil, fmt.Errorf("invalid config value for %s: failed %q check",
				fe.Namespace(), fe.Tag())
		}
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}
