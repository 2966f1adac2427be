// Package config loads riskform settings from a YAML file, RISKFORM_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/viper"

	"github.com/goliatone/go-riskform/pkg/record"
)

// EnvPrefix is prepended to every environment variable.
const EnvPrefix = "RISKFORM"

// Keys shared by flags, the config file and the environment.
const (
	KeyAddr            = "addr"
	KeyModel           = "model"
	KeyCatalog         = "catalog"
	KeyPreset          = "preset"
	KeyLocale          = "locale"
	KeyUnknownFeatures = "unknown_features"
	KeyDebug           = "debug"
	KeyShutdownTimeout = "shutdown_timeout"
)

// StylesheetAssetKey is the theme asset the HTML renderer asks for.
const StylesheetAssetKey = "vanilla.stylesheet"

// ThemeConfig selects design tokens for the HTML form.
type ThemeConfig struct {
	Name       string            `mapstructure:"name"`
	Variant    string            `mapstructure:"variant"`
	Tokens     map[string]string `mapstructure:"tokens"`
	Stylesheet string            `mapstructure:"stylesheet"`
}

// Config holds all configuration for the service and the CLI.
type Config struct {
	Addr            string        `mapstructure:"addr"`
	Model           string        `mapstructure:"model"`
	Catalog         string        `mapstructure:"catalog"`
	Preset          string        `mapstructure:"preset"`
	Locale          string        `mapstructure:"locale"`
	UnknownFeatures string        `mapstructure:"unknown_features"`
	Debug           bool          `mapstructure:"debug"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Theme           ThemeConfig   `mapstructure:"theme"`
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyAddr, ":8080")
	v.SetDefault(KeyModel, "obesity_model.yaml")
	v.SetDefault(KeyLocale, "pt-BR")
	v.SetDefault(KeyUnknownFeatures, string(record.PolicyPassThrough))
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyShutdownTimeout, 10*time.Second)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads file (when non-empty) into v and decodes the result.
func Load(v *viper.Viper, file string) (Config, error) {
	if v == nil {
		return Config{}, errors.New("config: viper instance is nil")
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Model) == "" {
		return errors.New("config: model path is required")
	}
	if _, err := record.ParsePolicy(c.UnknownFeatures); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.ShutdownTimeout < 0 {
		return errors.New("config: shutdown_timeout must not be negative")
	}
	return nil
}

// RendererConfig converts the theme section into the structure renderers
// consume. Nil when no theme is configured.
func (c Config) RendererConfig() *theme.RendererConfig {
	t := c.Theme
	if t.Name == "" && t.Variant == "" && len(t.Tokens) == 0 && t.Stylesheet == "" {
		return nil
	}
	cfg := &theme.RendererConfig{
		Theme:   t.Name,
		Variant: t.Variant,
		Tokens:  make(map[string]string, len(t.Tokens)),
		CSSVars: make(map[string]string, len(t.Tokens)),
	}
	for key, value := range t.Tokens {
		cfg.Tokens[key] = value
		cfg.CSSVars["--"+strings.TrimPrefix(key, "--")] = value
	}
	if href := strings.TrimSpace(t.Stylesheet); href != "" {
		cfg.AssetURL = func(key string) string {
			if key == StylesheetAssetKey {
				return href
			}
			return ""
		}
	}
	return cfg
}
