// Package config loads tabview options from defaults, a config file, the
// environment and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/csheth/tabview/internal/pager"
	"github.com/csheth/tabview/internal/tabbar"
)

// Config holds application configuration.
type Config struct {
	Deck                   string `mapstructure:"deck"`
	InitialPage            int    `mapstructure:"initial_page"`
	PrerenderingSiblings   int    `mapstructure:"prerendering_siblings"`
	ScrollWithoutAnimation bool   `mapstructure:"scroll_without_animation"`
	Locked                 bool   `mapstructure:"locked"`
	TabBarPosition         string `mapstructure:"tab_bar_position"`
	TabStyle               string `mapstructure:"tab_style"`
	// CollapsableBar is the header text shown above the tab bar. A non-empty
	// value switches pages to the collapsing mode.
	CollapsableBar string `mapstructure:"collapsable_bar"`
	LogFile        string `mapstructure:"log_file"`
	LogLevel       string `mapstructure:"log_level"`
}

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"deck":         "deck",
	"page":         "initial_page",
	"prerender":    "prerendering_siblings",
	"no-animation": "scroll_without_animation",
	"locked":       "locked",
	"tab-bar":      "tab_bar_position",
	"tab-style":    "tab_style",
	"header":       "collapsable_bar",
	"log-file":     "log_file",
	"log-level":    "log_level",
}

// RegisterFlags adds the flags Load knows how to bind.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("deck", "", "deck file (.yaml, .pdf or text split on ---)")
	fs.Int("page", 0, "initial page")
	fs.Int("prerender", 0, "pages mounted beyond the direct neighbours")
	fs.Bool("no-animation", false, "jump between pages without animating")
	fs.Bool("locked", false, "disable swiping between pages")
	fs.String("tab-bar", "top", "tab bar position: top, bottom, overlayTop or overlayBottom")
	fs.String("tab-style", "boxed", "tab style: boxed or flat")
	fs.String("header", "", "collapsible header text shown above the tab bar")
	fs.String("log-file", "", "write debug logs to this file")
	fs.String("log-level", "info", "log level")
}

// Load reads configuration from defaults, the config file, env and flags, in
// increasing priority. Env var overrides use prefix TABVIEW_. An explicit path
// must exist; the default location is optional.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault("deck", "")
	v.SetDefault("initial_page", 0)
	v.SetDefault("prerendering_siblings", 0)
	v.SetDefault("scroll_without_animation", false)
	v.SetDefault("locked", false)
	v.SetDefault("tab_bar_position", string(pager.TabBarTop))
	v.SetDefault("tab_style", "boxed")
	v.SetDefault("collapsable_bar", "")
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(DefaultDir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TABVIEW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// DefaultDir is $XDG_CONFIG_HOME/tabview, or ~/.config/tabview.
func DefaultDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "tabview")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "tabview")
}

// Validate rejects values the pager cannot honour.
func (c Config) Validate() error {
	if c.InitialPage < 0 {
		return fmt.Errorf("initial_page must not be negative, got %d", c.InitialPage)
	}
	if c.PrerenderingSiblings < 0 {
		return fmt.Errorf("prerendering_siblings must not be negative, got %d", c.PrerenderingSiblings)
	}
	if _, err := pager.ParseTabBarPosition(c.TabBarPosition); err != nil {
		return err
	}
	if _, err := tabbar.PressableFor(c.TabStyle); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// PagerOptions maps the config onto controller options.
func (c Config) PagerOptions() pager.Options {
	position, err := pager.ParseTabBarPosition(c.TabBarPosition)
	if err != nil {
		position = pager.TabBarTop
	}
	return pager.Options{
		InitialPage:            c.InitialPage,
		PrerenderingSiblings:   c.PrerenderingSiblings,
		ScrollWithoutAnimation: c.ScrollWithoutAnimation,
		Locked:                 c.Locked,
		TabBarPosition:         position,
		Collapsable:            c.CollapsableBar != "",
	}
}
