// Package config loads the configuration of the range inference tools from rangeinfer.conf files.
//
// Configuration files are looked up in a directory and all of its parents. Settings in files closer to the directory
// take precedence over those further up, which take precedence over the defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"honnef.co/go/rangeinfer/go/vrp"

	"github.com/BurntSushi/toml"
)

type config struct {
	cfg  Config
	meta toml.MetaData
}

func (cfg config) Merge(ocfg config) config {
	if ocfg.meta.IsDefined("domain", "small_span") {
		cfg.cfg.Domain.SmallSpan = ocfg.cfg.Domain.SmallSpan
	}
	if ocfg.meta.IsDefined("domain", "max_widen") {
		cfg.cfg.Domain.MaxWiden = ocfg.cfg.Domain.MaxWiden
	}
	if ocfg.meta.IsDefined("domain", "narrow_slack") {
		cfg.cfg.Domain.NarrowSlack = ocfg.cfg.Domain.NarrowSlack
	}

	if ocfg.meta.IsDefined("cli", "width") {
		cfg.cfg.CLI.Width = ocfg.cfg.CLI.Width
	}
	if ocfg.meta.IsDefined("cli", "json") {
		cfg.cfg.CLI.JSON = ocfg.cfg.CLI.JSON
	}
	return cfg
}

type Config struct {
	Domain DomainConfig `toml:"domain"`
	CLI    CLIConfig    `toml:"cli"`
}

// DomainConfig controls widening and narrowing. See [vrp.Policy].
type DomainConfig struct {
	SmallSpan   uint64 `toml:"small_span"`
	MaxWiden    int    `toml:"max_widen"`
	NarrowSlack uint64 `toml:"narrow_slack"`
}

type CLIConfig struct {
	// Width is the default bit width of values, one of 8, 16, 32 and 64.
	Width int  `toml:"width"`
	JSON  bool `toml:"json"`
}

// Policy returns the widening and narrowing policy described by the configuration.
func (c Config) Policy() vrp.Policy {
	return vrp.Policy{
		SmallSpan:   c.Domain.SmallSpan,
		MaxWiden:    c.Domain.MaxWiden,
		NarrowSlack: c.Domain.NarrowSlack,
	}
}

var defaultConfig = Config{
	Domain: DomainConfig{
		SmallSpan:   vrp.DefaultPolicy.SmallSpan,
		MaxWiden:    vrp.DefaultPolicy.MaxWiden,
		NarrowSlack: vrp.DefaultPolicy.NarrowSlack,
	},
	CLI: CLIConfig{
		Width: 64,
	},
}

// Default returns the configuration used in the absence of configuration files.
func Default() Config {
	return defaultConfig
}

const configName = "rangeinfer.conf"

func parseConfigs(dir string) ([]config, error) {
	var out []config

	for dir != "" {
		path := filepath.Join(dir, configName)
		f, err := os.Open(path)
		if os.IsNotExist(err) {
			ndir := filepath.Dir(dir)
			if ndir == dir {
				break
			}
			dir = ndir
			continue
		}
		if err != nil {
			return nil, err
		}
		var cfg Config
		meta, err := toml.DecodeReader(f, &cfg)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		out = append(out, config{cfg, meta})
		ndir := filepath.Dir(dir)
		if ndir == dir {
			break
		}
		dir = ndir
	}
	out = append(out, config{
		cfg:  defaultConfig,
		meta: toml.MetaData{}, // meta of the base config should never be accessed
	})
	for i := 0; i < len(out)/2; i++ {
		out[i], out[len(out)-1-i] = out[len(out)-1-i], out[i]
	}
	return out, nil
}

func mergeConfigs(confs []config) Config {
	if len(confs) == 0 {
		// This shouldn't happen because we always have at least a
		// default config.
		panic("trying to merge zero configs")
	}
	conf := confs[0]
	for _, oconf := range confs[1:] {
		conf = conf.Merge(oconf)
	}
	return conf.cfg
}

func (c Config) validate() error {
	if c.Domain.MaxWiden < 0 {
		return fmt.Errorf("domain.max_widen must not be negative, got %d", c.Domain.MaxWiden)
	}
	switch c.CLI.Width {
	case 8, 16, 32, 64:
	default:
		return fmt.Errorf("cli.width must be one of 8, 16, 32 and 64, got %d", c.CLI.Width)
	}
	return nil
}

// Load merges all configuration files found in dir and its parents with the defaults. A relative dir is resolved
// against the working directory first.
func Load(dir string) (Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return Config{}, err
	}
	confs, err := parseConfigs(dir)
	if err != nil {
		return Config{}, err
	}
	conf := mergeConfigs(confs)
	if err := conf.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return conf, nil
}
