// Package config resolves the catshuffle configuration from defaults, an
// optional config file (yaml, toml or json), CATSHUFFLE_* environment
// variables and command-line flags, in increasing order of precedence.
//
// Example:
//
//	cfg, err := config.Load("catshuffle.yaml", cmd.Flags())
//	if err != nil {
//		return err
//	}
//	if err := cfg.Validate(); err != nil {
//		return err
//	}
package config

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dendrascience/catshuffle/shuffle"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "CATSHUFFLE"

type (
	// Config is the complete configuration of a run.
	Config struct {
		Root       string          `mapstructure:"root"`
		Target     string          `mapstructure:"target"`
		Layout     string          `mapstructure:"layout"`
		Categories []string        `mapstructure:"categories"`
		Report     string          `mapstructure:"report"`
		Seed       uint64          `mapstructure:"seed"`
		Quiet      bool            `mapstructure:"quiet"`
		Rename     RenameConfig    `mapstructure:"rename"`
		Timestamp  TimestampConfig `mapstructure:"timestamp"`
		Schedule   ScheduleConfig  `mapstructure:"schedule"`
		Presets    PresetsConfig   `mapstructure:"presets"`
		Log        LogConfig       `mapstructure:"log"`
	}

	// Paths is a root/target pair.
	Paths struct {
		Root   string `mapstructure:"root"`
		Target string `mapstructure:"target"`
	}
)

// flagKeys maps config keys to the flag names bound to them.
var flagKeys = map[string]string{
	"root":                 "root",
	"target":               "target",
	"layout":               "layout",
	"categories":           "categories",
	"report":               "report",
	"seed":                 "seed",
	"quiet":                "quiet",
	"rename.policy":        "ext-policy",
	"rename.extension":     "extension",
	"timestamp.mode":       "time-mode",
	"timestamp.window":     "window",
	"timestamp.epoch_unix": "epoch",
	"schedule.interval":    "interval",
	"schedule.repeat":      "repeat",
	"schedule.forever":     "forever",
	"log.level":            "log-level",
	"log.file":             "log-file",
}

// Load builds a Config. file may be empty. Flags that exist in flags and
// were set on the command line override every other source.
func Load(file string, flags *pflag.FlagSet) (Config, error) {
	var cfg Config
	v := viper.New()
	setAllDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return cfg, goerr.Wrap(err, "failed to read config", goerr.V("file", file))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return cfg, goerr.Wrap(err, "failed to bind flag", goerr.V("flag", name))
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, goerr.Wrap(err, "failed to unmarshal config")
	}
	cfg.normalize()
	return cfg, nil
}

// Default returns the configuration used when nothing else is supplied.
func Default() Config {
	cfg, _ := Load("", nil)
	return cfg
}

func setAllDefaults(v *viper.Viper) {
	v.SetDefault("root", "")
	v.SetDefault("target", "")
	v.SetDefault("layout", string(shuffle.LayoutCategories))
	v.SetDefault("categories", shuffle.DefaultCategories)
	v.SetDefault("report", "")
	v.SetDefault("seed", 0)
	v.SetDefault("quiet", false)

	var (
		rename    RenameConfig
		timestamp TimestampConfig
		schedule  ScheduleConfig
		presets   PresetsConfig
		logCfg    LogConfig
	)
	rename.setDefaults(v)
	timestamp.setDefaults(v)
	schedule.setDefaults(v)
	presets.setDefaults(v)
	logCfg.setDefaults(v)
}

func (c *Config) normalize() {
	c.Root = strings.TrimSpace(c.Root)
	c.Target = strings.TrimSpace(c.Target)
	if c.Target == "" {
		c.Target = c.Root
	}
	var cats []string
	for _, name := range c.Categories {
		if name = strings.TrimSpace(name); name != "" {
			cats = append(cats, name)
		}
	}
	c.Categories = cats
}

// WithPaths returns a copy of c pointed at p. An empty target means the root.
func (c Config) WithPaths(p Paths) Config {
	c.Root = p.Root
	c.Target = p.Target
	c.normalize()
	return c
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Root == "" {
		return goerr.New("root directory is required")
	}
	layout, err := shuffle.ParseLayout(c.Layout)
	if err != nil {
		return err
	}
	if layout == shuffle.LayoutCategories && len(c.Categories) == 0 {
		return goerr.New("categories layout needs at least one category")
	}
	if _, err := shuffle.ParseExtPolicy(c.Rename.Policy); err != nil {
		return err
	}
	if _, err := shuffle.ParseTimeMode(c.Timestamp.Mode); err != nil {
		return err
	}
	if c.Timestamp.Window < 0 {
		return goerr.Wrap(shuffle.ErrNegativeWindow, "invalid timestamp window", goerr.V("window", c.Timestamp.Window))
	}
	if c.Schedule.Interval < 0 {
		return goerr.Wrap(shuffle.ErrNegativeInterval, "invalid schedule interval", goerr.V("interval", c.Schedule.Interval))
	}
	if c.Schedule.Repeat < 0 {
		return goerr.New("repeat must not be negative", goerr.V("repeat", c.Schedule.Repeat))
	}
	return nil
}

// LayoutValue returns the parsed layout; call Validate first.
func (c Config) LayoutValue() shuffle.Layout {
	l, _ := shuffle.ParseLayout(c.Layout)
	return l
}

// TimeModeValue returns the parsed time mode; call Validate first.
func (c Config) TimeModeValue() shuffle.TimeMode {
	m, _ := shuffle.ParseTimeMode(c.Timestamp.Mode)
	return m
}

// ExtPolicyValue returns the parsed extension policy; call Validate first.
func (c Config) ExtPolicyValue() shuffle.ExtPolicy {
	p, _ := shuffle.ParseExtPolicy(c.Rename.Policy)
	return p
}

// Epoch returns the configured reference epoch.
func (c Config) Epoch() time.Time {
	return time.Unix(c.Timestamp.EpochUnix, 0).UTC()
}
