package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/dendrascience/catshuffle/shuffle"
)

// Log defaults. Sizes are in megabytes, ages in days.
const (
	DefaultLogLevel      = "info"
	DefaultLogMaxSize    = 10
	DefaultLogMaxBackups = 3
	DefaultLogMaxAge     = 28
)

type (
	// RenameConfig controls the sequence names.
	RenameConfig struct {
		Policy    string `mapstructure:"policy"`
		Extension string `mapstructure:"extension"`
	}

	// TimestampConfig controls the randomized modification times.
	TimestampConfig struct {
		Mode      string        `mapstructure:"mode"`
		Window    time.Duration `mapstructure:"window"`
		EpochUnix int64         `mapstructure:"epoch_unix"`
	}

	// ScheduleConfig controls how often a pass runs.
	ScheduleConfig struct {
		Interval time.Duration `mapstructure:"interval"`
		Repeat   int           `mapstructure:"repeat"`
		Forever  bool          `mapstructure:"forever"`
	}

	// PresetsConfig holds the two path presets offered by the interactive
	// menu.
	PresetsConfig struct {
		A Paths `mapstructure:"a"`
		B Paths `mapstructure:"b"`
	}

	// LogConfig controls diagnostic logging. The run record is not affected.
	LogConfig struct {
		Level      string `mapstructure:"level"`
		File       string `mapstructure:"file"`
		MaxSize    int    `mapstructure:"max_size_mb"`
		MaxBackups int    `mapstructure:"max_backups"`
		MaxAge     int    `mapstructure:"max_age_days"`
		Compress   bool   `mapstructure:"compress"`
	}
)

func (RenameConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("rename.policy", string(shuffle.ExtFixed))
	v.SetDefault("rename.extension", shuffle.DefaultExtension)
}

func (TimestampConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("timestamp.mode", string(shuffle.EpochForward))
	v.SetDefault("timestamp.window", shuffle.DefaultWindow)
	v.SetDefault("timestamp.epoch_unix", shuffle.DefaultEpoch.Unix())
}

func (ScheduleConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("schedule.interval", time.Second)
	v.SetDefault("schedule.repeat", 1)
	v.SetDefault("schedule.forever", false)
}

func (PresetsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("presets.a.root", "data/data")
	v.SetDefault("presets.a.target", "data/data")
	v.SetDefault("presets.b.root", "/data")
	v.SetDefault("presets.b.target", "/data")
}

func (LogConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", DefaultLogMaxSize)
	v.SetDefault("log.max_backups", DefaultLogMaxBackups)
	v.SetDefault("log.max_age_days", DefaultLogMaxAge)
	v.SetDefault("log.compress", true)
}
