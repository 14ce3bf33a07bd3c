package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/dendrascience/catshuffle/shuffle"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	require.Equal(t, "categories", cfg.Layout)
	require.Equal(t, shuffle.DefaultCategories, cfg.Categories)
	require.Equal(t, "fixed", cfg.Rename.Policy)
	require.Equal(t, ".csv", cfg.Rename.Extension)
	require.Equal(t, "epoch-forward", cfg.Timestamp.Mode)
	require.Equal(t, 240*time.Hour, cfg.Timestamp.Window)
	require.Equal(t, int64(1695340800), cfg.Timestamp.EpochUnix)
	require.True(t, cfg.Epoch().Equal(time.Date(2023, 9, 22, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, 1, cfg.Schedule.Repeat)
	require.False(t, cfg.Schedule.Forever)
	require.Equal(t, "data/data", cfg.Presets.A.Root)
	require.Equal(t, "/data", cfg.Presets.B.Root)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "catshuffle.yaml")
	content := `root: /srv/flights
layout: flat
categories: [up, down]
rename:
  policy: preserve
timestamp:
  mode: now-backward
  window: 48h
schedule:
  interval: 30s
  forever: true
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))

	cfg, err := Load(file, nil)
	require.NoError(t, err)
	require.Equal(t, "/srv/flights", cfg.Root)
	require.Equal(t, "/srv/flights", cfg.Target, "target defaults to root")
	require.Equal(t, "flat", cfg.Layout)
	require.Equal(t, []string{"up", "down"}, cfg.Categories)
	require.Equal(t, shuffle.ExtPreserve, cfg.ExtPolicyValue())
	require.Equal(t, shuffle.NowBackward, cfg.TimeModeValue())
	require.Equal(t, 48*time.Hour, cfg.Timestamp.Window)
	require.Equal(t, 30*time.Second, cfg.Schedule.Interval)
	require.True(t, cfg.Schedule.Forever)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("CATSHUFFLE_ROOT", "/from/env")
	t.Setenv("CATSHUFFLE_SCHEDULE_REPEAT", "4")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	require.Equal(t, "/from/env", cfg.Root)
	require.Equal(t, 4, cfg.Schedule.Repeat)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("CATSHUFFLE_ROOT", "/from/env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("root", "", "")
	flags.String("target", "", "")
	flags.StringSlice("categories", nil, "")
	flags.Duration("interval", time.Second, "")
	flags.Int("repeat", 1, "")
	require.NoError(t, flags.Parse([]string{
		"--root", "/from/flag",
		"--categories", "a,b",
		"--interval", "2m",
		"--repeat", "3",
	}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	require.Equal(t, "/from/flag", cfg.Root)
	require.Equal(t, "/from/flag", cfg.Target)
	require.Equal(t, []string{"a", "b"}, cfg.Categories)
	require.Equal(t, 2*time.Minute, cfg.Schedule.Interval)
	require.Equal(t, 3, cfg.Schedule.Repeat)
}

func TestUnsetFlagsKeepDefaults(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("layout", "flat", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	require.Equal(t, "categories", cfg.Layout)
}

func TestValidate(t *testing.T) {
	valid := Default().WithPaths(Paths{Root: "/data"})

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing root", mutate: func(c *Config) { c.Root = "" }},
		{name: "unknown layout", mutate: func(c *Config) { c.Layout = "tree" }, wantErr: shuffle.ErrUnknownLayout},
		{name: "no categories", mutate: func(c *Config) { c.Categories = nil }},
		{name: "flat without categories", mutate: func(c *Config) { c.Layout = "flat"; c.Categories = nil }},
		{name: "unknown policy", mutate: func(c *Config) { c.Rename.Policy = "drop" }, wantErr: shuffle.ErrUnknownExtPolicy},
		{name: "unknown time mode", mutate: func(c *Config) { c.Timestamp.Mode = "yesterday" }, wantErr: shuffle.ErrUnknownTimeMode},
		{name: "negative window", mutate: func(c *Config) { c.Timestamp.Window = -time.Second }, wantErr: shuffle.ErrNegativeWindow},
		{name: "negative interval", mutate: func(c *Config) { c.Schedule.Interval = -time.Second }, wantErr: shuffle.ErrNegativeInterval},
		{name: "negative repeat", mutate: func(c *Config) { c.Schedule.Repeat = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			cfg.Categories = append([]string(nil), valid.Categories...)
			tt.mutate(&cfg)
			err := cfg.Validate()

			switch tt.name {
			case "valid", "flat without categories":
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestWithPathsBlankTarget(t *testing.T) {
	cfg := Default().WithPaths(Paths{Root: " /data/main ", Target: "  "})
	require.Equal(t, "/data/main", cfg.Root)
	require.Equal(t, "/data/main", cfg.Target)
}
