package cmd

import (
	"io"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"

	"github.com/dendrascience/catshuffle/internal/config"
)

// newLogger builds the diagnostic logger: a human-friendly console writer on
// stderr, plus a rotated log file when one is configured. The returned
// closer is nil when no file is used.
func newLogger(cfg config.LogConfig, stderr io.Writer) (zerolog.Logger, io.Closer, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return zerolog.Nop(), nil, goerr.Wrap(err, "invalid log level", goerr.V("level", cfg.Level))
	}

	writers := []io.Writer{
		zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = stderr
			w.TimeFormat = time.Kitchen
		}),
	}

	var closer io.Closer
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		writers = append(writers, lj)
		closer = lj
	}

	logger := zerolog.New(io.MultiWriter(writers...)).Level(lvl).With().Timestamp().Logger()
	return logger, closer, nil
}
