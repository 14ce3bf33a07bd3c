package shuffle

import (
	"os"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/rs/zerolog"
)

// TimeMode selects the reference instant and direction of the timestamp
// window.
type TimeMode string

const (
	// EpochForward draws from [Epoch, Epoch+Window].
	EpochForward TimeMode = "epoch-forward"
	// NowBackward draws from [now-Window, now].
	NowBackward TimeMode = "now-backward"
	// NowForward draws from [now, now+Window].
	NowForward TimeMode = "now-forward"

	// DefaultWindow is ten days.
	DefaultWindow = 864000 * time.Second
)

// DefaultEpoch is 2023-09-22 00:00:00 UTC.
var DefaultEpoch = time.Unix(1695340800, 0).UTC()

// ParseTimeMode validates a mode name.
func ParseTimeMode(s string) (TimeMode, error) {
	switch m := TimeMode(strings.ToLower(s)); m {
	case EpochForward, NowBackward, NowForward:
		return m, nil
	}
	return "", goerr.Wrap(ErrUnknownTimeMode, "invalid time mode", goerr.V("mode", s))
}

// Stamper overwrites modification times with a random instant in a window.
// Access and creation times are left alone.
type Stamper struct {
	Rand     Rand
	Clock    Clock
	Mode     TimeMode
	Epoch    time.Time
	Window   time.Duration
	Log      zerolog.Logger
	Narrator *Narrator
}

// Bounds returns the inclusive window new timestamps are drawn from.
func (s Stamper) Bounds() (lo, hi time.Time) {
	switch s.Mode {
	case NowBackward:
		now := s.Clock.Now()
		return now.Add(-s.Window), now
	case NowForward:
		now := s.Clock.Now()
		return now, now.Add(s.Window)
	default:
		epoch := s.Epoch
		if epoch.IsZero() {
			epoch = DefaultEpoch
		}
		return epoch, epoch.Add(s.Window)
	}
}

// Next draws a timestamp with whole-second offsets, uniform over the window
// including both ends.
func (s Stamper) Next() time.Time {
	var offset time.Duration
	if secs := int64(s.Window / time.Second); secs > 0 {
		offset = time.Duration(s.Rand.Int64N(secs+1)) * time.Second
	}
	lo, hi := s.Bounds()
	if s.Mode == NowBackward {
		return hi.Add(-offset)
	}
	return lo.Add(offset)
}

// Stamp sets the modification time of path and returns the value written.
func (s Stamper) Stamp(path string) (time.Time, error) {
	t := s.Next()
	s.Narrator.Details(path, "Before Timestamp Change")
	// the zero atime leaves the access time untouched
	if err := os.Chtimes(path, time.Time{}, t); err != nil {
		return time.Time{}, goerr.Wrap(err, "failed to set modification time", goerr.V("path", path), goerr.V("mtime", t))
	}
	s.Narrator.Details(path, "After Timestamp Change")
	s.Log.Debug().Str("path", path).Time("mtime", t).Msg("stamped file")
	return t, nil
}
