//go:build !linux

package shuffle

import "time"

// Creation time is only read on Linux; elsewhere it is reported as not
// available.
func birthTime(string) (time.Time, bool) {
	return time.Time{}, false
}
