package shuffle

import (
	"os"
	"time"
)

// DetailsTimeFormat is the layout used for times in the run record.
const DetailsTimeFormat = "2006-01-02 15:04:05"

// FileDetails holds the display metadata of a file. Created is informational
// only: it is never written, and many platforms cannot report it at all.
type FileDetails struct {
	Path     string
	Created  time.Time
	Modified time.Time
	HasBirth bool
}

// ReadDetails stats path and reads its creation time when the platform
// exposes one.
func ReadDetails(path string) (FileDetails, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileDetails{Path: path}, err
	}
	d := FileDetails{Path: path, Modified: info.ModTime()}
	d.Created, d.HasBirth = birthTime(path)
	return d, nil
}

// CreatedString renders the creation time, or "Not available".
func (d FileDetails) CreatedString() string {
	if !d.HasBirth {
		return "Not available"
	}
	return d.Created.Local().Format(DetailsTimeFormat)
}

// ModifiedString renders the modification time, or "Not available".
func (d FileDetails) ModifiedString() string {
	if d.Modified.IsZero() {
		return "Not available"
	}
	return d.Modified.Local().Format(DetailsTimeFormat)
}
