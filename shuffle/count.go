package shuffle

import (
	"os"
	"path/filepath"
)

// TreeCount describes how far a directory is from being flat.
type TreeCount struct {
	Direct int // regular files directly inside the directory
	Nested int // regular files in subdirectories, at any depth
	Dirs   int // subdirectories, at any depth
}

// Flat reports whether the directory has no subdirectories.
func (c TreeCount) Flat() bool {
	return c.Dirs == 0
}

// CountTree counts the files and subdirectories below path.
func CountTree(path string) (TreeCount, error) {
	var count TreeCount
	info, err := os.Stat(path)
	if err != nil {
		return count, err
	}
	if !info.IsDir() {
		return count, ErrExpectedDirectory
	}
	files, err := os.ReadDir(path)
	if err != nil {
		return count, err
	}
	for _, f := range files {
		switch {
		case f.IsDir():
			count.Dirs++
			c, err := CountTree(filepath.Join(path, f.Name()))
			if err != nil {
				return count, err
			}
			count.Nested += c.Direct + c.Nested
			count.Dirs += c.Dirs
		case f.Type().IsRegular():
			count.Direct++
		}
	}
	return count, nil
}
