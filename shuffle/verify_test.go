package shuffle

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestVerifyCleanDirectory(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"001.csv": "1", "002.csv": "2", "003.csv": "3"})
	require.Empty(t, Verify(dir, VerifyOptions{Policy: ExtFixed}))
}

func TestVerifyEmptyDirectory(t *testing.T) {
	require.Empty(t, Verify(t.TempDir(), VerifyOptions{Policy: ExtFixed}))
}

func TestVerifyProblems(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		opts  VerifyOptions
		want  string
	}{
		{
			name:  "gap in sequence",
			files: map[string]string{"001.csv": "1", "003.csv": "3"},
			opts:  VerifyOptions{Policy: ExtFixed},
			want:  "Not a sequence name: 003.csv",
		},
		{
			name:  "nested directory",
			files: map[string]string{"001.csv": "1", "sub/x.csv": "x"},
			opts:  VerifyOptions{Policy: ExtFixed},
			want:  "Nested directory remains: sub",
		},
		{
			name:  "wrong extension",
			files: map[string]string{"001.txt": "1"},
			opts:  VerifyOptions{Policy: ExtFixed},
			want:  "Unexpected extension: 001.txt",
		},
		{
			name:  "short width",
			files: map[string]string{"1.csv": "1"},
			opts:  VerifyOptions{Policy: ExtFixed},
			want:  "Not a sequence name: 1.csv",
		},
		{
			name:  "missing number",
			files: map[string]string{"001.csv": "1", "x.csv": "x"},
			opts:  VerifyOptions{Policy: ExtFixed},
			want:  "Missing sequence number: 002",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeTree(t, dir, tt.files)
			require.Contains(t, Verify(dir, tt.opts), tt.want)
		})
	}
}

func TestVerifyPreserveAcceptsAnyExtension(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"001.txt": "1", "002": "2", "003.csv": "3"})
	require.Empty(t, Verify(dir, VerifyOptions{Policy: ExtPreserve}))
}

func TestVerifyTimestampWindow(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"001.csv": "1", "002.csv": "2"})
	lo := DefaultEpoch
	hi := DefaultEpoch.Add(DefaultWindow)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "001.csv"), time.Time{}, lo.Add(time.Hour)))
	require.NoError(t, os.Chtimes(filepath.Join(dir, "002.csv"), time.Time{}, hi.Add(time.Hour)))

	problems := Verify(dir, VerifyOptions{Policy: ExtFixed, Lo: lo, Hi: hi})
	require.Len(t, problems, 1)
	require.Contains(t, problems[0], "Timestamp of 002.csv outside window")
}

func TestVerifyMissingDirectory(t *testing.T) {
	problems := Verify(filepath.Join(t.TempDir(), "missing"), VerifyOptions{})
	require.Len(t, problems, 1)
	require.Contains(t, problems[0], "Failed to read directory")
}

func TestVerifyIgnoresExcludedFiles(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"001.csv": "1", "report.json": "{}"})
	require.NotEmpty(t, Verify(dir, VerifyOptions{Policy: ExtFixed}))
	require.Empty(t, Verify(dir, VerifyOptions{Policy: ExtFixed, Exclude: []string{filepath.Join(dir, "report.json")}}))
}
