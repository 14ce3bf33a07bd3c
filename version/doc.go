// Package version reports version information and build metadata for catshuffle.
//
// Version values come from, in order of preference:
//   - Compile-time variables (Version, Commit, Date) set via -ldflags
//   - Runtime build info from debug.ReadBuildInfo()
//   - Fallback defaults for development builds
//
// Release builds set them with:
//
//	-ldflags "-X github.com/dendrascience/catshuffle/version.Version=v1.0.0 -X github.com/dendrascience/catshuffle/version.Commit=abc123 -X github.com/dendrascience/catshuffle/version.Date=2023-01-01T00:00:00Z"
//
// The run report stamps every pass with GetVersion so a saved report can be
// traced back to the binary that produced it.
package version
