// Package buildinfo exposes the version stamped into meshgrad binaries.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "\
//	    -X github.com/matzehuels/meshgrad/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/meshgrad/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/meshgrad/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/meshgrad
package buildinfo

import "fmt"

// Stamped by the linker. Local builds keep the placeholders.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build information in a form suitable for JSON responses.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current build information.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String returns the build information as three lines.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, built %s)\n", Version, Commit, Date)
}
