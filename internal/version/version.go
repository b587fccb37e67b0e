// Package version reports what contacts-cli was built from.
//
// Release builds stamp the values with the linker, for example:
//
//	LDPKG=github.com/eugenenazirov/contacts-cli/internal/version
//	go build -ldflags "-X $LDPKG.Version=v0.3.0 -X $LDPKG.Commit=$(git rev-parse --short HEAD) \
//	    -X $LDPKG.BuildTime=$(date -u +%FT%TZ)" ./cmd/contacts-cli
//
// Local builds keep the placeholders below.
package version

import "runtime"

// Stamped by the linker; see the package comment.
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Get returns the build and runtime information.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String is the one-line form used by --version.
func String() string {
	return Version + " (commit " + Commit + ", built " + BuildTime + ")"
}
