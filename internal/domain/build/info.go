// Package build carries build-time information injected via ldflags.
package build

import "fmt"

// Info holds build-time information injected via ldflags.
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
}

// String renders a one-line version banner.
func (i Info) String() string {
	version := i.Version
	if version == "" {
		version = "dev"
	}
	if i.Commit == "" {
		return fmt.Sprintf("siteshell %s", version)
	}
	return fmt.Sprintf("siteshell %s (%s, built %s, %s)", version, i.Commit, i.BuildDate, i.GoVersion)
}

// RepoURL returns the repository URL.
func RepoURL() string {
	return "https://github.com/bnema/siteshell"
}
