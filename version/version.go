package version

import (
	"fmt"
	"runtime"
)

// Name is the binary name reported by `hotload version`.
const Name = "hotload"

// These variables are populated by the Go linker during the build process.
var (
	Version   = "dev"     // Overridden by the Git tag or dev version string
	Commit    = "none"    // Overridden by the Git commit hash
	BuildDate = "unknown" // Overridden by the build timestamp
)

// Info holds all the versioning information.
type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// GetInfo returns a struct populated with the version information.
func GetInfo() Info {
	return Info{
		Name:      Name,
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// Short returns "hotload <version>".
func (i Info) Short() string {
	return fmt.Sprintf("%s %s", i.Name, i.Version)
}

// String returns a formatted string of the version information.
func (i Info) String() string {
	return fmt.Sprintf(
		"%s\nCommit:\t\t%s\nBuild Date:\t%s\nGo Version:\t%s\nPlatform:\t%s",
		i.Short(), i.Commit, i.BuildDate, i.GoVersion, i.Platform,
	)
}
