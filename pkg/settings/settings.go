// Package settings provides build metadata, per-run settings, and the
// context helpers used to pass them between the CLI and the UI.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "typeahead"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build, including the commit hash,
// build version, and build timestamp.
type VersionInfo struct {
	Commit       string `json:"commit" yaml:"commit"`
	BuildVersion string `json:"version" yaml:"version"`
	BuildTime    string `json:"buildTime" yaml:"buildTime"`
}

// Run holds settings for a single execution of the application.
type Run struct {
	MinLogLevel int8
	LogFile     string
	// Headless is set for commands that never take over the terminal.
	Headless    bool
	NoColor     bool
	ExitOnError bool
}

// NewCliParams returns the defaults used by the interactive command.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		Headless:    false,
		NoColor:     false,
		ExitOnError: true,
	}
}
