// Package settings provides build metadata, runtime configuration, and
// context helpers used across the jsonwalk CLI and library packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "jsonwalk"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// EntryPointSettings records where the document came from: a file path, or
// stdin when Path is empty or "-".
type EntryPointSettings struct {
	Path string
}

// FromStdin reports whether the document is read from standard input.
func (e EntryPointSettings) FromStdin() bool {
	return e.Path == "" || e.Path == "-"
}

// VersionInfo holds metadata about the build, including the commit hash,
// build version, and build timestamp.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds configuration settings for a single execution of the application.
type Run struct {
	MinLogLevel        int8
	LogFormat          string // "json" or "console"
	EntryPointSettings EntryPointSettings
	IsQuiet            bool
	NoColor            bool
}

// quietLogLevel is zap's error level; quiet runs log nothing below it.
const quietLogLevel int8 = 2

// EffectiveLogLevel is the level the logger should be built with. Quiet runs
// only log errors, whatever MinLogLevel says.
func (r *Run) EffectiveLogLevel() int8 {
	if r.IsQuiet {
		return quietLogLevel
	}
	return r.MinLogLevel
}

// NewCliParams initializes and returns a pointer to a Run struct with default CLI parameters.
// It sets logging level to 0 with JSON logs, reads from stdin until a path is
// given, and leaves colour on and quiet mode off.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		LogFormat:   "json",
		IsQuiet:     false,
		NoColor:     false,
	}
}
