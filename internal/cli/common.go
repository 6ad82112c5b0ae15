package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
)

// Version information for the checker
const (
	Version   = "0.2.0"
	BuildDate = "2026-10-19"
)

// CommitSHA is set during build with -ldflags.
var CommitSHA = "unknown"

// Exit codes. A failing run exits with the number of failing fixtures,
// capped so it never collides with the codes below. UsageExitCode covers bad
// flags, arguments, configuration and suite manifests; InternalExitCode
// covers failures of the checker itself, such as an unwritable report.
// InterruptedExitCode (128+SIGINT) marks a run cancelled before every
// fixture was checked.
const (
	MaxFailureExitCode  = 125
	UsageExitCode       = 126
	InternalExitCode    = 127
	InterruptedExitCode = 130
)

// VersionInfo contains version and build information
type VersionInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	CommitSHA string `json:"commit_sha"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Arch      string `json:"arch"`
}

// GetVersionInfo returns structured version information
func GetVersionInfo() *VersionInfo {
	return &VersionInfo{
		Version:   Version,
		BuildDate: BuildDate,
		CommitSHA: CommitSHA,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// PrintVersion writes version information as text or JSON.
func PrintVersion(w io.Writer, toolName string, jsonOutput bool) error {
	info := GetVersionInfo()

	if jsonOutput {
		data, err := json.MarshalIndent(map[string]interface{}{
			"tool":         toolName,
			"version_info": info,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal version info: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	fmt.Fprintf(w, "%s v%s\n", toolName, info.Version)
	fmt.Fprintf(w, "Build Date: %s\n", info.BuildDate)
	if info.CommitSHA != "unknown" && info.CommitSHA != "" {
		fmt.Fprintf(w, "Commit: %s\n", info.CommitSHA)
	}
	fmt.Fprintf(w, "Go Version: %s\n", info.GoVersion)
	_, err := fmt.Fprintf(w, "Platform: %s/%s\n", info.Platform, info.Arch)
	return err
}

// ExitCode maps the number of failing fixtures to a process exit status.
func ExitCode(failures int) int {
	switch {
	case failures <= 0:
		return 0
	case failures > MaxFailureExitCode:
		return MaxFailureExitCode
	default:
		return failures
	}
}

// UsageError marks errors caused by bad invocation or configuration. They
// exit with UsageExitCode.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

// Usagef returns a UsageError with a formatted message.
func Usagef(format string, args ...interface{}) error {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// ExitError carries an exit status out of a command without printing.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return fmt.Sprintf("exit status %d", e.Code) }
