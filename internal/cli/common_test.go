package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		failures int
		want     int
	}{
		{0, 0},
		{1, 1},
		{124, 124},
		{125, 125},
		{126, 125},
		{10000, 125},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.failures); got != tt.want {
			t.Errorf("ExitCode(%d) = %d, want %d", tt.failures, got, tt.want)
		}
	}
	if MaxFailureExitCode >= UsageExitCode {
		t.Fatal("failure codes must stay below the usage code")
	}
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintVersion(&buf, "modcheck", false); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "modcheck v"+Version+"\n") {
		t.Errorf("unexpected text output:\n%s", buf.String())
	}

	buf.Reset()
	if err := PrintVersion(&buf, "modcheck", true); err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Tool        string      `json:"tool"`
		VersionInfo VersionInfo `json:"version_info"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if decoded.Tool != "modcheck" || decoded.VersionInfo.Version != Version {
		t.Errorf("unexpected JSON output: %+v", decoded)
	}
}

func TestUsageError(t *testing.T) {
	err := Usagef("unknown format %q", "xml")

	var usage *UsageError
	if !errors.As(err, &usage) {
		t.Fatal("expected a UsageError")
	}
	if err.Error() != `unknown format "xml"` {
		t.Errorf("Error() = %q", err.Error())
	}
}
