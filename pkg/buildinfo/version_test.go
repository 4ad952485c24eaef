package buildinfo

import (
	"strings"
	"testing"
)

func TestTemplate(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)
	Version, Commit, Date = "v1.2.3", "abc123", "2026-01-02"

	got := Template()
	want := "{{.Name}} version v1.2.3\ncommit: abc123\nbuilt: 2026-01-02\n"
	if got != want {
		t.Errorf("Template() = %q, want %q", got, want)
	}
	if !strings.Contains(String(), "version: v1.2.3") {
		t.Errorf("String() = %q", String())
	}
}
