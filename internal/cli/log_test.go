package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", LogInfo, func(l *log.Logger) { l.Info("indexed") }, true},
		{"debug at info level", LogInfo, func(l *log.Logger) { l.Debug("indexed") }, false},
		{"debug at debug level", LogDebug, func(l *log.Logger) { l.Debug("indexed") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, LogInfo))

	prog.debug("Indexed 8 records")
	if buf.Len() != 0 {
		t.Errorf("debug progress at info level wrote %q", buf.String())
	}

	prog.done("Applied 3 operations")
	if !strings.Contains(buf.String(), "Applied 3 operations (") {
		t.Errorf("progress.done() output = %q, want message with elapsed time", buf.String())
	}
}

func TestLoadStoreLogsAtDebug(t *testing.T) {
	isolate(t)
	input := writeFile(t, t.TempDir(), "records.json", fixtureJSON)

	var buf bytes.Buffer
	c := New(&buf, LogDebug)
	if _, err := c.loadStore(input); err != nil {
		t.Fatalf("loadStore() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Indexed 8 records (") {
		t.Errorf("loadStore() log = %q, want the indexed record count", buf.String())
	}

	buf.Reset()
	c.SetLogLevel(LogInfo)
	if _, err := c.loadStore(input); err != nil {
		t.Fatalf("loadStore() error = %v", err)
	}
	if strings.Contains(buf.String(), "Indexed") {
		t.Errorf("loadStore() at info level logged %q", buf.String())
	}
}

func TestApplyLogsProgress(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "records.json", fixtureJSON)
	script := writeFile(t, dir, "ops.yaml", "- {op: add, id: 9, parent: 8}\n- {op: remove, id: 3}\n")

	var buf bytes.Buffer
	root := New(&buf, LogInfo).RootCommand()
	root.SetArgs([]string{"apply", input, script, "-o", filepath.Join(dir, "out.json")})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("apply error = %v", err)
	}
	if !strings.Contains(buf.String(), "Applied 2 operations (") {
		t.Errorf("apply log = %q, want the applied operation count", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, LogInfo)

	if got := loggerFromContext(withLogger(context.Background(), custom)); got != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext should fall back to log.Default()")
	}
}
