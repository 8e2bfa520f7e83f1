package main

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/bunkapp/bunk/internal/config"
)

var fixedNow = func() time.Time { return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC) }

// newTestApp returns an app with default configuration, colour off and a
// file store in a temporary directory.
func newTestApp(t *testing.T) *app {
	t.Helper()
	cfg := config.New()
	cfg.State.Dir = t.TempDir()
	cfg.Export.Dir = t.TempDir()
	cfg.Output.Color = config.ColorNever
	return &app{cfg: cfg, now: fixedNow}
}

func runCommand(t *testing.T, a *app, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommandWithApp(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
