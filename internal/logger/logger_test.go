package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetupWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l := Logger{Level: "debug", Format: "json", File: path}
	if err := l.Setup(); err != nil {
		t.Fatal(err)
	}
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	log.Debug().Str("query", "Madrid").Msg("lookup")
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"query":"Madrid"`) {
		t.Fatalf("log file missing record: %s", b)
	}
}

func TestSetupBadFileFallsBackToStderr(t *testing.T) {
	var buf bytes.Buffer
	orig := stderr
	stderr = &buf
	defer func() { stderr = orig }()

	l := Logger{Level: "info", Format: "json", File: filepath.Join(t.TempDir(), "missing", "dir", "x.log")}
	err := l.Setup()
	if err == nil {
		t.Fatal("expected open error")
	}
	log.Error().Err(err).Msg("cannot open log file")
	if !strings.Contains(buf.String(), "cannot open log file") {
		t.Fatalf("record lost: %q", buf.String())
	}
}

func TestNewTextFormat(t *testing.T) {
	var buf bytes.Buffer
	lg := New(&buf, "text")
	lg.Info().Str("k", "v").Msg("hello")
	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "k=v") {
		t.Fatalf("unexpected console output %q", out)
	}
}
