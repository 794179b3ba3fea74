package cli

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	logger.Debug("selected edges", "vertex", 7)
	if buf.Len() != 0 {
		t.Fatalf("debug line written at info level: %q", buf.String())
	}

	logger.Info("loaded graph", "vertices", 12)
	out := buf.String()
	if !strings.Contains(out, "loaded graph") || !strings.Contains(out, "vertices=12") {
		t.Errorf("info line = %q, want message and vertices=12", out)
	}
	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(out) {
		t.Errorf("info line = %q, want HH:MM:SS.cc timestamp prefix", out)
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)

	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line written before SetLogLevel: %q", buf.String())
	}

	c.SetLogLevel(LogDebug)
	c.Logger.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("debug line missing after SetLogLevel(LogDebug): %q", buf.String())
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Synthesis finished")

	re := regexp.MustCompile(`Synthesis finished \(\d+(\.\d+)?(ns|µs|ms|s)\)`)
	if !re.MatchString(buf.String()) {
		t.Errorf("done() output = %q, want message with elapsed time", buf.String())
	}
}

func TestProgressDoneQuietAtWarn(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.WarnLevel))
	prog.done("Sum finished")

	if buf.Len() != 0 {
		t.Errorf("done() wrote %q at warn level", buf.String())
	}
}
