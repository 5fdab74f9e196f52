package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)
	defer SetLevel(Notice)

	logger := New("test")

	SetLevel(Notice)
	logger.Debug("hidden debug")
	logger.Noticef("visible %s", "notice")

	out := buf.String()
	if strings.Contains(out, "hidden debug") {
		t.Fatalf("expected debug message to be filtered at notice level; got %q", out)
	}
	if !strings.Contains(out, "visible notice") || !strings.Contains(out, "[test]") {
		t.Fatalf("expected notice message tagged with the module name; got %q", out)
	}

	buf.Reset()
	SetLevel(Debug)
	if !IsEnabled(Debug) {
		t.Fatal("expected debug level to be enabled")
	}
	logger.Debugf("shown %d", 42)
	if !strings.Contains(buf.String(), "shown 42") {
		t.Fatalf("expected debug message at debug level; got %q", buf.String())
	}
}

func TestSinkKeepsLevel(t *testing.T) {
	defer SetSink(os.Stdout)
	defer SetLevel(Notice)

	SetLevel(Error)
	var buf bytes.Buffer
	SetSink(&buf)

	if IsEnabled(Warning) {
		t.Fatal("expected level to survive a sink change")
	}
}

func TestParseLevel(t *testing.T) {
	type spec struct {
		in     string
		exp    Level
		expErr bool
	}
	specs := []spec{
		{"debug", Debug, false},
		{"INFO", Info, false},
		{"notice", Notice, false},
		{"warn", Warning, false},
		{"warning", Warning, false},
		{"error", Error, false},
		{"verbose", Notice, true},
	}

	for _, s := range specs {
		level, err := ParseLevel(s.in)
		if s.expErr {
			if err == nil {
				t.Fatalf("[%s] expected an error", s.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("[%s] unexpected error: %v", s.in, err)
		}
		if level != s.exp {
			t.Fatalf("[%s] expected level %d; got %d", s.in, s.exp, level)
		}
	}
}
