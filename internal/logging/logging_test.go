package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func newTestLogger(verbose, debug bool) (Logger, *bytes.Buffer, *bytes.Buffer) {
	color.NoColor = true
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return Logger{Verbose: verbose, Debug: debug, Out: out, Err: errOut}, out, errOut
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		debug     bool
		wantInfo  bool
		wantDebug bool
		wantWarn  bool
		wantError bool
	}{
		{"quiet", false, false, false, false, false, false},
		{"verbose", true, false, true, false, true, false},
		{"debug", false, true, true, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, out, errOut := newTestLogger(tt.verbose, tt.debug)
			l.Infof("i %d", 1)
			l.Debugf("d %d", 2)
			l.Warnf("w %d", 3)
			l.Errorf("e %d", 4)

			check := func(buf *bytes.Buffer, line string, want bool) {
				if got := strings.Contains(buf.String(), line); got != want {
					t.Errorf("Expected %q present=%v, output: %q", line, want, buf.String())
				}
			}
			check(out, "[info] i 1", tt.wantInfo)
			check(out, "[debug] d 2", tt.wantDebug)
			check(errOut, "[warn] w 3", tt.wantWarn)
			check(errOut, "[error] e 4", tt.wantError)
		})
	}
}

func TestWarnfAlways(t *testing.T) {
	l, _, errOut := newTestLogger(false, false)
	l.WarnfAlways("plaintext released before %s", "verification")
	if !strings.Contains(errOut.String(), "[warn] plaintext released before verification") {
		t.Errorf("Expected warning in quiet mode, got: %q", errOut.String())
	}
}

func TestErrorfAndReturn(t *testing.T) {
	sentinel := errors.New("boom")
	l, _, errOut := newTestLogger(false, true)

	err := l.ErrorfAndReturn("loading index: %w", sentinel)
	if !errors.Is(err, sentinel) {
		t.Errorf("Expected wrapped sentinel, got: %v", err)
	}
	if !strings.Contains(errOut.String(), "loading index: boom") {
		t.Errorf("Expected logged error, got: %q", errOut.String())
	}
}
