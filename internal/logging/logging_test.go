package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level, format string
		terminal      bool
		wantJSON      bool
		wantDebug     bool
	}{
		{"info", "json", true, true, false},
		{"debug", "text", false, false, true},
		{"", "auto", true, false, false},
		{"DEBUG", "auto", false, true, true},
		{"bogus", "", false, true, false},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		l := New(&buf, tt.level, tt.format, tt.terminal)
		l.Debug("dbg")
		l.Info("hello", "k", 1)

		out := buf.String()
		if got := strings.HasPrefix(out, "{"); got != tt.wantJSON {
			t.Errorf("New(%q, %q, %v): json output = %v, want %v: %q", tt.level, tt.format, tt.terminal, got, tt.wantJSON, out)
		}
		if got := strings.Contains(out, "dbg"); got != tt.wantDebug {
			t.Errorf("New(%q, %q, %v): debug logged = %v, want %v", tt.level, tt.format, tt.terminal, got, tt.wantDebug)
		}
		if !strings.Contains(out, "hello") {
			t.Errorf("New(%q, %q, %v): info line missing: %q", tt.level, tt.format, tt.terminal, out)
		}
	}
}
