package debug

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestLogDisabledWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetEnabled(false)

	Log("hidden %d", 1)
	LogTiming("hidden", time.Second)
	LogEnterExit("hidden")()

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestLogEnabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetEnabled(true)
	defer SetEnabled(false)

	Log("grading %s", "two-sum")
	LogIf(false, "skipped")
	LogEnterExit("think")()

	out := buf.String()
	if !strings.Contains(out, "[JM_DEBUG] ") {
		t.Errorf("missing prefix: %q", out)
	}
	if !strings.Contains(out, "grading two-sum") {
		t.Errorf("missing message: %q", out)
	}
	if strings.Contains(out, "skipped") {
		t.Errorf("LogIf(false) should not write: %q", out)
	}
	if !strings.Contains(out, "-> think") || !strings.Contains(out, "<- think") {
		t.Errorf("missing enter/exit lines: %q", out)
	}
}
