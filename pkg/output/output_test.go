package output

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/config"
)

func capture(t *testing.T, format string) *bytes.Buffer {
	t.Helper()
	color.NoColor = true
	var buf bytes.Buffer
	prev := Writer
	Writer = &buf
	config.Set("output.format", format)
	t.Cleanup(func() {
		Writer = prev
		config.Set("output.format", "text")
	})
	return &buf
}

func TestGetOutputFormat(t *testing.T) {
	capture(t, "table")
	if got := GetOutputFormat(); got != FormatTable {
		t.Errorf("GetOutputFormat: got %v, want table", got)
	}
	config.Set("output.format", "bogus")
	if got := GetOutputFormat(); got != FormatText {
		t.Errorf("unknown format should fall back to text, got %v", got)
	}
}

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		format  string
		isValid bool
	}{
		{"json", true},
		{"text", true},
		{"table", true},
		{"invalid", false},
	}

	for _, tt := range tests {
		result := ValidateOutputFormat(tt.format)
		if result != tt.isValid {
			t.Errorf("ValidateOutputFormat(%s): got %v, want %v", tt.format, result, tt.isValid)
		}
	}
}

func TestPrint_JSON(t *testing.T) {
	buf := capture(t, "json")
	called := false
	err := Print(map[string]int{"met": 2}, func(w io.Writer) { called = true })
	if err != nil {
		t.Fatal(err)
	}
	if called {
		t.Error("render callback should not run in json mode")
	}
	if !strings.Contains(buf.String(), `"met": 2`) {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestPrint_Text(t *testing.T) {
	buf := capture(t, "text")
	err := Print(nil, func(w io.Writer) { io.WriteString(w, "rendered") })
	if err != nil {
		t.Fatal(err)
	}
	if buf.String() != "rendered" {
		t.Errorf("got %q", buf.String())
	}
}

func TestPrintList_Table(t *testing.T) {
	buf := capture(t, "table")
	rows := [][]string{{"days visited", "15", "15", "yes"}}
	if err := PrintList(nil, []string{"Requirement", "Current", "Needed", "Met"}, rows); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Requirement") || !strings.Contains(out, "days visited") {
		t.Errorf("unexpected table: %s", out)
	}
}

func TestPrintRecord_SortedText(t *testing.T) {
	buf := capture(t, "text")
	if err := PrintRecord("Session", map[string]interface{}{"b": 2, "a": 1}); err != nil {
		t.Fatal(err)
	}
	want := "Session:\na: 1\nb: 2\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestMessages(t *testing.T) {
	buf := capture(t, "text")
	PrintSuccess("done %d", 1)
	PrintError("failed")
	PrintWarning("careful")
	PrintInfo("fyi")
	out := buf.String()
	for _, want := range []string{"done 1", "Error: failed", "Warning: careful", "fyi"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}
