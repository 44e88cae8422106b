package cli

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func testFrame() Frame {
	return Frame{
		Styles: NewStyles(DefaultTheme),
		Title:  "CWLINK",
		Status: "CONNECTED",
		Sections: []Section{
			{Label: "Station", Height: 3, Content: func() []string {
				return []string{"SERVER MODE", "WPM 15  FREQ 600", "PORT 5000"}
			}},
			{Label: "Log", Content: func() []string {
				var lines []string
				for i := 1; i <= 12; i++ {
					lines = append(lines, fmt.Sprintf("log%02d", i))
				}
				return lines
			}},
		},
		Help: "space: key  t: talk  q: quit",
	}
}

func TestFrame_Render(t *testing.T) {
	out := testFrame().Render(60, 20)
	lines := strings.Split(out, "\n")
	if len(lines) != 20 {
		t.Errorf("rendered %d lines, want 20", len(lines))
	}
	for i, line := range lines[:len(lines)-1] {
		if w := lipgloss.Width(line); w != 60 {
			t.Errorf("line %d width = %d, want 60: %q", i, w, line)
		}
	}
	for _, want := range []string{"CWLINK", "[CONNECTED]", "SERVER MODE", "PORT 5000", "log03", "log12", "q: quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("frame missing %q", want)
		}
	}
	// The log section shows its last lines only.
	if strings.Contains(out, "log02") {
		t.Error("oldest log line should have scrolled off")
	}
}

func TestFrame_RenderEmpty(t *testing.T) {
	if got := testFrame().Render(0, 0); got != "Loading..." {
		t.Errorf("Render(0,0) = %q", got)
	}
}

func TestFrame_SectionHeights(t *testing.T) {
	f := testFrame()
	got := f.sectionHeights(20)
	// 20 - 5 - 2 labels - 3 fixed = 10 for the log
	if got[0] != 3 || got[1] != 10 {
		t.Errorf("sectionHeights(20) = %v, want [3 10]", got)
	}
	if got := f.sectionHeights(8); got[1] != 2 {
		t.Errorf("small terminal log height = %d, want minimum 2", got[1])
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"hello", 0, ""},
		{"日本語", 4, "日本"},
	}
	for _, tt := range tests {
		if got := truncateString(tt.s, tt.width); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
		}
	}
}
