package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{
			name:     "heading gets an id",
			input:    "# Why Study With Us",
			contains: []string{`<h1 id="why-study-with-us">Why Study With Us</h1>`},
		},
		{
			name:     "emphasis",
			input:    "Apply **today** for *autumn* intake",
			contains: []string{"<strong>today</strong>", "<em>autumn</em>"},
		},
		{
			name:     "bullet list",
			input:    "- Flexible schedules\n- Industry mentors\n",
			contains: []string{"<ul>", "<li>Flexible schedules</li>", "<li>Industry mentors</li>"},
		},
		{
			name:     "gfm table",
			input:    "| Plan | Price |\n|---|---|\n| Basic | 10 |\n",
			contains: []string{"<table>", "<th>Plan</th>", "<td>Basic</td>"},
		},
		{
			name:     "autolink",
			input:    "Visit https://example.com today",
			contains: []string{`<a href="https://example.com">https://example.com</a>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToHTML(tt.input)
			if err != nil {
				t.Fatalf("ToHTML: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q\ngot: %s", want, got)
				}
			}
		})
	}
}

func TestToHTMLDropsRawHTML(t *testing.T) {
	got, err := ToHTML("Hello <script>alert(1)</script> world")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("raw HTML must not pass through: %s", got)
	}
}

func TestPreviewEmpty(t *testing.T) {
	if got := Preview("   \n"); got != "" {
		t.Errorf("Preview of blank input: got %q", got)
	}
	if got := Preview("text"); !strings.Contains(got, "<p>text</p>") {
		t.Errorf("Preview: got %q", got)
	}
}
