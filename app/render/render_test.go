// Author: DoItWithASmile (2025). Apache 2.0 License

package render

import (
	"strings"
	"testing"
)

func TestSplitFrontMatter(t *testing.T) {
	input := []byte("---\ntitle: Intro\ntaxonomy:\n  category: guides\n---\n# Hello\n")
	props, body, err := SplitFrontMatter(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if props["title"] != "Intro" {
		t.Errorf("unexpected title %v", props["title"])
	}
	tax, ok := props["taxonomy"].(map[string]interface{})
	if !ok || tax["category"] != "guides" {
		t.Errorf("unexpected taxonomy %v", props["taxonomy"])
	}
	if string(body) != "# Hello\n" {
		t.Errorf("unexpected body %q", string(body))
	}
}

func TestSplitFrontMatterAbsent(t *testing.T) {
	input := []byte("# Hello\n---\nnot front matter\n")
	props, body, err := SplitFrontMatter(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(props) != 0 {
		t.Errorf("expected no properties, got %v", props)
	}
	if string(body) != string(input) {
		t.Errorf("body must be unchanged, got %q", string(body))
	}
}

func TestSplitFrontMatterUnterminated(t *testing.T) {
	_, _, err := SplitFrontMatter([]byte("---\ntitle: Intro\n"))
	if err == nil {
		t.Error("expected an error for an unterminated block")
	}
}

func TestRenderMarkdown(t *testing.T) {
	html, err := NewRenderer().Render([]byte("# Hello\n\nsome *text*\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "<h1>Hello</h1>") {
		t.Errorf("expected heading in output, got %q", html)
	}
	if !strings.Contains(html, "<em>text</em>") {
		t.Errorf("expected emphasis in output, got %q", html)
	}
}

func TestApplyTemplate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		content  string
		want     string
	}{
		{"placeholder", "<div>%%content%%</div>", "<p>x</p>", "<div><p>x</p></div>"},
		{"empty template", "", "<p>x</p>", "<p>x</p>"},
		{"no placeholder", "static", "<p>x</p>", "static"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApplyTemplate(tt.template, tt.content); got != tt.want {
				t.Errorf("ApplyTemplate() = %q, want %q", got, tt.want)
			}
		})
	}
}
