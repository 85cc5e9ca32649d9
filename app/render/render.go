// Author: DoItWithASmile (2025). Apache 2.0 License

package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

const contentPlaceholder = "%%content%%"

var frontMatterFence = []byte("---")

// SplitFrontMatter separates a leading YAML front matter block from the
// markdown body. Files without a front matter block return an empty
// property map and the unchanged body.
func SplitFrontMatter(b []byte) (map[string]interface{}, []byte, error) {
	props := map[string]interface{}{}
	if !bytes.HasPrefix(b, frontMatterFence) {
		return props, b, nil
	}
	rest := b[len(frontMatterFence):]
	if len(rest) == 0 || (rest[0] != '\n' && !bytes.HasPrefix(rest, []byte("\r\n"))) {
		return props, b, nil
	}
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, nil, fmt.Errorf("unterminated front matter block")
	}
	block := rest[:end]
	body := rest[end+len("\n---"):]
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}
	if err := yaml.Unmarshal(block, &props); err != nil {
		return nil, nil, fmt.Errorf("invalid front matter: %w", err)
	}
	return props, body, nil
}

// Renderer converts markdown to the markup stored on the content record.
type Renderer interface {
	Render(markdown []byte) (string, error)
}

type markdownRenderer struct {
	md goldmark.Markdown
}

func NewRenderer() Renderer {
	return &markdownRenderer{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func (r *markdownRenderer) Render(markdown []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(markdown, &buf); err != nil {
		return "", fmt.Errorf("markdown conversion failed: %w", err)
	}
	return buf.String(), nil
}

// ApplyTemplate substitutes the rendered content into the configured
// content template. An empty template yields the content unchanged.
func ApplyTemplate(template, content string) string {
	if template == "" {
		return content
	}
	return strings.ReplaceAll(template, contentPlaceholder, content)
}
