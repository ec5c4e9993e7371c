package site

import (
	"bytes"
	"fmt"
	"html/template"
	"path"
	"strings"
	texttemplate "text/template"

	"github.com/yuin/goldmark"

	"github.com/okian/enow/internal/domain/national"
)

// Narrative renders the markdown copy of the pages. Each document is a text
// template over national.Formatted converted to HTML by goldmark.
type Narrative struct {
	docs map[string]*texttemplate.Template
	md   goldmark.Markdown
}

// NewNarrative parses every embedded document.
func NewNarrative() (*Narrative, error) {
	entries, err := contentFS.ReadDir("content")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	n := &Narrative{docs: make(map[string]*texttemplate.Template, len(entries)), md: goldmark.New()}
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		src, err := contentFS.ReadFile(path.Join("content", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
		}
		t, err := texttemplate.New(name).Option("missingkey=error").Parse(string(src))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTemplate, name, err)
		}
		n.docs[name] = t
	}
	return n, nil
}

// Render fills document name with f and returns it as HTML.
func (n *Narrative) Render(name string, f national.Formatted) (template.HTML, error) {
	t, ok := n.docs[name]
	if !ok {
		return "", fmt.Errorf("%w: no document %q", ErrTemplate, name)
	}
	var src bytes.Buffer
	if err := t.Execute(&src, f); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTemplate, name, err)
	}
	var out bytes.Buffer
	if err := n.md.Convert(src.Bytes(), &out); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	// goldmark escapes raw HTML by default, so the output is trusted.
	return template.HTML(out.String()), nil //nolint:gosec // sanitized by goldmark
}
