// Package content loads the optional markdown intro shown above the catalog.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// Intro is a rendered intro block.
type Intro struct {
	Title   string
	Summary string
	Body    template.HTML
}

type introFrontMatter struct {
	Title   string `yaml:"title"`
	Summary string `yaml:"summary"`
}

var (
	md     = goldmark.New(goldmark.WithExtensions(extension.GFM))
	policy = newIntroPolicy()
)

func newIntroPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("p", "span")
	p.RequireNoFollowOnLinks(true)
	return p
}

// LoadIntro reads path and renders it. An empty path or a missing file yields
// a zero Intro and no error.
func LoadIntro(path string) (Intro, error) {
	if strings.TrimSpace(path) == "" {
		return Intro{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Intro{}, nil
		}
		return Intro{}, fmt.Errorf("content: read intro %s: %w", path, err)
	}
	intro, err := ParseIntro(data)
	if err != nil {
		return Intro{}, fmt.Errorf("content: %s: %w", path, err)
	}
	return intro, nil
}

// ParseIntro renders markdown with optional YAML front matter.
func ParseIntro(data []byte) (Intro, error) {
	fm, body := splitFrontMatter(string(data))
	front := introFrontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Intro{}, fmt.Errorf("parse front matter: %w", err)
		}
	}
	var buf bytes.Buffer
	if strings.TrimSpace(body) != "" {
		if err := md.Convert([]byte(body), &buf); err != nil {
			return Intro{}, fmt.Errorf("render markdown: %w", err)
		}
	}
	return Intro{
		Title:   strings.TrimSpace(front.Title),
		Summary: strings.TrimSpace(front.Summary),
		Body:    template.HTML(policy.SanitizeBytes(buf.Bytes())),
	}, nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}
