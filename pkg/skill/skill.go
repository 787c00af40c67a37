// Package skill defines the SKILL.md document model: a markdown file
// with YAML frontmatter (name, description, license, metadata.author,
// metadata.version) followed by free-form guidance sections. The file
// format is the only machine-facing interface the corpus has, so all
// parsing lives here.
package skill

import (
	"bytes"
	"io/fs"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"
)

// FileName is the canonical file name for a skill document inside its
// topic directory.
const FileName = "SKILL.md"

// Skill is a parsed skill document.
type Skill struct {
	Name        string // unique name from frontmatter
	Description string // one-line summary used for selection
	License     string // SPDX-style license identifier
	Author      string // metadata.author
	Version     string // metadata.version, semantic version string
	Directory   string // path to the skill directory, set by the catalog
	Source      string // where the skill came from (builtin, local, ...), set by the catalog
	Content     string // markdown body without frontmatter
	Raw         string // full file content including frontmatter
	Dir         fs.FS  // the skill's directory tree, set by the catalog
}

// FrontMatter is the typed YAML frontmatter of a SKILL.md file.
type FrontMatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	License     string `yaml:"license"`
	Metadata    struct {
		Author  string `yaml:"author"`
		Version string `yaml:"version"`
	} `yaml:"metadata"`
}

// Parse parses a SKILL.md document. It fails on missing or malformed
// frontmatter and on a missing name or description; the remaining
// frontmatter keys are surfaced as-is so the linter can judge them.
func Parse(content []byte) (*Skill, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	if meta.Get(pctx) == nil {
		return nil, errors.New("missing frontmatter")
	}

	block, body := splitFrontMatter(string(content))

	var fm FrontMatter
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return nil, errors.Wrap(err, "failed to decode frontmatter")
	}

	if fm.Name == "" {
		return nil, errors.New("skill name is required in frontmatter")
	}
	if fm.Description == "" {
		return nil, errors.New("skill description is required in frontmatter")
	}

	return &Skill{
		Name:        fm.Name,
		Description: fm.Description,
		License:     fm.License,
		Author:      fm.Metadata.Author,
		Version:     fm.Metadata.Version,
		Content:     body,
		Raw:         string(content),
	}, nil
}

// ParseFrontMatter decodes only the frontmatter block, without
// requiring name or description. The linter uses this to report
// per-key findings instead of a single parse failure.
func ParseFrontMatter(content []byte) (*FrontMatter, error) {
	block, _ := splitFrontMatter(string(content))
	if block == "" {
		return nil, errors.New("missing frontmatter")
	}

	var fm FrontMatter
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return nil, errors.Wrap(err, "failed to decode frontmatter")
	}
	return &fm, nil
}

// Body returns the markdown body with the frontmatter block removed.
// Documents without a complete frontmatter fence are returned as-is.
func Body(content []byte) []byte {
	_, body := splitFrontMatter(string(content))
	return []byte(body)
}

// splitFrontMatter separates the YAML frontmatter block from the
// markdown body. It returns an empty block when the document has no
// complete frontmatter fence, in which case body is the full content.
func splitFrontMatter(content string) (block, body string) {
	if !strings.HasPrefix(content, "---") {
		return "", content
	}

	lines := strings.Split(content, "\n")
	end := -1

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}

	if end == -1 {
		return "", content
	}

	block = strings.Join(lines[1:end], "\n")
	body = strings.TrimLeft(strings.Join(lines[end+1:], "\n"), "\n")
	return block, body
}
