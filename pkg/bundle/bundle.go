// Package bundle renders a selection of skills into a single markdown
// document suitable for loading as prompt context: one header, a table
// of contents, then each skill body in name order.
package bundle

import (
	"bytes"
	"sort"
	"strings"
	"text/template"

	"github.com/pkg/errors"

	"github.com/jingkaihe/devskills/pkg/skill"
)

// DefaultTitle heads a bundle when the caller does not provide one.
const DefaultTitle = "Development Skills"

const bundleTemplate = `# {{.Title}}

{{.Preamble}}

## Contents
{{range .Skills}}
- **{{.Name}}** (v{{.Version}}): {{.Description}}{{end}}
{{range .Skills}}
---

<!-- skill: {{.Name}} v{{.Version}} -->

{{.Content}}
{{end}}`

const defaultPreamble = "The sections below are convention guides. Apply the relevant " +
	"guide whenever you generate or review code that its \"When to Apply\" section covers."

// Options configures a bundle render.
type Options struct {
	Title    string
	Preamble string
}

type templateData struct {
	Title    string
	Preamble string
	Skills   []*skill.Skill
}

// Render produces the bundle document from the given skills. Input
// order does not matter; output is sorted by skill name so bundles are
// reproducible.
func Render(selected map[string]*skill.Skill, opts Options) (string, error) {
	if len(selected) == 0 {
		return "", errors.New("no skills selected")
	}

	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Preamble == "" {
		opts.Preamble = defaultPreamble
	}

	ordered := make([]*skill.Skill, 0, len(selected))
	for _, s := range selected {
		ordered = append(ordered, s)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })

	tmpl, err := template.New("bundle").Parse(bundleTemplate)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse bundle template")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, templateData{
		Title:    opts.Title,
		Preamble: opts.Preamble,
		Skills:   ordered,
	}); err != nil {
		return "", errors.Wrap(err, "failed to render bundle")
	}

	return strings.TrimRight(buf.String(), "\n") + "\n", nil
}
