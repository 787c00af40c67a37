// Package lint implements the structural checks a skill corpus must
// satisfy: parseable frontmatter with the required keys, a well-formed
// semantic version, resolving internal links, and the recommended
// section layout. Findings are authoring feedback, not runtime errors,
// so the linter collects everything it can instead of stopping at the
// first problem.
package lint

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/hashicorp/go-multierror"

	"github.com/jingkaihe/devskills/pkg/skill"
)

// Severity classifies a finding. Errors fail a lint run; warnings do
// not.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule identifiers, stable for scripting against lint output.
const (
	RuleSkillFile   = "skill-file"
	RuleFrontMatter = "frontmatter"
	RuleRequiredKey = "required-key"
	RuleNameFormat  = "name-format"
	RuleNameMatch   = "name-match"
	RuleDescription = "description"
	RuleVersion     = "version"
	RuleLink        = "link"
	RuleSections    = "sections"
)

// RecommendedSections are the prose sections every skill is expected
// to carry. Their absence is a warning, not an error, since the body
// is free-form by contract.
var RecommendedSections = []string{
	"Purpose",
	"When to Apply",
	"Core Principles",
	"Anti-Patterns",
	"Guidelines",
}

const (
	maxNameLength        = 64
	maxDescriptionLength = 1024
)

var namePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Finding is a single lint diagnostic attached to a skill directory.
type Finding struct {
	Skill    string   `json:"skill"`
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s [%s] %s", f.Severity, f.Skill, f.Rule, f.Message)
}

// Result aggregates findings across a lint run.
type Result struct {
	Skills   int       `json:"skills"`
	Findings []Finding `json:"findings"`
}

// Errors counts error-severity findings.
func (r *Result) Errors() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Warnings counts warning-severity findings.
func (r *Result) Warnings() int {
	return len(r.Findings) - r.Errors()
}

// HasErrors reports whether the run should fail.
func (r *Result) HasErrors() bool {
	return r.Errors() > 0
}

func (r *Result) add(skillName, rule string, severity Severity, format string, args ...interface{}) {
	r.Findings = append(r.Findings, Finding{
		Skill:    skillName,
		Rule:     rule,
		Severity: severity,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Linter runs the structural checks over a corpus root.
type Linter struct {
	checkSections bool
}

// Option configures a Linter.
type Option func(*Linter)

// WithoutSectionCheck disables the recommended-sections warning, for
// corpora that deliberately use a different layout.
func WithoutSectionCheck() Option {
	return func(l *Linter) {
		l.checkSections = false
	}
}

// New creates a linter with all rules enabled.
func New(opts ...Option) *Linter {
	l := &Linter{checkSections: true}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LintDir lints a corpus rooted at an on-disk directory.
func (l *Linter) LintDir(dir string) (*Result, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}
	return l.LintFS(os.DirFS(dir))
}

// LintFS lints every topic directory under the corpus root. The
// returned error covers IO failures only; authoring problems are
// findings.
func (l *Linter) LintFS(fsys fs.FS) (*Result, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	result := &Result{}
	var errs *multierror.Error

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		name := entry.Name()
		content, err := fs.ReadFile(fsys, path.Join(name, skill.FileName))
		if err != nil {
			if os.IsNotExist(err) {
				result.add(name, RuleSkillFile, SeverityError, "missing %s", skill.FileName)
				result.Skills++
				continue
			}
			errs = multierror.Append(errs, err)
			continue
		}

		result.Skills++
		l.lintSkill(fsys, name, content, result)
	}

	return result, errs.ErrorOrNil()
}

func (l *Linter) lintSkill(fsys fs.FS, dirName string, content []byte, result *Result) {
	fm, err := skill.ParseFrontMatter(content)
	if err != nil {
		result.add(dirName, RuleFrontMatter, SeverityError, "%v", err)
		return
	}

	l.lintFrontMatter(dirName, fm, result)
	l.lintLinks(fsys, dirName, content, result)

	if l.checkSections {
		l.lintSections(dirName, content, result)
	}
}

func (l *Linter) lintFrontMatter(dirName string, fm *skill.FrontMatter, result *Result) {
	required := []struct {
		key   string
		value string
	}{
		{"name", fm.Name},
		{"description", fm.Description},
		{"license", fm.License},
		{"metadata.author", fm.Metadata.Author},
		{"metadata.version", fm.Metadata.Version},
	}
	for _, r := range required {
		if r.value == "" {
			result.add(dirName, RuleRequiredKey, SeverityError, "frontmatter key %s is missing or empty", r.key)
		}
	}

	if fm.Name != "" {
		if !namePattern.MatchString(fm.Name) {
			result.add(dirName, RuleNameFormat, SeverityError, "name %q is not a lowercase-hyphen slug", fm.Name)
		}
		if len(fm.Name) > maxNameLength {
			result.add(dirName, RuleNameFormat, SeverityError, "name exceeds %d characters", maxNameLength)
		}
		if fm.Name != dirName {
			result.add(dirName, RuleNameMatch, SeverityError, "name %q does not match directory %q", fm.Name, dirName)
		}
	}

	if len(fm.Description) > maxDescriptionLength {
		result.add(dirName, RuleDescription, SeverityError, "description exceeds %d characters", maxDescriptionLength)
	}

	if fm.Metadata.Version != "" {
		if _, err := semver.StrictNewVersion(fm.Metadata.Version); err != nil {
			result.add(dirName, RuleVersion, SeverityError, "version %q is not a semantic version: %v", fm.Metadata.Version, err)
		}
	}
}

// lintLinks resolves every relative link and image in the body against
// the skill's directory. External schemes and in-page anchors are
// skipped.
func (l *Linter) lintLinks(fsys fs.FS, dirName string, content []byte, result *Result) {
	for _, link := range skill.Links(skill.Body(content)) {
		dest := link.Destination
		if isExternal(dest) || strings.HasPrefix(dest, "#") || dest == "" {
			continue
		}

		// Drop fragment and query before resolving.
		if i := strings.IndexAny(dest, "#?"); i != -1 {
			dest = dest[:i]
		}
		if dest == "" {
			continue
		}

		// Resolve relative to the skill directory. Sibling skills are
		// fair targets; anything above the corpus root is not.
		target := path.Join(dirName, dest)
		if !fs.ValidPath(target) {
			result.add(dirName, RuleLink, SeverityError, "link %q escapes the corpus root", link.Destination)
			continue
		}

		if _, err := fs.Stat(fsys, target); err != nil {
			result.add(dirName, RuleLink, SeverityError, "link %q does not resolve to a file", link.Destination)
		}
	}
}

func (l *Linter) lintSections(dirName string, content []byte, result *Result) {
	headings := skill.Headings(skill.Body(content))
	present := make(map[string]bool, len(headings))
	for _, h := range headings {
		present[h] = true
	}

	for _, section := range RecommendedSections {
		if !present[section] {
			result.add(dirName, RuleSections, SeverityWarning, "recommended section %q is missing", section)
		}
	}
}

func isExternal(dest string) bool {
	for _, prefix := range []string{"http://", "https://", "mailto:", "ftp://"} {
		if strings.HasPrefix(dest, prefix) {
			return true
		}
	}
	return false
}
