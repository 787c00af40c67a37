package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodSkill = `---
name: %s
description: A well-formed skill
license: MIT
metadata:
  author: Test Author
  version: 1.2.3
---

# Skill

## Purpose

Text.

## When to Apply

Text.

## Core Principles

Text.

## Anti-Patterns

Text.

## Guidelines

Text.
`

func writeCorpusSkill(t *testing.T, root, dirName, content string) {
	t.Helper()
	dir := filepath.Join(root, dirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(content), 0o644))
}

func findingsForRule(result *Result, rule string) []Finding {
	var out []Finding
	for _, f := range result.Findings {
		if f.Rule == rule {
			out = append(out, f)
		}
	}
	return out
}

func TestLintCleanCorpus(t *testing.T) {
	tmpDir := t.TempDir()
	writeCorpusSkill(t, tmpDir, "clean-skill", fmt.Sprintf(goodSkill, "clean-skill"))

	result, err := New().LintDir(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Skills)
	assert.Empty(t, result.Findings)
	assert.False(t, result.HasErrors())
}

func TestLintMissingSkillFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "empty-topic"), 0o755))

	result, err := New().LintDir(tmpDir)
	require.NoError(t, err)

	findings := findingsForRule(result, RuleSkillFile)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityError, findings[0].Severity)
	assert.Equal(t, "empty-topic", findings[0].Skill)
}

func TestLintMissingFrontMatter(t *testing.T) {
	tmpDir := t.TempDir()
	writeCorpusSkill(t, tmpDir, "bare", "# No frontmatter at all\n")

	result, err := New().LintDir(tmpDir)
	require.NoError(t, err)

	require.Len(t, findingsForRule(result, RuleFrontMatter), 1)
	assert.True(t, result.HasErrors())
}

func TestLintRequiredKeys(t *testing.T) {
	tmpDir := t.TempDir()
	writeCorpusSkill(t, tmpDir, "partial", `---
name: partial
description: Missing license and metadata
---

## Purpose
`)

	result, err := New().LintDir(tmpDir)
	require.NoError(t, err)

	findings := findingsForRule(result, RuleRequiredKey)
	require.Len(t, findings, 3)

	var keys []string
	for _, f := range findings {
		keys = append(keys, f.Message)
	}
	assert.Contains(t, keys, "frontmatter key license is missing or empty")
	assert.Contains(t, keys, "frontmatter key metadata.author is missing or empty")
	assert.Contains(t, keys, "frontmatter key metadata.version is missing or empty")
}

func TestLintNameRules(t *testing.T) {
	t.Run("bad slug", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeCorpusSkill(t, tmpDir, "bad-slug", `---
name: Bad_Slug
description: Name is not a slug
license: MIT
metadata:
  author: A
  version: 1.0.0
---

body
`)
		result, err := New().LintDir(tmpDir)
		require.NoError(t, err)
		assert.NotEmpty(t, findingsForRule(result, RuleNameFormat))
	})

	t.Run("name does not match directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeCorpusSkill(t, tmpDir, "dir-name", `---
name: other-name
description: Name and directory disagree
license: MIT
metadata:
  author: A
  version: 1.0.0
---

body
`)
		result, err := New().LintDir(tmpDir)
		require.NoError(t, err)

		findings := findingsForRule(result, RuleNameMatch)
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, `"other-name"`)
		assert.Contains(t, findings[0].Message, `"dir-name"`)
	})
}

func TestLintVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		valid   bool
	}{
		{"plain semver", "1.0.0", true},
		{"with prerelease", "2.1.0-rc.1", true},
		{"missing patch", "1.0", false},
		{"v prefix", "v1.0.0", false},
		{"garbage", "latest", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			writeCorpusSkill(t, tmpDir, "versioned", fmt.Sprintf(`---
name: versioned
description: Version under test
license: MIT
metadata:
  author: A
  version: "%s"
---

body
`, tt.version))

			result, err := New().LintDir(tmpDir)
			require.NoError(t, err)

			findings := findingsForRule(result, RuleVersion)
			if tt.valid {
				assert.Empty(t, findings)
			} else {
				assert.NotEmpty(t, findings)
			}
		})
	}
}

func TestLintLinks(t *testing.T) {
	tmpDir := t.TempDir()

	dir := filepath.Join(tmpDir, "linked")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "references"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "references", "good.md"), []byte("# ok\n"), 0o644))

	content := `---
name: linked
description: Exercises link checking
license: MIT
metadata:
  author: A
  version: 1.0.0
---

Good: [reference](references/good.md)
External: [site](https://example.com/page)
Anchor: [above](#good)
Broken: [missing](references/missing.md)
Escape: [outside](../../etc/passwd)
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(content), 0o644))

	result, err := New().LintDir(tmpDir)
	require.NoError(t, err)

	findings := findingsForRule(result, RuleLink)
	require.Len(t, findings, 2)

	var messages []string
	for _, f := range findings {
		messages = append(messages, f.Message)
	}
	assert.Contains(t, messages, `link "references/missing.md" does not resolve to a file`)
	assert.Contains(t, messages, `link "../../etc/passwd" escapes the corpus root`)
}

func TestLintSiblingLinkResolves(t *testing.T) {
	tmpDir := t.TempDir()
	writeCorpusSkill(t, tmpDir, "target-skill", fmt.Sprintf(goodSkill, "target-skill"))
	writeCorpusSkill(t, tmpDir, "linker", `---
name: linker
description: Links to a sibling skill
license: MIT
metadata:
  author: A
  version: 1.0.0
---

See [the sibling](../target-skill/SKILL.md).
`)

	result, err := New().LintDir(tmpDir)
	require.NoError(t, err)
	assert.Empty(t, findingsForRule(result, RuleLink))
}

func TestLintSections(t *testing.T) {
	tmpDir := t.TempDir()
	writeCorpusSkill(t, tmpDir, "sparse", `---
name: sparse
description: Missing most sections
license: MIT
metadata:
  author: A
  version: 1.0.0
---

## Purpose

Only purpose.
`)

	t.Run("warnings for missing sections", func(t *testing.T) {
		result, err := New().LintDir(tmpDir)
		require.NoError(t, err)

		findings := findingsForRule(result, RuleSections)
		assert.Len(t, findings, 4)
		for _, f := range findings {
			assert.Equal(t, SeverityWarning, f.Severity)
		}
		assert.False(t, result.HasErrors())
		assert.Equal(t, 4, result.Warnings())
	})

	t.Run("section check can be disabled", func(t *testing.T) {
		result, err := New(WithoutSectionCheck()).LintDir(tmpDir)
		require.NoError(t, err)
		assert.Empty(t, findingsForRule(result, RuleSections))
	})
}

func TestLintDirMissing(t *testing.T) {
	_, err := New().LintDir("/non/existent/corpus")
	assert.Error(t, err)
}

func TestResultCounters(t *testing.T) {
	result := &Result{
		Findings: []Finding{
			{Severity: SeverityError},
			{Severity: SeverityError},
			{Severity: SeverityWarning},
		},
	}

	assert.Equal(t, 2, result.Errors())
	assert.Equal(t, 1, result.Warnings())
	assert.True(t, result.HasErrors())
}

func TestFindingString(t *testing.T) {
	f := Finding{
		Skill:    "demo",
		Rule:     RuleVersion,
		Severity: SeverityError,
		Message:  "bad version",
	}
	assert.Equal(t, "error: demo [version] bad version", f.String())
}
