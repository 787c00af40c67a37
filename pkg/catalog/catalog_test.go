package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSkill(t *testing.T, root, name, description string) string {
	t.Helper()

	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	content := fmt.Sprintf(`---
name: %s
description: %s
license: MIT
metadata:
  author: Test Author
  version: 1.0.0
---

# %s

Content for %s.
`, name, description, name, name)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(content), 0o644))

	return dir
}

func TestDiscover(t *testing.T) {
	tmpDir := t.TempDir()
	skillDir := writeSkill(t, tmpDir, "test-skill", "A test skill")
	writeSkill(t, tmpDir, "another-skill", "Another test skill")

	cat, err := New(WithDirs(tmpDir))
	require.NoError(t, err)

	found, err := cat.Discover()
	require.NoError(t, err)
	assert.Len(t, found, 2)

	s, exists := found["test-skill"]
	require.True(t, exists)
	assert.Equal(t, "test-skill", s.Name)
	assert.Equal(t, "A test skill", s.Description)
	assert.Equal(t, "MIT", s.License)
	assert.Equal(t, "1.0.0", s.Version)
	assert.Equal(t, skillDir, s.Directory)
	assert.Equal(t, tmpDir, s.Source)
	assert.Contains(t, s.Content, "# test-skill")
	assert.NotNil(t, s.Dir)
}

func TestDiscoverPrecedence(t *testing.T) {
	tmpDir1 := t.TempDir()
	tmpDir2 := t.TempDir()

	writeSkill(t, tmpDir1, "shared-skill", "From first directory")
	writeSkill(t, tmpDir2, "shared-skill", "From second directory")

	cat, err := New(WithDirs(tmpDir1, tmpDir2))
	require.NoError(t, err)

	found, err := cat.Discover()
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "From first directory", found["shared-skill"].Description)
}

func TestDiscoverSkipsBrokenSkills(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, tmpDir, "good-skill", "Parses fine")

	brokenDir := filepath.Join(tmpDir, "broken-skill")
	require.NoError(t, os.MkdirAll(brokenDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(brokenDir, "SKILL.md"), []byte("# no frontmatter\n"), 0o644))

	cat, err := New(WithDirs(tmpDir))
	require.NoError(t, err)

	found, err := cat.Discover()
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Contains(t, found, "good-skill")
}

func TestDiscoverBuiltin(t *testing.T) {
	cat, err := New(WithBuiltin())
	require.NoError(t, err)

	found, err := cat.Discover()
	require.NoError(t, err)

	for _, name := range []string{
		"cli-ux", "code-style", "db-migrations", "error-handling",
		"git-workflow", "logging-practices", "naming-conventions", "testing-layout",
	} {
		s, exists := found[name]
		require.True(t, exists, "builtin skill %s should be discovered", name)
		assert.Equal(t, SourceBuiltin, s.Source)
		assert.NotEmpty(t, s.Version)
	}
}

func TestLocalShadowsBuiltin(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, tmpDir, "error-handling", "Local override")

	cat, err := New(WithDirs(tmpDir), WithBuiltin())
	require.NoError(t, err)

	found, err := cat.Discover()
	require.NoError(t, err)
	assert.Equal(t, "Local override", found["error-handling"].Description)
}

func TestPrefixedSource(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, tmpDir, "plugin-skill", "From a plugin")

	cat, err := New(WithSources(Source{
		Name:   "acme/skills",
		Path:   tmpDir,
		FS:     os.DirFS(tmpDir),
		Prefix: "acme/skills/",
	}))
	require.NoError(t, err)

	found, err := cat.Discover()
	require.NoError(t, err)
	require.Len(t, found, 1)

	s, exists := found["acme/skills/plugin-skill"]
	require.True(t, exists)
	assert.Equal(t, "acme/skills/plugin-skill", s.Name)
}

func TestSkillDirCarriesReferences(t *testing.T) {
	tmpDir := t.TempDir()
	skillDir := writeSkill(t, tmpDir, "with-refs", "Has a reference file")
	refsDir := filepath.Join(skillDir, "references")
	require.NoError(t, os.MkdirAll(refsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(refsDir, "extra.md"), []byte("# Extra\n"), 0o644))

	cat, err := New(WithDirs(tmpDir))
	require.NoError(t, err)

	s, err := cat.Get("with-refs")
	require.NoError(t, err)
	require.NotNil(t, s.Dir)

	content, err := fs.ReadFile(s.Dir, "references/extra.md")
	require.NoError(t, err)
	assert.Equal(t, "# Extra\n", string(content))
}

func TestGet(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, tmpDir, "test-skill", "A test skill")

	cat, err := New(WithDirs(tmpDir))
	require.NoError(t, err)

	t.Run("existing skill", func(t *testing.T) {
		s, err := cat.Get("test-skill")
		require.NoError(t, err)
		assert.Equal(t, "test-skill", s.Name)
	})

	t.Run("non-existent skill", func(t *testing.T) {
		s, err := cat.Get("unknown")
		assert.Error(t, err)
		assert.Nil(t, s)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestNames(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"gamma", "alpha", "beta"} {
		writeSkill(t, tmpDir, name, "Skill "+name)
	}

	cat, err := New(WithDirs(tmpDir))
	require.NoError(t, err)

	names, err := cat.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, names)
}

func TestNonExistentDirectory(t *testing.T) {
	cat, err := New(WithDirs("/non/existent/path"))
	require.NoError(t, err)

	found, err := cat.Discover()
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFilterAllowed(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"skill-a", "skill-b", "skill-c"} {
		writeSkill(t, tmpDir, name, "Skill "+name)
	}

	cat, err := New(WithDirs(tmpDir))
	require.NoError(t, err)
	found, err := cat.Discover()
	require.NoError(t, err)

	t.Run("empty allowlist returns all", func(t *testing.T) {
		assert.Len(t, FilterAllowed(found, nil), 3)
	})

	t.Run("allowlist filters", func(t *testing.T) {
		filtered := FilterAllowed(found, []string{"skill-a", "skill-c"})
		assert.Len(t, filtered, 2)
		assert.NotContains(t, filtered, "skill-b")
	})

	t.Run("unknown names ignored", func(t *testing.T) {
		filtered := FilterAllowed(found, []string{"skill-a", "unknown"})
		assert.Len(t, filtered, 1)
	})
}

func TestMatch(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"db-migrations", "db-naming", "git-workflow"} {
		writeSkill(t, tmpDir, name, "Skill "+name)
	}

	cat, err := New(WithDirs(tmpDir))
	require.NoError(t, err)
	found, err := cat.Discover()
	require.NoError(t, err)

	t.Run("empty patterns return all", func(t *testing.T) {
		matched, err := Match(found, nil)
		require.NoError(t, err)
		assert.Len(t, matched, 3)
	})

	t.Run("glob selects subset", func(t *testing.T) {
		matched, err := Match(found, []string{"db-*"})
		require.NoError(t, err)
		assert.Len(t, matched, 2)
		assert.Contains(t, matched, "db-migrations")
		assert.Contains(t, matched, "db-naming")
	})

	t.Run("exact name", func(t *testing.T) {
		matched, err := Match(found, []string{"git-workflow"})
		require.NoError(t, err)
		assert.Len(t, matched, 1)
	})

	t.Run("invalid pattern fails", func(t *testing.T) {
		_, err := Match(found, []string{"[unclosed"})
		assert.Error(t, err)
	})
}
