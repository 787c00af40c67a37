// Package installer copies skills out of the catalog into an
// assistant's skills directory, where coding agents pick them up as
// context. Installs are whole-directory copies (SKILL.md plus any
// reference files); an existing install is never overwritten without
// force, but the pending diff is surfaced so the caller can decide.
package installer

import (
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/aymanbagabas/go-udiff"
	"github.com/pkg/errors"

	"github.com/jingkaihe/devskills/pkg/skill"
)

// Status of a single install attempt.
type Status string

const (
	StatusInstalled Status = "installed"
	StatusUpdated   Status = "updated"
	StatusSkipped   Status = "skipped"
	StatusUnchanged Status = "unchanged"
)

// Outcome describes what happened to one skill.
type Outcome struct {
	Status Status
	Path   string // destination directory
	Diff   string // unified diff of SKILL.md when content differs
}

// Installer installs and removes skills under a target directory.
type Installer struct {
	targetDir string
}

// New creates an installer for the given target skills directory.
func New(targetDir string) *Installer {
	return &Installer{targetDir: targetDir}
}

// DefaultTarget resolves the conventional install location:
// ./.claude/skills for the current repo, ~/.claude/skills with global
// set.
func DefaultTarget(global bool) (string, error) {
	if global {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "failed to get user home directory")
		}
		return filepath.Join(homeDir, ".claude", "skills"), nil
	}
	return filepath.Join(".claude", "skills"), nil
}

// Install copies a skill's directory tree into the target. When the
// destination already exists the install is skipped unless force is
// set; either way the outcome carries a unified diff of SKILL.md when
// the installed copy differs from the catalog copy.
func (i *Installer) Install(s *skill.Skill, force bool) (*Outcome, error) {
	if s.Dir == nil {
		return nil, errors.Errorf("skill '%s' has no backing directory", s.Name)
	}

	// Plugin-prefixed names install under their bare skill name.
	destDir := filepath.Join(i.targetDir, path.Base(s.Name))
	destFile := filepath.Join(destDir, skill.FileName)

	existing, err := os.ReadFile(destFile)
	switch {
	case err == nil:
		if string(existing) == s.Raw {
			return &Outcome{Status: StatusUnchanged, Path: destDir}, nil
		}
		diff := udiff.Unified(destFile, destFile, string(existing), s.Raw)
		if !force {
			return &Outcome{Status: StatusSkipped, Path: destDir, Diff: diff}, nil
		}
		if err := os.RemoveAll(destDir); err != nil {
			return nil, errors.Wrapf(err, "failed to replace existing skill at %s", destDir)
		}
		if err := i.copyTree(s.Dir, destDir); err != nil {
			return nil, err
		}
		return &Outcome{Status: StatusUpdated, Path: destDir, Diff: diff}, nil
	case os.IsNotExist(err):
		if err := i.copyTree(s.Dir, destDir); err != nil {
			return nil, err
		}
		return &Outcome{Status: StatusInstalled, Path: destDir}, nil
	default:
		return nil, errors.Wrapf(err, "failed to inspect %s", destFile)
	}
}

// Remove deletes an installed skill by name. It refuses to remove a
// directory that does not look like a skill install.
func (i *Installer) Remove(name string) error {
	skillDir := filepath.Join(i.targetDir, name)

	if _, err := os.Stat(filepath.Join(skillDir, skill.FileName)); os.IsNotExist(err) {
		return errors.Errorf("skill '%s' not found in %s", name, i.targetDir)
	}

	if err := os.RemoveAll(skillDir); err != nil {
		return errors.Wrapf(err, "failed to remove skill '%s'", name)
	}

	return nil
}

func (i *Installer) copyTree(src fs.FS, destDir string) error {
	return fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		destPath := filepath.Join(destDir, filepath.FromSlash(p))
		if d.IsDir() {
			return os.MkdirAll(destPath, 0o755)
		}

		in, err := src.Open(p)
		if err != nil {
			return errors.Wrapf(err, "failed to open %s", p)
		}
		defer in.Close()

		out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return errors.Wrapf(err, "failed to create %s", destPath)
		}
		defer out.Close()

		_, err = io.Copy(out, in)
		return err
	})
}
