// Package catalog discovers skills across layered sources: the
// embedded corpus shipped with the binary, repo-local and user-global
// skill directories, and installed plugins. Earlier sources win, so a
// repo can shadow a built-in skill by carrying its own copy.
package catalog

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/jingkaihe/devskills/pkg/skill"
	"github.com/jingkaihe/devskills/skills"
)

// Source names reported on discovered skills.
const (
	SourceBuiltin = "builtin"
	SourceLocal   = "local"
	SourceGlobal  = "global"
)

// Source is one place skills can be discovered from. FS is rooted at a
// directory whose immediate subdirectories are topic directories, each
// holding a SKILL.md.
type Source struct {
	Name   string // builtin, local, global, or a plugin identifier
	Path   string // display path for listings
	FS     fs.FS
	Prefix string // optional skill-name prefix, e.g. "org/repo/"
}

// Catalog resolves skills from an ordered list of sources.
type Catalog struct {
	sources []Source
}

// Option configures a Catalog.
type Option func(*Catalog) error

// WithSources sets the sources explicitly, in precedence order.
func WithSources(sources ...Source) Option {
	return func(c *Catalog) error {
		c.sources = sources
		return nil
	}
}

// WithDirs adds plain directory sources, in precedence order.
func WithDirs(dirs ...string) Option {
	return func(c *Catalog) error {
		for _, dir := range dirs {
			c.sources = append(c.sources, DirSource(dir, dir))
		}
		return nil
	}
}

// WithBuiltin appends the embedded corpus as the lowest-precedence
// source.
func WithBuiltin() Option {
	return func(c *Catalog) error {
		c.sources = append(c.sources, Source{
			Name: SourceBuiltin,
			Path: SourceBuiltin,
			FS:   skills.FS,
		})
		return nil
	}
}

// WithDefaultSources initializes the standard lookup chain:
// repo-local skills, user-global skills, installed plugins, then the
// embedded corpus.
func WithDefaultSources() Option {
	return func(c *Catalog) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}

		c.sources = append(c.sources,
			DirSource(SourceLocal, filepath.Join(".devskills", "skills")),
			DirSource(SourceGlobal, filepath.Join(homeDir, ".devskills", "skills")),
		)

		c.addPluginSources(filepath.Join(".devskills", "plugins"))
		c.addPluginSources(filepath.Join(homeDir, ".devskills", "plugins"))

		return WithBuiltin()(c)
	}
}

// DirSource wraps a directory as a Source. The directory does not have
// to exist; missing sources yield no skills.
func DirSource(name, dir string) Source {
	return Source{Name: name, Path: dir, FS: os.DirFS(dir)}
}

// addPluginSources scans a plugins directory for org/repo trees that
// contain a skills directory, registering each with an org/repo/ name
// prefix so plugin skills cannot collide with standalone ones.
func (c *Catalog) addPluginSources(pluginsDir string) {
	_ = filepath.Walk(pluginsDir, func(p string, info os.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return nil
		}

		skillsDir := filepath.Join(p, "skills")
		if _, err := os.Stat(skillsDir); err != nil {
			return nil
		}

		relPath, err := filepath.Rel(pluginsDir, p)
		if err != nil {
			return nil
		}

		pluginName := filepath.ToSlash(relPath)
		c.sources = append(c.sources, Source{
			Name:   pluginName,
			Path:   skillsDir,
			FS:     os.DirFS(skillsDir),
			Prefix: pluginName + "/",
		})

		return filepath.SkipDir
	})
}

// New creates a catalog. With no options the default source chain is
// used.
func New(opts ...Option) (*Catalog, error) {
	c := &Catalog{}

	if len(opts) == 0 {
		if err := WithDefaultSources()(c); err != nil {
			return nil, err
		}
		return c, nil
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Discover loads every skill visible through the source chain. The
// first source providing a name wins; parse failures skip the entry
// rather than failing discovery, since one broken skill must not hide
// the rest (the linter reports broken entries explicitly).
func (c *Catalog) Discover() (map[string]*skill.Skill, error) {
	found := make(map[string]*skill.Skill)

	for _, source := range c.sources {
		c.discoverFromSource(source, found)
	}

	return found, nil
}

func (c *Catalog) discoverFromSource(source Source, found map[string]*skill.Skill) {
	entries, err := fs.ReadDir(source.FS, ".")
	if err != nil {
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		content, err := fs.ReadFile(source.FS, path.Join(entry.Name(), skill.FileName))
		if err != nil {
			continue
		}

		s, err := skill.Parse(content)
		if err != nil {
			continue
		}

		name := s.Name
		if source.Prefix != "" {
			name = source.Prefix + s.Name
		}

		if _, exists := found[name]; exists {
			continue
		}

		s.Name = name
		s.Directory = filepath.Join(source.Path, entry.Name())
		s.Source = source.Name

		if sub, err := fs.Sub(source.FS, entry.Name()); err == nil {
			s.Dir = sub
		}

		found[name] = s
	}
}

// Get returns a single skill by name.
func (c *Catalog) Get(name string) (*skill.Skill, error) {
	found, err := c.Discover()
	if err != nil {
		return nil, err
	}

	s, exists := found[name]
	if !exists {
		return nil, errors.Errorf("skill '%s' not found", name)
	}

	return s, nil
}

// Names returns the sorted names of all discoverable skills.
func (c *Catalog) Names() ([]string, error) {
	found, err := c.Discover()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// FilterAllowed keeps only skills named in the allowlist. An empty
// allowlist keeps everything.
func FilterAllowed(found map[string]*skill.Skill, allowed []string) map[string]*skill.Skill {
	if len(allowed) == 0 {
		return found
	}

	filtered := make(map[string]*skill.Skill)
	for _, name := range allowed {
		if s, exists := found[name]; exists {
			filtered[name] = s
		}
	}
	return filtered
}

// Match keeps skills whose names match any of the glob patterns
// ("db-*", "org/**"). Empty patterns keep everything. Invalid
// patterns fail, since a typo silently selecting nothing is worse.
func Match(found map[string]*skill.Skill, patterns []string) (map[string]*skill.Skill, error) {
	if len(patterns) == 0 {
		return found, nil
	}

	filtered := make(map[string]*skill.Skill)
	for name, s := range found {
		for _, pattern := range patterns {
			ok, err := doublestar.Match(pattern, name)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid pattern %q", pattern)
			}
			if ok {
				filtered[name] = s
				break
			}
		}
	}
	return filtered, nil
}
