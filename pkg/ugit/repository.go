// Package ugit implements the core of a minimal content-addressed
// version control system: an object store, a symbolic ref store, a
// staging index, commit-DAG traversal, a three-way merger, a working
// tree, and filesystem-based remote sync. The CLI that drives this
// package lives in cmd/ugit.
package ugit

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

// GitDirName is the repository metadata directory, analogous to
// git's ".git". The literal segment is also the ignore-rule sentinel
// : any scanned or staged path containing this segment is excluded.
const GitDirName = ".ugit"

const (
	refsDirName    = "refs"
	headsDirName   = "heads"
	tagsDirName    = "tags"
	remoteDirName  = "remote"
	indexFileName  = "index"
	configFileName = "config"
	headRefName    = "HEAD"
	mergeHeadName  = "MERGE_HEAD"
)

// Repository is a handle onto one working tree + its .ugit metadata
// directory. Every core operation hangs off this type. Remote
// operations construct a second handle pointing at a peer path
// instead of mutating ambient process state.
type Repository struct {
	WorkDir string // working tree root
	GitDir  string // WorkDir/.ugit
}

// Open returns a handle for an existing or not-yet-initialized
// repository rooted at path. It performs no I/O beyond path cleanup.
func Open(path string) *Repository {
	clean := filepath.Clean(path)
	return &Repository{
		WorkDir: clean,
		GitDir:  filepath.Join(clean, GitDirName),
	}
}

// FindRoot walks upward from start looking for a .ugit directory,
// the way the CLI locates the repository root from any cwd inside
// the working tree. This upward search is a CLI-layer convenience;
// the core Repository type itself never searches.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", errors.Wrapf(ErrIOError, "resolve %s: %v", start, err)
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, GitDirName)); err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("not a ugit repository (or any parent up to root)")
		}
		dir = parent
	}
}

// Exists reports whether a .ugit directory is already present.
func (r *Repository) Exists() bool {
	info, err := os.Stat(r.GitDir)
	return err == nil && info.IsDir()
}

// Init lays out a fresh repository: objects/, refs/heads, refs/tags,
// refs/remote, a HEAD symbolic ref to refs/heads/master, an empty
// index, and a default config.
func (r *Repository) Init() error {
	if r.Exists() {
		return errors.New("repository already exists")
	}

	dirs := []string{
		r.GitDir,
		filepath.Join(r.GitDir, objectsDirName),
		filepath.Join(r.GitDir, refsDirName, headsDirName),
		filepath.Join(r.GitDir, refsDirName, tagsDirName),
		filepath.Join(r.GitDir, refsDirName, remoteDirName),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(ErrIOError, "create %s: %v", dir, err)
		}
	}

	if err := r.UpdateRef(headRefName, RefValue{Symbolic: true, Value: "refs/heads/master"}, false); err != nil {
		return errors.Wrap(err, "write initial HEAD")
	}

	if err := os.WriteFile(filepath.Join(r.GitDir, indexFileName), []byte("{}"), 0o644); err != nil {
		return errors.Wrapf(ErrIOError, "write empty index: %v", err)
	}

	return r.writeDefaultConfig()
}

// writeDefaultConfig emits the initial [core]/[user] config block,
// using gopkg.in/ini.v1 for both write and read.
func (r *Repository) writeDefaultConfig() error {
	cfg := ini.Empty()
	core, err := cfg.NewSection("core")
	if err != nil {
		return errors.Wrap(err, "create [core] section")
	}
	if _, err := core.NewKey("repositoryformatversion", "0"); err != nil {
		return errors.Wrap(err, "write repositoryformatversion")
	}
	if _, err := core.NewKey("bare", "false"); err != nil {
		return errors.Wrap(err, "write bare")
	}

	user, err := cfg.NewSection("user")
	if err != nil {
		return errors.Wrap(err, "create [user] section")
	}
	if _, err := user.NewKey("name", "ugit user"); err != nil {
		return errors.Wrap(err, "write user.name")
	}
	if _, err := user.NewKey("email", "ugit@example.com"); err != nil {
		return errors.Wrap(err, "write user.email")
	}

	return cfg.SaveTo(filepath.Join(r.GitDir, configFileName))
}

// Config loads .ugit/config. Missing file is reported, not silently
// defaulted, since Init always creates one for repositories made by
// this package.
func (r *Repository) Config() (*ini.File, error) {
	path := filepath.Join(r.GitDir, configFileName)
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, errors.Wrapf(ErrIOError, "load config: %v", err)
	}
	return cfg, nil
}

// UserIdentity returns the "name <email>" string used to stamp the
// first line of a commit message when the CLI layer (not the core
// Commit operation) constructs one.
func (r *Repository) UserIdentity() string {
	cfg, err := r.Config()
	if err != nil {
		return "ugit user <ugit@example.com>"
	}
	name := cfg.Section("user").Key("name").MustString("ugit user")
	email := cfg.Section("user").Key("email").MustString("ugit@example.com")
	return name + " <" + email + ">"
}
