package ugit

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// isIgnored reports whether the "/"-split path has the literal
// segment ".ugit" anywhere in it. Do not broaden
// this to pattern matching; a literal segment match is sufficient and
// avoids surprising behavior from partial-name matches.
func isIgnored(relPath string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(relPath), "/") {
		if seg == GitDirName {
			return true
		}
	}
	return false
}

// Scan walks the working tree and returns a map from WorkDir-relative
// path (using "/") to the content OID each regular file would hash
// to, skipping anything under .ugit. It does not consult or mutate
// the index.
func (r *Repository) Scan() (Index, error) {
	result := Index{}

	err := filepath.Walk(r.WorkDir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(r.WorkDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if rel != "." && isIgnored(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if isIgnored(rel) || info.Mode()&os.ModeSymlink != 0 || !info.Mode().IsRegular() {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(ErrIOError, "read %s: %v", path, err)
		}
		oid, err := r.HashObject(content, TypeBlob)
		if err != nil {
			return err
		}
		result[rel] = oid
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Stage stages each path, which may be
// absolute or relative to the repository's working directory, is
// either a single file to hash and stage, or a directory to walk
// recursively, staging every regular file beneath it (symlinks are
// ignored, and any path under .ugit is skipped).
func (r *Repository) Stage(idx *Index, paths ...string) error {
	for _, p := range paths {
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(r.WorkDir, p)
		}

		info, err := os.Stat(abs)
		if err != nil {
			return errors.Wrapf(ErrIOError, "stat %s: %v", p, err)
		}

		if info.IsDir() {
			if err := r.stageDir(idx, abs); err != nil {
				return err
			}
			continue
		}
		if err := r.stageFile(idx, abs); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) stageDir(idx *Index, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(r.WorkDir, path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			if isIgnored(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if isIgnored(rel) || info.Mode()&os.ModeSymlink != 0 || !info.Mode().IsRegular() {
			return nil
		}
		return r.stageFile(idx, path)
	})
}

func (r *Repository) stageFile(idx *Index, abs string) error {
	content, err := os.ReadFile(abs)
	if err != nil {
		return errors.Wrapf(ErrIOError, "read %s: %v", abs, err)
	}
	oid, err := r.HashObject(content, TypeBlob)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(r.WorkDir, abs)
	if err != nil {
		return errors.Wrapf(ErrIOError, "relativize %s: %v", abs, err)
	}
	(*idx)[filepath.ToSlash(rel)] = oid
	return nil
}

// CheckoutIndex replaces the on-disk working tree with exactly what
// idx describes: every regular file outside .ugit, tracked or not, is
// removed first (and any
// directory left empty by that removal is pruned, best-effort), then
// every path in idx is recreated from its blob. Empty directories are
// never recorded and so never reproduced on checkout.
func (r *Repository) CheckoutIndex(idx Index) error {
	if err := r.emptyWorkDir(); err != nil {
		return err
	}

	for path, oid := range idx {
		content, err := r.GetObject(oid, TypeBlob)
		if err != nil {
			return err
		}
		abs := filepath.Join(r.WorkDir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return errors.Wrapf(ErrIOError, "create dir for %s: %v", path, err)
		}
		if err := os.WriteFile(abs, content, 0o644); err != nil {
			return errors.Wrapf(ErrIOError, "write %s: %v", path, err)
		}
	}
	return nil
}

// emptyWorkDir deletes every non-ignored regular file in the working
// tree, then attempts to remove directories left empty, ignoring
// not-found/not-empty failures.
func (r *Repository) emptyWorkDir() error {
	var dirs []string

	err := filepath.Walk(r.WorkDir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(r.WorkDir, path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			if rel != "." && isIgnored(rel) {
				return filepath.SkipDir
			}
			if rel != "." {
				dirs = append(dirs, path)
			}
			return nil
		}
		if isIgnored(rel) || !info.Mode().IsRegular() {
			return nil
		}
		return os.Remove(path)
	})
	if err != nil {
		return errors.Wrap(err, "empty working tree")
	}

	// Remove deepest directories first so parents can become empty too.
	for i := len(dirs) - 1; i >= 0; i-- {
		_ = os.Remove(dirs[i]) // ignore not-found/not-empty
	}
	return nil
}
