package ugit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanIgnoresGitDir(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(r.WorkDir, "tracked.txt"), []byte("content\n"), 0o644))

	scanned, err := r.Scan()
	require.NoError(t, err)

	_, hasTracked := scanned["tracked.txt"]
	assert.True(t, hasTracked)
	for path := range scanned {
		assert.NotContains(t, path, GitDirName)
	}
}

func TestStageFileAndDirectory(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(r.WorkDir, "a.txt"), []byte("A\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(r.WorkDir, "dir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(r.WorkDir, "dir", "b.txt"), []byte("B\n"), 0o644))

	err := r.WithIndex(func(idx *Index) error {
		return r.Stage(idx, "a.txt", "dir")
	})
	require.NoError(t, err)

	loaded, err := r.loadIndex()
	require.NoError(t, err)
	assert.Contains(t, loaded, "a.txt")
	assert.Contains(t, loaded, "dir/b.txt")
}

func TestWriteTreeThenCheckoutIndexReproducesFiles(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(r.WorkDir, "a.txt"), []byte("A\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(r.WorkDir, "dir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(r.WorkDir, "dir", "b.txt"), []byte("B\n"), 0o644))

	var treeOID string
	require.NoError(t, r.WithIndex(func(idx *Index) error {
		if err := r.Stage(idx, "a.txt", "dir"); err != nil {
			return err
		}
		var err error
		treeOID, err = r.WriteTree(*idx)
		return err
	}))

	flattened, err := r.FlattenTree(treeOID, "")
	require.NoError(t, err)

	// Empty the working directory, then checkout from the tree.
	require.NoError(t, os.Remove(filepath.Join(r.WorkDir, "a.txt")))
	require.NoError(t, os.RemoveAll(filepath.Join(r.WorkDir, "dir")))

	require.NoError(t, r.CheckoutIndex(flattened))

	a, err := os.ReadFile(filepath.Join(r.WorkDir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "A\n", string(a))

	b, err := os.ReadFile(filepath.Join(r.WorkDir, "dir", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "B\n", string(b))
}
