package ugit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyObjectGraphOKOnHealthyRepo(t *testing.T) {
	r := newTestRepo(t)
	commitFile(t, r, "a.txt", "A\n", "first")
	commitFile(t, r, "a.txt", "A2\n", "second")

	report, err := r.VerifyObjectGraph()
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.NotEmpty(t, report.RefsChecked)
	assert.Greater(t, report.ObjectsChecked, 0)
}

func TestVerifyObjectGraphReportsDanglingRef(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, r.UpdateRef("refs/heads/broken", RefValue{Value: "1111111111111111111111111111111111111111"}, false))

	report, err := r.VerifyObjectGraph()
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.NotEmpty(t, report.DanglingRefs)
}
