package handler

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalImagePath(t *testing.T) {
	root := t.TempDir()

	got, ok := localImagePath(root, "beds/twin.png")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "beds", "twin.png"), got)

	got, ok = localImagePath(root, filepath.Join(root, "sofa.jpg"))
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "sofa.jpg"), got)

	for _, p := range []string{
		"../config.yaml",
		"beds/../../ledger.db",
		"/etc/passwd",
		filepath.Join(filepath.Dir(root), "other", "x.png"),
	} {
		_, ok := localImagePath(root, p)
		assert.False(t, ok, p)
	}

	_, ok = localImagePath("", "twin.png")
	assert.False(t, ok, "no image dir configured")
}
