package builder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestContentDigest_Deterministic(t *testing.T) {
	files := map[string]string{
		"app.py":           "print('hi')\n",
		"requirements.txt": "flask==2.3.3\n",
		"lib/util.py":      "x = 1\n",
	}
	a := writeTree(t, files)
	b := writeTree(t, files)

	da, err := ContentDigest(a)
	require.NoError(t, err)
	db, err := ContentDigest(b)
	require.NoError(t, err)

	assert.Equal(t, da, db, "identical trees must digest identically")
	assert.Len(t, da, 64)
}

func TestContentDigest_ContentSensitive(t *testing.T) {
	a := writeTree(t, map[string]string{"app.py": "print('hi')\n"})
	b := writeTree(t, map[string]string{"app.py": "print('bye')\n"})

	da, err := ContentDigest(a)
	require.NoError(t, err)
	db, err := ContentDigest(b)
	require.NoError(t, err)
	assert.NotEqual(t, da, db)
}

func TestContentDigest_PathSensitive(t *testing.T) {
	a := writeTree(t, map[string]string{"app.py": "x\n"})
	b := writeTree(t, map[string]string{"main.py": "x\n"})

	da, err := ContentDigest(a)
	require.NoError(t, err)
	db, err := ContentDigest(b)
	require.NoError(t, err)
	assert.NotEqual(t, da, db)
}

func TestContentDigest_IgnoresGitDir(t *testing.T) {
	a := writeTree(t, map[string]string{"app.py": "x\n"})
	b := writeTree(t, map[string]string{
		"app.py":    "x\n",
		".git/HEAD": "ref: refs/heads/main\n",
	})

	da, err := ContentDigest(a)
	require.NoError(t, err)
	db, err := ContentDigest(b)
	require.NoError(t, err)
	assert.Equal(t, da, db)
}
