package builder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hardikramesh/botforge/internal/core/domain"
	"github.com/hardikramesh/botforge/internal/core/ports"
)

func testAdapter(t *testing.T) *Adapter {
	t.Helper()
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.ErrorLevel)
	return &Adapter{log: log.WithField("component", "builder")}
}

func testSpec() domain.ImageSpec {
	return domain.ImageSpec{
		BaseImage:   "python:3.11-slim",
		WorkDir:     "/app",
		Manifest:    "requirements.txt",
		EntryScript: "app.py",
		Variant:     domain.VariantAuto,
	}
}

func TestPreflight_ManifestMissing(t *testing.T) {
	dir := writeTree(t, map[string]string{"app.py": "print('hi')\n"})

	_, err := testAdapter(t).preflight(dir, testSpec())
	assert.ErrorIs(t, err, ErrManifestMissing)
}

func TestPreflight_EntryScriptMissing(t *testing.T) {
	dir := writeTree(t, map[string]string{"requirements.txt": "flask\n"})

	_, err := testAdapter(t).preflight(dir, testSpec())
	assert.ErrorIs(t, err, ErrEntryScriptMissing)
}

func TestPreflight_AutoResolvesLean(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"requirements.txt": "flask==2.3.3\nrequests\n",
		"app.py":           "print('hi')\n",
	})

	spec, err := testAdapter(t).preflight(dir, testSpec())
	require.NoError(t, err)
	assert.Equal(t, domain.VariantLean, spec.Variant)
}

func TestPreflight_AutoResolvesToolchain(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"requirements.txt": "flask\nnumpy>=1.24\n",
		"app.py":           "print('hi')\n",
	})

	spec, err := testAdapter(t).preflight(dir, testSpec())
	require.NoError(t, err)
	assert.Equal(t, domain.VariantToolchain, spec.Variant)
}

func TestPreflight_LeanRejectsNative(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"requirements.txt": "pandas\nnumpy\n",
		"app.py":           "print('hi')\n",
	})
	spec := testSpec()
	spec.Variant = domain.VariantLean

	_, err := testAdapter(t).preflight(dir, spec)
	require.ErrorIs(t, err, ErrToolchainRequired)
	assert.Contains(t, err.Error(), "pandas")
	assert.Contains(t, err.Error(), "numpy")
}

func TestPreflight_ToolchainForced(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"requirements.txt": "flask\n",
		"app.py":           "print('hi')\n",
	})
	spec := testSpec()
	spec.Variant = domain.VariantToolchain

	got, err := testAdapter(t).preflight(dir, spec)
	require.NoError(t, err)
	assert.Equal(t, domain.VariantToolchain, got.Variant)
}

func TestPreflight_BadManifest(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"requirements.txt": "flask==\n",
		"app.py":           "print('hi')\n",
	})

	_, err := testAdapter(t).preflight(dir, testSpec())
	assert.Error(t, err)
}

func TestEnsureDockerfile_Generates(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"requirements.txt": "flask\n",
		"app.py":           "print('hi')\n",
	})
	spec := testSpec()
	spec.Variant = domain.VariantLean

	require.NoError(t, testAdapter(t).ensureDockerfile(dir, spec))

	content, err := os.ReadFile(filepath.Join(dir, DockerfileName))
	require.NoError(t, err)
	assert.Contains(t, string(content), "FROM python:3.11-slim")
	assert.Contains(t, string(content), "CMD [\"python\", \"app.py\"]")
}

func TestEnsureDockerfile_KeepsExisting(t *testing.T) {
	existing := "FROM scratch\n"
	dir := writeTree(t, map[string]string{DockerfileName: existing})

	require.NoError(t, testAdapter(t).ensureDockerfile(dir, testSpec()))

	content, err := os.ReadFile(filepath.Join(dir, DockerfileName))
	require.NoError(t, err)
	assert.Equal(t, existing, string(content))
}

func TestCopyTree_SkipsGit(t *testing.T) {
	src := writeTree(t, map[string]string{
		"app.py":      "x\n",
		"lib/util.py": "y\n",
		".git/HEAD":   "ref\n",
	})
	dst := t.TempDir()

	require.NoError(t, copyTree(src, dst))

	assert.FileExists(t, filepath.Join(dst, "app.py"))
	assert.FileExists(t, filepath.Join(dst, "lib", "util.py"))
	assert.NoFileExists(t, filepath.Join(dst, ".git", "HEAD"))
}

func TestDeriveImageName(t *testing.T) {
	cases := []struct {
		req  ports.BuildRequest
		want string
	}{
		{ports.BuildRequest{SourceDir: "/srv/My Bot"}, "my-bot"},
		{ports.BuildRequest{SourceDir: "./trading-bot/"}, "trading-bot"},
		{ports.BuildRequest{RepoURL: "https://github.com/hardikramesh/tradingbot1.git"}, "tradingbot1"},
		{ports.BuildRequest{RepoURL: "https://example.com/x/Signal_Bot"}, "signal_bot"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, deriveImageName(tc.req), "request %+v", tc.req)
	}
}
