package builder

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"

	"github.com/hardikramesh/botforge/internal/core/ports"
)

// acquireSource materializes the build context in a fresh temp directory:
// a shallow clone for repo URLs, a filtered copy for local directories.
// The returned cleanup removes the directory.
func (a *Adapter) acquireSource(ctx context.Context, req ports.BuildRequest) (string, func(), error) {
	if (req.SourceDir == "") == (req.RepoURL == "") {
		return "", nil, fmt.Errorf("exactly one of source dir and repo url must be set")
	}

	tmpDir, err := os.MkdirTemp(a.tempDir, "botforge-build-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(tmpDir) }

	if req.RepoURL != "" {
		a.log.WithField("repo", req.RepoURL).Info("cloning repository")
		_, err = git.PlainCloneContext(ctx, tmpDir, false, &git.CloneOptions{
			URL:   req.RepoURL,
			Depth: 1, // shallow clone for speed
		})
		if err != nil {
			cleanup()
			return "", nil, fmt.Errorf("failed to clone repo: %w", err)
		}
		return tmpDir, cleanup, nil
	}

	if err := copyTree(req.SourceDir, tmpDir); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to copy source tree: %w", err)
	}
	return tmpDir, cleanup, nil
}

// copyTree copies regular files and directories from src into dst,
// leaving out .git. Symlinks and other special files are skipped.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return os.MkdirAll(filepath.Join(dst, rel), 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(path, filepath.Join(dst, rel))
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
