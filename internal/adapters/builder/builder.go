// Package builder drives the Docker Engine to produce bot images from a
// source tree. The tree may be a local directory or a git repository; in
// both cases the build works on a private copy so the original is never
// modified.
package builder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hardikramesh/botforge/internal/core/domain"
	"github.com/hardikramesh/botforge/internal/core/ports"
	"github.com/hardikramesh/botforge/internal/dockerfile"
	"github.com/hardikramesh/botforge/internal/manifest"
)

// Preflight failures. They are detected before the engine build starts
// and map to client errors rather than build errors.
var (
	// ErrManifestMissing means the dependency manifest is absent from the
	// source tree.
	ErrManifestMissing = errors.New("dependency manifest not found in source tree")
	// ErrEntryScriptMissing means the entry script is absent from the
	// source tree.
	ErrEntryScriptMissing = errors.New("entry script not found in source tree")
	// ErrToolchainRequired means the lean variant was requested but the
	// manifest lists packages that compile native extensions. This is an
	// expected outcome for lean builds, not an engine failure.
	ErrToolchainRequired = errors.New("manifest requires a compiler toolchain")
)

// DockerfileName is the build file name inside the build context.
const DockerfileName = "Dockerfile"

// Adapter implements ports.BuilderService using the Docker SDK.
type Adapter struct {
	cli     *client.Client
	log     *logrus.Entry
	tempDir string // parent for per-build work dirs; empty means OS default
}

var _ ports.BuilderService = (*Adapter)(nil)

// NewAdapter creates a builder talking to the engine configured in the
// environment.
func NewAdapter(log *logrus.Logger, tempDir string) (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Adapter{
		cli:     cli,
		log:     log.WithField("component", "builder"),
		tempDir: tempDir,
	}, nil
}

// BuildImage acquires the source, runs preflight checks, generates the
// build file when the source has none, and builds the image. The image
// tag embeds a digest of the build context, so rebuilding an unchanged
// tree resolves to an existing image and is reported as cached.
func (a *Adapter) BuildImage(ctx context.Context, req ports.BuildRequest) (*domain.Build, error) {
	started := time.Now().UTC()

	ctxDir, cleanup, err := a.acquireSource(ctx, req)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	spec, err := a.preflight(ctxDir, req.Spec)
	if err != nil {
		return nil, err
	}

	if err := a.ensureDockerfile(ctxDir, spec); err != nil {
		return nil, err
	}

	digest, err := ContentDigest(ctxDir)
	if err != nil {
		return nil, fmt.Errorf("failed to digest build context: %w", err)
	}

	name := req.ImageName
	if name == "" {
		name = deriveImageName(req)
	}
	imageRef := fmt.Sprintf("%s:bf-%s", name, digest[:12])

	build := &domain.Build{
		ID:       uuid.NewString(),
		ImageRef: imageRef,
		Variant:  spec.Variant,
		Digest:   digest,
		Started:  started,
	}
	log := a.log.WithFields(logrus.Fields{"build_id": build.ID, "image": imageRef})

	exists, err := a.imageExists(ctx, imageRef)
	if err != nil {
		return nil, err
	}
	if exists {
		log.Info("image up to date, skipping build")
		build.Cached = true
		build.Finished = time.Now().UTC()
		return build, nil
	}

	log.WithField("variant", spec.Variant).Info("building image")
	if err := a.runBuild(ctx, ctxDir, imageRef, log); err != nil {
		return nil, err
	}

	build.Finished = time.Now().UTC()
	log.WithField("took", build.Finished.Sub(build.Started)).Info("build finished")
	return build, nil
}

// preflight validates the source tree against the spec and resolves the
// auto variant. Returned spec always carries a concrete variant.
func (a *Adapter) preflight(ctxDir string, spec domain.ImageSpec) (domain.ImageSpec, error) {
	manifestPath := filepath.Join(ctxDir, spec.Manifest)
	if _, err := os.Stat(manifestPath); err != nil {
		return spec, fmt.Errorf("%w: %s", ErrManifestMissing, spec.Manifest)
	}
	if _, err := os.Stat(filepath.Join(ctxDir, spec.EntryScript)); err != nil {
		return spec, fmt.Errorf("%w: %s", ErrEntryScriptMissing, spec.EntryScript)
	}

	m, err := manifest.ParseFile(manifestPath)
	if err != nil {
		return spec, err
	}
	native := manifest.NativeRequirements(m)

	switch spec.Variant {
	case domain.VariantAuto, "":
		if len(native) > 0 {
			spec.Variant = domain.VariantToolchain
		} else {
			spec.Variant = domain.VariantLean
		}
	case domain.VariantLean:
		if len(native) > 0 {
			return spec, fmt.Errorf("%w: %s", ErrToolchainRequired, requirementNames(native))
		}
	case domain.VariantToolchain:
	default:
		return spec, fmt.Errorf("unknown variant %q", spec.Variant)
	}
	return spec, nil
}

// ensureDockerfile writes the generated build file into the context. A
// build file already present in the source is respected and used as-is.
func (a *Adapter) ensureDockerfile(ctxDir string, spec domain.ImageSpec) error {
	path := filepath.Join(ctxDir, DockerfileName)
	if _, err := os.Stat(path); err == nil {
		a.log.Debug("source ships its own Dockerfile, using it unmodified")
		return nil
	}

	content, err := dockerfile.Generate(spec)
	if err != nil {
		return fmt.Errorf("failed to generate build file: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write build file: %w", err)
	}
	return nil
}

func (a *Adapter) imageExists(ctx context.Context, ref string) (bool, error) {
	images, err := a.cli.ImageList(ctx, types.ImageListOptions{
		Filters: filters.NewArgs(filters.Arg("reference", ref)),
	})
	if err != nil {
		return false, fmt.Errorf("failed to list images: %w", err)
	}
	return len(images) > 0, nil
}

// runBuild tars the context, submits it to the engine and consumes the
// streamed build output. An error raised inside the stream fails the
// build even though the HTTP call itself succeeded.
func (a *Adapter) runBuild(ctx context.Context, ctxDir, imageRef string, log *logrus.Entry) error {
	tar, err := archive.TarWithOptions(ctxDir, &archive.TarOptions{
		ExcludePatterns: []string{".git"},
	})
	if err != nil {
		return fmt.Errorf("failed to create build context: %w", err)
	}
	defer tar.Close()

	resp, err := a.cli.ImageBuild(ctx, tar, types.ImageBuildOptions{
		Tags:       []string{imageRef},
		Dockerfile: DockerfileName,
		Remove:     true,
	})
	if err != nil {
		return fmt.Errorf("failed to build image: %w", err)
	}
	defer resp.Body.Close()

	dec := json.NewDecoder(resp.Body)
	for {
		var msg jsonmessage.JSONMessage
		if err := dec.Decode(&msg); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to decode build output: %w", err)
		}
		if msg.Error != nil {
			return fmt.Errorf("build failed: %s", msg.Error.Message)
		}
		if out := strings.TrimSpace(msg.Stream); out != "" {
			log.Debug(out)
		}
	}
}

func requirementNames(reqs []domain.Requirement) string {
	names := make([]string, len(reqs))
	for i, r := range reqs {
		names[i] = r.Name
	}
	return strings.Join(names, ", ")
}

// deriveImageName picks an image name from the source location when the
// request does not name one.
func deriveImageName(req ports.BuildRequest) string {
	src := req.SourceDir
	if src == "" {
		src = strings.TrimSuffix(req.RepoURL, ".git")
	}
	base := strings.ToLower(filepath.Base(filepath.Clean(src)))
	var b strings.Builder
	for _, r := range base {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
	}
	name := strings.Trim(b.String(), "-.")
	if name == "" {
		name = "botforge-app"
	}
	return name
}
