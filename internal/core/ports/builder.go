package ports

import (
	"context"

	"github.com/hardikramesh/botforge/internal/core/domain"
)

// BuildRequest names the source and the image to produce from it.
// Exactly one of SourceDir and RepoURL must be set.
type BuildRequest struct {
	SourceDir string
	RepoURL   string
	ImageName string
	Spec      domain.ImageSpec
}

// BuilderService defines operations for building bot images from source code.
type BuilderService interface {
	// BuildImage produces a container image from the request's source tree.
	// The returned build carries the final image reference, which embeds a
	// digest of the build inputs; an unchanged source tree resolves to the
	// same reference and is reported as cached instead of rebuilt.
	BuildImage(ctx context.Context, req BuildRequest) (*domain.Build, error)
}
