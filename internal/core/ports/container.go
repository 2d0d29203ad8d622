package ports

import (
	"context"
	"io"

	"github.com/hardikramesh/botforge/internal/core/domain"
)

// ContainerService defines the core operations for managing bot containers.
// This interface allows us to switch between Docker, Podman, or Kubernetes
// without changing the business logic.
type ContainerService interface {
	ListContainers(ctx context.Context) ([]domain.Container, error)
	// StartContainer runs the image with its own default command, so the
	// container comes up executing the entry script baked into the image.
	StartContainer(ctx context.Context, image string) (string, error)
	StopContainer(ctx context.Context, id string) error
	GetContainerLogs(ctx context.Context, id string) (io.ReadCloser, error)
	// ImageExists reports whether the given reference is already present
	// in the engine's local image store.
	ImageExists(ctx context.Context, ref string) (bool, error)
}
