// Package docker implements container lifecycle operations against the
// Docker Engine.
package docker

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/sirupsen/logrus"

	"github.com/hardikramesh/botforge/internal/core/domain"
	"github.com/hardikramesh/botforge/internal/core/ports"
)

// Adapter implements ports.ContainerService using the Docker SDK.
type Adapter struct {
	cli *client.Client
	log *logrus.Entry
}

var _ ports.ContainerService = (*Adapter)(nil)

// NewAdapter creates a new Docker adapter instance.
func NewAdapter(log *logrus.Logger) (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Adapter{cli: cli, log: log.WithField("component", "docker")}, nil
}

// ListContainers returns the running containers with name, state and IP.
func (a *Adapter) ListContainers(ctx context.Context) ([]domain.Container, error) {
	containers, err := a.cli.ContainerList(ctx, types.ContainerListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	var result []domain.Container
	for _, c := range containers {
		result = append(result, domain.Container{
			ID:        c.ID[:12], // short ID
			Name:      containerName(c.Names),
			Image:     c.Image,
			Status:    c.Status,
			State:     c.State,
			IPAddress: containerIP(c),
		})
	}
	return result, nil
}

// StartContainer creates and starts a container from a given image. The
// image's own CMD is kept, so the container boots into the entry script
// baked in at build time.
func (a *Adapter) StartContainer(ctx context.Context, image string) (string, error) {
	// Pull only when the image is not already local. Digest-tagged images
	// built here never exist in a registry.
	exists, err := a.ImageExists(ctx, image)
	if err != nil {
		return "", err
	}
	if !exists {
		reader, err := a.cli.ImagePull(ctx, image, types.ImagePullOptions{})
		if err != nil {
			return "", fmt.Errorf("failed to pull image: %w", err)
		}
		// Drain so the pull runs to completion before create.
		io.Copy(io.Discard, reader)
		reader.Close()
	}

	resp, err := a.cli.ContainerCreate(ctx, &container.Config{
		Image: image,
	}, nil, nil, nil, "")
	if err != nil {
		return "", fmt.Errorf("failed to create container: %w", err)
	}

	if err := a.cli.ContainerStart(ctx, resp.ID, types.ContainerStartOptions{}); err != nil {
		return "", fmt.Errorf("failed to start container: %w", err)
	}

	a.log.WithFields(logrus.Fields{"container": resp.ID[:12], "image": image}).Info("container started")
	return resp.ID, nil
}

// StopContainer stops a running container.
func (a *Adapter) StopContainer(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := a.cli.ContainerStop(ctx, id, container.StopOptions{}); err != nil {
		return fmt.Errorf("failed to stop container: %w", err)
	}
	return nil
}

// GetContainerLogs returns a stream of container logs.
func (a *Adapter) GetContainerLogs(ctx context.Context, id string) (io.ReadCloser, error) {
	return a.cli.ContainerLogs(ctx, id, types.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Timestamps: true,
	})
}

// ImageExists reports whether ref is present in the engine's image store.
func (a *Adapter) ImageExists(ctx context.Context, ref string) (bool, error) {
	images, err := a.cli.ImageList(ctx, types.ImageListOptions{
		Filters: filters.NewArgs(filters.Arg("reference", ref)),
	})
	if err != nil {
		return false, fmt.Errorf("failed to list images: %w", err)
	}
	return len(images) > 0, nil
}

// containerName picks the first name and drops the leading slash.
func containerName(names []string) string {
	if len(names) == 0 || names[0] == "" {
		return ""
	}
	if names[0][0] == '/' {
		return names[0][1:]
	}
	return names[0]
}

// containerIP picks the first network endpoint carrying an address.
func containerIP(c types.Container) string {
	if c.NetworkSettings == nil {
		return ""
	}
	for _, ep := range c.NetworkSettings.Networks {
		if ep != nil && ep.IPAddress != "" {
			return ep.IPAddress
		}
	}
	return ""
}
