// Package http exposes the botforge API over Fiber: image builds,
// container lifecycle, the alert webhook and the bot reverse proxy.
package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/hardikramesh/botforge/internal/adapters/builder"
	"github.com/hardikramesh/botforge/internal/config"
	"github.com/hardikramesh/botforge/internal/core/domain"
	"github.com/hardikramesh/botforge/internal/core/ports"
)

// Handler serves the /api/v1 surface.
type Handler struct {
	containers ports.ContainerService
	builder    ports.BuilderService
	signals    ports.SignalSink
	defaults   config.BuildConfig
	log        *logrus.Entry
}

// NewHandler wires the API handler to its services. defaults fill the
// image spec fields a build request leaves empty.
func NewHandler(containers ports.ContainerService, b ports.BuilderService, signals ports.SignalSink, defaults config.BuildConfig, log *logrus.Logger) *Handler {
	return &Handler{
		containers: containers,
		builder:    b,
		signals:    signals,
		defaults:   defaults,
		log:        log.WithField("component", "api"),
	}
}

// Register mounts all routes on the app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/healthz", h.Health)
	app.Post("/webhook", h.Webhook)

	v1 := app.Group("/api").Group("/v1")

	v1.Post("/builds", h.BuildImage)

	containers := v1.Group("/containers")
	containers.Get("/", h.ListContainers)
	containers.Post("/", h.StartContainer)
	containers.Delete("/:id", h.StopContainer)
	containers.Get("/:id/logs", h.GetContainerLogs)

	v1.Get("/signals", h.ListSignals)
}

// Health is a liveness probe.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// BuildRequest is the /builds payload. Exactly one of SourceDir and
// RepoURL selects the source; the rest overrides build defaults.
type BuildRequest struct {
	SourceDir string `json:"source_dir"`
	RepoURL   string `json:"repo_url"`
	Image     string `json:"image"`
	BaseImage string `json:"base_image"`
	Variant   string `json:"variant"`
	Port      int    `json:"port"`
}

func (h *Handler) BuildImage(c *fiber.Ctx) error {
	var req BuildRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if (req.SourceDir == "") == (req.RepoURL == "") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Exactly one of source_dir and repo_url is required",
		})
	}

	spec, err := h.imageSpec(req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	build, err := h.builder.BuildImage(c.Context(), ports.BuildRequest{
		SourceDir: req.SourceDir,
		RepoURL:   req.RepoURL,
		ImageName: req.Image,
		Spec:      spec,
	})
	if err != nil {
		status := fiber.StatusInternalServerError
		if isPreflightError(err) {
			status = fiber.StatusUnprocessableEntity
		}
		return c.Status(status).JSON(fiber.Map{
			"error": "Build failed: " + err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(build)
}

// imageSpec merges request overrides over the configured defaults.
func (h *Handler) imageSpec(req BuildRequest) (domain.ImageSpec, error) {
	spec := domain.ImageSpec{
		BaseImage:   h.defaults.BaseImage,
		WorkDir:     h.defaults.WorkDir,
		Manifest:    h.defaults.Manifest,
		EntryScript: h.defaults.EntryScript,
		Variant:     domain.Variant(h.defaults.Variant),
		Port:        h.defaults.AppPort,
	}
	if req.BaseImage != "" {
		spec.BaseImage = req.BaseImage
	}
	if req.Variant != "" {
		spec.Variant = domain.Variant(req.Variant)
	}
	if req.Port > 0 {
		spec.Port = req.Port
	}
	if !spec.Variant.Valid() {
		return spec, errors.New("variant must be auto, toolchain or lean")
	}
	return spec, nil
}

func isPreflightError(err error) bool {
	return errors.Is(err, builder.ErrManifestMissing) ||
		errors.Is(err, builder.ErrEntryScriptMissing) ||
		errors.Is(err, builder.ErrToolchainRequired)
}

func (h *Handler) ListContainers(c *fiber.Ctx) error {
	containers, err := h.containers.ListContainers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(containers)
}

// StartContainerRequest names the image to run.
type StartContainerRequest struct {
	Image string `json:"image"`
}

func (h *Handler) StartContainer(c *fiber.Ctx) error {
	var req StartContainerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Image == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Image name is required",
		})
	}

	containerID, err := h.containers.StartContainer(c.Context(), req.Image)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    containerID,
		"image": req.Image,
	})
}

func (h *Handler) StopContainer(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Container ID is required",
		})
	}

	if err := h.containers.StopContainer(c.Context(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *Handler) GetContainerLogs(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Container ID is required",
		})
	}

	logs, err := h.containers.GetContainerLogs(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set("Content-Type", "text/plain")
	return c.SendStream(logs)
}
