package http

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/sirupsen/logrus"

	"github.com/hardikramesh/botforge/internal/core/ports"
)

// ProxyHandler routes subdomain traffic to running bot containers:
// a request for my-bot.<domain> lands on the container named my-bot.
type ProxyHandler struct {
	service ports.ContainerService
	domain  string
	appPort int
	log     *logrus.Entry
}

// NewProxyHandler creates a proxy for the given parent domain. appPort
// is the port the bots listen on inside their containers.
func NewProxyHandler(service ports.ContainerService, domain string, appPort int, log *logrus.Logger) *ProxyHandler {
	return &ProxyHandler{
		service: service,
		domain:  domain,
		appPort: appPort,
		log:     log.WithField("component", "proxy"),
	}
}

// ProxyRequest intercepts requests whose host is a subdomain of the
// configured domain and forwards them to the matching container's IP.
// Everything else falls through to the API routes.
func (h *ProxyHandler) ProxyRequest(c *fiber.Ctx) error {
	name := h.subdomain(c.Hostname())
	if name == "" {
		return c.Next()
	}

	containers, err := h.service.ListContainers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to list containers")
	}

	var targetIP string
	for _, container := range containers {
		if container.Name != name {
			continue
		}
		// Only proxy to running containers.
		if container.State != "running" {
			continue
		}
		targetIP = container.IPAddress
		break
	}

	if targetIP == "" {
		return c.Status(fiber.StatusNotFound).SendString(fmt.Sprintf("Bot '%s' not found or not running", name))
	}

	remote, err := url.Parse(fmt.Sprintf("http://%s:%d", targetIP, h.appPort))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Invalid target URL")
	}

	proxy := httputil.NewSingleHostReverseProxy(remote)

	// Rewrite the Host header to the target so the bot inside the
	// container sees a host it recognizes.
	originalDirector := proxy.Director
	proxy.Director = func(req *http.Request) {
		originalDirector(req)
		req.Host = remote.Host
		req.URL.Host = remote.Host
		req.URL.Scheme = remote.Scheme
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		h.log.WithFields(logrus.Fields{"bot": name, "target": remote.Host}).WithError(err).Warn("proxy request failed")
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprintf(w, "Bot '%s' unreachable", name)
	}

	return adaptor.HTTPHandler(proxy)(c)
}

// subdomain extracts the bot name from host, or "" when host is not a
// proxyable subdomain of the configured domain.
func (h *ProxyHandler) subdomain(host string) string {
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	suffix := "." + h.domain
	if !strings.HasSuffix(host, suffix) {
		return ""
	}
	name := strings.TrimSuffix(host, suffix)
	if name == "" || name == "www" || strings.Contains(name, ".") {
		return ""
	}
	return name
}
