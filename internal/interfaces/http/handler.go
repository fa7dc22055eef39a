package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"whatsapp_crm/internal/entities"
	"whatsapp_crm/internal/interfaces"
	"whatsapp_crm/internal/usecases"
)

const (
	maxRequestBytes = 1 << 20

	// processTimeout bounds one inbound message end to end, detached from the caller.
	processTimeout = 30 * time.Second
)

type Handler struct {
	messageService   *usecases.MessageService
	dashboardUsecase *usecases.DashboardUsecase
	authUsecase      *usecases.AuthUsecase
	db               interfaces.Pinger
	verifyToken      string
	log              *zap.Logger
}

func NewHandler(service *usecases.MessageService, dashboard *usecases.DashboardUsecase, auth *usecases.AuthUsecase, db interfaces.Pinger, verifyToken string, log *zap.Logger) *Handler {
	return &Handler{
		messageService:   service,
		dashboardUsecase: dashboard,
		authUsecase:      auth,
		db:               db,
		verifyToken:      verifyToken,
		log:              log,
	}
}

// RateLimit configures the per-IP limiter on the tenant API.
type RateLimit struct {
	PerSecond float64
	Burst     int
}

func SetupRoutes(r *gin.Engine, h *Handler, middleware *Middleware, limit RateLimit) {
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery())
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(maxRequestBytes))
	r.Use(middleware.CORSMiddleware())

	r.GET("/", h.Root)
	r.GET("/healthz", h.Health)

	// Platform webhook
	r.GET("/webhook", h.VerifyWebhook)
	r.POST("/webhook", h.ReceiveWebhook)

	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.RateLimitPerIP(rate.Limit(limit.PerSecond), limit.Burst))
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	tenant := r.Group("/api/tenants/:id")
	tenant.Use(middleware.RateLimitPerIP(rate.Limit(limit.PerSecond), limit.Burst))
	tenant.Use(middleware.TenantAuth())
	{
		tenant.GET("/dashboard", h.GetDashboard)
		tenant.GET("/students", h.ListStudents)
		tenant.POST("/students", h.CreateStudent)
		tenant.GET("/leads", h.ListLeads)
		tenant.GET("/qr", h.GetQRCode)
	}
}

func (h *Handler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Server is running")
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
}

// VerifyWebhook answers the platform's subscription handshake.
// Both the hub.* names the platform sends and the bare names are accepted.
func (h *Handler) VerifyWebhook(c *gin.Context) {
	mode := queryEither(c, "hub.mode", "mode")
	token := queryEither(c, "hub.verify_token", "verify_token")
	challenge := queryEither(c, "hub.challenge", "challenge")

	if mode != "subscribe" || h.verifyToken == "" || token != h.verifyToken {
		h.log.Warn("webhook verification rejected", zap.String("mode", mode))
		c.Status(http.StatusForbidden)
		return
	}

	h.log.Info("webhook verified")
	c.String(http.StatusOK, challenge)
}

// ReceiveWebhook handles one delivery. Only a failure to decide where the message belongs
// (or a panic) is reported as 500; everything else is acknowledged.
func (h *Handler) ReceiveWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.log.Error("failed to read webhook body", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}

	event, err := entities.DecodeWebhookEvent(body)
	if err != nil {
		h.log.Warn("ignoring malformed webhook", zap.Error(err))
		c.Status(http.StatusOK)
		return
	}

	in, ok := event.FirstMessage()
	if !ok {
		h.log.Debug("webhook without message")
		c.Status(http.StatusOK)
		return
	}

	// The platform hanging up must not abort the store write or the reply.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), processTimeout)
	defer cancel()

	if _, err := h.messageService.ProcessMessage(ctx, in); err != nil {
		h.log.Error("webhook processing failed", zap.String("phone", in.From), zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusOK)
}

func queryEither(c *gin.Context, keys ...string) string {
	for _, k := range keys {
		if v, ok := c.GetQuery(k); ok {
			return v
		}
	}
	return ""
}

// respondError maps domain errors onto status codes.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entities.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entities.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, entities.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	default:
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
