package rest

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medintake/config"
	"medintake/internal/service"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Handler struct {
	services *service.Services
	logger   *zap.Logger
	config   *config.Config
}

func NewHandler(services *service.Services, logger *zap.Logger, config *config.Config) *Handler {
	return &Handler{
		services: services,
		logger:   logger,
		config:   config,
	}
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(h.requestIDMiddleware())

	router.Use(h.loggerMiddleware())

	router.Use(h.errorMiddleware())

	router.Use(h.corsMiddleware())

	router.MaxMultipartMemory = h.maxUploadBytes()
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	router.GET("/health", h.health)

	doctors := router.Group("/doctors")
	{
		doctors.GET("/new", h.newDoctorPage)
		doctors.POST("/new", h.uploadLimitMiddleware(), h.createDoctorPage)
	}

	api := router.Group("/api/v1")
	{
		sessions := api.Group("/intake/sessions")
		{
			sessions.POST("", h.openIntakeSession)
			sessions.GET("/:id", h.getIntakeSession)
			sessions.PUT("/:id/fields/:field", h.updateIntakeField)
			sessions.PUT("/:id/picture", h.uploadLimitMiddleware(), h.selectIntakePicture)
			sessions.POST("/:id/submit", h.submitIntake)
		}
	}
}

// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"name":    h.config.Name,
		"version": h.config.Version,
	})
}
