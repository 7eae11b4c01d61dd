package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jordankom/sofhair/internal/repository"
	"github.com/jordankom/sofhair/pkg/httputil"
)

// Handler exposes the read-only service catalog for browsing.
type Handler struct {
	services repository.ServiceRepository
}

func NewHandler(services repository.ServiceRepository) *Handler {
	return &Handler{services: services}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/services", h.ListServices)
}

// ListServices handles GET /services
func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.services.ListActive(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, services)
}
