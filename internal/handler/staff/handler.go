package staff

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jordankom/sofhair/internal/repository"
	"github.com/jordankom/sofhair/pkg/httputil"
)

// Handler exposes the read-only staff roster.
type Handler struct {
	staff repository.StaffRepository
}

func NewHandler(staff repository.StaffRepository) *Handler {
	return &Handler{staff: staff}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/staff", h.ListStaff)
}

// ListStaff handles GET /staff
func (h *Handler) ListStaff(c *gin.Context) {
	staff, err := h.staff.ListActive(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, staff)
}
