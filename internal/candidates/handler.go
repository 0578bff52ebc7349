package candidates

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"intellihire-backend/internal/resumes"
	"intellihire-backend/internal/shared/server/respond"
)

// Handler wires the comparison endpoints to the resume service.
type Handler struct {
	Svc *resumes.Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *resumes.Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches candidate routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/candidates", h.compare)
	rg.POST("/candidates/:id/strengths", h.strengths)
}

func (h *Handler) compare(c *gin.Context) {
	// The comparison always runs over the full record set.
	view, err := h.Svc.List(c.Request.Context(), resumes.Query{Band: resumes.BandAll})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load candidates", nil)
		return
	}
	respond.OK(c, Compare(view.Items))
}

func (h *Handler) strengths(c *gin.Context) {
	rec, err := h.Svc.AnalyzeStrengths(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, resumes.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		case errors.Is(err, resumes.ErrMissingJobContext):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, resumes.ErrInvalidFeedback):
			respond.Error(c, http.StatusBadGateway, "analysis_failed", "strengths analysis returned an unusable reply", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to analyze strengths", nil)
		}
		return
	}
	respond.OK(c, rec)
}
