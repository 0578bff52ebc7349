package resumes

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"intellihire-backend/internal/extract"
	"intellihire-backend/internal/llm"
	"intellihire-backend/internal/shared/server/middleware"
	"intellihire-backend/internal/shared/server/respond"
)

const maxUploadSize = 20 << 20 // 20MB, resume plus preview image

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.upload)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.PATCH("/resumes/:id", h.edit)
	rg.POST("/resumes/:id/reanalyze", h.reanalyze)
	rg.POST("/resumes/:id/select", h.toggleSelection)
	rg.DELETE("/resumes/:id", h.remove)
	rg.GET("/resumes/:id/file", h.file)
	rg.GET("/resumes/:id/preview", h.preview)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	in := UploadInput{
		UserID:         userID,
		FileName:       fileHeader.Filename,
		File:           file,
		CompanyName:    c.PostForm("companyName"),
		JobTitle:       c.PostForm("jobTitle"),
		JobDescription: c.PostForm("jobDescription"),
		CandidateName:  c.PostForm("candidateName"),
		CandidateEmail: c.PostForm("candidateEmail"),
	}
	if imageHeader, err := c.FormFile("image"); err == nil {
		image, err := imageHeader.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read image", nil)
			return
		}
		defer image.Close()
		in.PreviewName = imageHeader.Filename
		in.Preview = image
	}

	rec, err := h.Svc.Upload(c.Request.Context(), in)
	if err != nil {
		h.analysisError(c, rec, err, "failed to upload resume")
		return
	}
	respond.Created(c, rec)
}

func (h *Handler) list(c *gin.Context) {
	q := Query{
		Search: c.Query("search"),
		Band:   ParseScoreBand(c.Query("band")),
		Sort:   ParseSortKey(c.Query("sort")),
	}
	view, err := h.Svc.List(c.Request.Context(), q)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list resumes", nil)
		return
	}
	respond.OK(c, listResponse{
		Resumes:  view.Items,
		Selected: view.Selected,
		Stats:    view.Stats,
	})
}

func (h *Handler) get(c *gin.Context) {
	c.Set("resumeId", c.Param("id"))
	rec, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.lookupError(c, err, "failed to load resume")
		return
	}
	respond.OK(c, rec)
}

func (h *Handler) edit(c *gin.Context) {
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	c.Set("resumeId", c.Param("id"))
	rec, err := h.Svc.Edit(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		h.lookupError(c, err, "failed to update resume")
		return
	}
	respond.OK(c, rec)
}

func (h *Handler) reanalyze(c *gin.Context) {
	var req editRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}
	c.Set("resumeId", c.Param("id"))
	rec, err := h.Svc.Reanalyze(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		h.analysisError(c, rec, err, "failed to reanalyze resume")
		return
	}
	respond.OK(c, rec)
}

func (h *Handler) toggleSelection(c *gin.Context) {
	c.Set("resumeId", c.Param("id"))
	rec, err := h.Svc.ToggleSelection(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.lookupError(c, err, "failed to update selection")
		return
	}
	respond.OK(c, rec)
}

func (h *Handler) remove(c *gin.Context) {
	c.Set("resumeId", c.Param("id"))
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.lookupError(c, err, "failed to delete resume")
		return
	}
	respond.OK(c, gin.H{"deleted": true})
}

func (h *Handler) file(c *gin.Context) {
	rc, err := h.Svc.OpenFile(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.lookupError(c, err, "failed to open resume file")
		return
	}
	defer rc.Close()
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	io.Copy(c.Writer, rc) //nolint:errcheck
}

func (h *Handler) preview(c *gin.Context) {
	rc, err := h.Svc.OpenPreview(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.lookupError(c, err, "failed to open preview image")
		return
	}
	defer rc.Close()
	c.Header("Content-Type", "image/png")
	c.Status(http.StatusOK)
	io.Copy(c.Writer, rc) //nolint:errcheck
}

func (h *Handler) lookupError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

// analysisError maps upload and reanalysis failures. When a placeholder
// record survived the failed analysis its id is returned so the client
// can retry against it.
func (h *Handler) analysisError(c *gin.Context, rec Resume, err error, fallback string) {
	var details interface{}
	if rec.ID != "" {
		details = gin.H{"resumeId": rec.ID}
	}
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, extract.ErrUnsupportedType):
		respond.Error(c, http.StatusBadRequest, "unsupported_file_type", "only PDF resumes are supported", details)
	case errors.Is(err, ErrInvalidFeedback), errors.Is(err, llm.ErrEmptyResponse):
		respond.Error(c, http.StatusBadGateway, "analysis_failed", "resume analysis returned an unusable reply", details)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, details)
	}
}
