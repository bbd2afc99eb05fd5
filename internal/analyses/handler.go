package analyses

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"career-coach/internal/shared/server/middleware"
	"career-coach/internal/shared/server/respond"
	"career-coach/internal/users"
)

const failedMessage = "Failed to analyze resume. Please try again."

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the read routes. create is registered separately
// so the router can put it behind the generation rate limit.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/analyses", h.list)
	rg.GET("/analyses/latest", h.latest)
	rg.GET("/analyses/:id", h.get)
	rg.GET("/analyses/:id/resume", h.resume)
}

// RegisterCreate attaches POST /analyses with the given middleware.
func (h *Handler) RegisterCreate(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	rg.POST("/analyses", append(append([]gin.HandlerFunc{}, mw...), h.create)...)
}

func (h *Handler) create(c *gin.Context) {
	limit := h.Svc.MaxUploadBytes
	if limit <= 0 {
		limit = DefaultMaxUploadBytes
	}
	// Leave room for the form fields around the file.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+(1<<20))

	upload, err := readUpload(c, limit)
	if err != nil {
		// Identity is checked before the upload, as in Service.Create.
		if _, uerr := h.Svc.Users.Resolve(c.Request.Context(), middleware.UserIDFromContext(c)); uerr != nil {
			err = uerr
		}
		h.fail(c, err)
		return
	}
	req := Request{
		CompanyName:    c.PostForm("companyName"),
		JobTitle:       c.PostForm("jobTitle"),
		JobDescription: c.PostForm("jobDescription"),
	}

	record, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), req, upload)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set("analysisId", record.ID)
	c.Set("extractionMethod", string(record.ExtractionMethod))
	respond.Created(c, recordView(record))
}

func readUpload(c *gin.Context, limit int64) (Upload, error) {
	header, err := c.FormFile("resumeFile")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return Upload{}, fmt.Errorf("%w: resume file exceeds %d bytes", ErrInvalidUpload, limit)
		}
		return Upload{}, fmt.Errorf("%w: resumeFile is required", ErrInvalidUpload)
	}
	if header.Size > limit {
		return Upload{}, fmt.Errorf("%w: resume file exceeds %d bytes", ErrInvalidUpload, limit)
	}
	f, err := header.Open()
	if err != nil {
		return Upload{}, fmt.Errorf("%w: %v", ErrInvalidUpload, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return Upload{}, fmt.Errorf("%w: %v", ErrInvalidUpload, err)
	}
	return Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (h *Handler) get(c *gin.Context) {
	record, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set("analysisId", record.ID)
	respond.OK(c, recordView(record))
}

func (h *Handler) latest(c *gin.Context) {
	record, err := h.Svc.Latest(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set("analysisId", record.ID)
	respond.OK(c, recordView(record))
}

func (h *Handler) list(c *gin.Context) {
	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)

	records, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), limit, offset)
	if err != nil {
		h.fail(c, err)
		return
	}

	items := make([]gin.H, 0, len(records))
	for _, r := range records {
		items = append(items, gin.H{
			"id":          r.ID,
			"companyName": r.CompanyName,
			"jobTitle":    r.JobTitle,
			"atsScore":    r.ATSScore,
			"scoreBand":   ScoreBand(r.ATSScore),
			"createdAt":   r.CreatedAt,
		})
	}
	respond.OK(c, items)
}

func (h *Handler) resume(c *gin.Context) {
	body, record, err := h.Svc.OpenResume(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	defer body.Close()
	c.Set("analysisId", record.ID)
	c.Header("Content-Disposition", `inline; filename="resume.pdf"`)
	c.DataFromReader(http.StatusOK, -1, "application/pdf", body, nil)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, users.ErrUnauthorized):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
	case errors.Is(err, users.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
	case errors.Is(err, ErrInvalidUpload), errors.Is(err, ErrInvalidRequest):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Internal(c, failedMessage, err)
	}
}

func recordView(r Record) gin.H {
	var analysis any = r.Analysis
	if len(r.AnalysisJSON) > 0 {
		analysis = json.RawMessage(r.AnalysisJSON)
	}
	return gin.H{
		"id":               r.ID,
		"companyName":      r.CompanyName,
		"jobTitle":         r.JobTitle,
		"jobDescription":   r.JobDescription,
		"resumeUrl":        r.ResumeURL,
		"extractionMethod": r.ExtractionMethod,
		"atsScore":         r.ATSScore,
		"scoreBand":        ScoreBand(r.ATSScore),
		"analysis":         analysis,
		"createdAt":        r.CreatedAt,
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
