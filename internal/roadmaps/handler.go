package roadmaps

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"career-coach/internal/shared/server/middleware"
	"career-coach/internal/shared/server/respond"
	"career-coach/internal/users"
)

const failedMessage = "Failed to generate roadmap. Please try again."

// Handler wires HTTP handlers to the roadmaps service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/roadmaps", h.list)
	rg.GET("/roadmaps/:id", h.get)
}

// RegisterCreate attaches the two generating routes with the given middleware.
func (h *Handler) RegisterCreate(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	rg.POST("/roadmaps", append(append([]gin.HandlerFunc{}, mw...), h.create)...)
	rg.POST("/roadmaps/preview", append(append([]gin.HandlerFunc{}, mw...), h.preview)...)
}

func (h *Handler) create(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	record, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), req.Field)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set("roadmapId", record.ID)
	respond.Created(c, recordView(record))
}

func (h *Handler) preview(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	graph, err := h.Svc.Preview(c.Request.Context(), middleware.UserIDFromContext(c), req.Field)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, gin.H{"roadmapData": graph})
}

// bind decodes the JSON body. Identity is checked before a bad body is
// reported, as in Service.Create.
func (h *Handler) bind(c *gin.Context) (Request, bool) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		if _, uerr := h.Svc.Users.Resolve(c.Request.Context(), middleware.UserIDFromContext(c)); uerr != nil {
			h.fail(c, uerr)
			return Request{}, false
		}
		h.fail(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return Request{}, false
	}
	return req, true
}

func (h *Handler) get(c *gin.Context) {
	record, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set("roadmapId", record.ID)
	respond.OK(c, recordView(record))
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 0 {
		limit = 20
	}

	records, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), limit, offset)
	if err != nil {
		h.fail(c, err)
		return
	}
	items := make([]gin.H, 0, len(records))
	for _, r := range records {
		items = append(items, gin.H{
			"id":        r.ID,
			"field":     r.Field,
			"title":     r.Title,
			"createdAt": r.CreatedAt,
		})
	}
	respond.OK(c, items)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, users.ErrUnauthorized):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
	case errors.Is(err, users.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "roadmap not found", nil)
	case errors.Is(err, ErrInvalidRequest):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Internal(c, failedMessage, err)
	}
}

func recordView(r Record) gin.H {
	var graph any = r.Graph
	if len(r.GraphJSON) > 0 {
		graph = json.RawMessage(r.GraphJSON)
	}
	return gin.H{
		"id":          r.ID,
		"field":       r.Field,
		"title":       r.Title,
		"roadmapData": graph,
		"createdAt":   r.CreatedAt,
	}
}
