package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appmasterdata "github.com/bizcore/backend/internal/application/masterdata"
	"github.com/bizcore/backend/internal/domain/masterdata"
	"github.com/bizcore/backend/internal/interfaces/http/dto"
	"github.com/bizcore/backend/internal/interfaces/http/middleware"
)

// RecordHandler handles master data API endpoints. All record kinds share
// the same routes; the kind is a path parameter.
type RecordHandler struct {
	BaseHandler
	records *appmasterdata.RecordService
}

// NewRecordHandler creates a new RecordHandler
func NewRecordHandler(records *appmasterdata.RecordService) *RecordHandler {
	return &RecordHandler{records: records}
}

// RegisterRoutes registers record routes on the given group
func (h *RecordHandler) RegisterRoutes(rg *gin.RouterGroup) {
	records := rg.Group("/records/:kind")
	records.POST("", h.Create)
	records.GET("", h.List)
	records.GET("/:id", h.Get)
	records.PUT("/:id", h.Update)
	records.DELETE("/:id", h.Delete)
	records.POST("/:id/activate", h.Activate)
	records.POST("/:id/deactivate", h.Deactivate)
	records.GET("/code/:code", h.GetByCode)
	records.GET("/codes/next", h.GenerateCode)
	records.GET("/codes/check", h.CheckCode)
}

// listRecordsQuery binds the list endpoint's query string
type listRecordsQuery struct {
	Search         string   `form:"search"`
	Status         string   `form:"status" binding:"omitempty,oneof=active inactive"`
	ParentID       string   `form:"parent_id" binding:"omitempty,uuid"`
	PinnedIDs      []string `form:"pinned_ids" binding:"omitempty,dive,uuid"`
	IncludeDeleted bool     `form:"include_deleted"`
	Paginate       *bool    `form:"paginate"`
	Page           int      `form:"page" binding:"omitempty,min=1"`
	PageSize       int      `form:"page_size" binding:"omitempty,min=1,max=100"`
	Limit          int      `form:"limit" binding:"omitempty,min=1,max=500"`
	UseCache       bool     `form:"use_cache"`
}

func (q listRecordsQuery) toRequest() appmasterdata.ListRecordsRequest {
	req := appmasterdata.ListRecordsRequest{
		Search:         q.Search,
		Status:         q.Status,
		IncludeDeleted: q.IncludeDeleted,
		Paginate:       q.Paginate,
		Page:           q.Page,
		PageSize:       q.PageSize,
		Limit:          q.Limit,
		UseCache:       q.UseCache,
	}
	if q.ParentID != "" {
		id := uuid.MustParse(q.ParentID)
		req.ParentID = &id
	}
	for _, raw := range q.PinnedIDs {
		req.PinnedIDs = append(req.PinnedIDs, uuid.MustParse(raw))
	}
	return req
}

// resolve parses the kind path parameter and derives the caller's scope
func (h *RecordHandler) resolve(c *gin.Context) (masterdata.Kind, masterdata.Scope, bool) {
	kind, err := masterdata.ParseKind(c.Param("kind"))
	if err != nil {
		h.HandleError(c, err)
		return "", masterdata.Scope{}, false
	}

	desc, err := masterdata.Describe(kind)
	if err != nil {
		h.HandleError(c, err)
		return "", masterdata.Scope{}, false
	}

	scope, err := getScope(c, desc)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidScope, err.Error())
		return "", masterdata.Scope{}, false
	}

	return kind, scope, true
}

// recordID parses the id path parameter
func (h *RecordHandler) recordID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid record ID")
		return uuid.Nil, false
	}
	return id, true
}

// Create creates a new record of the given kind
func (h *RecordHandler) Create(c *gin.Context) {
	kind, scope, ok := h.resolve(c)
	if !ok {
		return
	}

	var req appmasterdata.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.FormatBindingError(err))
		return
	}

	resp, err := h.records.Create(c.Request.Context(), scope, kind, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns a single record by ID
func (h *RecordHandler) Get(c *gin.Context) {
	_, scope, ok := h.resolve(c)
	if !ok {
		return
	}
	id, ok := h.recordID(c)
	if !ok {
		return
	}

	resp, err := h.records.GetByID(c.Request.Context(), scope, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByCode returns a single record by its code
func (h *RecordHandler) GetByCode(c *gin.Context) {
	kind, scope, ok := h.resolve(c)
	if !ok {
		return
	}

	resp, err := h.records.GetByCode(c.Request.Context(), scope, kind, c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns records of a kind, optionally filtered and paginated
func (h *RecordHandler) List(c *gin.Context) {
	kind, scope, ok := h.resolve(c)
	if !ok {
		return
	}

	var query listRecordsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, middleware.FormatBindingError(err))
		return
	}

	result, err := h.records.List(c.Request.Context(), scope, kind, query.toRequest())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.Paginated {
		h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
		return
	}
	h.Success(c, result.Items)
}

// Update applies a partial update to a record
func (h *RecordHandler) Update(c *gin.Context) {
	_, scope, ok := h.resolve(c)
	if !ok {
		return
	}
	id, ok := h.recordID(c)
	if !ok {
		return
	}

	var req appmasterdata.UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.FormatBindingError(err))
		return
	}

	resp, err := h.records.Update(c.Request.Context(), scope, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete soft-deletes a record and its owned child rows
func (h *RecordHandler) Delete(c *gin.Context) {
	_, scope, ok := h.resolve(c)
	if !ok {
		return
	}
	id, ok := h.recordID(c)
	if !ok {
		return
	}

	if _, err := h.records.Delete(c.Request.Context(), scope, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Activate enables a record
func (h *RecordHandler) Activate(c *gin.Context) {
	_, scope, ok := h.resolve(c)
	if !ok {
		return
	}
	id, ok := h.recordID(c)
	if !ok {
		return
	}

	resp, err := h.records.Activate(c.Request.Context(), scope, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Deactivate disables a record
func (h *RecordHandler) Deactivate(c *gin.Context) {
	_, scope, ok := h.resolve(c)
	if !ok {
		return
	}
	id, ok := h.recordID(c)
	if !ok {
		return
	}

	resp, err := h.records.Deactivate(c.Request.Context(), scope, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GenerateCode returns the next available auto-generated code for a kind
func (h *RecordHandler) GenerateCode(c *gin.Context) {
	kind, scope, ok := h.resolve(c)
	if !ok {
		return
	}

	code, err := h.records.GenerateUniqueCode(c.Request.Context(), scope, kind)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"code": code})
}

// CheckCode reports whether a code is free within the caller's scope.
// An optional exclude_id query parameter ignores a record's own code.
func (h *RecordHandler) CheckCode(c *gin.Context) {
	kind, scope, ok := h.resolve(c)
	if !ok {
		return
	}

	code := c.Query("code")
	if code == "" {
		h.BadRequest(c, "Missing code query parameter")
		return
	}

	var excludeID *uuid.UUID
	if raw := c.Query("exclude_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid exclude_id")
			return
		}
		excludeID = &id
	}

	unique, err := h.records.IsUniqueCode(c.Request.Context(), scope, kind, code, excludeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"code": code, "unique": unique})
}
