package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sameed619/FMS/internal/factory/repository"
	"github.com/sameed619/FMS/internal/factory/service"
)

type OperatorHandler struct {
	svc *service.OperatorService
}

func NewOperatorHandler(svc *service.OperatorService) *OperatorHandler {
	return &OperatorHandler{svc: svc}
}

// POST /api/operators
func (h *OperatorHandler) Create(c *gin.Context) {
	var req service.CreateOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body", err)
		return
	}
	op, err := h.svc.Create(req)
	if err != nil {
		HandleError(c, "failed to create operator", err)
		return
	}
	Created(c, "operator created", op)
}

// GET /api/operators
func (h *OperatorHandler) List(c *gin.Context) {
	page, size := GetPagination(c)
	ops, total, err := h.svc.List(c.Query("q"), c.Query("active") == "true", page, size)
	if err != nil {
		InternalError(c, "failed to list operators", err)
		return
	}
	Success(c, "operators listed", ListResponse{Items: ops, Pagination: NewPagination(page, size, total)})
}

// GET /api/operators/:id
func (h *OperatorHandler) Get(c *gin.Context) {
	op, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		HandleError(c, "operator not found", err)
		return
	}
	Success(c, "operator", op)
}

// PUT /api/operators/:id
func (h *OperatorHandler) Update(c *gin.Context) {
	var req service.UpdateOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body", err)
		return
	}
	op, err := h.svc.Update(c.Param("id"), req)
	if err != nil {
		HandleError(c, "failed to update operator", err)
		return
	}
	Success(c, "operator updated", op)
}

// DELETE /api/operators/:id
func (h *OperatorHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		HandleError(c, "failed to delete operator", err)
		return
	}
	Success(c, "operator deleted", nil)
}

// POST /api/operator-entries/start
func (h *OperatorHandler) StartWork(c *gin.Context) {
	var req service.StartWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body", err)
		return
	}
	entry, err := h.svc.StartWork(c.Request.Context(), req)
	if err != nil {
		HandleError(c, "failed to start work", err)
		return
	}
	Created(c, "work started", entry)
}

// PUT /api/operator-entries/stop
func (h *OperatorHandler) StopWork(c *gin.Context) {
	var req service.StopWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body", err)
		return
	}
	entry, err := h.svc.StopWork(c.Request.Context(), req)
	if err != nil {
		HandleError(c, "no open entry to stop", err)
		return
	}
	Success(c, "work stopped", entry)
}

// GET /api/operator-entries/open
func (h *OperatorHandler) OpenEntries(c *gin.Context) {
	entries, err := h.svc.OpenEntries()
	if err != nil {
		InternalError(c, "failed to list open entries", err)
		return
	}
	Success(c, "open entries", ListResponse{Items: entries})
}

// GET /api/operator-entries
func (h *OperatorHandler) ListEntries(c *gin.Context) {
	page, size := GetPagination(c)
	params := repository.OperatorEntryListParams{
		OperatorID: c.Query("operator_id"),
		MachineID:  c.Query("machine_id"),
		Page:       page,
		Size:       size,
	}
	entries, total, err := h.svc.ListEntries(params)
	if err != nil {
		InternalError(c, "failed to list operator entries", err)
		return
	}
	Success(c, "operator entries listed", ListResponse{Items: entries, Pagination: NewPagination(page, size, total)})
}
