package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sameed619/FMS/internal/factory/repository"
	"github.com/sameed619/FMS/internal/factory/service"
)

type PurchaseHandler struct {
	svc *service.PurchaseService
}

func NewPurchaseHandler(svc *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{svc: svc}
}

// POST /api/purchases
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req service.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body", err)
		return
	}
	entry, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		HandleError(c, "failed to create purchase entry", err)
		return
	}
	Created(c, "purchase entry created", entry)
}

// GET /api/purchases
func (h *PurchaseHandler) List(c *gin.Context) {
	page, size := GetPagination(c)
	params := repository.PurchaseListParams{
		Supplier: c.Query("supplier"),
		Keyword:  c.Query("q"),
		Page:     page,
		Size:     size,
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			params.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			params.To = &t
		}
	}
	entries, total, err := h.svc.List(params)
	if err != nil {
		InternalError(c, "failed to list purchase entries", err)
		return
	}
	Success(c, "purchase entries listed", ListResponse{Items: entries, Pagination: NewPagination(page, size, total)})
}

// GET /api/purchases/:id
func (h *PurchaseHandler) Get(c *gin.Context) {
	entry, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		HandleError(c, "purchase entry not found", err)
		return
	}
	Success(c, "purchase entry", entry)
}

// PUT /api/purchases/:id
func (h *PurchaseHandler) Update(c *gin.Context) {
	var req service.UpdatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body", err)
		return
	}
	entry, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		HandleError(c, "failed to update purchase entry", err)
		return
	}
	Success(c, "purchase entry updated", entry)
}

// DELETE /api/purchases/:id
func (h *PurchaseHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		HandleError(c, "failed to delete purchase entry", err)
		return
	}
	Success(c, "purchase entry deleted, stock reversed", nil)
}
