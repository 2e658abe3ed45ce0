package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sameed619/FMS/internal/factory/repository"
	"github.com/sameed619/FMS/internal/factory/service"
)

type InventoryHandler struct {
	svc *service.InventoryService
}

func NewInventoryHandler(svc *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// POST /api/inventory
func (h *InventoryHandler) Create(c *gin.Context) {
	var req service.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body", err)
		return
	}
	item, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		HandleError(c, "failed to create inventory item", err)
		return
	}
	Created(c, "inventory item created", item)
}

// GET /api/inventory
func (h *InventoryHandler) List(c *gin.Context) {
	page, size := GetPagination(c)
	params := repository.InventoryListParams{
		ItemType: c.Query("item_type"),
		Keyword:  c.Query("q"),
		LowStock: c.Query("low_stock") == "true",
		Page:     page,
		Size:     size,
	}
	items, total, err := h.svc.List(params)
	if err != nil {
		InternalError(c, "failed to list inventory", err)
		return
	}
	Success(c, "inventory listed", ListResponse{Items: items, Pagination: NewPagination(page, size, total)})
}

// GET /api/inventory/stock
func (h *InventoryHandler) Stock(c *gin.Context) {
	snapshot, err := h.svc.Stock()
	if err != nil {
		InternalError(c, "failed to build stock snapshot", err)
		return
	}
	Success(c, "stock snapshot", snapshot)
}

// GET /api/inventory/export
func (h *InventoryHandler) Export(c *gin.Context) {
	f, err := h.svc.ExportStock()
	if err != nil {
		InternalError(c, "failed to export stock", err)
		return
	}
	filename := fmt.Sprintf("stock_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "failed to write workbook", err)
	}
}

// GET /api/inventory/code/:code
func (h *InventoryHandler) GetByCode(c *gin.Context) {
	item, err := h.svc.GetByCode(c.Param("code"))
	if err != nil {
		HandleError(c, "inventory item not found", err)
		return
	}
	Success(c, "inventory item", item)
}

// GET /api/inventory/:id
func (h *InventoryHandler) Get(c *gin.Context) {
	item, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		HandleError(c, "inventory item not found", err)
		return
	}
	Success(c, "inventory item", item)
}

// GET /api/inventory/:id/movements
func (h *InventoryHandler) Movements(c *gin.Context) {
	page, size := GetPagination(c)
	movements, total, err := h.svc.ListMovements(c.Param("id"), page, size)
	if err != nil {
		HandleError(c, "failed to list stock movements", err)
		return
	}
	Success(c, "stock movements", ListResponse{Items: movements, Pagination: NewPagination(page, size, total)})
}

// PUT /api/inventory/:id
func (h *InventoryHandler) Update(c *gin.Context) {
	var req service.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body", err)
		return
	}
	item, err := h.svc.Update(c.Param("id"), req)
	if err != nil {
		HandleError(c, "failed to update inventory item", err)
		return
	}
	Success(c, "inventory item updated", item)
}

// PUT /api/inventory/:id/stock
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req service.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body", err)
		return
	}
	item, err := h.svc.Adjust(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		HandleError(c, "failed to adjust stock", err)
		return
	}
	Success(c, "stock adjusted", item)
}

// DELETE /api/inventory/:id
func (h *InventoryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		HandleError(c, "failed to delete inventory item", err)
		return
	}
	Success(c, "inventory item deleted", nil)
}
