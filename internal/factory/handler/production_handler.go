package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sameed619/FMS/internal/factory/repository"
	"github.com/sameed619/FMS/internal/factory/service"
)

type ProductionHandler struct {
	svc *service.ProductionService
}

func NewProductionHandler(svc *service.ProductionService) *ProductionHandler {
	return &ProductionHandler{svc: svc}
}

// POST /api/production-orders
func (h *ProductionHandler) Create(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body", err)
		return
	}
	order, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		HandleError(c, "failed to create production order", err)
		return
	}
	Created(c, "production order created", order)
}

// GET /api/production-orders
func (h *ProductionHandler) List(c *gin.Context) {
	page, size := GetPagination(c)
	params := repository.ProductionListParams{
		Status:   c.Query("status"),
		RecipeID: c.Query("recipe_id"),
		Keyword:  c.Query("q"),
		Page:     page,
		Size:     size,
	}
	orders, total, err := h.svc.List(params)
	if err != nil {
		InternalError(c, "failed to list production orders", err)
		return
	}
	Success(c, "production orders listed", ListResponse{Items: orders, Pagination: NewPagination(page, size, total)})
}

// GET /api/production-orders/open
func (h *ProductionHandler) ListOpen(c *gin.Context) {
	orders, err := h.svc.ListOpen()
	if err != nil {
		InternalError(c, "failed to list open orders", err)
		return
	}
	Success(c, "open production orders", ListResponse{Items: orders})
}

// GET /api/production-orders/:id
func (h *ProductionHandler) Get(c *gin.Context) {
	order, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		HandleError(c, "production order not found", err)
		return
	}
	Success(c, "production order", order)
}

// PUT /api/production-orders/:id
func (h *ProductionHandler) Update(c *gin.Context) {
	var req service.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body", err)
		return
	}
	order, err := h.svc.Update(c.Param("id"), req)
	if err != nil {
		HandleError(c, "failed to update production order", err)
		return
	}
	Success(c, "production order updated", order)
}

// DELETE /api/production-orders/:id
func (h *ProductionHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		HandleError(c, "failed to delete production order", err)
		return
	}
	Success(c, "production order deleted, materials restored", nil)
}
