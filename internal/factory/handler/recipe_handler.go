package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sameed619/FMS/internal/factory/service"
)

type RecipeHandler struct {
	svc *service.RecipeService
}

func NewRecipeHandler(svc *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{svc: svc}
}

// POST /api/recipes
func (h *RecipeHandler) Create(c *gin.Context) {
	var req service.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body", err)
		return
	}
	recipe, err := h.svc.Create(req)
	if err != nil {
		HandleError(c, "failed to create recipe", err)
		return
	}
	Created(c, "recipe created", recipe)
}

// GET /api/recipes
func (h *RecipeHandler) List(c *gin.Context) {
	page, size := GetPagination(c)
	recipes, total, err := h.svc.List(c.Query("q"), page, size)
	if err != nil {
		InternalError(c, "failed to list recipes", err)
		return
	}
	Success(c, "recipes listed", ListResponse{Items: recipes, Pagination: NewPagination(page, size, total)})
}

// GET /api/recipes/:id
func (h *RecipeHandler) Get(c *gin.Context) {
	recipe, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		HandleError(c, "recipe not found", err)
		return
	}
	Success(c, "recipe", recipe)
}

// PUT /api/recipes/:id
func (h *RecipeHandler) Update(c *gin.Context) {
	var req service.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body", err)
		return
	}
	recipe, err := h.svc.Update(c.Param("id"), req)
	if err != nil {
		HandleError(c, "failed to update recipe", err)
		return
	}
	Success(c, "recipe updated", recipe)
}

// PUT /api/recipes/:id/materials
func (h *RecipeHandler) ReplaceMaterials(c *gin.Context) {
	var req struct {
		Materials []service.RecipeMaterialRequest `json:"materials" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body", err)
		return
	}
	recipe, err := h.svc.ReplaceMaterials(c.Param("id"), req.Materials)
	if err != nil {
		HandleError(c, "failed to replace recipe materials", err)
		return
	}
	Success(c, "recipe materials replaced", recipe)
}

// DELETE /api/recipes/:id
func (h *RecipeHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		HandleError(c, "failed to delete recipe", err)
		return
	}
	Success(c, "recipe deleted", nil)
}
