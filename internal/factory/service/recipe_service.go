package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sameed619/FMS/internal/factory/entity"
	"github.com/sameed619/FMS/internal/factory/ledger"
	"github.com/sameed619/FMS/internal/factory/repository"
)

type RecipeService struct {
	repo    *repository.RecipeRepository
	invRepo *repository.InventoryRepository
}

func NewRecipeService(repo *repository.RecipeRepository, invRepo *repository.InventoryRepository) *RecipeService {
	return &RecipeService{repo: repo, invRepo: invRepo}
}

type RecipeMaterialRequest struct {
	ItemID     string  `json:"item_id" binding:"required"`
	QtyPerUnit float64 `json:"qty_per_unit" binding:"required,gt=0"`
}

type CreateRecipeRequest struct {
	ProductName string                  `json:"product_name" binding:"required"`
	DesignCode  string                  `json:"design_code"`
	Description string                  `json:"description"`
	Materials   []RecipeMaterialRequest `json:"materials" binding:"required,min=1,dive"`
}

func (s *RecipeService) buildMaterials(reqs []RecipeMaterialRequest) ([]entity.RecipeMaterial, error) {
	materials := make([]entity.RecipeMaterial, 0, len(reqs))
	for _, m := range reqs {
		if _, err := s.invRepo.GetByID(m.ItemID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ledger.ErrNotFound
			}
			return nil, err
		}
		materials = append(materials, entity.RecipeMaterial{
			ItemID:     m.ItemID,
			QtyPerUnit: m.QtyPerUnit,
		})
	}
	return materials, nil
}

func (s *RecipeService) Create(req CreateRecipeRequest) (*entity.Recipe, error) {
	materials, err := s.buildMaterials(req.Materials)
	if err != nil {
		return nil, err
	}
	recipe := &entity.Recipe{
		ProductName: req.ProductName,
		DesignCode:  req.DesignCode,
		Description: req.Description,
		Materials:   materials,
	}
	if err := s.repo.Create(recipe); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ledger.DuplicateError{Field: "product_name", Value: req.ProductName}
		}
		return nil, err
	}
	return s.repo.GetByID(recipe.ID)
}

func (s *RecipeService) GetByID(id string) (*entity.Recipe, error) {
	return s.repo.GetByID(id)
}

func (s *RecipeService) List(keyword string, page, size int) ([]entity.Recipe, int64, error) {
	return s.repo.List(keyword, page, size)
}

type UpdateRecipeRequest struct {
	ProductName *string `json:"product_name"`
	DesignCode  *string `json:"design_code"`
	Description *string `json:"description"`
}

func (s *RecipeService) Update(id string, req UpdateRecipeRequest) (*entity.Recipe, error) {
	recipe, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req.ProductName != nil {
		recipe.ProductName = *req.ProductName
	}
	if req.DesignCode != nil {
		recipe.DesignCode = *req.DesignCode
	}
	if req.Description != nil {
		recipe.Description = *req.Description
	}
	recipe.Materials = nil
	if err := s.repo.Update(recipe); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ledger.DuplicateError{Field: "product_name", Value: recipe.ProductName}
		}
		return nil, err
	}
	return s.repo.GetByID(id)
}

// ReplaceMaterials swaps the full material list. Existing orders keep the
// consumption they already recorded.
func (s *RecipeService) ReplaceMaterials(id string, reqs []RecipeMaterialRequest) (*entity.Recipe, error) {
	if _, err := s.repo.GetByID(id); err != nil {
		return nil, err
	}
	materials, err := s.buildMaterials(reqs)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceMaterials(id, materials); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

func (s *RecipeService) Delete(id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}
	orders, err := s.repo.CountOrders(id)
	if err != nil {
		return err
	}
	if orders > 0 {
		return &ledger.DanglingReferenceError{Entity: "recipe", Ref: "production_orders"}
	}
	return s.repo.Delete(id)
}
