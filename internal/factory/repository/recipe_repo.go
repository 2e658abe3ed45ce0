package repository

import (
	"gorm.io/gorm"

	"github.com/sameed619/FMS/internal/factory/entity"
)

type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

func (r *RecipeRepository) GetByID(id string) (*entity.Recipe, error) {
	var recipe entity.Recipe
	err := r.db.Preload("Materials.Item").Where("id = ?", id).First(&recipe).Error
	return &recipe, err
}

func (r *RecipeRepository) List(keyword string, page, size int) ([]entity.Recipe, int64, error) {
	query := r.db.Model(&entity.Recipe{})
	if keyword != "" {
		query = query.Where("product_name ILIKE ?", "%"+keyword+"%")
	}
	var total int64
	query.Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var recipes []entity.Recipe
	err := query.Preload("Materials.Item").Order("product_name").
		Offset((page - 1) * size).Limit(size).Find(&recipes).Error
	return recipes, total, err
}

func (r *RecipeRepository) Create(recipe *entity.Recipe) error {
	return r.db.Create(recipe).Error
}

func (r *RecipeRepository) Update(recipe *entity.Recipe) error {
	return r.db.Save(recipe).Error
}

func (r *RecipeRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&entity.RecipeMaterial{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Recipe{}).Error
	})
}

// CountOrders counts production orders built from the recipe.
func (r *RecipeRepository) CountOrders(id string) (int64, error) {
	var n int64
	err := r.db.Model(&entity.ProductionOrder{}).Where("recipe_id = ?", id).Count(&n).Error
	return n, err
}

// ReplaceMaterials swaps the recipe's material lines for a new set in one
// transaction.
func (r *RecipeRepository) ReplaceMaterials(recipeID string, materials []entity.RecipeMaterial) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&entity.RecipeMaterial{}).Error; err != nil {
			return err
		}
		for i := range materials {
			materials[i].RecipeID = recipeID
		}
		if len(materials) == 0 {
			return nil
		}
		return tx.Create(&materials).Error
	})
}
