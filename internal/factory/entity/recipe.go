package entity

import "time"

// Recipe maps one produced item to the materials a single unit consumes.
type Recipe struct {
	ID          string           `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProductName string           `json:"product_name" gorm:"size:128;not null;uniqueIndex"`
	DesignCode  string           `json:"design_code" gorm:"size:64;index"`
	Description string           `json:"description" gorm:"type:text"`
	Materials   []RecipeMaterial `json:"materials" gorm:"foreignKey:RecipeID"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeMaterial is one line of a recipe: QtyPerUnit of Item per produced unit.
type RecipeMaterial struct {
	ID         string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	RecipeID   string         `json:"recipe_id" gorm:"type:uuid;not null;index"`
	ItemID     string         `json:"item_id" gorm:"type:uuid;not null"`
	Item       *InventoryItem `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	QtyPerUnit float64        `json:"qty_per_unit" gorm:"type:decimal(12,4);not null"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (RecipeMaterial) TableName() string {
	return "recipe_materials"
}
