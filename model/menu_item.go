package model

import "github.com/shopspring/decimal"

type MenuCategory string

const (
	CategoryAppetizer  MenuCategory = "APPETIZER"
	CategoryMainCourse MenuCategory = "MAIN_COURSE"
	CategoryDessert    MenuCategory = "DESSERT"
	CategoryBeverage   MenuCategory = "BEVERAGE"
	CategorySide       MenuCategory = "SIDE"
)

// MenuCategories is also the display order of the public menu.
var MenuCategories = []MenuCategory{
	CategoryAppetizer,
	CategoryMainCourse,
	CategorySide,
	CategoryDessert,
	CategoryBeverage,
}

func (c MenuCategory) Valid() bool {
	for _, v := range MenuCategories {
		if v == c {
			return true
		}
	}
	return false
}

type MenuItem struct {
	DTO
	RestaurantID  uint            `gorm:"not null;index" json:"restaurantId"`
	Name          string          `gorm:"not null;size:120" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	Price         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Category      MenuCategory    `gorm:"type:varchar(20);not null;index" json:"category"`
	ImageUrl      string          `json:"imageUrl"`
	ImagePublicID string          `json:"-"`
	Available     bool            `gorm:"not null" json:"available"`
	Stock         int             `gorm:"not null" json:"stock"`
}

type CreateMenuItemInput struct {
	Name        string          `json:"name" validate:"required,max=120"`
	Description string          `json:"description" validate:"omitempty,max=2000"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Category    MenuCategory    `json:"category" validate:"required,oneof=APPETIZER MAIN_COURSE DESSERT BEVERAGE SIDE"`
	ImageUrl    string          `json:"imageUrl" validate:"omitempty,url"`
	Available   *bool           `json:"available" copier:"-"`
	Stock       int             `json:"stock" validate:"gte=0"`
}

type UpdateMenuItemInput struct {
	Name        *string          `json:"name" validate:"omitempty,max=120"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Category    *MenuCategory    `json:"category" validate:"omitempty,oneof=APPETIZER MAIN_COURSE DESSERT BEVERAGE SIDE"`
	ImageUrl    *string          `json:"imageUrl" validate:"omitempty,url"`
	Available   *bool            `json:"available"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
}
