package model

type Restaurant struct {
	DTO
	Name         string     `gorm:"not null;size:120" json:"name"`
	Slug         string     `gorm:"uniqueIndex;size:140" json:"slug"`
	Email        string     `gorm:"size:120" json:"email"`
	Phone        string     `gorm:"size:30" json:"phone"`
	Address      string     `gorm:"size:255" json:"address"`
	LogoUrl      string     `json:"logoUrl"`
	CoverUrl     string     `json:"coverUrl"`
	PrimaryColor string     `gorm:"size:16" json:"primaryColor"`
	Currency     string     `gorm:"size:3;not null" json:"currency"`
	Tables       []Table    `gorm:"foreignKey:RestaurantID" json:"tables,omitempty"`
	MenuItems    []MenuItem `gorm:"foreignKey:RestaurantID" json:"menuItems,omitempty"`
}

type CreateRestaurantInput struct {
	Name         string `json:"name" validate:"required,min=2,max=120"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone" validate:"omitempty,max=30"`
	Address      string `json:"address" validate:"omitempty,max=255"`
	LogoUrl      string `json:"logoUrl" validate:"omitempty,url"`
	CoverUrl     string `json:"coverUrl" validate:"omitempty,url"`
	PrimaryColor string `json:"primaryColor" validate:"omitempty,hexcolor"`
	Currency     string `json:"currency" validate:"omitempty,len=3,uppercase"`
}

type UpdateRestaurantInput struct {
	Name         *string `json:"name" validate:"omitempty,min=2,max=120"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Phone        *string `json:"phone" validate:"omitempty,max=30"`
	Address      *string `json:"address" validate:"omitempty,max=255"`
	LogoUrl      *string `json:"logoUrl" validate:"omitempty,url"`
	CoverUrl     *string `json:"coverUrl" validate:"omitempty,url"`
	PrimaryColor *string `json:"primaryColor" validate:"omitempty,hexcolor"`
	Currency     *string `json:"currency" validate:"omitempty,len=3,uppercase"`
}

// PublicMenu is what a customer sees after scanning a table QR code.
type PublicMenu struct {
	Restaurant Restaurant  `json:"restaurant"`
	Table      *Table      `json:"table,omitempty"`
	Categories []MenuGroup `json:"categories"`
}

type MenuGroup struct {
	Category MenuCategory `json:"category"`
	Items    []MenuItem   `json:"items"`
}
