package model

type TableStatus string

const (
	TableAvailable TableStatus = "AVAILABLE"
	TableOccupied  TableStatus = "OCCUPIED"
	TableReserved  TableStatus = "RESERVED"
)

type Table struct {
	DTO
	RestaurantID uint        `gorm:"not null;uniqueIndex:idx_restaurant_table_number" json:"restaurantId"`
	Number       int         `gorm:"not null;uniqueIndex:idx_restaurant_table_number" json:"number"`
	Capacity     int         `gorm:"not null" json:"capacity"`
	Status       TableStatus `gorm:"type:varchar(20);not null" json:"status"`
}

type CreateTableInput struct {
	Number   int         `json:"number" validate:"required,min=1"`
	Capacity int         `json:"capacity" validate:"required,min=1,max=50"`
	Status   TableStatus `json:"status" validate:"omitempty,oneof=AVAILABLE OCCUPIED RESERVED"`
}

type UpdateTableInput struct {
	Number   *int         `json:"number" validate:"omitempty,min=1"`
	Capacity *int         `json:"capacity" validate:"omitempty,min=1,max=50"`
	Status   *TableStatus `json:"status" validate:"omitempty,oneof=AVAILABLE OCCUPIED RESERVED"`
}
