package validate

import (
	"table_order/model"

	"github.com/gofiber/fiber/v2"
)

func UpdateRestaurant() fiber.Handler {
	return Body[model.UpdateRestaurantInput]()
}

func CreateMenuItem() fiber.Handler {
	return Body[model.CreateMenuItemInput]()
}

func UpdateMenuItem() fiber.Handler {
	return Body[model.UpdateMenuItemInput]()
}

func CreateTable() fiber.Handler {
	return Body[model.CreateTableInput]()
}

func UpdateTable() fiber.Handler {
	return Body[model.UpdateTableInput]()
}
