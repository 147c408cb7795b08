package validate

import (
	"table_order/model"

	"github.com/gofiber/fiber/v2"
)

func CreateStaff() fiber.Handler {
	return Body[model.CreateStaffInput]()
}

func UpdateStaff() fiber.Handler {
	return Body[model.UpdateStaffInput]()
}

func StaffActive() fiber.Handler {
	return Body[model.StaffActiveInput]()
}

func StaffPassword() fiber.Handler {
	return Body[model.StaffPasswordInput]()
}

func ChangePassword() fiber.Handler {
	return Body[model.ChangePasswordInput]()
}
