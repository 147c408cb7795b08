package handler

import (
	"errors"

	"table_order/constants"
	"table_order/helper"
	"table_order/middleware"
	"table_order/model"
	"table_order/utils"

	"github.com/gofiber/fiber/v2"
)

func noUser(c *fiber.Ctx) error {
	return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, errors.New("no user loaded"))
}

func GetStaffs(c *fiber.Ctx) error {
	staffs, err := staffService().List(c.Context(), restaurantID(c))
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, staffs)
}

func CreateStaff(c *fiber.Ctx) error {
	input, ok := c.Locals(constants.LOCALS_INPUT).(model.CreateStaffInput)
	if !ok {
		return parseError(c)
	}
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return noUser(c)
	}

	staff, err := staffService().Create(c.Context(), actor, restaurantID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, staff)
}

func EditStaff(c *fiber.Ctx) error {
	input, ok := c.Locals(constants.LOCALS_INPUT).(model.UpdateStaffInput)
	if !ok {
		return parseError(c)
	}
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return noUser(c)
	}

	staff, err := staffService().Update(c.Context(), actor, restaurantID(c), inputID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, staff)
}

// ActiveStaff turns an account on or off.
func ActiveStaff(c *fiber.Ctx) error {
	input, ok := c.Locals(constants.LOCALS_INPUT).(model.StaffActiveInput)
	if !ok {
		return parseError(c)
	}
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return noUser(c)
	}

	staff, err := staffService().SetActive(c.Context(), actor, restaurantID(c), inputID(c), *input.Active)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, staff)
}

func SetStaffPassword(c *fiber.Ctx) error {
	input, ok := c.Locals(constants.LOCALS_INPUT).(model.StaffPasswordInput)
	if !ok {
		return parseError(c)
	}
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return noUser(c)
	}

	if err := staffService().SetPassword(c.Context(), actor, restaurantID(c), inputID(c), input.NewPassword); err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"id": inputID(c)})
}

func DeleteStaff(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return noUser(c)
	}

	if err := staffService().Delete(c.Context(), actor, restaurantID(c), inputID(c)); err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"id": inputID(c)})
}

// ChangePassword replaces the caller's own password after checking the
// current one.
func ChangePassword(c *fiber.Ctx) error {
	input, ok := c.Locals(constants.LOCALS_INPUT).(model.ChangePasswordInput)
	if !ok {
		return parseError(c)
	}
	claim, ok := helper.GetInfoUserFromToken(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, nil)
	}

	if err := authService().ChangePassword(c.Context(), claim.UserId, input); err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"passwordChanged": true})
}
