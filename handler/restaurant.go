package handler

import (
	"table_order/constants"
	"table_order/model"
	"table_order/utils"

	"github.com/gofiber/fiber/v2"
)

func GetRestaurant(c *fiber.Ctx) error {
	restaurant, err := restaurantService().Get(c.Context(), inputID(c))
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, restaurant)
}

func UpdateRestaurant(c *fiber.Ctx) error {
	input, ok := c.Locals(constants.LOCALS_INPUT).(model.UpdateRestaurantInput)
	if !ok {
		return parseError(c)
	}

	restaurant, err := restaurantService().Update(c.Context(), restaurantID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, restaurant)
}

// GetPublicMenu serves the menu a customer sees after scanning a table code:
// ?restaurantId=&tableId= or ?slug=.
func GetPublicMenu(c *fiber.Ctx) error {
	var query struct {
		RestaurantID uint   `query:"restaurantId"`
		TableID      uint   `query:"tableId"`
		Slug         string `query:"slug"`
	}
	if err := c.QueryParser(&query); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, err)
	}

	menu, err := menuService().PublicMenu(c.Context(), query.RestaurantID, query.TableID, query.Slug)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, menu)
}
