package handler

import (
	"errors"

	"table_order/constants"
	"table_order/model"
	"table_order/utils"

	"github.com/gofiber/fiber/v2"
)

const maxImageSize = 5 << 20

func ListMenuItems(c *fiber.Ctx) error {
	onlyAvailable := c.QueryBool("available", false)
	items, err := menuService().List(c.Context(), restaurantID(c), onlyAvailable)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, items)
}

func CreateMenuItem(c *fiber.Ctx) error {
	input, ok := c.Locals(constants.LOCALS_INPUT).(model.CreateMenuItemInput)
	if !ok {
		return parseError(c)
	}

	item, err := menuService().Create(c.Context(), restaurantID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, item)
}

func UpdateMenuItem(c *fiber.Ctx) error {
	input, ok := c.Locals(constants.LOCALS_INPUT).(model.UpdateMenuItemInput)
	if !ok {
		return parseError(c)
	}

	item, err := menuService().Update(c.Context(), restaurantID(c), inputID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, item)
}

func DeleteMenuItem(c *fiber.Ctx) error {
	if err := menuService().Delete(c.Context(), restaurantID(c), inputID(c)); err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"id": inputID(c)})
}

// UploadMenuItemImage takes a multipart "image" file.
func UploadMenuItemImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.INVALID_BODY, err, "image")
	}
	if file.Size > maxImageSize {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.VALIDATION_FAILED, errors.New("image must be 5MB or smaller"), "image")
	}

	f, err := file.Open()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_BODY, err)
	}
	defer f.Close()

	item, err := menuService().UploadImage(c.Context(), restaurantID(c), inputID(c), f)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, item)
}
