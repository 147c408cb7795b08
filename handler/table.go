package handler

import (
	"fmt"

	"table_order/constants"
	"table_order/model"
	"table_order/utils"

	"github.com/gofiber/fiber/v2"
)

func ListTables(c *fiber.Ctx) error {
	tables, err := tableService().List(c.Context(), restaurantID(c))
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, tables)
}

func CreateTable(c *fiber.Ctx) error {
	input, ok := c.Locals(constants.LOCALS_INPUT).(model.CreateTableInput)
	if !ok {
		return parseError(c)
	}

	table, err := tableService().Create(c.Context(), restaurantID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, table)
}

func UpdateTable(c *fiber.Ctx) error {
	input, ok := c.Locals(constants.LOCALS_INPUT).(model.UpdateTableInput)
	if !ok {
		return parseError(c)
	}

	table, err := tableService().Update(c.Context(), restaurantID(c), inputID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, table)
}

func DeleteTable(c *fiber.Ctx) error {
	if err := tableService().Delete(c.Context(), restaurantID(c), inputID(c)); err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"id": inputID(c)})
}

// GetTableQRCode returns the table's ordering link as a PNG; ?size= sets the
// edge length in pixels.
func GetTableQRCode(c *fiber.Ctx) error {
	size := c.QueryInt("size", 512)
	if size < 64 || size > 2048 {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.VALIDATION_FAILED, fmt.Errorf("size must be between 64 and 2048"), "size")
	}

	png, err := tableService().QRCode(c.Context(), restaurantID(c), inputID(c), size)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="table-%d.png"`, inputID(c)))
	c.Type("png")
	return c.Send(png)
}
