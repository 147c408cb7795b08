package handler

import (
	"table_order/constants"
	"table_order/helper"
	"table_order/model"
	"table_order/utils"

	"github.com/gofiber/fiber/v2"
)

func Setup2FA(c *fiber.Ctx) error {
	claim, ok := helper.GetInfoUserFromToken(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, nil)
	}

	setup, err := authService().Setup2FA(c.Context(), claim.UserId)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, setup)
}

func Verify2FA(c *fiber.Ctx) error {
	claim, ok := helper.GetInfoUserFromToken(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, nil)
	}
	input, ok := c.Locals(constants.LOCALS_INPUT).(model.TwoFactorTokenInput)
	if !ok {
		return parseError(c)
	}

	user, err := authService().Verify2FA(c.Context(), claim.UserId, input.Token)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"verified":         true,
		"twoFactorEnabled": user.TwoFactorEnabled,
	})
}

// Disable2FA accepts a current code or a recovery code.
func Disable2FA(c *fiber.Ctx) error {
	claim, ok := helper.GetInfoUserFromToken(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, nil)
	}
	input, ok := c.Locals(constants.LOCALS_INPUT).(model.TwoFactorCodeInput)
	if !ok {
		return parseError(c)
	}

	if err := authService().Disable2FA(c.Context(), claim.UserId, input.Token); err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"twoFactorEnabled": false})
}
