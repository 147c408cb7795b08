package handler

import (
	"fmt"
	"time"

	"table_order/constants"
	"table_order/middleware"
	"table_order/utils"

	"github.com/gofiber/fiber/v2"
)

// MediaSignature signs a direct browser upload into the restaurant's folder.
func MediaSignature(c *fiber.Ctx) error {
	if Media == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Image upload is not configured", nil)
	}
	var input struct {
		RestaurantID uint   `json:"restaurantId"`
		PublicID     string `json:"publicId"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_BODY, err)
	}
	user, ok := middleware.CurrentUser(c)
	if !ok || input.RestaurantID == 0 || !user.CanManage(input.RestaurantID) {
		return utils.ErrorResponseHaveKey(c, fiber.StatusForbidden, constants.NOT_PERMISSION, nil, "restaurantId")
	}

	folder := fmt.Sprintf("restaurants/%d/menu", input.RestaurantID)
	signature, err := Media.Sign(folder, input.PublicID, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, signature)
}
