package handler

import (
	"table_order/utils"

	"github.com/gofiber/fiber/v2"
)

func GetAnalytics(c *fiber.Ctx) error {
	analytics, err := analyticsService().GetAnalytics(c.Context(), restaurantID(c))
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, analytics)
}
