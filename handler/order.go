package handler

import (
	"errors"

	"table_order/constants"
	"table_order/middleware"
	"table_order/model"
	"table_order/utils"

	"github.com/gofiber/fiber/v2"
)

// CreateOrder is public: customers order straight from the table.
func CreateOrder(c *fiber.Ctx) error {
	input, ok := c.Locals(constants.LOCALS_INPUT).(model.CreateOrderInput)
	if !ok {
		return parseError(c)
	}

	order, err := orderService().CreateOrder(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, order)
}

func TrackOrder(c *fiber.Ctx) error {
	order, err := orderService().GetOrderByCode(c.Context(), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, order)
}

// authorizeOrder checks that the signed-in user works for the order's
// restaurant. When it reports false the response has already been written.
func authorizeOrder(c *fiber.Ctx) (bool, error) {
	order, err := orderService().GetOrder(c.Context(), inputID(c))
	if err != nil {
		return false, respondError(c, err)
	}
	user, ok := middleware.CurrentUser(c)
	if !ok || !user.CanManage(order.RestaurantID) {
		return false, utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMISSION, errors.New("order belongs to another restaurant"))
	}
	return true, nil
}

func UpdateOrderStatus(c *fiber.Ctx) error {
	input, ok := c.Locals(constants.LOCALS_INPUT).(model.UpdateOrderStatusInput)
	if !ok {
		return parseError(c)
	}
	if allowed, err := authorizeOrder(c); !allowed {
		return err
	}

	order, err := orderService().UpdateOrderStatus(c.Context(), inputID(c), input.Status)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, order)
}

func UpdatePaymentStatus(c *fiber.Ctx) error {
	input, ok := c.Locals(constants.LOCALS_INPUT).(model.UpdatePaymentStatusInput)
	if !ok {
		return parseError(c)
	}
	if allowed, err := authorizeOrder(c); !allowed {
		return err
	}

	order, err := orderService().UpdatePaymentStatus(c.Context(), inputID(c), input.PaymentStatus)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, order)
}

func ListRestaurantOrders(c *fiber.Ctx) error {
	filter, ok := c.Locals(constants.LOCALS_INPUT).(model.FilterOrder)
	if !ok {
		return parseError(c)
	}

	orders, err := orderService().ListOrders(c.Context(), restaurantID(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, orders)
}
