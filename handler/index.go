package handler

import (
	"errors"
	"log"
	"time"

	"table_order/cart"
	"table_order/config"
	"table_order/constants"
	"table_order/database"
	"table_order/media"
	"table_order/realtime"
	"table_order/service"
	"table_order/utils"

	"github.com/gofiber/fiber/v2"
)

// Media is the Cloudinary client; nil switches image upload and signing off.
var Media *media.Cloudinary

func imageStore() media.ImageStore {
	if Media == nil {
		return nil
	}
	return Media
}

func orderService() *service.OrderService {
	return service.NewOrderService(database.DB, realtime.Default)
}

func menuService() *service.MenuService {
	return service.NewMenuService(database.DB, imageStore())
}

func tableService() *service.TableService {
	return service.NewTableService(database.DB, config.ConfigOr("FRONTEND_URL", "http://localhost:3000"))
}

func restaurantService() *service.RestaurantService {
	return service.NewRestaurantService(database.DB)
}

func authService() *service.AuthService {
	return service.NewAuthService(
		database.DB,
		utils.SMTPMailer{},
		config.ConfigOr("APP_NAME", "TableOrder"),
		config.ConfigOr("FRONTEND_URL", "http://localhost:3000"),
		config.Duration("RESET_TOKEN_TTL", time.Hour),
	)
}

func staffService() *service.StaffService {
	return service.NewStaffService(database.DB, utils.SMTPMailer{})
}

func analyticsService() *service.AnalyticsService {
	return service.NewAnalyticsService(database.DB, config.Location())
}

func cartStore() cart.Store {
	return cart.Default
}

// respondError maps service errors onto HTTP statuses. Unknown errors are
// logged and reported as 500 without detail.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrTwoFactorRequired):
		return utils.ErrorResponseHaveKey(c, fiber.StatusUnauthorized, constants.TWO_FACTOR_REQUIRED, nil, "otp")
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidResetToken):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrInvalidTransition):
		return utils.ErrorResponse(c, fiber.StatusConflict, err.Error(), nil)
	case errors.Is(err, service.ErrUnauthorized):
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, service.ErrForbidden):
		return utils.ErrorResponse(c, fiber.StatusForbidden, err.Error(), nil)
	case errors.Is(err, service.ErrNotConfigured):
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, err.Error(), nil)
	default:
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
}

// restaurantID is the id checked by middleware.RestaurantAccess.
func restaurantID(c *fiber.Ctx) uint {
	id, _ := c.Locals(constants.LOCALS_RESTAURANT_ID).(uint)
	return id
}

func inputID(c *fiber.Ctx) uint {
	id, _ := c.Locals(constants.LOCALS_INPUTID).(uint)
	return id
}

func paramID(c *fiber.Ctx, key string) (uint, bool) {
	id, err := c.ParamsInt(key)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func badParam(c *fiber.Ctx) error {
	return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("params invalid"))
}

func parseError(c *fiber.Ctx) error {
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("input missing from locals"))
}
