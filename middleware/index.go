package middleware

import (
	"errors"
	"strconv"
	"strings"

	"table_order/constants"
	"table_order/database"
	"table_order/helper"
	"table_order/model"
	"table_order/utils"

	"github.com/gofiber/fiber/v2"
)

// tokenFromRequest looks in the access_token cookie, then the Authorization
// header, then a ?token= query parameter (browsers cannot set headers on
// websocket upgrades).
func tokenFromRequest(c *fiber.Ctx) string {
	if token := c.Cookies(constants.COOKIE_ACCESS_TOKEN); token != "" {
		return token
	}
	if auth := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return c.Query("token")
}

func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromRequest(c)
		if token == "" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.MISSING_TOKEN, errors.New("no token"))
		}

		jwtToken, err := helper.ParseToken(token)
		if err != nil || !jwtToken.Valid {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, err)
		}
		if _, tokenType, err := helper.ClaimsFromToken(jwtToken); err != nil || tokenType != constants.TOKEN_ACCESS {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, errors.New("not an access token"))
		}

		c.Locals(constants.LOCALS_USER, jwtToken)
		return c.Next()
	}
}

// LoadUser reads the signed-in account with its restaurants. It must run
// after Protected.
func LoadUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claim, ok := helper.GetInfoUserFromToken(c)
		if !ok {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, errors.New("no user in token"))
		}

		var user model.User
		if err := database.DB.Preload("OwnedRestaurants").First(&user, claim.UserId).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, errors.New("user no longer exists"))
		}
		if !user.Active {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.ACCOUNT_NOT_ACTIVE, errors.New("active false"))
		}

		c.Locals(constants.LOCALS_CURRENT_USER, &user)
		return c.Next()
	}
}

func CurrentUser(c *fiber.Ctx) (*model.User, bool) {
	user, ok := c.Locals(constants.LOCALS_CURRENT_USER).(*model.User)
	return user, ok && user != nil
}

func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok || !helper.HasRole(user.Role, roles...) {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMISSION, errors.New("role not allowed"))
		}
		return c.Next()
	}
}

// RestaurantAccess checks that the current user works for the restaurant
// named by the route parameter and stores its id in Locals.
func RestaurantAccess(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params(param), 10, 0)
		if err != nil || id == 0 {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("params invalid"))
		}
		user, ok := CurrentUser(c)
		if !ok {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, errors.New("no user loaded"))
		}
		if !user.CanManage(uint(id)) {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMISSION, errors.New("restaurant not managed by user"))
		}

		c.Locals(constants.LOCALS_RESTAURANT_ID, uint(id))
		return c.Next()
	}
}
