package handler

import (
	"time"

	"table_order/config"
	"table_order/constants"
	"table_order/helper"
	"table_order/model"
	"table_order/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	accessCookiePath  = "/"
	refreshCookiePath = "/api/auth"
)

func setAuthCookies(c *fiber.Ctx, tokens model.TokenData) {
	secure := config.Config("COOKIE_SECURE") == "true"
	c.Cookie(&fiber.Cookie{
		Name:     constants.COOKIE_ACCESS_TOKEN,
		Value:    tokens.AccessToken,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   secure,
		Path:     accessCookiePath,
		Expires:  time.Now().Add(config.Duration("ACCESS_TOKEN_TTL", time.Hour)),
	})
	c.Cookie(&fiber.Cookie{
		Name:     constants.COOKIE_REFRESH_TOKEN,
		Value:    tokens.RefreshToken,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   secure,
		Path:     refreshCookiePath,
		Expires:  time.Now().Add(config.Duration("REFRESH_TOKEN_TTL", 7*24*time.Hour)),
	})
}

// clearAuthCookies expires both cookies on the path they were set with,
// otherwise the browser keeps the original ones.
func clearAuthCookies(c *fiber.Ctx) {
	secure := config.Config("COOKIE_SECURE") == "true"
	for name, path := range map[string]string{
		constants.COOKIE_ACCESS_TOKEN:  accessCookiePath,
		constants.COOKIE_REFRESH_TOKEN: refreshCookiePath,
	} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   secure,
			Path:     path,
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
		})
	}
}

func Signup(c *fiber.Ctx) error {
	input, ok := c.Locals(constants.LOCALS_INPUT).(model.SignupInput)
	if !ok {
		return parseError(c)
	}

	result, err := authService().Signup(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	setAuthCookies(c, result.TokenData)
	return utils.SuccessResponse(c, fiber.StatusCreated, result)
}

func Login(c *fiber.Ctx) error {
	input, ok := c.Locals(constants.LOCALS_INPUT).(model.LoginInput)
	if !ok {
		return parseError(c)
	}

	result, err := authService().Login(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	setAuthCookies(c, result.TokenData)
	return utils.SuccessResponse(c, fiber.StatusOK, result)
}

// RefreshToken reads the refresh token from the body or, failing that, the
// refresh_token cookie.
func RefreshToken(c *fiber.Ctx) error {
	var input model.RefreshTokenInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_BODY, err)
		}
	}
	if input.RefreshToken == "" {
		input.RefreshToken = c.Cookies(constants.COOKIE_REFRESH_TOKEN)
	}

	tokens, err := authService().RefreshToken(c.Context(), input.RefreshToken)
	if err != nil {
		clearAuthCookies(c)
		return respondError(c, err)
	}

	setAuthCookies(c, *tokens)
	return utils.SuccessResponse(c, fiber.StatusOK, tokens)
}

func Logout(c *fiber.Ctx) error {
	clearAuthCookies(c)
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"loggedOut": true})
}

func Me(c *fiber.Ctx) error {
	claim, ok := helper.GetInfoUserFromToken(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, nil)
	}

	user, err := authService().Me(c.Context(), claim.UserId)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, user)
}

func ForgotPassword(c *fiber.Ctx) error {
	input, ok := c.Locals(constants.LOCALS_INPUT).(model.ForgotPasswordRequest)
	if !ok {
		return parseError(c)
	}

	if err := authService().ForgotPassword(c.Context(), input.Email); err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"message": "If the email is registered, a reset link has been sent",
	})
}

func ResetPassword(c *fiber.Ctx) error {
	input, ok := c.Locals(constants.LOCALS_INPUT).(model.ResetPasswordRequest)
	if !ok {
		return parseError(c)
	}

	if err := authService().ResetPassword(c.Context(), input); err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "Password has been reset"})
}
