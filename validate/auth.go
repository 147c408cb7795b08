package validate

import (
	"table_order/model"

	"github.com/gofiber/fiber/v2"
)

func Signup() fiber.Handler {
	return Body[model.SignupInput]()
}

func Login() fiber.Handler {
	return Body[model.LoginInput]()
}

func ForgotPassword() fiber.Handler {
	return Body[model.ForgotPasswordRequest]()
}

func ResetPassword() fiber.Handler {
	return Body[model.ResetPasswordRequest]()
}

func TwoFactorToken() fiber.Handler {
	return Body[model.TwoFactorTokenInput]()
}

func TwoFactorCode() fiber.Handler {
	return Body[model.TwoFactorCodeInput]()
}
