package validate

import (
	"table_order/model"

	"github.com/gofiber/fiber/v2"
)

func CreateOrder() fiber.Handler {
	return Body[model.CreateOrderInput]()
}

func UpdateOrderStatus() fiber.Handler {
	return Body[model.UpdateOrderStatusInput]()
}

func UpdatePaymentStatus() fiber.Handler {
	return Body[model.UpdatePaymentStatusInput]()
}

func FilterOrder() fiber.Handler {
	return Query[model.FilterOrder]()
}

func Checkout() fiber.Handler {
	return Body[model.CheckoutInput]()
}

func CartItem() fiber.Handler {
	return Body[model.CartItemInput]()
}

func CartQuantity() fiber.Handler {
	return Body[model.CartQuantityInput]()
}
