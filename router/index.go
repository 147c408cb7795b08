package router

import (
	"table_order/constants"
	"table_order/handler"
	"table_order/middleware"
	"table_order/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// staffOf guards a route under /:param for anyone working at that restaurant.
func staffOf(param string, next ...fiber.Handler) []fiber.Handler {
	chain := []fiber.Handler{middleware.Protected(), middleware.LoadUser(), middleware.RestaurantAccess(param)}
	return append(chain, next...)
}

// managerOf additionally requires an admin or owner role.
func managerOf(param string, next ...fiber.Handler) []fiber.Handler {
	chain := staffOf(param, middleware.RequireRole(constants.ROLE_RESTAURANT_ADMIN, constants.ROLE_RESTAURANT_OWNER))
	return append(chain, next...)
}

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api", logger.New())

	auth := api.Group("/auth")
	auth.Post("/signup", validate.Signup(), handler.Signup)
	auth.Post("/login", validate.Login(), handler.Login)
	auth.Post("/refresh-token", handler.RefreshToken)
	auth.Post("/logout", handler.Logout)
	auth.Get("/me", middleware.Protected(), handler.Me)
	auth.Post("/forgot-password", validate.ForgotPassword(), handler.ForgotPassword)
	auth.Post("/reset-password", validate.ResetPassword(), handler.ResetPassword)
	auth.Post("/change-password", middleware.Protected(), validate.ChangePassword(), handler.ChangePassword)
	auth.Post("/2fa/setup", middleware.Protected(), handler.Setup2FA)
	auth.Post("/2fa/verify", middleware.Protected(), validate.TwoFactorToken(), handler.Verify2FA)
	auth.Post("/2fa/disable", middleware.Protected(), validate.TwoFactorCode(), handler.Disable2FA)

	restaurants := api.Group("/restaurants")
	restaurants.Get("/menu", handler.GetPublicMenu)
	restaurants.Get("/:id", validate.GetById("id"), handler.GetRestaurant)
	restaurants.Patch("/:id", managerOf("id", validate.UpdateRestaurant(), handler.UpdateRestaurant)...)

	restaurants.Get("/:id/menu", staffOf("id", handler.ListMenuItems)...)
	restaurants.Post("/:id/menu", managerOf("id", validate.CreateMenuItem(), handler.CreateMenuItem)...)
	restaurants.Patch("/:id/menu/:itemId", managerOf("id", validate.GetById("itemId"), validate.UpdateMenuItem(), handler.UpdateMenuItem)...)
	restaurants.Delete("/:id/menu/:itemId", managerOf("id", validate.GetById("itemId"), handler.DeleteMenuItem)...)
	restaurants.Post("/:id/menu/:itemId/image", managerOf("id", validate.GetById("itemId"), handler.UploadMenuItemImage)...)

	restaurants.Get("/:id/tables", staffOf("id", handler.ListTables)...)
	restaurants.Post("/:id/tables", managerOf("id", validate.CreateTable(), handler.CreateTable)...)
	restaurants.Patch("/:id/tables/:tableId", staffOf("id", validate.GetById("tableId"), validate.UpdateTable(), handler.UpdateTable)...)
	restaurants.Delete("/:id/tables/:tableId", managerOf("id", validate.GetById("tableId"), handler.DeleteTable)...)
	restaurants.Get("/:id/tables/:tableId/qr", staffOf("id", validate.GetById("tableId"), handler.GetTableQRCode)...)

	restaurants.Get("/:id/staff", managerOf("id", handler.GetStaffs)...)
	restaurants.Post("/:id/staff", managerOf("id", validate.CreateStaff(), handler.CreateStaff)...)
	restaurants.Patch("/:id/staff/:userId", managerOf("id", validate.GetById("userId"), validate.UpdateStaff(), handler.EditStaff)...)
	restaurants.Patch("/:id/staff/:userId/active", managerOf("id", validate.GetById("userId"), validate.StaffActive(), handler.ActiveStaff)...)
	restaurants.Patch("/:id/staff/:userId/password", managerOf("id", validate.GetById("userId"), validate.StaffPassword(), handler.SetStaffPassword)...)
	restaurants.Delete("/:id/staff/:userId", managerOf("id", validate.GetById("userId"), handler.DeleteStaff)...)

	orders := api.Group("/orders")
	orders.Post("/", validate.CreateOrder(), handler.CreateOrder)
	orders.Get("/track/:code", handler.TrackOrder)
	orders.Get("/restaurant/:id", staffOf("id", validate.FilterOrder(), handler.ListRestaurantOrders)...)
	orders.Patch("/:id/status", middleware.Protected(), middleware.LoadUser(), validate.GetById("id"), validate.UpdateOrderStatus(), handler.UpdateOrderStatus)
	orders.Patch("/:id/payment", middleware.Protected(), middleware.LoadUser(), validate.GetById("id"), validate.UpdatePaymentStatus(), handler.UpdatePaymentStatus)

	api.Get("/analytics/:restaurantId", staffOf("restaurantId", handler.GetAnalytics)...)

	cart := api.Group("/cart/:restaurantId/:tableId")
	cart.Get("/", handler.GetCart)
	cart.Delete("/", handler.ClearCart)
	cart.Post("/items", validate.CartItem(), handler.AddCartItem)
	cart.Patch("/items/:menuItemId", validate.GetById("menuItemId"), validate.CartQuantity(), handler.UpdateCartItem)
	cart.Delete("/items/:menuItemId", validate.GetById("menuItemId"), handler.RemoveCartItem)
	cart.Post("/checkout", validate.Checkout(), handler.Checkout)

	api.Post("/media/signature", middleware.Protected(), middleware.LoadUser(), handler.MediaSignature)

	ws := app.Group("/api/ws")
	ws.Get("/restaurant/:id", append(staffOf("id", handler.WebsocketUpgrade), websocket.New(handler.RestaurantFeed))...)
	ws.Get("/orders/:code", handler.WebsocketUpgrade, handler.RequireOrderCode, websocket.New(handler.OrderFeed))
}
