package handler

import (
	"errors"
	"log"
	"time"

	"table_order/cart"
	"table_order/config"
	"table_order/constants"
	"table_order/model"
	"table_order/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// cartSession returns the caller's cart session id, minting one and handing
// it back as both a cookie and a response header when absent.
func cartSession(c *fiber.Ctx) string {
	session := c.Get(constants.HEADER_CART_SESSION)
	if session == "" {
		session = c.Cookies(constants.COOKIE_CART_SESSION)
	}
	if _, err := uuid.Parse(session); err != nil {
		session = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     constants.COOKIE_CART_SESSION,
			Value:    session,
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Path:     "/api/cart",
			Expires:  time.Now().Add(config.Duration("CART_TTL", 2*time.Hour)),
		})
	}
	c.Set(constants.HEADER_CART_SESSION, session)
	return session
}

// loadCart resolves the scope from the route, checks the table exists and
// loads the session's cart for it.
func loadCart(c *fiber.Ctx) (*cart.Cart, string, bool, error) {
	rid, ok := paramID(c, "restaurantId")
	if !ok {
		return nil, "", false, badParam(c)
	}
	tid, ok := paramID(c, "tableId")
	if !ok {
		return nil, "", false, badParam(c)
	}
	if _, err := tableService().Get(c.Context(), rid, tid); err != nil {
		return nil, "", false, respondError(c, err)
	}

	session := cartSession(c)
	current, err := cartStore().Load(c.Context(), session, cart.Scope{RestaurantID: rid, TableID: tid})
	if err != nil {
		return nil, "", false, respondError(c, err)
	}
	return current, session, true, nil
}

func saveCart(c *fiber.Ctx, session string, current *cart.Cart) error {
	if err := cartStore().Save(c.Context(), session, current); err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, current.View())
}

func GetCart(c *fiber.Ctx) error {
	current, _, ok, err := loadCart(c)
	if !ok {
		return err
	}
	return utils.SuccessResponse(c, fiber.StatusOK, current.View())
}

func AddCartItem(c *fiber.Ctx) error {
	input, ok := c.Locals(constants.LOCALS_INPUT).(model.CartItemInput)
	if !ok {
		return parseError(c)
	}
	current, session, ok, err := loadCart(c)
	if !ok {
		return err
	}

	item, err := menuService().Get(c.Context(), current.Scope.RestaurantID, input.MenuItemID)
	if err != nil {
		return respondError(c, err)
	}
	if !item.Available {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Menu item is not available", errors.New("unavailable"), "menuItemId")
	}

	current.AddItem(cart.Item{MenuItemID: item.ID, Name: item.Name, Price: item.Price, ImageUrl: item.ImageUrl})
	return saveCart(c, session, current)
}

// UpdateCartItem sets a line's quantity; a quantity below 1 removes it.
func UpdateCartItem(c *fiber.Ctx) error {
	input, ok := c.Locals(constants.LOCALS_INPUT).(model.CartQuantityInput)
	if !ok {
		return parseError(c)
	}
	current, session, ok, err := loadCart(c)
	if !ok {
		return err
	}

	if !current.UpdateQuantity(inputID(c), input.Quantity) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Item is not in the cart", nil)
	}
	return saveCart(c, session, current)
}

func RemoveCartItem(c *fiber.Ctx) error {
	current, session, ok, err := loadCart(c)
	if !ok {
		return err
	}

	if !current.RemoveItem(inputID(c)) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Item is not in the cart", nil)
	}
	return saveCart(c, session, current)
}

func ClearCart(c *fiber.Ctx) error {
	current, session, ok, err := loadCart(c)
	if !ok {
		return err
	}

	current.Clear()
	return saveCart(c, session, current)
}

// Checkout turns the cart into an order priced by the server, then empties it.
func Checkout(c *fiber.Ctx) error {
	input, ok := c.Locals(constants.LOCALS_INPUT).(model.CheckoutInput)
	if !ok {
		return parseError(c)
	}
	current, session, ok, err := loadCart(c)
	if !ok {
		return err
	}
	if current.IsEmpty() {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Cart is empty", nil)
	}

	orderInput := model.CreateOrderInput{
		RestaurantID:  current.Scope.RestaurantID,
		TableID:       current.Scope.TableID,
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		Note:          input.Note,
	}
	for _, line := range current.Lines {
		orderInput.Items = append(orderInput.Items, model.OrderLineInput{MenuItemID: line.MenuItemID, Quantity: line.Quantity})
	}

	order, err := orderService().CreateOrder(c.Context(), orderInput)
	if err != nil {
		return respondError(c, err)
	}
	if err := cartStore().Delete(c.Context(), session); err != nil {
		// the order exists; a stale cart is only an inconvenience
		log.Printf("could not clear cart %s after order %s: %v", session, order.PublicCode, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, order)
}
