package handler

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"table_order/constants"
	"table_order/realtime"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const pingInterval = 30 * time.Second

// WebsocketUpgrade rejects plain HTTP requests on websocket routes.
func WebsocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// RequireOrderCode makes sure a tracking feed is only opened for a real order.
func RequireOrderCode(c *fiber.Ctx) error {
	order, err := orderService().GetOrderByCode(c.Context(), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	c.Locals(constants.LOCALS_ORDER_CODE, order.PublicCode)
	return c.Next()
}

// streamTopic forwards notifier messages for topic to the socket until
// either side goes away. All writes happen on this goroutine.
func streamTopic(conn *websocket.Conn, topic string, first []byte) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs, unsubscribe, err := realtime.Default.Subscribe(ctx, topic)
	if err != nil {
		log.Printf("websocket: subscribe %s: %v", topic, err)
		conn.WriteJSON(map[string]any{"success": false, "error": constants.ERROR_INTERNAL_ERROR})
		return
	}
	defer unsubscribe()

	// the read loop only notices the client closing; it must be gone before
	// the connection is handed back to the pool
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	defer func() {
		conn.Close()
		<-readerDone
	}()

	if first != nil {
		if err := conn.WriteMessage(websocket.TextMessage, first); err != nil {
			return
		}
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}

// RestaurantFeed streams every order event of one restaurant to staff.
func RestaurantFeed(conn *websocket.Conn) {
	id, _ := conn.Locals(constants.LOCALS_RESTAURANT_ID).(uint)
	hello, _ := json.Marshal(map[string]any{"type": "subscribed", "restaurantId": id})
	streamTopic(conn, realtime.RestaurantTopic(id), hello)
}

// OrderFeed streams one order's events to the customer who placed it,
// starting with the current state.
func OrderFeed(conn *websocket.Conn) {
	code, _ := conn.Locals(constants.LOCALS_ORDER_CODE).(string)
	order, err := orderService().GetOrderByCode(context.Background(), code)
	if err != nil {
		conn.WriteJSON(map[string]any{"success": false, "error": err.Error()})
		return
	}
	snapshot, _ := json.Marshal(realtime.Event{Type: "order.snapshot", RestaurantID: order.RestaurantID, Order: order})
	streamTopic(conn, realtime.OrderTopic(strings.ToUpper(code)), snapshot)
}
