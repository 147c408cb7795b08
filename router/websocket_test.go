package router

import (
	"fmt"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"table_order/realtime"

	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
)

type feedEvent struct {
	Type  string `json:"type"`
	Order struct {
		Status string `json:"status"`
	} `json:"order"`
}

func TestOrderFeedWebsocket(t *testing.T) {
	app := newTestApp(t)
	notifier := realtime.Default.(*realtime.MemoryNotifier)
	owner := signup(t, app, "owner@example.com", "Bistro")
	tableID, itemID := setupMenu(t, app, owner)

	resp, env := do(t, app, call{method: "POST", path: "/api/orders", body: map[string]any{
		"restaurantId": owner.restaurantID,
		"tableId":      tableID,
		"customerName": "Ana",
		"items":        []map[string]any{{"menuItemId": itemID, "quantity": 1}},
	}})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create order: %d %q", resp.StatusCode, env.Error)
	}
	order := decode[struct {
		ID         uint   `json:"id"`
		PublicCode string `json:"publicCode"`
	}](t, env)
	topic := realtime.OrderTopic(strings.ToUpper(order.PublicCode))

	plain, err := app.Test(httptest.NewRequest("GET", "/api/ws/orders/"+order.PublicCode, nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if plain.StatusCode != fiber.StatusUpgradeRequired {
		t.Fatalf("plain GET: %d", plain.StatusCode)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	go app.Listener(ln)
	t.Cleanup(func() { app.Shutdown() })

	url := fmt.Sprintf("ws://%s/api/ws/orders/%s", ln.Addr(), order.PublicCode)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var ev feedEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if ev.Type != "order.snapshot" || ev.Order.Status != "PENDING" {
		t.Fatalf("snapshot = %+v", ev)
	}

	resp, env = do(t, app, call{method: "PATCH", path: fmt.Sprintf("/api/orders/%d/status", order.ID), token: owner.token, body: map[string]any{"status": "READY"}})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status change: %d %q", resp.StatusCode, env.Error)
	}
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if ev.Type != realtime.EventOrderStatusUpdated || ev.Order.Status != "READY" {
		t.Fatalf("event = %+v", ev)
	}

	// closing the client must end the server side of the feed
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
	deadline := time.Now().Add(3 * time.Second)
	for notifier.Subscribers(topic) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("feed still subscribed after the client left")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestUnknownOrderFeed(t *testing.T) {
	app := newTestApp(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	go app.Listener(ln)
	t.Cleanup(func() { app.Shutdown() })

	_, resp, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/api/ws/orders/ORD-NOPE0000", ln.Addr()), nil)
	if err == nil {
		t.Fatal("dial to unknown order succeeded")
	}
	if resp == nil || resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("unknown order: resp = %v", resp)
	}
}
