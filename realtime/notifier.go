// Package realtime fans order events out to live staff and customer sessions.
// Delivery is best-effort: publishers never block a request on a subscriber.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"table_order/model"
)

const (
	EventOrderCreated        = "order.created"
	EventOrderStatusUpdated  = "order.status_updated"
	EventOrderPaymentUpdated = "order.payment_updated"
)

type Event struct {
	Type         string       `json:"type"`
	RestaurantID uint         `json:"restaurantId"`
	Order        *model.Order `json:"order"`
}

type Notifier interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	// Subscribe returns a channel of payloads for topic and a function that
	// ends the subscription and closes the channel.
	Subscribe(ctx context.Context, topic string) (<-chan []byte, func(), error)
	Close() error
}

// Default is the process-wide notifier, chosen in main.
var Default Notifier = NewMemoryNotifier()

func RestaurantTopic(restaurantID uint) string {
	return fmt.Sprintf("restaurant.%d.orders", restaurantID)
}

func OrderTopic(publicCode string) string {
	return "order." + publicCode
}

// PublishOrderEvent sends the event to the restaurant feed and to the
// order's own feed. Failures are logged and swallowed.
func PublishOrderEvent(ctx context.Context, n Notifier, eventType string, order *model.Order) {
	if n == nil || order == nil {
		return
	}
	payload, err := json.Marshal(Event{Type: eventType, RestaurantID: order.RestaurantID, Order: order})
	if err != nil {
		log.Printf("realtime: marshal %s for order %d: %v", eventType, order.ID, err)
		return
	}
	for _, topic := range []string{RestaurantTopic(order.RestaurantID), OrderTopic(order.PublicCode)} {
		if err := n.Publish(ctx, topic, payload); err != nil {
			log.Printf("realtime: publish %s to %s: %v", eventType, topic, err)
		}
	}
}
