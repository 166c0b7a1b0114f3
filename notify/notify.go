// Package notify fans out order events to the admin panel and external hooks.
package notify

import (
	"context"
	"log"
	"time"

	"github.com/Kariqs/mebel-api/models"
)

const EventOrderPlaced = "order.placed"

type Event struct {
	Type  string            `json:"type"`
	Order *models.OrderView `json:"order"`
	At    time.Time         `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Multi delivers an event to every notifier and logs the ones that fail.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, event Event) error {
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, event); err != nil {
			log.Printf("Notification %s failed: %v", event.Type, err)
		}
	}
	return nil
}

func OrderPlaced(order *models.OrderView) Event {
	return Event{Type: EventOrderPlaced, Order: order, At: time.Now().UTC()}
}
