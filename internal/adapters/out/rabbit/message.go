package rabbit

import (
	"encoding/json"
	"time"

	"workshop/internal/core/domain/model/notification"
)

// message is the wire body published for a notification.
type message struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Channel     string    `json:"channel"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

func encode(n *notification.Notification) ([]byte, error) {
	return json.Marshal(message{
		ID:          n.ID().String(),
		OrderID:     n.OrderID().String(),
		OrderNumber: n.OrderNumber(),
		Channel:     string(n.Channel()),
		Kind:        string(n.Kind()),
		Title:       n.Title(),
		Message:     n.Message(),
		CreatedAt:   n.CreatedAt().UTC(),
	})
}
