// Package notificationrepo is the notification outbox.
package notificationrepo

import (
	"time"

	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/core/domain/model/notification"

	"github.com/google/uuid"
)

type NotificationDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderNumber string    `gorm:"size:32;not null"`
	Channel     string    `gorm:"size:16;not null"`
	Kind        string    `gorm:"size:32;not null"`
	Title       string    `gorm:"size:255;not null"`
	Message     string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"not null"`
	SentAt      *time.Time
	ReadAt      *time.Time
	Attempts    int `gorm:"not null;default:0"`
}

func (NotificationDTO) TableName() string {
	return "notifications"
}

func fromDomain(n *notification.Notification) NotificationDTO {
	return NotificationDTO{
		ID:          n.ID().Bytes(),
		OrderID:     n.OrderID().Bytes(),
		OrderNumber: n.OrderNumber(),
		Channel:     string(n.Channel()),
		Kind:        string(n.Kind()),
		Title:       n.Title(),
		Message:     n.Message(),
		CreatedAt:   n.CreatedAt(),
		SentAt:      n.SentAt(),
		ReadAt:      n.ReadAt(),
		Attempts:    n.Attempts(),
	}
}

func toDomain(dto NotificationDTO) (*notification.Notification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	return notification.RestoreNotification(
		id, orderID, dto.OrderNumber,
		notification.Channel(dto.Channel), notification.Kind(dto.Kind),
		dto.Title, dto.Message, dto.CreatedAt.UTC(), utc(dto.SentAt), utc(dto.ReadAt), dto.Attempts,
	)
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
