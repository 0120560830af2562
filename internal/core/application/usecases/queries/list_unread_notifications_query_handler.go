package queries

import (
	"context"
	"time"

	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/core/domain/model/notification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListUnreadNotificationsQueryHandler struct {
	db *gorm.DB
}

func NewListUnreadNotificationsQueryHandler(db *gorm.DB) ListUnreadNotificationsQueryHandler {
	return ListUnreadNotificationsQueryHandler{db: db}
}

// Handle lists the unread WEB notifications of an order. Other channels are
// delivered outside the application and have no inbox.
func (h ListUnreadNotificationsQueryHandler) Handle(
	ctx context.Context,
	query ListUnreadNotificationsQuery,
) ([]ListUnreadNotificationsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orderID, err := orderIDByNumber(ctx, h.db, query.Number())
	if err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, kind, title, message, created_at
		FROM notifications
		WHERE order_id = ? AND channel = ? AND read_at IS NULL
		ORDER BY created_at DESC
		LIMIT ?
	`, orderID, string(notification.ChannelWeb), UnreadNotificationsLimit).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	inbox := make([]ListUnreadNotificationsQueryResponse, 0)
	for rows.Next() {
		var (
			item      ListUnreadNotificationsQueryResponse
			id        uuid.UUID
			createdAt time.Time
		)
		if err = rows.Scan(&id, &item.Kind, &item.Title, &item.Message, &createdAt); err != nil {
			return nil, err
		}
		if item.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		item.CreatedAt = createdAt.UTC()
		inbox = append(inbox, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return inbox, nil
}
