// Package notification models the customer notifications queued when a work order
// becomes ready for pickup. Rows are written to an outbox and relayed later.
package notification

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/pkg/errs"
	"workshop/internal/pkg/guard"
)

// Channel is the customer-facing transport a notification targets.
type Channel string

const (
	ChannelWeb      Channel = "WEB"
	ChannelWhatsApp Channel = "WHATSAPP"
)

// Kind classifies the notification.
type Kind string

const KindReadyForPickup Kind = "MOTOR_LISTO"

const readyForPickupTitle = "Motor listo para retirar"

// MaxPublishAttempts caps relay retries. A notification that fails this many
// times is abandoned and left in the outbox for inspection.
const MaxPublishAttempts = 5

var (
	ErrNotificationIsNotConstructed = errors.New("Notification must be created via NewReadyForPickup or RestoreNotification")
	ErrAlreadySent                  = errors.New("notification already sent")
)

// Notification is one queued message for one channel.
type Notification struct {
	id          kernel.UUID
	orderID     kernel.UUID
	orderNumber string
	channel     Channel
	kind        Kind
	title       string
	message     string
	createdAt   time.Time
	sentAt      *time.Time
	readAt      *time.Time
	attempts    int

	guard guard.ConstructorGuard
}

// Channels lists every channel a ready-for-pickup notice is sent through.
func Channels() []Channel {
	return []Channel{ChannelWeb, ChannelWhatsApp}
}

// NewReadyForPickup builds the pickup notice for one channel.
func NewReadyForPickup(orderID kernel.UUID, orderNumber string, channel Channel, createdAt time.Time) (*Notification, error) {
	message := fmt.Sprintf("Tu motor (OT %s) está listo para retirar.", orderNumber)
	return RestoreNotification(
		kernel.NewUUID(), orderID, orderNumber, channel, KindReadyForPickup,
		readyForPickupTitle, message, createdAt, nil, nil, 0,
	)
}

// RestoreNotification rebuilds a notification from the outbox.
func RestoreNotification(
	id, orderID kernel.UUID,
	orderNumber string,
	channel Channel,
	kind Kind,
	title, message string,
	createdAt time.Time,
	sentAt, readAt *time.Time,
	attempts int,
) (*Notification, error) {
	var errList []error
	if err := id.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := orderID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("order id", err))
	}
	if strings.TrimSpace(orderNumber) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("order number"))
	}
	if channel != ChannelWeb && channel != ChannelWhatsApp {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("channel", fmt.Errorf("unknown channel %q", channel)))
	}
	if kind == "" {
		errList = append(errList, errs.NewValueIsRequiredError("kind"))
	}
	if attempts < 0 {
		errList = append(errList, errs.NewValueIsInvalidError("attempts"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	n := &Notification{
		id:          id,
		orderID:     orderID,
		orderNumber: orderNumber,
		channel:     channel,
		kind:        kind,
		title:       title,
		message:     message,
		createdAt:   createdAt,
		sentAt:      copyTime(sentAt),
		readAt:      copyTime(readAt),
		attempts:    attempts,
		guard:       guard.NewConstructorGuard(),
	}
	return n, nil
}

func (n *Notification) Validate() error {
	if n == nil {
		return ErrNotificationIsNotConstructed
	}
	return n.guard.Validate(ErrNotificationIsNotConstructed)
}

func (n *Notification) ID() kernel.UUID      { return n.id }
func (n *Notification) OrderID() kernel.UUID { return n.orderID }
func (n *Notification) OrderNumber() string  { return n.orderNumber }
func (n *Notification) Channel() Channel     { return n.channel }
func (n *Notification) Kind() Kind           { return n.kind }
func (n *Notification) Title() string        { return n.title }
func (n *Notification) Message() string      { return n.message }
func (n *Notification) CreatedAt() time.Time { return n.createdAt }
func (n *Notification) IsSent() bool         { return n.sentAt != nil }
func (n *Notification) IsRead() bool         { return n.readAt != nil }
func (n *Notification) Attempts() int        { return n.attempts }
func (n *Notification) SentAt() *time.Time   { return copyTime(n.sentAt) }
func (n *Notification) ReadAt() *time.Time   { return copyTime(n.readAt) }

// IsAbandoned reports whether the relay has given up on this notification.
func (n *Notification) IsAbandoned() bool {
	return n.sentAt == nil && n.attempts >= MaxPublishAttempts
}

// MarkSent records a successful relay.
func (n *Notification) MarkSent(at time.Time) error {
	if n.sentAt != nil {
		return ErrAlreadySent
	}
	n.sentAt = &at
	return nil
}

// RecordPublishFailure counts a failed relay attempt.
func (n *Notification) RecordPublishFailure() {
	n.attempts++
}

// MarkRead stamps the first read. Later calls keep the original timestamp and
// report false.
func (n *Notification) MarkRead(at time.Time) bool {
	if n.readAt != nil {
		return false
	}
	n.readAt = &at
	return true
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
