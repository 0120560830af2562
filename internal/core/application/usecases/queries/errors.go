// Package queries holds the read side of an order, looked up by its
// human-facing number.
package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"workshop/internal/core/domain/services"
	"workshop/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrOrderNumberIsRequired = errors.New("order number is required")

func normalizeNumber(number string) (string, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return "", ErrOrderNumberIsRequired
	}
	return number, nil
}

// orderIDByNumber resolves the order id, failing with services.ErrOrderNotFound.
func orderIDByNumber(ctx context.Context, db *gorm.DB, number string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.WithContext(ctx).Raw(`SELECT id FROM work_orders WHERE number = ?`, number).Row().Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, notFound(number)
	}
	return id, err
}

func notFound(number string) error {
	return fmt.Errorf("%w: %w", services.ErrOrderNotFound, errs.NewObjectNotFoundError("order number", number))
}
