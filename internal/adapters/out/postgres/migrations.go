package postgres

import (
	"context"

	"workshop/internal/adapters/out/postgres/auditrepo"
	"workshop/internal/adapters/out/postgres/catalogrepo"
	"workshop/internal/adapters/out/postgres/intervalrepo"
	"workshop/internal/adapters/out/postgres/notificationrepo"
	"workshop/internal/adapters/out/postgres/orderrepo"
	"workshop/internal/core/domain/model/delay"
	"workshop/internal/core/domain/model/stage"

	"gorm.io/gorm"
)

// Migrate creates or updates every workshop table and index.
func Migrate(ctx context.Context, db *gorm.DB) error {
	conn := db.WithContext(ctx)
	if err := conn.AutoMigrate(
		&catalogrepo.StageDTO{},
		&catalogrepo.DelayReasonDTO{},
		&orderrepo.OrderDTO{},
		&intervalrepo.IntervalDTO{},
		&auditrepo.EntryDTO{},
		&notificationrepo.NotificationDTO{},
	); err != nil {
		return err
	}
	return conn.Exec(intervalrepo.OpenIntervalIndexSQL).Error
}

// SeedCatalogs stores the default stages and delay reasons. Rows already present
// are kept as they are.
func SeedCatalogs(ctx context.Context, db *gorm.DB) error {
	reasons, err := delay.DefaultReasons()
	if err != nil {
		return err
	}

	repo := catalogrepo.NewGormCatalogRepository(db)
	if err = repo.SeedStages(ctx, stage.DefaultEntries()...); err != nil {
		return err
	}
	return repo.SeedDelayReasons(ctx, reasons...)
}
