package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/saga-aleeka/saga-store/models"
)

// Connect opens the Postgres connection and runs migrations. The DSN is
// assembled by the caller so startup can fail fast on missing configuration
// before any connection attempt.
func Connect(dsn string) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return conn, nil
}

func Migrate(db *gorm.DB) error {
	// Containers first: samples carry FKs into them.
	if err := db.AutoMigrate(
		&models.Container{},
		&models.Sample{},
		&models.AuditLog{},
		&models.AuthorizedUser{},
	); err != nil {
		return err
	}

	// sample_id is the business key: unique among active samples only.
	// Archived rows may repeat it, so a partial index rather than a plain
	// unique constraint.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_active_sample_id
	  ON %s (sample_id)
	  WHERE is_archived = FALSE;
	`, models.SampleTable, models.SampleTable)).Error; err != nil {
		return err
	}

	// Occupancy counts filter on this constantly.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_active_container
	  ON %s (container_id)
	  WHERE is_archived = FALSE;
	`, models.SampleTable, models.SampleTable)).Error; err != nil {
		return err
	}

	// Audit queries are newest-first.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_created_at_desc
	  ON %s (created_at DESC);
	`, models.AuditLogTable, models.AuditLogTable)).Error; err != nil {
		return err
	}

	return nil
}
