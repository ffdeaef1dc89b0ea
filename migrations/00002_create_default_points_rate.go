package migrations

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upCreateDefaultPointsRate, downCreateDefaultPointsRate)
}

// Seeds the conversion rate at 1 point per currency unit so a fresh install
// behaves the same as one where an admin never touched the setting.
func upCreateDefaultPointsRate(tx *sql.Tx) error {
	var count int
	err := tx.QueryRow("SELECT COUNT(*) FROM system_configs WHERE key = 'POINTS_RATE'").Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check existing points rate: %w", err)
	}

	if count == 0 {
		query := `
			INSERT INTO system_configs (key, value, created_at, updated_at)
			VALUES ('POINTS_RATE', '1', NOW(), NOW())
		`
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to seed points rate: %w", err)
		}
	}

	return nil
}

func downCreateDefaultPointsRate(tx *sql.Tx) error {
	if _, err := tx.Exec("DELETE FROM system_configs WHERE key = 'POINTS_RATE'"); err != nil {
		return fmt.Errorf("failed to delete points rate: %w", err)
	}
	return nil
}
