package store

import (
	"fmt"
	"strings"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies pending schema migrations from sourcePath against
// databaseURL. An already up-to-date schema is not an error.
func RunMigrations(databaseURL, sourcePath string) error {
	if sourcePath == "" {
		return nil
	}
	if !strings.Contains(sourcePath, "://") {
		sourcePath = "file://" + sourcePath
	}
	m, err := migrate.New(sourcePath, databaseURL)
	if err != nil {
		return fmt.Errorf("store: open migrations %s: %w", sourcePath, err)
	}
	defer func() {
		_, _ = m.Close()
	}()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("store: apply migrations: %w", err)
	}
	return nil
}
