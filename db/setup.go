package db

import (
	"github.com/dawat-dev/dawat/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the database and returns the handle. The caller owns the
// handle and injects it wherever it is needed; there is no package-level
// connection. TranslateError makes the driver surface referential-integrity
// and unique-index failures as gorm.ErrForeignKeyViolated and
// gorm.ErrDuplicatedKey.
func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}

func Migrate(conn *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.Block{},
		&models.Contact{},
		&models.Visit{},
	}

	migrator := conn.Migrator()

	for _, table := range tables {
		if !migrator.HasTable(table) {
			if err := conn.AutoMigrate(table); err != nil {
				return err
			}
		}
	}

	return nil
}
