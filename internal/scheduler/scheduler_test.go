package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dawat-dev/dawat/internal/handlers"
	"github.com/dawat-dev/dawat/internal/models"
	"github.com/dawat-dev/dawat/internal/services"
	"github.com/dawat-dev/dawat/internal/store"
)

func newTestReminder(t *testing.T) *Reminder {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.Block{},
		&models.Contact{},
		&models.Visit{},
	))

	return New(store.New(conn), handlers.NewHub(), &services.Notifier{}, time.Hour)
}

func TestReminderStartStopIdempotent(t *testing.T) {
	r := newTestReminder(t)

	r.Start()
	r.Start()

	// Let the immediate first scan finish against the empty database.
	time.Sleep(20 * time.Millisecond)

	r.Stop()
	r.Stop()
}
