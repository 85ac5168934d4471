package store

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dawat-dev/dawat/internal/models"
)

var userSeq atomic.Uint64

// newTestDB opens an in-memory sqlite database with foreign keys enforced so
// the RESTRICT constraints behave like the production store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)

	// A second connection to :memory: would see a different empty database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.Block{},
		&models.Contact{},
		&models.Visit{},
	))

	return conn
}

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()

	conn := newTestDB(t)
	return New(conn), conn
}

func seedUser(t *testing.T, conn *gorm.DB) models.User {
	t.Helper()

	n := userSeq.Add(1)

	user := models.User{
		Name:         "Test User",
		Username:     fmt.Sprintf("tester-%d", n),
		Email:        fmt.Sprintf("tester-%d@example.com", n),
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, conn.Create(&user).Error)
	return user
}

func seedBlock(t *testing.T, conn *gorm.DB, name string) models.Block {
	t.Helper()

	block := models.Block{Name: name}
	require.NoError(t, conn.Create(&block).Error)
	return block
}

func seedContact(t *testing.T, conn *gorm.DB, block models.Block, user models.User, name string, mutate ...func(*models.Contact)) models.Contact {
	t.Helper()

	contact := models.Contact{
		Name:        name,
		BlockID:     block.ID,
		CreatedByID: user.ID,
	}
	for _, fn := range mutate {
		fn(&contact)
	}
	require.NoError(t, conn.Create(&contact).Error)
	return contact
}

func seedVisit(t *testing.T, conn *gorm.DB, contact models.Contact, user models.User, visitDate time.Time, mutate ...func(*models.Visit)) models.Visit {
	t.Helper()

	visit := models.Visit{
		ContactID:   contact.ID,
		BlockID:     contact.BlockID,
		VisitDate:   visitDate,
		Purpose:     "Dawat",
		CreatedByID: user.ID,
	}
	for _, fn := range mutate {
		fn(&visit)
	}
	require.NoError(t, conn.Create(&visit).Error)
	return visit
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func uintPtr(v uint) *uint {
	return &v
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}
