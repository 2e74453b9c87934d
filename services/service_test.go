package services

import (
	"fmt"
	"testing"

	"github.com/roomloop/chat_backend/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database capped at a single
// connection, so every statement sees the same memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Room{}, &models.Message{}))
	return db
}

// registerTestUser creates a user through the service so the credential is
// properly hashed.
func registerTestUser(t *testing.T, users *UsersService, username string) *models.User {
	t.Helper()

	user, err := users.Register(username, "Test", "User", "secret1")
	require.NoError(t, err)
	return user
}

func newTestServices(t *testing.T) (*UsersService, *RoomsService, *MessagesService) {
	t.Helper()

	db := newTestDB(t)
	hasher := BcryptHasher{}
	users := NewUsersService(db, hasher)
	rooms := NewRoomsService(db, hasher)
	messages := NewMessagesService(db, rooms)
	return users, rooms, messages
}

func testUsername(i int) string {
	return fmt.Sprintf("user%02d", i)
}
