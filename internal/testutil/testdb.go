package testutil

import (
	"io"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-assignment-api/internal/database"
	"github.com/yukikurage/task-assignment-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewInMemoryDB creates an in-memory SQLite DB and runs migrations.
// The pool is pinned to one connection so every query sees the same database.
func NewInMemoryDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db, NewLogger()); err != nil {
		return nil, err
	}
	return db, nil
}

// NewLogger returns a logger that discards everything.
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// CreateUser inserts a user directly, bypassing the service layer.
func CreateUser(db *gorm.DB, email string, admin bool) (*models.User, error) {
	user := &models.User{
		Name:         email,
		Email:        email,
		PasswordHash: "hashedpassword",
		IsActive:     true,
		IsAdmin:      admin,
		IsStaff:      admin,
		IsSuperadmin: admin,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
