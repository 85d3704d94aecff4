package services

import (
	"context"
	"testing"
	"time"

	"github.com/atelmoda/storefront-backend/internal/config"
	"github.com/atelmoda/storefront-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.LoginAttempt{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.WishlistItem{},
		&models.ProductReview{},
	)
	require.NoError(t, err)

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,
		OTPExpiry:        5 * time.Minute,
		LoginMaxAttempts: 5,
		LoginWindow:      time.Hour,
	}
}

func createTestUser(t *testing.T, db *gorm.DB, username, email, password string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:       uuid.New(),
		Username: username,
		Email:    email,
		Password: string(hash),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:    uuid.New(),
		Name:  name,
		Price: price,
		Stock: stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

type sentMail struct {
	To       string
	Username string
	Code     string
}

// fakeMailer records outgoing mail instead of talking to an SMTP relay.
type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendLoginCode(_ context.Context, to, username, code string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{To: to, Username: username, Code: code})
	return nil
}
