package services

import (
	"testing"

	"github.com/charlotte58cafe/loyalty-be/config"
	"github.com/charlotte58cafe/loyalty-be/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the global config.DB at a fresh in-memory sqlite
// database for the duration of one test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// In-memory sqlite lives and dies with its connection
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Staff{},
		&models.Reward{},
		&models.Transaction{},
		&models.PointLog{},
		&models.RewardRedemption{},
		&models.SystemConfig{},
		&models.VerificationToken{},
	))

	prev := config.DB
	config.DB = db
	t.Cleanup(func() {
		config.DB = prev
		sqlDB.Close()
	})

	return db
}

func createTestUser(t *testing.T, phone string, points int) *models.User {
	t.Helper()

	user := &models.User{PhoneNumber: phone, CurrentPoints: points}
	require.NoError(t, config.DB.Create(user).Error)

	// Keep the ledger consistent with the seeded balance
	if points > 0 {
		entry := &models.PointLog{
			UserID:       user.ID,
			ChangeAmount: points,
			ActionType:   models.ActionEarn,
		}
		require.NoError(t, config.DB.Create(entry).Error)
	}
	return user
}

func createTestReward(t *testing.T, name string, cost int, active bool) *models.Reward {
	t.Helper()

	reward := &models.Reward{Name: name, PointsCost: cost, IsActive: active}
	require.NoError(t, config.DB.Create(reward).Error)
	return reward
}

// ledgerSum recomputes a user's balance from the ledger.
func ledgerSum(t *testing.T, userID uint) int {
	t.Helper()

	var sum int64
	err := config.DB.Model(&models.PointLog{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(change_amount), 0)").
		Scan(&sum).Error
	require.NoError(t, err)
	return int(sum)
}

func reloadUser(t *testing.T, userID uint) *models.User {
	t.Helper()

	var user models.User
	require.NoError(t, config.DB.First(&user, userID).Error)
	return &user
}
