package services

import (
	"errors"

	"github.com/charlotte58cafe/loyalty-be/config"
	"github.com/charlotte58cafe/loyalty-be/models"
	"gorm.io/gorm"
)

// LedgerService is the only writer of User.CurrentPoints. Every balance
// change is paired with exactly one point log entry inside one database
// transaction; the balance-sufficiency check for redeems is the conditional
// UPDATE itself, so two concurrent deductions can never both pass it.
type LedgerService struct{}

func NewLedgerService() *LedgerService {
	return &LedgerService{}
}

func (s *LedgerService) RecordEarn(userID uint, amount int) (*models.PointLog, error) {
	var entry *models.PointLog
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		entry, txErr = recordEarnTx(tx, userID, amount)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *LedgerService) RecordRedeem(userID uint, amount int) (*models.PointLog, error) {
	var entry *models.PointLog
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		entry, txErr = recordRedeemTx(tx, userID, amount)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// GetUserLog returns a user's full ledger, newest first.
func (s *LedgerService) GetUserLog(userID uint) ([]models.PointLog, error) {
	var entries []models.PointLog
	err := config.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

// recordEarnTx increments the balance and appends an EARN entry inside the
// caller's transaction.
func recordEarnTx(tx *gorm.DB, userID uint, amount int) (*models.PointLog, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	res := tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("current_points", gorm.Expr("current_points + ?", amount))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}

	entry := models.PointLog{
		UserID:       userID,
		ChangeAmount: amount,
		ActionType:   models.ActionEarn,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// recordRedeemTx performs a conditional decrement and appends a REDEEM entry
// inside the caller's transaction. The WHERE clause carries the sufficiency
// check so it cannot be separated from the decrement by a concurrent redeem.
func recordRedeemTx(tx *gorm.DB, userID uint, amount int) (*models.PointLog, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	res := tx.Model(&models.User{}).
		Where("id = ? AND current_points >= ?", userID, amount).
		UpdateColumn("current_points", gorm.Expr("current_points - ?", amount))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing user from an underfunded one
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrUserNotFound
		}
		return nil, ErrInsufficientPoints
	}

	entry := models.PointLog{
		UserID:       userID,
		ChangeAmount: -amount,
		ActionType:   models.ActionRedeem,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// IsBusinessError reports whether err is one of the expected business
// outcomes rather than a storage failure.
func IsBusinessError(err error) bool {
	for _, candidate := range []error{
		ErrInvalidAmount, ErrInvalidRate, ErrInvalidPhoneNumber, ErrInvalidOTP,
		ErrUserNotFound, ErrRewardNotFound, ErrRedemptionNotFound, ErrCodeNotFound,
		ErrRewardInactive, ErrDuplicatePendingRequest, ErrAlreadyProcessed,
		ErrNotVerified, ErrAlreadyTerminal, ErrInsufficientPoints,
		ErrInvalidRateConfig, ErrInvalidCredentials,
	} {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}
