package services

import (
	"time"

	"github.com/charlotte58cafe/loyalty-be/config"
	"github.com/charlotte58cafe/loyalty-be/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionService struct {
	ledgerService *LedgerService
	configService *SystemConfigService
}

func NewTransactionService() *TransactionService {
	return &TransactionService{
		ledgerService: NewLedgerService(),
		configService: NewSystemConfigService(),
	}
}

// PurchaseResult is what a staff member sees after recording a purchase.
type PurchaseResult struct {
	Transaction   *models.Transaction `json:"transaction"`
	PointsAwarded int                 `json:"points_awarded"`
	PointsRate    int                 `json:"points_rate"`
}

// RecordPurchase records a purchase of the given monetary amount and awards
// floor(amount * rate) points. The transaction record, the balance increment
// and the EARN log entry are one atomic unit; a zero-point purchase (small
// amount, or rate 0) still records the transaction but touches no points.
func (s *TransactionService) RecordPurchase(userID uint, amount decimal.Decimal) (*PurchaseResult, error) {
	if amount.Cmp(decimal.Zero) <= 0 {
		return nil, ErrInvalidAmount
	}

	result := &PurchaseResult{}
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		rate, err := getPointsRateTx(tx)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrUserNotFound
		}

		// floor, never round: over-granting is worse than a lost fraction
		points := int(amount.Mul(decimal.NewFromInt(int64(rate))).Floor().IntPart())

		transaction := models.Transaction{
			UserID:          userID,
			Amount:          amount,
			TransactionDate: time.Now(),
		}
		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}

		// A zero-point purchase still records the transaction but creates no
		// ledger entry.
		if points > 0 {
			if _, err := recordEarnTx(tx, userID, points); err != nil {
				return err
			}
		}

		result.Transaction = &transaction
		result.PointsAwarded = points
		result.PointsRate = rate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetUserTransactions returns a user's purchase history, newest first.
func (s *TransactionService) GetUserTransactions(userID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := config.DB.Where("user_id = ?", userID).
		Order("transaction_date DESC").
		Find(&transactions).Error
	return transactions, err
}
