package services

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/charlotte58cafe/loyalty-be/config"
	"github.com/charlotte58cafe/loyalty-be/models"
	"gorm.io/gorm"
)

// codeAttempts bounds the retry loop when a freshly generated code collides
// with another non-terminal redemption. With a 6-digit space and a backlog of
// a few dozen open requests, more than a couple of retries means something is
// very wrong with the code column.
const codeAttempts = 10

// RedemptionService drives a redemption request through
// PENDING -> VERIFIED -> COMPLETED, or to CANCELLED from either non-terminal
// state. Requesting and verifying never touch the balance; the deduction
// happens exactly once, at the COMPLETED transition, through the ledger.
type RedemptionService struct {
	ledgerService *LedgerService
}

func NewRedemptionService() *RedemptionService {
	return &RedemptionService{
		ledgerService: NewLedgerService(),
	}
}

// RequestRedemption creates a PENDING request for the reward, snapshotting
// the reward's current cost and issuing a fresh 6-digit code. The balance is
// checked but not reserved: a user holding several open requests can still
// only pay for what the final Complete calls can cover.
func (s *RedemptionService) RequestRedemption(userID, rewardID uint) (*models.RewardRedemption, error) {
	var redemption *models.RewardRedemption

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var reward models.Reward
		if err := tx.First(&reward, rewardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRewardNotFound
			}
			return err
		}
		if !reward.IsActive {
			return ErrRewardInactive
		}

		if user.CurrentPoints < reward.PointsCost {
			return ErrInsufficientPoints
		}

		var pending int64
		err := tx.Model(&models.RewardRedemption{}).
			Where("user_id = ? AND reward_id = ? AND status = ?",
				userID, rewardID, models.RedemptionPending).
			Count(&pending).Error
		if err != nil {
			return err
		}
		if pending > 0 {
			return ErrDuplicatePendingRequest
		}

		code, err := generateCode(tx)
		if err != nil {
			return err
		}

		redemption = &models.RewardRedemption{
			UserID:     userID,
			RewardID:   rewardID,
			Code:       code,
			PointsCost: reward.PointsCost,
			Status:     models.RedemptionPending,
		}
		if err := tx.Create(redemption).Error; err != nil {
			return err
		}

		redemption.User = user
		redemption.Reward = reward
		return nil
	})
	if err != nil {
		return nil, err
	}
	return redemption, nil
}

// Verify looks up a PENDING request by the code the customer presented and
// moves it to VERIFIED. The balance is re-checked so staff cannot approve a
// request the customer can no longer pay for.
func (s *RedemptionService) Verify(code string) (*models.RewardRedemption, error) {
	var redemption models.RewardRedemption

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("User").Preload("Reward").
			Where("code = ? AND status NOT IN (?, ?)",
				code, models.RedemptionCompleted, models.RedemptionCancelled).
			First(&redemption).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Codes are reused once terminal; a terminal match is still
			// "already processed" rather than unknown.
			var terminal int64
			if countErr := tx.Model(&models.RewardRedemption{}).
				Where("code = ?", code).Count(&terminal).Error; countErr != nil {
				return countErr
			}
			if terminal > 0 {
				return ErrAlreadyProcessed
			}
			return ErrCodeNotFound
		}
		if err != nil {
			return err
		}

		if redemption.Status != models.RedemptionPending {
			return ErrAlreadyProcessed
		}

		if redemption.User.CurrentPoints < redemption.PointsCost {
			return ErrInsufficientPoints
		}

		now := time.Now()
		res := tx.Model(&models.RewardRedemption{}).
			Where("id = ? AND status = ?", redemption.ID, models.RedemptionPending).
			Updates(map[string]interface{}{
				"status":      models.RedemptionVerified,
				"verified_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}

		redemption.Status = models.RedemptionVerified
		redemption.VerifiedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &redemption, nil
}

// CompleteResult carries the terminal request together with the user's
// post-deduction state for the staff confirmation screen.
type CompleteResult struct {
	Redemption *models.RewardRedemption `json:"redemption"`
	User       *models.User             `json:"user"`
}

// Complete moves a VERIFIED request to COMPLETED and deducts the snapshotted
// cost. The status flip and the conditional decrement share one transaction:
// of two concurrent completes whose combined cost exceeds the balance,
// exactly one commits and the other rolls back with ErrInsufficientPoints.
func (s *RedemptionService) Complete(requestID uint) (*CompleteResult, error) {
	result := &CompleteResult{}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var redemption models.RewardRedemption
		err := tx.Preload("Reward").First(&redemption, requestID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRedemptionNotFound
		}
		if err != nil {
			return err
		}

		if redemption.Status != models.RedemptionVerified {
			return ErrNotVerified
		}

		now := time.Now()
		res := tx.Model(&models.RewardRedemption{}).
			Where("id = ? AND status = ?", redemption.ID, models.RedemptionVerified).
			Updates(map[string]interface{}{
				"status":       models.RedemptionCompleted,
				"completed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotVerified
		}

		if _, err := recordRedeemTx(tx, redemption.UserID, redemption.PointsCost); err != nil {
			return err
		}

		var user models.User
		if err := tx.First(&user, redemption.UserID).Error; err != nil {
			return err
		}

		redemption.Status = models.RedemptionCompleted
		redemption.CompletedAt = &now
		result.Redemption = &redemption
		result.User = &user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel moves a PENDING or VERIFIED request to CANCELLED. Nothing was ever
// deducted before completion, so there is no ledger effect.
func (s *RedemptionService) Cancel(requestID uint) (*models.RewardRedemption, error) {
	var redemption models.RewardRedemption

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("User").Preload("Reward").First(&redemption, requestID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRedemptionNotFound
		}
		if err != nil {
			return err
		}

		if redemption.Status.IsTerminal() {
			return ErrAlreadyTerminal
		}

		res := tx.Model(&models.RewardRedemption{}).
			Where("id = ? AND status IN (?, ?)",
				redemption.ID, models.RedemptionPending, models.RedemptionVerified).
			Update("status", models.RedemptionCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyTerminal
		}

		redemption.Status = models.RedemptionCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &redemption, nil
}

// ListByStatus returns the admin queue for one status, or every request when
// status is empty or "ALL", newest first.
func (s *RedemptionService) ListByStatus(status string) ([]models.RewardRedemption, error) {
	query := config.DB.Preload("User").Preload("Reward").
		Order("created_at DESC")

	if status != "" && status != "ALL" {
		query = query.Where("status = ?", models.RedemptionStatus(status))
	}

	var redemptions []models.RewardRedemption
	err := query.Find(&redemptions).Error
	return redemptions, err
}

// GetByCode returns the request for a code, scoped to its owner so a code
// alone cannot leak another customer's redemption state.
func (s *RedemptionService) GetByCode(code string, userID uint) (*models.RewardRedemption, error) {
	var redemption models.RewardRedemption
	err := config.DB.Preload("User").Preload("Reward").
		Where("code = ? AND user_id = ?", code, userID).
		Order("created_at DESC").
		First(&redemption).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRedemptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &redemption, nil
}

// RedemptionStats aggregates a user's redemption history per status. Only
// COMPLETED requests count toward points spent.
type RedemptionStats struct {
	TotalRedemptions     int `json:"total_redemptions"`
	CompletedRedemptions int `json:"completed_redemptions"`
	PendingRedemptions   int `json:"pending_redemptions"`
	VerifiedRedemptions  int `json:"verified_redemptions"`
	CancelledRedemptions int `json:"cancelled_redemptions"`
	TotalPointsSpent     int `json:"total_points_spent"`
}

// HistoryForUser returns a user's requests newest-first together with
// aggregated counts.
func (s *RedemptionService) HistoryForUser(userID uint) ([]models.RewardRedemption, *RedemptionStats, error) {
	var redemptions []models.RewardRedemption
	err := config.DB.Preload("Reward").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&redemptions).Error
	if err != nil {
		return nil, nil, err
	}

	stats := &RedemptionStats{TotalRedemptions: len(redemptions)}
	for _, r := range redemptions {
		switch r.Status {
		case models.RedemptionCompleted:
			stats.CompletedRedemptions++
			stats.TotalPointsSpent += r.PointsCost
		case models.RedemptionPending:
			stats.PendingRedemptions++
		case models.RedemptionVerified:
			stats.VerifiedRedemptions++
		case models.RedemptionCancelled:
			stats.CancelledRedemptions++
		}
	}
	return redemptions, stats, nil
}

// generateCode produces a 6-digit code that no non-terminal request is
// currently using. Terminal requests may hold the same code; reuse across
// time is fine since staff only ever look codes up among open requests.
func generateCode(tx *gorm.DB) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code := fmt.Sprintf("%06d", 100000+rand.Intn(900000))

		var count int64
		err := tx.Model(&models.RewardRedemption{}).
			Where("code = ? AND status IN (?, ?)",
				code, models.RedemptionPending, models.RedemptionVerified).
			Count(&count).Error
		if err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique redemption code")
}
