package services

import (
	"regexp"
	"testing"

	"github.com/charlotte58cafe/loyalty-be/config"
	"github.com/charlotte58cafe/loyalty-be/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^\d{6}$`)

func TestRedemptionHappyPath(t *testing.T) {
	setupTestDB(t)
	svc := NewRedemptionService()
	user := createTestUser(t, "0812345678", 150)
	reward := createTestReward(t, "Free Latte", 100, true)

	// Request: code issued, nothing deducted yet
	redemption, err := svc.RequestRedemption(user.ID, reward.ID)
	require.NoError(t, err)
	assert.Regexp(t, codePattern, redemption.Code)
	assert.Equal(t, models.RedemptionPending, redemption.Status)
	assert.Equal(t, 100, redemption.PointsCost)
	assert.Equal(t, 150, reloadUser(t, user.ID).CurrentPoints)

	// Verify: status transition only
	verified, err := svc.Verify(redemption.Code)
	require.NoError(t, err)
	assert.Equal(t, models.RedemptionVerified, verified.Status)
	assert.NotNil(t, verified.VerifiedAt)
	assert.Equal(t, 150, reloadUser(t, user.ID).CurrentPoints)

	// Complete: deduction happens here, exactly once
	result, err := svc.Complete(redemption.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RedemptionCompleted, result.Redemption.Status)
	assert.NotNil(t, result.Redemption.CompletedAt)
	assert.Equal(t, 50, result.User.CurrentPoints)
	assert.Equal(t, 50, ledgerSum(t, user.ID))

	var logs []models.PointLog
	require.NoError(t, config.DB.
		Where("user_id = ? AND action_type = ?", user.ID, models.ActionRedeem).
		Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, -100, logs[0].ChangeAmount)
}

func TestRequestRedemptionInsufficientPoints(t *testing.T) {
	setupTestDB(t)
	svc := NewRedemptionService()
	user := createTestUser(t, "0812345678", 50)
	reward := createTestReward(t, "Free Latte", 100, true)

	_, err := svc.RequestRedemption(user.ID, reward.ID)
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	var count int64
	config.DB.Model(&models.RewardRedemption{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestRequestRedemptionRewardChecks(t *testing.T) {
	setupTestDB(t)
	svc := NewRedemptionService()
	user := createTestUser(t, "0812345678", 500)
	inactive := createTestReward(t, "Retired Mug", 100, false)

	_, err := svc.RequestRedemption(user.ID, 9999)
	assert.ErrorIs(t, err, ErrRewardNotFound)

	_, err = svc.RequestRedemption(user.ID, inactive.ID)
	assert.ErrorIs(t, err, ErrRewardInactive)

	_, err = svc.RequestRedemption(9999, inactive.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRequestRedemptionDuplicatePending(t *testing.T) {
	setupTestDB(t)
	svc := NewRedemptionService()
	user := createTestUser(t, "0812345678", 500)
	reward := createTestReward(t, "Free Latte", 100, true)

	_, err := svc.RequestRedemption(user.ID, reward.ID)
	require.NoError(t, err)

	_, err = svc.RequestRedemption(user.ID, reward.ID)
	assert.ErrorIs(t, err, ErrDuplicatePendingRequest)

	// A different reward is fine
	other := createTestReward(t, "Cookie", 50, true)
	_, err = svc.RequestRedemption(user.ID, other.ID)
	assert.NoError(t, err)
}

func TestRequestRedemptionAllowedAgainAfterTerminal(t *testing.T) {
	setupTestDB(t)
	svc := NewRedemptionService()
	user := createTestUser(t, "0812345678", 500)
	reward := createTestReward(t, "Free Latte", 100, true)

	first, err := svc.RequestRedemption(user.ID, reward.ID)
	require.NoError(t, err)
	_, err = svc.Cancel(first.ID)
	require.NoError(t, err)

	_, err = svc.RequestRedemption(user.ID, reward.ID)
	assert.NoError(t, err)
}

func TestRequestRedemptionCostSnapshot(t *testing.T) {
	setupTestDB(t)
	svc := NewRedemptionService()
	user := createTestUser(t, "0812345678", 150)
	reward := createTestReward(t, "Free Latte", 100, true)

	redemption, err := svc.RequestRedemption(user.ID, reward.ID)
	require.NoError(t, err)

	// A later price hike must not change what the open request costs
	require.NoError(t, config.DB.Model(&models.Reward{}).
		Where("id = ?", reward.ID).
		Update("points_cost", 900).Error)

	_, err = svc.Verify(redemption.Code)
	require.NoError(t, err)
	result, err := svc.Complete(redemption.ID)
	require.NoError(t, err)

	assert.Equal(t, 100, result.Redemption.PointsCost)
	assert.Equal(t, 50, result.User.CurrentPoints)
}

func TestVerifyUnknownCode(t *testing.T) {
	setupTestDB(t)
	svc := NewRedemptionService()

	_, err := svc.Verify("000000")
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestVerifyTwice(t *testing.T) {
	setupTestDB(t)
	svc := NewRedemptionService()
	user := createTestUser(t, "0812345678", 150)
	reward := createTestReward(t, "Free Latte", 100, true)

	redemption, err := svc.RequestRedemption(user.ID, reward.ID)
	require.NoError(t, err)

	_, err = svc.Verify(redemption.Code)
	require.NoError(t, err)

	_, err = svc.Verify(redemption.Code)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestVerifyAfterBalanceDropped(t *testing.T) {
	setupTestDB(t)
	svc := NewRedemptionService()
	ledger := NewLedgerService()
	user := createTestUser(t, "0812345678", 150)
	reward := createTestReward(t, "Free Latte", 100, true)

	redemption, err := svc.RequestRedemption(user.ID, reward.ID)
	require.NoError(t, err)

	// Balance drops below the snapshot cost before staff verifies
	_, err = ledger.RecordRedeem(user.ID, 60)
	require.NoError(t, err)

	_, err = svc.Verify(redemption.Code)
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	// The request stays PENDING so it can be cancelled or retried later
	var current models.RewardRedemption
	require.NoError(t, config.DB.First(&current, redemption.ID).Error)
	assert.Equal(t, models.RedemptionPending, current.Status)
}

func TestCompleteRequiresVerified(t *testing.T) {
	setupTestDB(t)
	svc := NewRedemptionService()
	user := createTestUser(t, "0812345678", 150)
	reward := createTestReward(t, "Free Latte", 100, true)

	redemption, err := svc.RequestRedemption(user.ID, reward.ID)
	require.NoError(t, err)

	_, err = svc.Complete(redemption.ID)
	assert.ErrorIs(t, err, ErrNotVerified)

	_, err = svc.Complete(9999)
	assert.ErrorIs(t, err, ErrRedemptionNotFound)
}

func TestCompleteTwice(t *testing.T) {
	setupTestDB(t)
	svc := NewRedemptionService()
	user := createTestUser(t, "0812345678", 150)
	reward := createTestReward(t, "Free Latte", 100, true)

	redemption, err := svc.RequestRedemption(user.ID, reward.ID)
	require.NoError(t, err)
	_, err = svc.Verify(redemption.Code)
	require.NoError(t, err)
	_, err = svc.Complete(redemption.ID)
	require.NoError(t, err)

	// Terminal states accept no further transitions
	_, err = svc.Complete(redemption.ID)
	assert.ErrorIs(t, err, ErrNotVerified)

	assert.Equal(t, 50, reloadUser(t, user.ID).CurrentPoints)
	assert.Equal(t, 50, ledgerSum(t, user.ID))
}

// Two verified requests whose combined cost exceeds the balance: the first
// Complete wins, the second fails, the balance never goes negative and the
// loser's status rolls back to VERIFIED.
func TestCompleteNoDoubleSpend(t *testing.T) {
	setupTestDB(t)
	svc := NewRedemptionService()
	user := createTestUser(t, "0812345678", 150)
	latte := createTestReward(t, "Free Latte", 100, true)
	cake := createTestReward(t, "Cake Slice", 100, true)

	first, err := svc.RequestRedemption(user.ID, latte.ID)
	require.NoError(t, err)
	second, err := svc.RequestRedemption(user.ID, cake.ID)
	require.NoError(t, err)

	_, err = svc.Verify(first.Code)
	require.NoError(t, err)
	_, err = svc.Verify(second.Code)
	require.NoError(t, err)

	result, err := svc.Complete(first.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, result.User.CurrentPoints)

	_, err = svc.Complete(second.ID)
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	user2 := reloadUser(t, user.ID)
	assert.Equal(t, 50, user2.CurrentPoints)
	assert.Equal(t, 50, ledgerSum(t, user.ID))

	var loser models.RewardRedemption
	require.NoError(t, config.DB.First(&loser, second.ID).Error)
	assert.Equal(t, models.RedemptionVerified, loser.Status)
}

func TestCancelFromPendingAndVerified(t *testing.T) {
	setupTestDB(t)
	svc := NewRedemptionService()
	user := createTestUser(t, "0812345678", 500)
	latte := createTestReward(t, "Free Latte", 100, true)
	cake := createTestReward(t, "Cake Slice", 100, true)

	pending, err := svc.RequestRedemption(user.ID, latte.ID)
	require.NoError(t, err)
	verified, err := svc.RequestRedemption(user.ID, cake.ID)
	require.NoError(t, err)
	_, err = svc.Verify(verified.Code)
	require.NoError(t, err)

	cancelled, err := svc.Cancel(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RedemptionCancelled, cancelled.Status)

	cancelled, err = svc.Cancel(verified.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RedemptionCancelled, cancelled.Status)

	// No ledger effect either way
	assert.Equal(t, 500, reloadUser(t, user.ID).CurrentPoints)
}

func TestCancelTerminal(t *testing.T) {
	setupTestDB(t)
	svc := NewRedemptionService()
	user := createTestUser(t, "0812345678", 150)
	reward := createTestReward(t, "Free Latte", 100, true)

	redemption, err := svc.RequestRedemption(user.ID, reward.ID)
	require.NoError(t, err)
	_, err = svc.Verify(redemption.Code)
	require.NoError(t, err)
	_, err = svc.Complete(redemption.ID)
	require.NoError(t, err)

	_, err = svc.Cancel(redemption.ID)
	assert.ErrorIs(t, err, ErrAlreadyTerminal)

	_, err = svc.Cancel(9999)
	assert.ErrorIs(t, err, ErrRedemptionNotFound)
}

func TestListByStatus(t *testing.T) {
	setupTestDB(t)
	svc := NewRedemptionService()
	user := createTestUser(t, "0812345678", 500)
	latte := createTestReward(t, "Free Latte", 100, true)
	cake := createTestReward(t, "Cake Slice", 100, true)

	first, err := svc.RequestRedemption(user.ID, latte.ID)
	require.NoError(t, err)
	_, err = svc.RequestRedemption(user.ID, cake.ID)
	require.NoError(t, err)
	_, err = svc.Verify(first.Code)
	require.NoError(t, err)

	pending, err := svc.ListByStatus(string(models.RedemptionPending))
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	verified, err := svc.ListByStatus(string(models.RedemptionVerified))
	require.NoError(t, err)
	assert.Len(t, verified, 1)

	all, err := svc.ListByStatus("ALL")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetByCodeIsOwnerScoped(t *testing.T) {
	setupTestDB(t)
	svc := NewRedemptionService()
	owner := createTestUser(t, "0812345678", 500)
	other := createTestUser(t, "0898765432", 500)
	reward := createTestReward(t, "Free Latte", 100, true)

	redemption, err := svc.RequestRedemption(owner.ID, reward.ID)
	require.NoError(t, err)

	found, err := svc.GetByCode(redemption.Code, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, redemption.ID, found.ID)

	// The code alone must not leak another customer's redemption
	_, err = svc.GetByCode(redemption.Code, other.ID)
	assert.ErrorIs(t, err, ErrRedemptionNotFound)
}

func TestHistoryForUser(t *testing.T) {
	setupTestDB(t)
	svc := NewRedemptionService()
	user := createTestUser(t, "0812345678", 500)
	latte := createTestReward(t, "Free Latte", 100, true)
	cake := createTestReward(t, "Cake Slice", 50, true)
	mug := createTestReward(t, "Mug", 200, true)

	done, err := svc.RequestRedemption(user.ID, latte.ID)
	require.NoError(t, err)
	_, err = svc.Verify(done.Code)
	require.NoError(t, err)
	_, err = svc.Complete(done.ID)
	require.NoError(t, err)

	cancelled, err := svc.RequestRedemption(user.ID, cake.ID)
	require.NoError(t, err)
	_, err = svc.Cancel(cancelled.ID)
	require.NoError(t, err)

	_, err = svc.RequestRedemption(user.ID, mug.ID)
	require.NoError(t, err)

	redemptions, stats, err := svc.HistoryForUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, redemptions, 3)
	assert.Equal(t, 3, stats.TotalRedemptions)
	assert.Equal(t, 1, stats.CompletedRedemptions)
	assert.Equal(t, 1, stats.CancelledRedemptions)
	assert.Equal(t, 1, stats.PendingRedemptions)
	assert.Equal(t, 0, stats.VerifiedRedemptions)
	// Only COMPLETED requests count toward points spent
	assert.Equal(t, 100, stats.TotalPointsSpent)
}

func TestGenerateCodeAvoidsNonTerminalCollision(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "0812345678", 0)
	reward := createTestReward(t, "Free Latte", 10, true)

	// Occupy a code with an open request, then ask the generator for a new
	// one many times: it must never hand the occupied code out again.
	taken := models.RewardRedemption{
		UserID:     user.ID,
		RewardID:   reward.ID,
		Code:       "123456",
		PointsCost: 10,
		Status:     models.RedemptionPending,
	}
	require.NoError(t, config.DB.Create(&taken).Error)

	for i := 0; i < 50; i++ {
		code, err := generateCode(config.DB)
		require.NoError(t, err)
		assert.NotEqual(t, taken.Code, code)
		assert.Regexp(t, codePattern, code)
	}
}
