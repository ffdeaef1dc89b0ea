package services

import (
	"math/rand"
	"testing"

	"github.com/charlotte58cafe/loyalty-be/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordEarn(t *testing.T) {
	setupTestDB(t)
	svc := NewLedgerService()
	user := createTestUser(t, "0812345678", 0)

	entry, err := svc.RecordEarn(user.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, entry.ChangeAmount)
	assert.Equal(t, models.ActionEarn, entry.ActionType)

	assert.Equal(t, 50, reloadUser(t, user.ID).CurrentPoints)
	assert.Equal(t, 50, ledgerSum(t, user.ID))
}

func TestRecordEarnRejectsNonPositiveAmount(t *testing.T) {
	setupTestDB(t)
	svc := NewLedgerService()
	user := createTestUser(t, "0812345678", 10)

	for _, amount := range []int{0, -5} {
		_, err := svc.RecordEarn(user.ID, amount)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
	assert.Equal(t, 10, reloadUser(t, user.ID).CurrentPoints)
}

func TestRecordEarnUnknownUser(t *testing.T) {
	setupTestDB(t)
	svc := NewLedgerService()

	_, err := svc.RecordEarn(9999, 10)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRecordRedeem(t *testing.T) {
	setupTestDB(t)
	svc := NewLedgerService()
	user := createTestUser(t, "0812345678", 100)

	entry, err := svc.RecordRedeem(user.ID, 30)
	require.NoError(t, err)
	assert.Equal(t, -30, entry.ChangeAmount)
	assert.Equal(t, models.ActionRedeem, entry.ActionType)

	assert.Equal(t, 70, reloadUser(t, user.ID).CurrentPoints)
	assert.Equal(t, 70, ledgerSum(t, user.ID))
}

func TestRecordRedeemInsufficientBalance(t *testing.T) {
	setupTestDB(t)
	svc := NewLedgerService()
	user := createTestUser(t, "0812345678", 20)

	_, err := svc.RecordRedeem(user.ID, 21)
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	// Nothing persisted: neither the balance nor the ledger moved
	assert.Equal(t, 20, reloadUser(t, user.ID).CurrentPoints)
	assert.Equal(t, 20, ledgerSum(t, user.ID))
}

func TestRecordRedeemExactBalance(t *testing.T) {
	setupTestDB(t)
	svc := NewLedgerService()
	user := createTestUser(t, "0812345678", 40)

	_, err := svc.RecordRedeem(user.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, 0, reloadUser(t, user.ID).CurrentPoints)
}

func TestRecordRedeemUnknownUser(t *testing.T) {
	setupTestDB(t)
	svc := NewLedgerService()

	_, err := svc.RecordRedeem(9999, 10)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// The core ledger invariant: after any sequence of earns and redeems the
// user's balance equals the sum of their ledger entries.
func TestLedgerInvariantUnderRandomSequence(t *testing.T) {
	setupTestDB(t)
	svc := NewLedgerService()
	user := createTestUser(t, "0812345678", 0)

	balance := 0
	for i := 0; i < 200; i++ {
		amount := 1 + rand.Intn(50)

		if rand.Intn(2) == 0 {
			_, err := svc.RecordEarn(user.ID, amount)
			require.NoError(t, err)
			balance += amount
		} else {
			_, err := svc.RecordRedeem(user.ID, amount)
			if amount <= balance {
				require.NoError(t, err)
				balance -= amount
			} else {
				require.ErrorIs(t, err, ErrInsufficientPoints)
			}
		}

		current := reloadUser(t, user.ID).CurrentPoints
		require.Equal(t, balance, current)
		require.Equal(t, current, ledgerSum(t, user.ID))
		require.GreaterOrEqual(t, current, 0)
	}
}

func TestGetUserLog(t *testing.T) {
	setupTestDB(t)
	svc := NewLedgerService()
	user := createTestUser(t, "0812345678", 0)

	_, err := svc.RecordEarn(user.ID, 10)
	require.NoError(t, err)
	_, err = svc.RecordEarn(user.ID, 20)
	require.NoError(t, err)
	_, err = svc.RecordRedeem(user.ID, 5)
	require.NoError(t, err)

	entries, err := svc.GetUserLog(user.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
