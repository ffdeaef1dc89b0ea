package controllers

import (
	"net/http"
	"time"

	"github.com/charlotte58cafe/loyalty-be/config"
	"github.com/charlotte58cafe/loyalty-be/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type DashboardController struct{}

func NewDashboardController() *DashboardController {
	return &DashboardController{}
}

type DashboardStats struct {
	// Customers
	UsersRegistered   int64 `json:"users_registered"`
	NewUsersThisMonth int64 `json:"new_users_this_month"`

	// Points
	PointsIssuedThisMonth   int64 `json:"points_issued_this_month"`
	PointsRedeemedThisMonth int64 `json:"points_redeemed_this_month"`

	// Revenue
	RevenueThisMonth decimal.Decimal `json:"revenue_this_month"`
	RevenueLastMonth decimal.Decimal `json:"revenue_last_month"`

	// Redemptions
	PendingRedemptions  int64 `json:"pending_redemptions"`
	VerifiedRedemptions int64 `json:"verified_redemptions"`
	CompletedThisMonth  int64 `json:"completed_this_month"`
	CancelledThisMonth  int64 `json:"cancelled_this_month"`

	// Catalog
	ActiveRewards int64 `json:"active_rewards"`
}

// GetStats aggregates the staff dashboard counters.
func (dc *DashboardController) GetStats(c *gin.Context) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	var stats DashboardStats

	config.DB.Model(&models.User{}).Count(&stats.UsersRegistered)
	config.DB.Model(&models.User{}).
		Where("created_at >= ?", monthStart).
		Count(&stats.NewUsersThisMonth)

	config.DB.Model(&models.PointLog{}).
		Where("action_type = ? AND created_at >= ?", models.ActionEarn, monthStart).
		Select("COALESCE(SUM(change_amount), 0)").
		Scan(&stats.PointsIssuedThisMonth)
	config.DB.Model(&models.PointLog{}).
		Where("action_type = ? AND created_at >= ?", models.ActionRedeem, monthStart).
		Select("COALESCE(SUM(-change_amount), 0)").
		Scan(&stats.PointsRedeemedThisMonth)

	var revThis, revLast decimal.NullDecimal
	config.DB.Model(&models.Transaction{}).
		Where("transaction_date >= ?", monthStart).
		Select("SUM(amount)").
		Scan(&revThis)
	config.DB.Model(&models.Transaction{}).
		Where("transaction_date >= ? AND transaction_date < ?", lastMonthStart, monthStart).
		Select("SUM(amount)").
		Scan(&revLast)
	stats.RevenueThisMonth = decimal.Zero
	stats.RevenueLastMonth = decimal.Zero
	if revThis.Valid {
		stats.RevenueThisMonth = revThis.Decimal
	}
	if revLast.Valid {
		stats.RevenueLastMonth = revLast.Decimal
	}

	config.DB.Model(&models.RewardRedemption{}).
		Where("status = ?", models.RedemptionPending).
		Count(&stats.PendingRedemptions)
	config.DB.Model(&models.RewardRedemption{}).
		Where("status = ?", models.RedemptionVerified).
		Count(&stats.VerifiedRedemptions)
	config.DB.Model(&models.RewardRedemption{}).
		Where("status = ? AND completed_at >= ?", models.RedemptionCompleted, monthStart).
		Count(&stats.CompletedThisMonth)
	config.DB.Model(&models.RewardRedemption{}).
		Where("status = ? AND updated_at >= ?", models.RedemptionCancelled, monthStart).
		Count(&stats.CancelledThisMonth)

	config.DB.Model(&models.Reward{}).
		Where("is_active = ?", true).
		Count(&stats.ActiveRewards)

	c.JSON(http.StatusOK, stats)
}
