package controllers

import (
	"net/http"

	"github.com/charlotte58cafe/loyalty-be/services"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	userService        *services.UserService
	ledgerService      *services.LedgerService
	transactionService *services.TransactionService
	rewardService      *services.RewardService
}

func NewUserController() *UserController {
	return &UserController{
		userService:        services.NewUserService(),
		ledgerService:      services.NewLedgerService(),
		transactionService: services.NewTransactionService(),
		rewardService:      services.NewRewardService(),
	}
}

// GetSummary returns the customer dashboard numbers: current points, lifetime
// spending and spending this month.
func (uc *UserController) GetSummary(c *gin.Context) {
	userID, _ := c.Get("user_id")

	summary, err := uc.userService.GetSummary(userID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetPointLog returns the customer's full ledger, newest first.
func (uc *UserController) GetPointLog(c *gin.Context) {
	userID, _ := c.Get("user_id")

	entries, err := uc.ledgerService.GetUserLog(userID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"point_logs": entries})
}

// GetTransactions returns the customer's purchase history.
func (uc *UserController) GetTransactions(c *gin.Context) {
	userID, _ := c.Get("user_id")

	transactions, err := uc.transactionService.GetUserTransactions(userID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// GetRewards lists the active catalog for customers.
func (uc *UserController) GetRewards(c *gin.Context) {
	rewards, err := uc.rewardService.ListRewards(true)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rewards": rewards})
}
