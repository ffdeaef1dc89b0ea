package controllers

import (
	"net/http"

	"github.com/charlotte58cafe/loyalty-be/config"
	"github.com/charlotte58cafe/loyalty-be/services"
	"github.com/charlotte58cafe/loyalty-be/websocket"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type TransactionController struct {
	transactionService *services.TransactionService
	userService        *services.UserService
}

func NewTransactionController() *TransactionController {
	return &TransactionController{
		transactionService: services.NewTransactionService(),
		userService:        services.NewUserService(),
	}
}

type RecordPurchaseRequest struct {
	UserID uint            `json:"user_id" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// RecordPurchase records a purchase and awards points at the current rate.
func (tc *TransactionController) RecordPurchase(c *gin.Context) {
	var req RecordPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := tc.transactionService.RecordPurchase(req.UserID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	if config.WSHub != nil && result.PointsAwarded > 0 {
		if user, userErr := tc.userService.GetUser(req.UserID); userErr == nil {
			config.WSHub.BroadcastEvent(websocket.EventPointsAwarded, websocket.PointsEvent{
				UserID:        user.ID,
				PhoneNumber:   user.PhoneNumber,
				PointsAwarded: result.PointsAwarded,
				NewBalance:    user.CurrentPoints,
			})
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Transaction recorded",
		"transaction":    result.Transaction,
		"points_awarded": result.PointsAwarded,
		"points_rate":    result.PointsRate,
	})
}
