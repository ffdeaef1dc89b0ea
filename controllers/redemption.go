package controllers

import (
	"net/http"
	"strconv"

	"github.com/charlotte58cafe/loyalty-be/config"
	"github.com/charlotte58cafe/loyalty-be/models"
	"github.com/charlotte58cafe/loyalty-be/services"
	"github.com/charlotte58cafe/loyalty-be/websocket"
	"github.com/gin-gonic/gin"
)

type RedemptionController struct {
	redemptionService *services.RedemptionService
}

func NewRedemptionController() *RedemptionController {
	return &RedemptionController{
		redemptionService: services.NewRedemptionService(),
	}
}

func broadcastRedemption(event string, r *models.RewardRedemption) {
	if config.WSHub == nil {
		return
	}
	config.WSHub.BroadcastEvent(event, websocket.RedemptionEvent{
		RedemptionID: r.ID,
		Code:         r.Code,
		RewardName:   r.Reward.Name,
		PhoneNumber:  r.User.PhoneNumber,
		PointsCost:   r.PointsCost,
		Status:       string(r.Status),
	})
}

// RequestRedemption lets an authenticated customer claim a reward and get a
// code to present to staff.
func (rc *RedemptionController) RequestRedemption(c *gin.Context) {
	userID, _ := c.Get("user_id")

	rewardID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reward id"})
		return
	}

	redemption, err := rc.redemptionService.RequestRedemption(userID.(uint), uint(rewardID))
	if err != nil {
		respondError(c, err)
		return
	}

	broadcastRedemption(websocket.EventRedemptionRequested, redemption)

	c.JSON(http.StatusCreated, gin.H{
		"code": redemption.Code,
		"redemption": gin.H{
			"code":        redemption.Code,
			"reward_name": redemption.Reward.Name,
			"reward_cost": redemption.PointsCost,
			"user_points": redemption.User.CurrentPoints,
			"created_at":  redemption.CreatedAt,
		},
	})
}

// CheckStatus is the customer polling endpoint; it only ever reveals the
// caller's own redemptions.
func (rc *RedemptionController) CheckStatus(c *gin.Context) {
	userID, _ := c.Get("user_id")
	code := c.Param("code")

	redemption, err := rc.redemptionService.GetByCode(code, userID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"status":      redemption.Status,
		"reward_name": redemption.Reward.Name,
		"points_used": redemption.PointsCost,
		"created_at":  redemption.CreatedAt,
	}
	if redemption.Status == models.RedemptionCompleted {
		resp["remaining_points"] = redemption.User.CurrentPoints
	}

	c.JSON(http.StatusOK, resp)
}

// GetHistory returns the customer's redemption history with per-status
// counts and total points spent.
func (rc *RedemptionController) GetHistory(c *gin.Context) {
	userID, _ := c.Get("user_id")

	redemptions, stats, err := rc.redemptionService.HistoryForUser(userID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"redemptions": redemptions,
		"stats":       stats,
	})
}

// ListRedemptions is the staff queue view, filtered by status.
func (rc *RedemptionController) ListRedemptions(c *gin.Context) {
	status := c.DefaultQuery("status", string(models.RedemptionPending))

	redemptions, err := rc.redemptionService.ListByStatus(status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"redemptions": redemptions})
}

type VerifyRedemptionRequest struct {
	Code string `json:"code" binding:"required"`
}

// VerifyRedemption is the first staff step: the customer reads out their
// code and the request moves to VERIFIED.
func (rc *RedemptionController) VerifyRedemption(c *gin.Context) {
	var req VerifyRedemptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	redemption, err := rc.redemptionService.Verify(req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	broadcastRedemption(websocket.EventRedemptionVerified, redemption)

	c.JSON(http.StatusOK, gin.H{
		"message":    "Redemption verified, confirm to deduct points",
		"redemption": redemption,
	})
}

// CompleteRedemption is the second staff step; it deducts the points.
func (rc *RedemptionController) CompleteRedemption(c *gin.Context) {
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid redemption id"})
		return
	}

	result, err := rc.redemptionService.Complete(uint(requestID))
	if err != nil {
		respondError(c, err)
		return
	}

	result.Redemption.User = *result.User
	broadcastRedemption(websocket.EventRedemptionCompleted, result.Redemption)

	c.JSON(http.StatusOK, gin.H{
		"message":    "Redemption completed",
		"redemption": result.Redemption,
		"user":       result.User,
	})
}

// CancelRedemption voids a non-terminal request; no points move.
func (rc *RedemptionController) CancelRedemption(c *gin.Context) {
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid redemption id"})
		return
	}

	redemption, err := rc.redemptionService.Cancel(uint(requestID))
	if err != nil {
		respondError(c, err)
		return
	}

	broadcastRedemption(websocket.EventRedemptionCancelled, redemption)

	c.JSON(http.StatusOK, gin.H{
		"message":    "Redemption cancelled",
		"redemption": redemption,
	})
}
