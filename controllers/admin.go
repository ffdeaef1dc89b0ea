package controllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charlotte58cafe/loyalty-be/config"
	"github.com/charlotte58cafe/loyalty-be/services"
	"github.com/charlotte58cafe/loyalty-be/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminController struct {
	rewardService *services.RewardService
	userService   *services.UserService
	configService *services.SystemConfigService
}

func NewAdminController() *AdminController {
	return &AdminController{
		rewardService: services.NewRewardService(),
		userService:   services.NewUserService(),
		configService: services.NewSystemConfigService(),
	}
}

// GetUsers lists customers with lifetime spending, optionally filtered by a
// phone number fragment.
func (ac *AdminController) GetUsers(c *gin.Context) {
	search := c.Query("search")

	users, err := ac.userService.ListUsers(search)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

type CreateRewardRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	PointsCost  *int   `json:"points_cost" binding:"required"`
	IsActive    *bool  `json:"is_active"`
}

func (ac *AdminController) CreateReward(c *gin.Context) {
	var req CreateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	reward, err := ac.rewardService.CreateReward(req.Name, req.Description, req.ImageURL, *req.PointsCost, isActive)
	if err != nil {
		respondError(c, err)
		return
	}

	if config.WSHub != nil {
		config.WSHub.BroadcastEvent(websocket.EventRewardUpdated, websocket.RewardEvent{
			RewardID:   reward.ID,
			RewardName: reward.Name,
			Action:     "created",
		})
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Reward created",
		"reward":  reward,
	})
}

func (ac *AdminController) GetRewards(c *gin.Context) {
	rewards, err := ac.rewardService.ListRewards(false)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rewards": rewards})
}

type UpdateRewardRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	PointsCost  *int    `json:"points_cost"`
	IsActive    *bool   `json:"is_active"`
}

func (ac *AdminController) UpdateReward(c *gin.Context) {
	rewardID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reward id"})
		return
	}

	var req UpdateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reward, err := ac.rewardService.UpdateReward(uint(rewardID), services.RewardUpdate{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		PointsCost:  req.PointsCost,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if config.WSHub != nil {
		config.WSHub.BroadcastEvent(websocket.EventRewardUpdated, websocket.RewardEvent{
			RewardID:   reward.ID,
			RewardName: reward.Name,
			Action:     "updated",
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reward updated",
		"reward":  reward,
	})
}

func (ac *AdminController) DeleteReward(c *gin.Context) {
	rewardID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reward id"})
		return
	}

	if err := ac.rewardService.DeleteReward(uint(rewardID)); err != nil {
		respondError(c, err)
		return
	}

	if config.WSHub != nil {
		config.WSHub.BroadcastEvent(websocket.EventRewardUpdated, websocket.RewardEvent{
			RewardID: uint(rewardID),
			Action:   "deleted",
		})
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reward deleted"})
}

// UploadRewardImage stores an uploaded catalog image and attaches its URL to
// the reward.
func (ac *AdminController) UploadRewardImage(c *gin.Context) {
	rewardID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reward id"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file required"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".webp" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported image format"})
		return
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads/rewards"
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload directory"})
		return
	}

	filename := fmt.Sprintf("%s_%d%s", uuid.New().String(), rewardID, ext)
	if err := c.SaveUploadedFile(file, filepath.Join(uploadDir, filename)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	imageURL := "/uploads/rewards/" + filename
	reward, err := ac.rewardService.UpdateReward(uint(rewardID), services.RewardUpdate{ImageURL: &imageURL})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Image uploaded",
		"reward":  reward,
	})
}

// GetPointsRate returns the current conversion rate.
func (ac *AdminController) GetPointsRate(c *gin.Context) {
	rate, err := ac.configService.GetPointsRate()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rate": rate})
}

type SetPointsRateRequest struct {
	Rate *int `json:"rate" binding:"required"`
}

// SetPointsRate updates the conversion rate.
func (ac *AdminController) SetPointsRate(c *gin.Context) {
	var req SetPointsRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ac.configService.SetPointsRate(*req.Rate); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Points rate updated",
		"rate":    *req.Rate,
	})
}
