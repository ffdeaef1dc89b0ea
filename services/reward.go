package services

import (
	"errors"

	"github.com/charlotte58cafe/loyalty-be/config"
	"github.com/charlotte58cafe/loyalty-be/models"
	"gorm.io/gorm"
)

type RewardService struct{}

func NewRewardService() *RewardService {
	return &RewardService{}
}

func (s *RewardService) CreateReward(name, description, imageURL string, pointsCost int, isActive bool) (*models.Reward, error) {
	if pointsCost < 0 {
		return nil, ErrInvalidAmount
	}

	reward := models.Reward{
		Name:        name,
		Description: description,
		ImageURL:    imageURL,
		PointsCost:  pointsCost,
		IsActive:    isActive,
	}
	if err := config.DB.Create(&reward).Error; err != nil {
		return nil, err
	}
	return &reward, nil
}

func (s *RewardService) GetReward(rewardID uint) (*models.Reward, error) {
	var reward models.Reward
	err := config.DB.First(&reward, rewardID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRewardNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reward, nil
}

// RewardUpdate carries the editable fields; nil means leave unchanged.
type RewardUpdate struct {
	Name        *string
	Description *string
	ImageURL    *string
	PointsCost  *int
	IsActive    *bool
}

// UpdateReward edits the catalog entry. Open redemption requests are not
// affected; they carry their own cost snapshot.
func (s *RewardService) UpdateReward(rewardID uint, update RewardUpdate) (*models.Reward, error) {
	reward, err := s.GetReward(rewardID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		reward.Name = *update.Name
	}
	if update.Description != nil {
		reward.Description = *update.Description
	}
	if update.ImageURL != nil {
		reward.ImageURL = *update.ImageURL
	}
	if update.PointsCost != nil {
		if *update.PointsCost < 0 {
			return nil, ErrInvalidAmount
		}
		reward.PointsCost = *update.PointsCost
	}
	if update.IsActive != nil {
		reward.IsActive = *update.IsActive
	}

	if err := config.DB.Save(reward).Error; err != nil {
		return nil, err
	}
	return reward, nil
}

// DeleteReward soft-deletes the catalog entry. Requests referencing it keep
// working off their snapshot.
func (s *RewardService) DeleteReward(rewardID uint) error {
	res := config.DB.Delete(&models.Reward{}, rewardID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRewardNotFound
	}
	return nil
}

// ListRewards returns the catalog newest first, optionally only active
// entries (the customer-facing view).
func (s *RewardService) ListRewards(activeOnly bool) ([]models.Reward, error) {
	query := config.DB.Order("created_at DESC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var rewards []models.Reward
	err := query.Find(&rewards).Error
	return rewards, err
}
