package services

import (
	"errors"
	"strconv"

	"github.com/charlotte58cafe/loyalty-be/config"
	"github.com/charlotte58cafe/loyalty-be/models"
	"gorm.io/gorm"
)

const (
	// PointsRateKey is the SystemConfig key holding how many points one
	// currency unit earns.
	PointsRateKey = "POINTS_RATE"

	// DefaultPointsRate applies when no rate has ever been configured.
	DefaultPointsRate = 1

	// MaxPointsRate caps admin input so a typo cannot award absurd volumes.
	MaxPointsRate = 1000
)

type SystemConfigService struct{}

func NewSystemConfigService() *SystemConfigService {
	return &SystemConfigService{}
}

// GetPointsRate returns the configured conversion rate, or DefaultPointsRate
// when none is stored. A stored value that does not parse to an integer in
// [0, MaxPointsRate] fails closed with ErrInvalidRateConfig instead of
// silently falling back.
func (s *SystemConfigService) GetPointsRate() (int, error) {
	return getPointsRateTx(config.DB)
}

func getPointsRateTx(tx *gorm.DB) (int, error) {
	var cfg models.SystemConfig
	err := tx.Where("key = ?", PointsRateKey).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DefaultPointsRate, nil
	}
	if err != nil {
		return 0, err
	}

	rate, parseErr := strconv.Atoi(cfg.Value)
	if parseErr != nil || rate < 0 || rate > MaxPointsRate {
		return 0, ErrInvalidRateConfig
	}
	return rate, nil
}

// SetPointsRate validates and upserts the conversion rate.
func (s *SystemConfigService) SetPointsRate(rate int) error {
	if rate < 0 || rate > MaxPointsRate {
		return ErrInvalidRate
	}

	var cfg models.SystemConfig
	err := config.DB.Where("key = ?", PointsRateKey).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = models.SystemConfig{
			Key:   PointsRateKey,
			Value: strconv.Itoa(rate),
		}
		return config.DB.Create(&cfg).Error
	}
	if err != nil {
		return err
	}

	cfg.Value = strconv.Itoa(rate)
	return config.DB.Save(&cfg).Error
}
