package services

import (
	"errors"
	"time"

	"github.com/charlotte58cafe/loyalty-be/config"
	"github.com/charlotte58cafe/loyalty-be/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UserService struct{}

func NewUserService() *UserService {
	return &UserService{}
}

func (s *UserService) GetUser(userID uint) (*models.User, error) {
	var user models.User
	err := config.DB.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UserSummary is the customer dashboard projection.
type UserSummary struct {
	CurrentPoints     int             `json:"current_points"`
	TotalSpending     decimal.Decimal `json:"total_spending"`
	SpendingThisMonth decimal.Decimal `json:"spending_this_month"`
}

func (s *UserService) GetSummary(userID uint) (*UserSummary, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	var total decimal.NullDecimal
	err = config.DB.Model(&models.Transaction{}).
		Where("user_id = ?", userID).
		Select("SUM(amount)").
		Scan(&total).Error
	if err != nil {
		return nil, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	var thisMonth decimal.NullDecimal
	err = config.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND transaction_date >= ? AND transaction_date < ?",
			userID, monthStart, monthEnd).
		Select("SUM(amount)").
		Scan(&thisMonth).Error
	if err != nil {
		return nil, err
	}

	summary := &UserSummary{
		CurrentPoints:     user.CurrentPoints,
		TotalSpending:     decimal.Zero,
		SpendingThisMonth: decimal.Zero,
	}
	if total.Valid {
		summary.TotalSpending = total.Decimal
	}
	if thisMonth.Valid {
		summary.SpendingThisMonth = thisMonth.Decimal
	}
	return summary, nil
}

// UserWithSpending is the admin customer listing row.
type UserWithSpending struct {
	ID            uint            `json:"id"`
	PhoneNumber   string          `json:"phone_number"`
	CurrentPoints int             `json:"current_points"`
	TotalSpending decimal.Decimal `json:"total_spending"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ListUsers returns customers newest first, optionally filtered by a phone
// number fragment, each with their lifetime spending.
func (s *UserService) ListUsers(search string) ([]UserWithSpending, error) {
	query := config.DB.Preload("Transactions").Order("created_at DESC")
	if search != "" {
		query = query.Where("phone_number LIKE ?", "%"+search+"%")
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}

	rows := make([]UserWithSpending, 0, len(users))
	for _, user := range users {
		total := decimal.Zero
		for _, t := range user.Transactions {
			total = total.Add(t.Amount)
		}
		rows = append(rows, UserWithSpending{
			ID:            user.ID,
			PhoneNumber:   user.PhoneNumber,
			CurrentPoints: user.CurrentPoints,
			TotalSpending: total,
			CreatedAt:     user.CreatedAt,
		})
	}
	return rows, nil
}
