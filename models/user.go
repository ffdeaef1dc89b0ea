package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StaffRole string

const (
	RoleAdmin StaffRole = "admin"
	RoleStaff StaffRole = "staff"
)

// User is a café customer. Accounts are created on the first successful OTP
// verification; there is no password. CurrentPoints is mutated exclusively
// through the ledger service.
type User struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	PhoneNumber   string         `json:"phone_number" gorm:"uniqueIndex;not null"`
	CurrentPoints int            `json:"current_points" gorm:"not null;default:0"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Transactions []Transaction      `json:"transactions,omitempty"`
	PointLogs    []PointLog         `json:"point_logs,omitempty"`
	Redemptions  []RewardRedemption `json:"redemptions,omitempty"`
}

// Staff are café employees operating the admin surfaces. Staff record
// purchases and process redemptions; admins additionally manage the reward
// catalog, the points rate and customer listings.
type Staff struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"not null"`
	Name      string         `json:"name" gorm:"not null"`
	Role      StaffRole      `json:"role" gorm:"default:'staff'"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

type Reward struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description"`
	ImageURL    string         `json:"image_url"`
	PointsCost  int            `json:"points_cost" gorm:"not null"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// Transaction is the immutable record of a single purchase. It never carries
// the awarded points itself; those live in the point log.
type Transaction struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	UserID          uint            `json:"user_id" gorm:"not null;index"`
	User            User            `json:"user,omitempty"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	TransactionDate time.Time       `json:"transaction_date" gorm:"not null"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SystemConfig is a single-row-per-key configuration table.
type SystemConfig struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Key       string    `json:"key" gorm:"uniqueIndex;not null"`
	Value     string    `json:"value" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VerificationToken holds a one-time OTP sent to a phone number. Tokens are
// deleted on use and ignored past Expires.
type VerificationToken struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Identifier string    `json:"identifier" gorm:"not null;index"` // normalized phone number
	Token      string    `json:"-" gorm:"not null"`
	Expires    time.Time `json:"expires" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
}
