package models

import (
	"time"
)

type RedemptionStatus string

const (
	RedemptionPending   RedemptionStatus = "PENDING"
	RedemptionVerified  RedemptionStatus = "VERIFIED"
	RedemptionCompleted RedemptionStatus = "COMPLETED"
	RedemptionCancelled RedemptionStatus = "CANCELLED"
)

// IsTerminal reports whether no further transition is allowed.
func (s RedemptionStatus) IsTerminal() bool {
	return s == RedemptionCompleted || s == RedemptionCancelled
}

// RewardRedemption tracks one customer claim on a reward through
// PENDING -> VERIFIED -> COMPLETED, or to CANCELLED from either non-terminal
// state. PointsCost is snapshotted from the reward at request time and never
// re-read, so later catalog edits cannot change what an open request costs.
// Points are deducted only at the COMPLETED transition.
type RewardRedemption struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	UserID      uint             `json:"user_id" gorm:"not null;index"`
	User        User             `json:"user,omitempty"`
	RewardID    uint             `json:"reward_id" gorm:"not null;index"`
	Reward      Reward           `json:"reward,omitempty"`
	Code        string           `json:"code" gorm:"not null;index"`
	PointsCost  int              `json:"points_cost" gorm:"not null"`
	Status      RedemptionStatus `json:"status" gorm:"default:'PENDING';index"`
	VerifiedAt  *time.Time       `json:"verified_at"`
	CompletedAt *time.Time       `json:"completed_at"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
