package models

import (
	"time"
)

type PointAction string

const (
	ActionEarn   PointAction = "EARN"
	ActionRedeem PointAction = "REDEEM"
)

// PointLog is one line of the append-only points ledger. ChangeAmount is
// positive for EARN and negative for REDEEM; the sum of a user's entries must
// always equal that user's CurrentPoints. Entries are never updated or
// deleted.
type PointLog struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	UserID       uint        `json:"user_id" gorm:"not null;index"`
	User         User        `json:"-"`
	ChangeAmount int         `json:"change_amount" gorm:"not null"`
	ActionType   PointAction `json:"action_type" gorm:"not null"`
	CreatedAt    time.Time   `json:"created_at"`
}

func (PointLog) TableName() string {
	return "point_logs"
}
