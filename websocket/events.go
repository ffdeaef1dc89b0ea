package websocket

// Event types for WebSocket messages
const (
	// Redemption events
	EventRedemptionRequested = "redemption:requested"
	EventRedemptionVerified  = "redemption:verified"
	EventRedemptionCompleted = "redemption:completed"
	EventRedemptionCancelled = "redemption:cancelled"

	// Points events
	EventPointsAwarded = "points:awarded"

	// Catalog events
	EventRewardUpdated = "reward:updated"
)

// RedemptionEvent notifies the staff dashboard of a redemption transition.
type RedemptionEvent struct {
	RedemptionID uint   `json:"redemption_id"`
	Code         string `json:"code"`
	RewardName   string `json:"reward_name"`
	PhoneNumber  string `json:"phone_number"`
	PointsCost   int    `json:"points_cost"`
	Status       string `json:"status"`
}

// PointsEvent notifies the dashboard of an earn.
type PointsEvent struct {
	UserID        uint   `json:"user_id"`
	PhoneNumber   string `json:"phone_number"`
	PointsAwarded int    `json:"points_awarded"`
	NewBalance    int    `json:"new_balance"`
}

// RewardEvent signals a catalog change.
type RewardEvent struct {
	RewardID   uint   `json:"reward_id"`
	RewardName string `json:"reward_name"`
	Action     string `json:"action"` // created, updated, deleted
}
