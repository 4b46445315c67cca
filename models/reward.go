package models

// Ledger entry sources.
const (
	SourceStatusProgress   = "status-progress"
	SourceRedemption       = "redemption"
	SourceRedemptionRefund = "redemption-refund"
	SourceAdminAdjustment  = "admin-adjustment"
	SourceBalanceForward   = "balance-forward"
)

// Ledger entry statuses. Only redemptions move through pending; every
// other source posts terminally.
const (
	EntryStatusPosted    = "posted"
	EntryStatusPending   = "pending"
	EntryStatusFulfilled = "fulfilled"
	EntryStatusCancelled = "cancelled"
)

// RewardLedgerEntry is an append-only signed point delta. Entries are
// never mutated for balance purposes: cancellation posts a reversing
// entry, so replaying all deltas in order reproduces the user's
// reward_points exactly.
type RewardLedgerEntry struct {
	Model
	UserID      uint   `json:"user_id" gorm:"not null;index"`
	User        *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Delta       int    `json:"delta" gorm:"not null"`
	Source      string `json:"source" gorm:"type:varchar(50);index"`
	Description string `json:"description" gorm:"type:varchar(255)"`
	PartnerID   string `json:"partner_id" gorm:"type:varchar(50)"`
	PartnerName string `json:"partner_name" gorm:"type:varchar(100)"`
	Status      string `json:"status" gorm:"type:varchar(25);default:posted;index"`
}

// RewardPartner is a catalog record (injected configuration, not a
// database table) describing a merchant that accepts redemptions.
type RewardPartner struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PointsCost  int    `json:"points_cost"`
	Description string `json:"description"`
}

type RedemptionRequest struct {
	PartnerID string `json:"partner_id" binding:"required" conform:"trim"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes" binding:"max=200" conform:"trim"`
}

type RedemptionDecision struct {
	Action string `json:"action" binding:"required,oneof=fulfill cancel" conform:"trim,lower"`
	Note   string `json:"note" binding:"max=200" conform:"trim"`
}

type AdminAdjustmentRequest struct {
	UserID      uint   `json:"user_id" binding:"required"`
	Delta       int    `json:"delta" binding:"required"`
	Description string `json:"description" binding:"required,max=255" conform:"trim"`
}

// TierProgress reports the current membership tier and the gap to the
// next one. Next fields are nil at the top of the ladder.
type TierProgress struct {
	Current          string  `json:"current"`
	CurrentThreshold int     `json:"current_threshold"`
	Next             *string `json:"next"`
	NextThreshold    *int    `json:"next_threshold"`
	PointsToNext     *int    `json:"points_to_next"`
}
