package models

import "time"

// Role request statuses.
const (
	RoleRequestPending  = "pending"
	RoleRequestApproved = "approved"
	RoleRequestDenied   = "denied"
)

var ValidRoleRequestStatuses = map[string]bool{
	RoleRequestPending:  true,
	RoleRequestApproved: true,
	RoleRequestDenied:   true,
}

// RoleRequest parks a sensitive role elevation behind review. A user
// holds at most one live pending request: repeat submissions refresh it
// in place instead of growing a queue.
type RoleRequest struct {
	Model
	UserID        uint       `json:"user_id" gorm:"not null;index"`
	User          *User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	RequestedRole string     `json:"requested_role" gorm:"type:varchar(25);not null"`
	Status        string     `json:"status" gorm:"type:varchar(25);default:pending;index"`
	Justification string     `json:"justification" gorm:"type:varchar(500)"`
	ReviewerID    *uint      `json:"reviewer_id"`
	Reviewer      *User      `json:"reviewer,omitempty" gorm:"foreignKey:ReviewerID"`
	ReviewerNotes string     `json:"reviewer_notes" gorm:"type:varchar(500)"`
	DecidedAt     *time.Time `json:"decided_at"`
}

type RoleRequestCreate struct {
	Role          string `json:"role" binding:"required" conform:"trim,lower"`
	Justification string `json:"justification" binding:"max=500" conform:"trim"`
}

type RoleRequestDecision struct {
	Action string `json:"action" binding:"required,oneof=approve deny" conform:"trim,lower"`
	Role   string `json:"role" conform:"trim,lower"`
	Notes  string `json:"notes" binding:"max=500" conform:"trim"`
}
