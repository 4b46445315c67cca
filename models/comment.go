package models

import (
	"time"

	"github.com/google/uuid"
)

// Reaction values shared by incidents and comments.
const (
	ReactionLike   = "like"
	ReactionUnlike = "unlike"
)

// IncidentComment is a user's comment on an incident.
type IncidentComment struct {
	Model
	IncidentID uuid.UUID `json:"incident_id" gorm:"type:uuid;not null;index"`
	UserID     uint      `json:"user_id" gorm:"not null"`
	User       *User     `json:"-" gorm:"foreignKey:UserID"`
	Body       string    `json:"body" gorm:"type:varchar(2000);not null"`
}

// IncidentReaction records one user's like/unlike on an incident. The
// composite unique index keeps it to one row per (incident, user).
type IncidentReaction struct {
	Model
	IncidentID uuid.UUID `json:"incident_id" gorm:"type:uuid;not null;uniqueIndex:idx_incident_reaction"`
	UserID     uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_incident_reaction"`
	Value      string    `json:"value" gorm:"type:varchar(10);not null"`
}

// CommentReaction records one user's like/unlike on a comment.
type CommentReaction struct {
	Model
	CommentID uint   `json:"comment_id" gorm:"not null;uniqueIndex:idx_comment_reaction"`
	UserID    uint   `json:"user_id" gorm:"not null;uniqueIndex:idx_comment_reaction"`
	Value     string `json:"value" gorm:"type:varchar(10);not null"`
}

type CommentCreateRequest struct {
	Body string `json:"body" binding:"required,max=2000" conform:"trim"`
}

type ReactionUpdate struct {
	Action string `json:"action" binding:"required,oneof=like unlike clear" conform:"trim,lower"`
}

// ReactionStatus summarizes reactions on a target for the caller.
type ReactionStatus struct {
	LikesCount     int64   `json:"likes_count"`
	UnlikesCount   int64   `json:"unlikes_count"`
	ViewerReaction *string `json:"viewer_reaction"`
}

// CommentResponse pairs a comment with its author and reaction counts.
type CommentResponse struct {
	ID        uint           `json:"id"`
	Body      string         `json:"body"`
	CreatedAt time.Time      `json:"created_at"`
	User      UserSummary    `json:"user"`
	Reactions ReactionStatus `json:"reactions"`
}
