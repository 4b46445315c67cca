package models

import (
	"errors"
	"time"

	goval "github.com/go-passwd/validator"
	"github.com/leebenson/conform"
	"golang.org/x/crypto/bcrypt"
)

// User represents a registered member of the community.
type User struct {
	Model
	Email          string `json:"email" gorm:"uniqueIndex;not null" binding:"required,email"`
	DisplayName    string `json:"display_name" conform:"trim"`
	HashedPassword string `json:"-"`
	Role           string `json:"role" gorm:"default:resident"`
	RewardPoints   int    `json:"reward_points" gorm:"default:0"`
	AuthProvider   string `json:"-" gorm:"default:password"`
}

// VerifyPassword compares the supplied password with the stored hash.
func (u *User) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
}

// ValidatePassword enforces the signup password policy.
func ValidatePassword(password string) error {
	passwordValidator := goval.New(
		goval.MinLength(8, errors.New("password cannot be less than 8 characters")),
		goval.MaxLength(72, errors.New("password cannot be more than 72 characters")),
	)
	return passwordValidator.Validate(password)
}

// NormalizeStrings applies the conform trimming rules declared on a
// request struct's fields.
func NormalizeStrings(data interface{}) error {
	return conform.Strings(data)
}

type SignupRequest struct {
	Email         string `json:"email" binding:"required,email" conform:"trim,lower"`
	Password      string `json:"password" binding:"required"`
	DisplayName   string `json:"display_name" binding:"max=100" conform:"trim"`
	RequestedRole string `json:"requested_role" conform:"trim,lower"`
	Justification string `json:"justification" binding:"max=500" conform:"trim"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" conform:"trim,lower"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID             uint   `json:"id"`
	Email          string `json:"email"`
	DisplayName    string `json:"display_name"`
	Role           string `json:"role"`
	RewardPoints   int    `json:"reward_points"`
	MembershipTier string `json:"membership_tier"`
}

type LoginResponse struct {
	UserResponse
	AccessToken string `json:"access_token"`
}

// UserSummary is the embedded author shape on comments, role requests
// and ledger entries.
type UserSummary struct {
	ID          uint   `json:"id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, DisplayName: u.DisplayName, Role: u.Role}
}

// UserRewardSummary aggregates the gamification view of one user.
type UserRewardSummary struct {
	TotalPosts     int64   `json:"total_posts"`
	ConfirmedPosts int64   `json:"confirmed_posts"`
	TotalLikes     int64   `json:"total_likes"`
	Points         int     `json:"points"`
	MembershipTier string  `json:"membership_tier"`
	NextTier       *string `json:"next_tier"`
	PointsToNext   *int    `json:"points_to_next"`
}

// UserOverview is the /users/me/overview payload.
type UserOverview struct {
	Profile             UserResponse      `json:"profile"`
	Rewards             UserRewardSummary `json:"rewards"`
	RecentPosts         []UserPostBrief   `json:"recent_posts"`
	UnreadNotifications int64             `json:"unread_notifications"`
}

type UserPostBrief struct {
	ID                  string    `json:"id"`
	Category            string    `json:"category"`
	Description         string    `json:"description"`
	Status              string    `json:"status"`
	CreatedAt           time.Time `json:"created_at"`
	LikesCount          int64     `json:"likes_count"`
	RewardPointsAwarded int       `json:"reward_points_awarded"`
	NeedsFollowUp       bool      `json:"needs_follow_up"`
}
