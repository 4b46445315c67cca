package services

import (
	"time"

	"github.com/techagentng/civicsafety/db"
	"github.com/techagentng/civicsafety/models"
)

type UserService interface {
	GetOverview(user *models.User) (*models.UserOverview, error)
	GetRewardSummary(user *models.User) (*models.UserRewardSummary, error)
}

type userService struct {
	incidentRepo     db.IncidentRepository
	engagementRepo   db.EngagementRepository
	notificationRepo db.NotificationRepository
}

func NewUserService(
	incidentRepo db.IncidentRepository,
	engagementRepo db.EngagementRepository,
	notificationRepo db.NotificationRepository,
) UserService {
	return &userService{
		incidentRepo:     incidentRepo,
		engagementRepo:   engagementRepo,
		notificationRepo: notificationRepo,
	}
}

const recentPostsLimit = 5

// GetOverview assembles the signed-in user's dashboard: profile, reward
// standing, recent posts with like counts and the unread badge.
func (s *userService) GetOverview(user *models.User) (*models.UserOverview, error) {
	rewards, err := s.GetRewardSummary(user)
	if err != nil {
		return nil, err
	}

	recent, err := s.incidentRepo.ListIncidentsByReporter(user.ID, recentPostsLimit)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	posts := make([]models.UserPostBrief, 0, len(recent))
	for _, incident := range recent {
		likes, err := s.engagementRepo.CountLikesForIncident(incident.ID)
		if err != nil {
			return nil, err
		}
		posts = append(posts, models.UserPostBrief{
			ID:                  incident.ID.String(),
			Category:            incident.Category,
			Description:         incident.Description,
			Status:              incident.Status,
			CreatedAt:           incident.CreatedAt,
			LikesCount:          likes,
			RewardPointsAwarded: incident.RewardPointsAwarded,
			NeedsFollowUp:       NeedsFollowUp(&incident, now),
		})
	}

	unread, err := s.notificationRepo.CountUnread(user.ID)
	if err != nil {
		return nil, err
	}

	return &models.UserOverview{
		Profile: models.UserResponse{
			ID:             user.ID,
			Email:          user.Email,
			DisplayName:    user.DisplayName,
			Role:           user.Role,
			RewardPoints:   user.RewardPoints,
			MembershipTier: DetermineMembershipTier(user.RewardPoints),
		},
		Rewards:             *rewards,
		RecentPosts:         posts,
		UnreadNotifications: unread,
	}, nil
}

func (s *userService) GetRewardSummary(user *models.User) (*models.UserRewardSummary, error) {
	totalPosts, err := s.incidentRepo.CountIncidentsByReporter(user.ID, nil)
	if err != nil {
		return nil, err
	}
	confirmed, err := s.incidentRepo.CountIncidentsByReporter(user.ID, []string{
		models.StatusCommunityConfirm,
		models.StatusOfficialConfirmed,
		models.StatusResolved,
	})
	if err != nil {
		return nil, err
	}
	likes, err := s.engagementRepo.CountLikesReceivedByReporter(user.ID)
	if err != nil {
		return nil, err
	}

	progress := MembershipTierProgress(user.RewardPoints)
	return &models.UserRewardSummary{
		TotalPosts:     totalPosts,
		ConfirmedPosts: confirmed,
		TotalLikes:     likes,
		Points:         user.RewardPoints,
		MembershipTier: progress.Current,
		NextTier:       progress.Next,
		PointsToNext:   progress.PointsToNext,
	}, nil
}
