package services

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/techagentng/civicsafety/db"
	apiError "github.com/techagentng/civicsafety/errors"
	"github.com/techagentng/civicsafety/models"
)

type EngagementService interface {
	AddComment(incidentID uuid.UUID, user *models.User, req *models.CommentCreateRequest) (*models.CommentResponse, error)
	ListComments(incidentID uuid.UUID, viewer *models.User, limit int) ([]models.CommentResponse, error)
	ReactToIncident(incidentID uuid.UUID, user *models.User, update *models.ReactionUpdate) (*models.ReactionStatus, error)
	ReactToComment(commentID uint, user *models.User, update *models.ReactionUpdate) (*models.ReactionStatus, error)
}

type engagementService struct {
	engagementRepo db.EngagementRepository
	incidentRepo   db.IncidentRepository
}

func NewEngagementService(engagementRepo db.EngagementRepository, incidentRepo db.IncidentRepository) EngagementService {
	return &engagementService{
		engagementRepo: engagementRepo,
		incidentRepo:   incidentRepo,
	}
}

func (s *engagementService) AddComment(incidentID uuid.UUID, user *models.User, req *models.CommentCreateRequest) (*models.CommentResponse, error) {
	if err := models.NormalizeStrings(req); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}
	if _, err := s.incidentRepo.GetIncidentByID(incidentID, canSeeHidden(user)); err != nil {
		return nil, apiError.New("incident not found", http.StatusNotFound)
	}

	comment := &models.IncidentComment{
		IncidentID: incidentID,
		UserID:     user.ID,
		Body:       req.Body,
	}
	if err := s.engagementRepo.CreateComment(comment); err != nil {
		return nil, err
	}
	return &models.CommentResponse{
		ID:        comment.ID,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
		User:      user.Summary(),
	}, nil
}

func (s *engagementService) ListComments(incidentID uuid.UUID, viewer *models.User, limit int) ([]models.CommentResponse, error) {
	if _, err := s.incidentRepo.GetIncidentByID(incidentID, canSeeHidden(viewer)); err != nil {
		return nil, apiError.New("incident not found", http.StatusNotFound)
	}

	comments, err := s.engagementRepo.ListComments(incidentID, limit)
	if err != nil {
		return nil, err
	}

	var viewerID uint
	if viewer != nil {
		viewerID = viewer.ID
	}
	responses := make([]models.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		status, err := s.engagementRepo.CommentReactionStatus(comment.ID, viewerID)
		if err != nil {
			return nil, err
		}
		resp := models.CommentResponse{
			ID:        comment.ID,
			Body:      comment.Body,
			CreatedAt: comment.CreatedAt,
			Reactions: *status,
		}
		if comment.User != nil {
			resp.User = comment.User.Summary()
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// ReactToIncident upserts or clears the caller's reaction and returns
// the refreshed tally.
func (s *engagementService) ReactToIncident(incidentID uuid.UUID, user *models.User, update *models.ReactionUpdate) (*models.ReactionStatus, error) {
	if err := models.NormalizeStrings(update); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}
	if _, err := s.incidentRepo.GetIncidentByID(incidentID, canSeeHidden(user)); err != nil {
		return nil, apiError.New("incident not found", http.StatusNotFound)
	}

	switch update.Action {
	case models.ReactionLike, models.ReactionUnlike:
		if err := s.engagementRepo.SetIncidentReaction(incidentID, user.ID, update.Action); err != nil {
			return nil, err
		}
	case "clear":
		if err := s.engagementRepo.ClearIncidentReaction(incidentID, user.ID); err != nil {
			return nil, err
		}
	default:
		return nil, apiError.Newf(http.StatusBadRequest, "unsupported action %q", update.Action)
	}
	return s.engagementRepo.IncidentReactionStatus(incidentID, user.ID)
}

func (s *engagementService) ReactToComment(commentID uint, user *models.User, update *models.ReactionUpdate) (*models.ReactionStatus, error) {
	if err := models.NormalizeStrings(update); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}
	if _, err := s.engagementRepo.GetCommentByID(commentID); err != nil {
		return nil, apiError.New("comment not found", http.StatusNotFound)
	}

	switch update.Action {
	case models.ReactionLike, models.ReactionUnlike:
		if err := s.engagementRepo.SetCommentReaction(commentID, user.ID, update.Action); err != nil {
			return nil, err
		}
	case "clear":
		if err := s.engagementRepo.ClearCommentReaction(commentID, user.ID); err != nil {
			return nil, err
		}
	default:
		return nil, apiError.Newf(http.StatusBadRequest, "unsupported action %q", update.Action)
	}
	return s.engagementRepo.CommentReactionStatus(commentID, user.ID)
}
