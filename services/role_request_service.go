package services

import (
	"net/http"

	"github.com/techagentng/civicsafety/db"
	apiError "github.com/techagentng/civicsafety/errors"
	"github.com/techagentng/civicsafety/models"
)

type RoleRequestService interface {
	QueueRequest(user *models.User, req *models.RoleRequestCreate) (*models.RoleRequest, bool, error)
	ListRequests(actor *models.User, statusFilter string, limit int) ([]models.RoleRequest, error)
	Resolve(actor *models.User, requestID uint, decision *models.RoleRequestDecision) (*models.RoleRequest, error)
}

type roleRequestService struct {
	roleRequestRepo db.RoleRequestRepository
	authRepo        db.AuthRepository
}

func NewRoleRequestService(roleRequestRepo db.RoleRequestRepository, authRepo db.AuthRepository) RoleRequestService {
	return &roleRequestService{
		roleRequestRepo: roleRequestRepo,
		authRepo:        authRepo,
	}
}

// QueueRequest canonicalizes the requested role and either grants it
// immediately (resident) or queues a pending request. The boolean
// reports whether the role was applied on the spot.
func (s *roleRequestService) QueueRequest(user *models.User, req *models.RoleRequestCreate) (*models.RoleRequest, bool, error) {
	if err := models.NormalizeStrings(req); err != nil {
		return nil, false, apiError.New(err.Error(), http.StatusBadRequest)
	}

	role, ok := models.CanonicalRole(req.Role)
	if !ok {
		return nil, false, apiError.Newf(http.StatusBadRequest, "unknown role %q", req.Role)
	}
	if role == models.RoleAdmin {
		return nil, false, apiError.New("admin role cannot be requested", http.StatusForbidden)
	}
	if role == user.Role {
		return nil, false, apiError.Newf(http.StatusConflict, "you already hold the %s role", role)
	}

	if !models.RequiresManualApproval(role) {
		if err := s.authRepo.UpdateUserRole(user.ID, role); err != nil {
			return nil, false, err
		}
		user.Role = role
		return nil, true, nil
	}

	request, err := s.roleRequestRepo.QueuePendingRequest(user.ID, role, req.Justification)
	if err != nil {
		return nil, false, err
	}
	return request, false, nil
}

func (s *roleRequestService) ListRequests(actor *models.User, statusFilter string, limit int) ([]models.RoleRequest, error) {
	if actor == nil || !models.IsRoleRequestReviewerRole(actor.Role) {
		return nil, apiError.ErrForbidden
	}
	if statusFilter != "" && !models.ValidRoleRequestStatuses[statusFilter] {
		return nil, apiError.Newf(http.StatusBadRequest, "unsupported status %q", statusFilter)
	}
	return s.roleRequestRepo.ListRequests(statusFilter, limit)
}

// Resolve approves or denies a pending request. Approval assigns the
// requested role (or the reviewer's override) in the same transaction
// that closes the request.
func (s *roleRequestService) Resolve(actor *models.User, requestID uint, decision *models.RoleRequestDecision) (*models.RoleRequest, error) {
	if actor == nil || !models.IsRoleRequestReviewerRole(actor.Role) {
		return nil, apiError.ErrForbidden
	}
	if err := models.NormalizeStrings(decision); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	request, err := s.roleRequestRepo.GetRequestByID(requestID)
	if err != nil {
		return nil, apiError.New("role request not found", http.StatusNotFound)
	}

	switch decision.Action {
	case "approve":
		assignRole := request.RequestedRole
		if decision.Role != "" {
			override, ok := models.CanonicalRole(decision.Role)
			if !ok || override == models.RoleAdmin {
				return nil, apiError.Newf(http.StatusBadRequest, "cannot assign role %q", decision.Role)
			}
			assignRole = override
		}
		return s.roleRequestRepo.ResolveRequest(requestID, models.RoleRequestApproved, actor.ID, decision.Notes, assignRole)
	case "deny":
		return s.roleRequestRepo.ResolveRequest(requestID, models.RoleRequestDenied, actor.ID, decision.Notes, "")
	default:
		return nil, apiError.Newf(http.StatusBadRequest, "unsupported action %q", decision.Action)
	}
}
