package services

import (
	"net/http"
	"strings"

	"github.com/techagentng/civicsafety/config"
	"github.com/techagentng/civicsafety/db"
	apiError "github.com/techagentng/civicsafety/errors"
	"github.com/techagentng/civicsafety/models"
	"github.com/techagentng/civicsafety/services/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	SignupUser(req *models.SignupRequest) (*models.UserResponse, *models.RoleRequest, error)
	LoginUser(req *models.LoginRequest) (*models.LoginResponse, error)
	GetUserByID(id uint) (*models.User, error)
}

type authService struct {
	Config          *config.Config
	authRepo        db.AuthRepository
	roleRequestRepo db.RoleRequestRepository
}

func NewAuthService(authRepo db.AuthRepository, roleRequestRepo db.RoleRequestRepository, conf *config.Config) AuthService {
	return &authService{
		Config:          conf,
		authRepo:        authRepo,
		roleRequestRepo: roleRequestRepo,
	}
}

// SignupUser registers a new account. Resident is granted directly;
// sensitive roles queue a pending role request and the account starts
// as resident until a reviewer approves it.
func (s *authService) SignupUser(req *models.SignupRequest) (*models.UserResponse, *models.RoleRequest, error) {
	if err := models.NormalizeStrings(req); err != nil {
		return nil, nil, apiError.New(err.Error(), http.StatusBadRequest)
	}
	if err := models.ValidatePassword(req.Password); err != nil {
		return nil, nil, apiError.New(err.Error(), http.StatusBadRequest)
	}
	if err := s.authRepo.IsEmailExist(req.Email); err != nil {
		return nil, nil, apiError.New("email already registered", http.StatusConflict)
	}

	requestedRole := models.RoleResident
	if req.RequestedRole != "" {
		canonical, ok := models.CanonicalRole(req.RequestedRole)
		if !ok {
			return nil, nil, apiError.Newf(http.StatusBadRequest, "unknown role %q", req.RequestedRole)
		}
		if canonical == models.RoleAdmin {
			return nil, nil, apiError.New("admin role cannot be requested", http.StatusForbidden)
		}
		requestedRole = canonical
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, apiError.ErrInternalServerError
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = strings.SplitN(req.Email, "@", 2)[0]
	}

	user := &models.User{
		Email:          req.Email,
		DisplayName:    displayName,
		HashedPassword: string(hashed),
		Role:           models.RoleResident,
	}

	// The IsEmailExist pre-check is advisory; concurrent signups race to
	// the unique index, so the insert error is translated here.
	created, err := s.authRepo.CreateUser(user)
	if err != nil {
		return nil, nil, apiError.GetUniqueConstraintError(err)
	}

	var roleRequest *models.RoleRequest
	if models.RequiresManualApproval(requestedRole) {
		roleRequest, err = s.roleRequestRepo.QueuePendingRequest(created.ID, requestedRole, req.Justification)
		if err != nil {
			return nil, nil, err
		}
	}

	resp := s.userResponse(created)
	return &resp, roleRequest, nil
}

func (s *authService) LoginUser(req *models.LoginRequest) (*models.LoginResponse, error) {
	if err := models.NormalizeStrings(req); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	user, err := s.authRepo.FindUserByEmail(req.Email)
	if err != nil {
		return nil, apiError.New("invalid email or password", http.StatusUnauthorized)
	}
	if err := user.VerifyPassword(req.Password); err != nil {
		return nil, apiError.New("invalid email or password", http.StatusUnauthorized)
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, s.Config.JWTSecret, s.Config.AccessTokenExpireMinutes)
	if err != nil {
		return nil, apiError.ErrInternalServerError
	}

	return &models.LoginResponse{
		UserResponse: s.userResponse(user),
		AccessToken:  token,
	}, nil
}

func (s *authService) GetUserByID(id uint) (*models.User, error) {
	return s.authRepo.FindUserByID(id)
}

func (s *authService) userResponse(user *models.User) models.UserResponse {
	return models.UserResponse{
		ID:             user.ID,
		Email:          user.Email,
		DisplayName:    user.DisplayName,
		Role:           user.Role,
		RewardPoints:   user.RewardPoints,
		MembershipTier: DetermineMembershipTier(user.RewardPoints),
	}
}
