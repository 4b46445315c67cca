package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apiError "github.com/techagentng/civicsafety/errors"
	"github.com/techagentng/civicsafety/models"
	"github.com/techagentng/civicsafety/server/response"
)

func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var signupRequest models.SignupRequest
		if err := decode(c, &signupRequest); err != nil {
			response.JSON(c, "", apiError.ErrBadRequest.Status, nil, err)
			return
		}

		userResponse, roleRequest, err := s.AuthService.SignupUser(&signupRequest)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		message := "Signup successful"
		data := gin.H{"user": userResponse}
		if roleRequest != nil {
			message = "Signup successful, role request pending review"
			data["role_request"] = roleRequest
		}
		response.JSON(c, message, http.StatusCreated, data, nil)
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginRequest models.LoginRequest
		if err := decode(c, &loginRequest); err != nil {
			response.JSON(c, "", apiError.ErrBadRequest.Status, nil, err)
			return
		}

		loginResponse, err := s.AuthService.LoginUser(&loginRequest)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "login successful", http.StatusOK, loginResponse, nil)
	}
}

func (s *Server) handleShowProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, apiError.ErrUnauthorized)
			return
		}
		response.JSON(c, "profile retrieved successfully", http.StatusOK, models.UserResponse{
			ID:             user.ID,
			Email:          user.Email,
			DisplayName:    user.DisplayName,
			Role:           user.Role,
			RewardPoints:   user.RewardPoints,
			MembershipTier: s.RewardService.TierProgress(user).Current,
		}, nil)
	}
}
