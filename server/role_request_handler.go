package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apiError "github.com/techagentng/civicsafety/errors"
	"github.com/techagentng/civicsafety/models"
	"github.com/techagentng/civicsafety/server/response"
)

func (s *Server) handleCreateRoleRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		var createRequest models.RoleRequestCreate
		if err := decode(c, &createRequest); err != nil {
			response.JSON(c, "", apiError.ErrBadRequest.Status, nil, err)
			return
		}

		user := currentUser(c)
		request, applied, err := s.RoleRequestService.QueueRequest(user, &createRequest)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		if applied {
			response.JSON(c, "role assigned", http.StatusOK, gin.H{"role": user.Role}, nil)
			return
		}
		response.JSON(c, "role request pending review", http.StatusCreated, request, nil)
	}
}

func (s *Server) handleListRoleRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		requests, err := s.RoleRequestService.ListRequests(currentUser(c), c.Query("status"), queryLimit(c, 50))
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "role requests retrieved successfully", http.StatusOK, requests, nil)
	}
}

func (s *Server) handleResolveRoleRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, err := uintParam(c, "id")
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		var decision models.RoleRequestDecision
		if err := decode(c, &decision); err != nil {
			response.JSON(c, "", apiError.ErrBadRequest.Status, nil, err)
			return
		}

		request, err := s.RoleRequestService.Resolve(currentUser(c), requestID, &decision)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "role request "+request.Status, http.StatusOK, request, nil)
	}
}
