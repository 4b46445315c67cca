package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apiError "github.com/techagentng/civicsafety/errors"
	"github.com/techagentng/civicsafety/models"
	"github.com/techagentng/civicsafety/server/response"
)

func (s *Server) handleAddComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		incidentID, err := incidentIDParam(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		var commentRequest models.CommentCreateRequest
		if err := decode(c, &commentRequest); err != nil {
			response.JSON(c, "", apiError.ErrBadRequest.Status, nil, err)
			return
		}

		comment, err := s.EngagementService.AddComment(incidentID, currentUser(c), &commentRequest)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "comment added successfully", http.StatusCreated, comment, nil)
	}
}

func (s *Server) handleListComments() gin.HandlerFunc {
	return func(c *gin.Context) {
		incidentID, err := incidentIDParam(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		comments, err := s.EngagementService.ListComments(incidentID, currentUser(c), queryLimit(c, 50))
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "comments retrieved successfully", http.StatusOK, comments, nil)
	}
}

func (s *Server) handleIncidentReaction() gin.HandlerFunc {
	return func(c *gin.Context) {
		incidentID, err := incidentIDParam(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		var update models.ReactionUpdate
		if err := decode(c, &update); err != nil {
			response.JSON(c, "", apiError.ErrBadRequest.Status, nil, err)
			return
		}

		status, err := s.EngagementService.ReactToIncident(incidentID, currentUser(c), &update)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "reaction updated", http.StatusOK, status, nil)
	}
}

func (s *Server) handleCommentReaction() gin.HandlerFunc {
	return func(c *gin.Context) {
		commentID, err := uintParam(c, "id")
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		var update models.ReactionUpdate
		if err := decode(c, &update); err != nil {
			response.JSON(c, "", apiError.ErrBadRequest.Status, nil, err)
			return
		}

		status, err := s.EngagementService.ReactToComment(commentID, currentUser(c), &update)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "reaction updated", http.StatusOK, status, nil)
	}
}
