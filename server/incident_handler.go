package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apiError "github.com/techagentng/civicsafety/errors"
	"github.com/techagentng/civicsafety/models"
	"github.com/techagentng/civicsafety/server/response"
)

// incidentIDParam parses the :id path segment as a UUID.
func incidentIDParam(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apiError.New("invalid incident id", http.StatusBadRequest)
	}
	return id, nil
}

func queryLimit(c *gin.Context, fallback int) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

func (s *Server) handleCreateIncident() gin.HandlerFunc {
	return func(c *gin.Context) {
		var createRequest models.IncidentCreateRequest
		if err := decode(c, &createRequest); err != nil {
			response.JSON(c, "", apiError.ErrBadRequest.Status, nil, err)
			return
		}

		incident, err := s.IncidentService.CreateIncident(&createRequest, currentUser(c))
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "incident reported successfully", http.StatusCreated, incident, nil)
	}
}

func (s *Server) handleGetIncident() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := incidentIDParam(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		incident, err := s.IncidentService.GetIncident(id, currentUser(c))
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "incident retrieved successfully", http.StatusOK, incident, nil)
	}
}

func (s *Server) handleListIncidents() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.IncidentFilter{
			Status:        c.Query("status"),
			Category:      c.Query("category"),
			IncidentType:  c.Query("incident_type"),
			NeedsFollowUp: c.Query("needs_follow_up") == "true",
			IncludeHidden: c.Query("include_hidden") == "true",
			Limit:         queryLimit(c, 50),
		}

		incidents, err := s.IncidentService.ListIncidents(filter, currentUser(c))
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "incidents retrieved successfully", http.StatusOK, incidents, nil)
	}
}

func (s *Server) handleUpdateIncident() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := incidentIDParam(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		var updateRequest models.IncidentUpdateRequest
		if err := decode(c, &updateRequest); err != nil {
			response.JSON(c, "", apiError.ErrBadRequest.Status, nil, err)
			return
		}

		incident, err := s.IncidentService.UpdateIncident(id, &updateRequest, currentUser(c))
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "incident updated successfully", http.StatusOK, incident, nil)
	}
}

func (s *Server) handleUpdateIncidentStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := incidentIDParam(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		var statusRequest models.StatusUpdateRequest
		if err := decode(c, &statusRequest); err != nil {
			response.JSON(c, "", apiError.ErrBadRequest.Status, nil, err)
			return
		}

		incident, err := s.IncidentService.UpdateStatus(id, statusRequest.Status, currentUser(c))
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "incident status updated successfully", http.StatusOK, incident, nil)
	}
}

func (s *Server) handleAddFollowUp() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := incidentIDParam(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		var followUpRequest models.FollowUpCreateRequest
		if err := decode(c, &followUpRequest); err != nil {
			response.JSON(c, "", apiError.ErrBadRequest.Status, nil, err)
			return
		}

		followUp, err := s.IncidentService.AddFollowUp(id, &followUpRequest, currentUser(c))
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "follow-up recorded successfully", http.StatusCreated, followUp, nil)
	}
}

func (s *Server) handleSetIncidentHidden() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := incidentIDParam(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		var hiddenRequest struct {
			Hidden *bool `json:"hidden" binding:"required"`
		}
		if err := decode(c, &hiddenRequest); err != nil {
			response.JSON(c, "", apiError.ErrBadRequest.Status, nil, err)
			return
		}

		if err := s.IncidentService.SetHidden(id, *hiddenRequest.Hidden, currentUser(c)); err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "incident visibility updated", http.StatusOK, gin.H{"hidden": *hiddenRequest.Hidden}, nil)
	}
}

func (s *Server) handleIncidentStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := s.IncidentService.GetStats()
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "incident stats retrieved successfully", http.StatusOK, stats, nil)
	}
}
