package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/civicsafety/server/response"
)

func (s *Server) handleGetOverview() gin.HandlerFunc {
	return func(c *gin.Context) {
		overview, err := s.UserService.GetOverview(currentUser(c))
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "overview retrieved successfully", http.StatusOK, overview, nil)
	}
}
