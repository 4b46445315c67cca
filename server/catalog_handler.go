package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/civicsafety/server/response"
)

func (s *Server) handleGetTaxonomy() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.JSON(c, "taxonomy retrieved successfully", http.StatusOK, s.Catalog.Taxonomy, nil)
	}
}

func (s *Server) handleGetPartners() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.JSON(c, "reward partners retrieved successfully", http.StatusOK, s.Catalog.Partners, nil)
	}
}
