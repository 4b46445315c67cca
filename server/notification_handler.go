package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/civicsafety/server/response"
)

func (s *Server) handleListNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		notifications, err := s.NotificationService.List(currentUser(c), c.Query("status"), queryLimit(c, 50))
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "notifications retrieved successfully", http.StatusOK, notifications, nil)
	}
}

func (s *Server) handleUnreadCount() gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := s.NotificationService.UnreadCount(currentUser(c))
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "unread count retrieved successfully", http.StatusOK, gin.H{"unread": count}, nil)
	}
}

func (s *Server) handleMarkNotificationRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		notificationID, err := uintParam(c, "id")
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		notification, err := s.NotificationService.MarkRead(currentUser(c), notificationID)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "notification marked read", http.StatusOK, notification, nil)
	}
}
