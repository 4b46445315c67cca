package server

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()

	// LoggerWithFormatter middleware will write the logs to gin.DefaultWriter
	// By default gin.DefaultWriter = os.Stdout
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	allowedOrigins := []string{"http://localhost:3000"}
	if s.Config.AccessControlAllowOrigin != "" {
		allowedOrigins = []string{s.Config.AccessControlAllowOrigin}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	store := newAuthRateLimitStore()
	limitRate := limitAuthRoutes(store)

	apirouter := router.Group("/api/v1")
	apirouter.POST("/auth/signup", limitRate, s.handleSignup())
	apirouter.POST("/auth/login", limitRate, s.handleLogin())

	// Public reads; optional auth lets moderators see hidden incidents.
	public := apirouter.Group("/")
	public.Use(s.OptionalAuthorize())
	public.GET("/incidents", s.handleListIncidents())
	public.GET("/incidents/stats", s.handleIncidentStats())
	public.GET("/incidents/:id", s.handleGetIncident())
	public.GET("/incidents/:id/comments", s.handleListComments())
	apirouter.GET("/catalog/taxonomy", s.handleGetTaxonomy())
	apirouter.GET("/catalog/partners", s.handleGetPartners())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())

	authorized.POST("/incidents", s.handleCreateIncident())
	authorized.PATCH("/incidents/:id", s.handleUpdateIncident())
	authorized.PUT("/incidents/:id/status", s.handleUpdateIncidentStatus())
	authorized.POST("/incidents/:id/follow-ups", s.handleAddFollowUp())
	authorized.PUT("/incidents/:id/hidden", s.handleSetIncidentHidden())

	authorized.POST("/incidents/:id/comments", s.handleAddComment())
	authorized.PUT("/incidents/:id/reaction", s.handleIncidentReaction())
	authorized.PUT("/comments/:id/reaction", s.handleCommentReaction())

	authorized.GET("/me", s.handleShowProfile())
	authorized.GET("/me/overview", s.handleGetOverview())
	authorized.GET("/me/rewards", s.handleGetRewardSummary())
	authorized.GET("/me/ledger", s.handleGetLedger())

	authorized.POST("/rewards/redeem", s.handleRedeem())
	authorized.GET("/rewards/redemptions/pending", s.handleListPendingRedemptions())
	authorized.PUT("/rewards/redemptions/:id", s.handleDecideRedemption())
	authorized.POST("/rewards/adjustments", s.handleAdminAdjust())
	authorized.GET("/rewards/audit/:userID", s.handleAuditBalance())

	authorized.POST("/role-requests", s.handleCreateRoleRequest())
	authorized.GET("/role-requests", s.handleListRoleRequests())
	authorized.PUT("/role-requests/:id", s.handleResolveRoleRequest())

	authorized.GET("/notifications", s.handleListNotifications())
	authorized.GET("/notifications/unread-count", s.handleUnreadCount())
	authorized.PUT("/notifications/:id/read", s.handleMarkNotificationRead())
}
