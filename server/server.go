package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/techagentng/civicsafety/config"
	"github.com/techagentng/civicsafety/db"
	"github.com/techagentng/civicsafety/services"
)

// Server wires the HTTP layer to the services and repositories behind it.
type Server struct {
	Config              *config.Config
	Catalog             *config.Catalog
	AuthRepository      db.AuthRepository
	AuthService         services.AuthService
	IncidentService     services.IncidentService
	RewardService       services.RewardService
	RoleRequestService  services.RoleRequestService
	NotificationService services.NotificationService
	UserService         services.UserService
	EngagementService   services.EngagementService
	DB                  *db.GormDB
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests before exiting.
func (s *Server) Start() {
	router := s.setupRouter()

	port := strconv.Itoa(s.Config.Port)
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("server exited")
}
