package main

import (
	"log"

	"github.com/techagentng/civicsafety/config"
	"github.com/techagentng/civicsafety/db"
	"github.com/techagentng/civicsafety/server"
	"github.com/techagentng/civicsafety/services"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	catalog, err := config.LoadCatalog(conf.CatalogPath)
	if err != nil {
		log.Fatalf("error loading catalog: %v", err)
	}

	gormDB := db.GetDB(conf)
	if err := db.BootstrapAdmin(gormDB.DB, conf); err != nil {
		log.Fatalf("error bootstrapping admin: %v", err)
	}
	if conf.SeedSampleData {
		if err := db.SeedSampleData(gormDB.DB, catalog); err != nil {
			log.Fatalf("error seeding sample data: %v", err)
		}
	}

	authRepo := db.NewAuthRepo(gormDB)
	incidentRepo := db.NewIncidentRepo(gormDB)
	rewardRepo := db.NewRewardRepo(gormDB)
	roleRequestRepo := db.NewRoleRequestRepo(gormDB)
	notificationRepo := db.NewNotificationRepo(gormDB)
	engagementRepo := db.NewEngagementRepo(gormDB)

	authService := services.NewAuthService(authRepo, roleRequestRepo, conf)
	incidentService := services.NewIncidentService(incidentRepo, authRepo, notificationRepo, catalog, conf)
	rewardService := services.NewRewardService(rewardRepo, authRepo, catalog)
	roleRequestService := services.NewRoleRequestService(roleRequestRepo, authRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	userService := services.NewUserService(incidentRepo, engagementRepo, notificationRepo)
	engagementService := services.NewEngagementService(engagementRepo, incidentRepo)

	s := &server.Server{
		Config:              conf,
		Catalog:             catalog,
		AuthRepository:      authRepo,
		AuthService:         authService,
		IncidentService:     incidentService,
		RewardService:       rewardService,
		RoleRequestService:  roleRequestService,
		NotificationService: notificationService,
		UserService:         userService,
		EngagementService:   engagementService,
		DB:                  gormDB,
	}

	s.Start()
}
