package db

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/civicsafety/config"
	"github.com/techagentng/civicsafety/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// BootstrapAdmin guarantees an admin account exists when one is
// configured. Existing accounts are promoted, not duplicated.
func BootstrapAdmin(db *gorm.DB, c *config.Config) error {
	if c.BootstrapAdminEmail == "" || c.BootstrapAdminPassword == "" {
		return nil
	}

	var user models.User
	err := db.Where("email = ?", c.BootstrapAdminEmail).First(&user).Error
	switch {
	case err == nil:
		if user.Role != models.RoleAdmin {
			return db.Model(&user).Update("role", models.RoleAdmin).Error
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		hashed, err := bcrypt.GenerateFromPassword([]byte(c.BootstrapAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return errors.Wrap(err, "hashing bootstrap admin password")
		}
		admin := models.User{
			Email:          c.BootstrapAdminEmail,
			DisplayName:    "Site Admin",
			HashedPassword: string(hashed),
			Role:           models.RoleAdmin,
		}
		if err := db.Create(&admin).Error; err != nil {
			return errors.Wrap(err, "creating bootstrap admin")
		}
		log.Printf("bootstrap admin created: %s", c.BootstrapAdminEmail)
		return nil
	default:
		return errors.Wrap(err, "looking up bootstrap admin")
	}
}

// SeedSampleData loads a small demo data set for local development. The
// demo user's starting balance is posted as a balance-forward ledger
// entry so the replay invariant holds for seeded accounts too.
func SeedSampleData(db *gorm.DB, catalog *config.Catalog) error {
	const demoEmail = "demo@civicsafety.local"

	var existing models.User
	err := db.Where("email = ?", demoEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(err, "checking demo user")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("neighbor-demo"), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hashing demo password")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		demo := models.User{
			Email:          demoEmail,
			DisplayName:    "Demo Neighbor",
			HashedPassword: string(hashed),
			Role:           models.RoleResident,
		}
		if err := tx.Create(&demo).Error; err != nil {
			return errors.Wrap(err, "creating demo user")
		}

		forward := models.RewardLedgerEntry{
			UserID:      demo.ID,
			Delta:       40,
			Source:      models.SourceBalanceForward,
			Description: "Opening balance carried forward",
			Status:      models.EntryStatusPosted,
		}
		if err := postEntryTx(tx, &forward); err != nil {
			return err
		}

		now := time.Now().UTC()
		due := now.Add(30 * time.Minute)
		samples := []models.Incident{
			{
				ID:                   uuid.New(),
				Category:             "Streetlight Outage",
				Description:          "Neighbors reporting low water pressure near 5th & Juniper. Utility crews are onsite opening valves.",
				IncidentType:         models.IncidentTypeCommunity,
				LocationText:         "5th & Juniper",
				Status:               models.StatusCommunityConfirm,
				ReporterAlias:        "Water Watch",
				StillHappening:       boolPtr(true),
				FeelSafeNow:          boolPtr(true),
				PoliceSeen:           boolPtr(false),
				ContactedAuthorities: models.ContactedServiceRequest,
				SafetySentiment:      strPtr("uneasy"),
				CredibilityScore:     0.76,
				FollowUpDueAt:        &due,
				ReporterID:           &demo.ID,
			},
			{
				ID:                   uuid.New(),
				Category:             "Loud Gathering",
				Description:          "Multiple nighttime noise complaints outside Atlas Lounge. Moderator reminding patrons to wrap up by midnight.",
				IncidentType:         models.IncidentTypePublicOrder,
				LocationText:         "Atlas Lounge, Midtown",
				Status:               models.StatusUnverified,
				ReporterAlias:        "Midtown Watch",
				StillHappening:       boolPtr(true),
				FeelSafeNow:          boolPtr(true),
				PoliceSeen:           boolPtr(false),
				ContactedAuthorities: models.ContactedNone,
				SafetySentiment:      strPtr("safe"),
				CredibilityScore:     0.58,
				FollowUpDueAt:        &due,
			},
			{
				ID:                   uuid.New(),
				Category:             "Suspicious Vehicle",
				Description:          "Hit-and-run camera request near Maple & 18th. Officer coordinating with local businesses for footage.",
				IncidentType:         models.IncidentTypePolice,
				LocationText:         "Maple & 18th",
				Status:               models.StatusOfficialConfirmed,
				ReporterAlias:        "Traffic Desk",
				StillHappening:       boolPtr(false),
				FeelSafeNow:          boolPtr(false),
				PoliceSeen:           boolPtr(true),
				ContactedAuthorities: models.Contacted911,
				SafetySentiment:      strPtr("unsafe"),
				CredibilityScore:     0.84,
			},
		}

		for i := range samples {
			applyKnownCoordinates(&samples[i], catalog)
			if err := tx.Create(&samples[i]).Error; err != nil {
				return errors.Wrap(err, "creating sample incident")
			}
		}
		return nil
	})
}

// applyKnownCoordinates backfills lat/lng from the catalog's known
// location aliases when the incident carries none.
func applyKnownCoordinates(incident *models.Incident, catalog *config.Catalog) {
	if catalog == nil || (incident.Lat != nil && incident.Lng != nil) {
		return
	}
	lat, lng, ok := catalog.LookupKnownCoordinates(incident.LocationText)
	if !ok {
		return
	}
	if incident.Lat == nil {
		incident.Lat = &lat
	}
	if incident.Lng == nil {
		incident.Lng = &lng
	}
}

func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }
