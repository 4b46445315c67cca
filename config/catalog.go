package config

import (
	"encoding/json"
	"os"
	"regexp"
	"strings"

	"github.com/techagentng/civicsafety/models"
)

// Catalog bundles the lookup data the service depends on: the incident
// taxonomy, the redemption partner list and the known-location alias
// table. It ships with usable defaults and can be replaced wholesale by
// pointing CIVICSAFETY_CATALOG_PATH at a JSON file, so catalogs change
// without a redeploy.
type Catalog struct {
	Taxonomy       []TaxonomyGroup        `json:"taxonomy"`
	Partners       []models.RewardPartner `json:"partners"`
	KnownLocations []KnownLocation        `json:"known_locations"`
}

type TaxonomyGroup struct {
	Key   string   `json:"key"`
	Label string   `json:"label"`
	Items []string `json:"items"`
}

type KnownLocation struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
	Lat     float64  `json:"lat"`
	Lng     float64  `json:"lng"`
}

// LoadCatalog returns the default catalog, overridden by the JSON file
// at path when one is configured.
func LoadCatalog(path string) (*Catalog, error) {
	catalog := defaultCatalog()
	if path == "" {
		return catalog, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	loaded := &Catalog{}
	if err := json.Unmarshal(raw, loaded); err != nil {
		return nil, err
	}
	if len(loaded.Taxonomy) == 0 {
		loaded.Taxonomy = catalog.Taxonomy
	}
	if len(loaded.Partners) == 0 {
		loaded.Partners = catalog.Partners
	}
	if len(loaded.KnownLocations) == 0 {
		loaded.KnownLocations = catalog.KnownLocations
	}
	return loaded, nil
}

var locationCleanup = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeLocation folds punctuation and casing so "5th & Juniper" and
// "5th and Juniper" compare equal.
func normalizeLocation(value string) string {
	cleaned := strings.ToLower(strings.TrimSpace(value))
	cleaned = strings.ReplaceAll(cleaned, "&", " and ")
	cleaned = locationCleanup.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// LookupKnownCoordinates resolves a free-text location against the
// known-location alias table. Exact alias matches win; otherwise an
// alias contained in the text matches.
func (c *Catalog) LookupKnownCoordinates(locationText string) (float64, float64, bool) {
	normalized := normalizeLocation(locationText)
	if normalized == "" {
		return 0, 0, false
	}
	for _, known := range c.KnownLocations {
		for _, alias := range known.Aliases {
			if normalizeLocation(alias) == normalized {
				return known.Lat, known.Lng, true
			}
		}
	}
	for _, known := range c.KnownLocations {
		for _, alias := range known.Aliases {
			key := normalizeLocation(alias)
			if key != "" && strings.Contains(normalized, key) {
				return known.Lat, known.Lng, true
			}
		}
	}
	return 0, 0, false
}

// Partner looks a redemption partner up by id.
func (c *Catalog) Partner(id string) (models.RewardPartner, bool) {
	for _, partner := range c.Partners {
		if partner.ID == id {
			return partner, true
		}
	}
	return models.RewardPartner{}, false
}

func defaultCatalog() *Catalog {
	return &Catalog{
		Taxonomy: []TaxonomyGroup{
			{
				Key:   "police_related",
				Label: "Police-Related",
				Items: []string{
					"Burglary",
					"Theft From Auto",
					"Non-Fatal Shooting",
					"Homicide",
					"Suspicious Vehicle",
					"Suspicious Person",
					"Robbery",
				},
			},
			{
				Key:   "community_civic",
				Label: "Community & Civic",
				Items: []string{
					"Package Theft",
					"Mailbox Tampering",
					"Noise / Neighborhood Dispute",
					"Lost / Found Pet",
					"Streetlight Outage",
					"Pothole / Road Hazard",
					"Sanitation / Illegal Dumping",
					"Homelessness Encampment",
				},
			},
			{
				Key:   "public_order",
				Label: "Public Order",
				Items: []string{
					"Street Racing",
					"Fireworks",
					"Loud Gathering",
					"Public Intoxication",
					"Sidewalk Obstruction",
				},
			},
		},
		Partners: []models.RewardPartner{
			{
				ID:          "corner-coffee",
				Name:        "Corner Coffee Collective",
				PointsCost:  30,
				Description: "Small drip coffee at any participating cart",
			},
			{
				ID:          "transit-pass",
				Name:        "Midtown Transit",
				PointsCost:  75,
				Description: "Single-day local transit pass",
			},
			{
				ID:          "hardware-credit",
				Name:        "Juniper Hardware",
				PointsCost:  120,
				Description: "$10 store credit toward home safety gear",
			},
		},
		KnownLocations: []KnownLocation{
			{
				Name: "5th & Juniper",
				Aliases: []string{
					"5th & Juniper",
					"5th and Juniper",
					"Juniper & 5th",
					"Juniper and 5th",
					"Juniper at 5th",
					"5th at Juniper",
					"Juniper Street and 5th Street",
				},
				Lat: 38.9093,
				Lng: -77.0337,
			},
			{
				Name: "Atlas Lounge",
				Aliases: []string{
					"Atlas Lounge, Midtown",
					"Atlas Lounge Midtown",
					"Atlas Lounge",
					"Midtown Atlas Lounge",
				},
				Lat: 38.9058,
				Lng: -77.0446,
			},
			{
				Name: "Maple & 18th",
				Aliases: []string{
					"Maple & 18th",
					"Maple and 18th",
					"18th & Maple",
					"18th and Maple",
					"Maple Street and 18th Street",
				},
				Lat: 38.9014,
				Lng: -77.0412,
			},
		},
	}
}
