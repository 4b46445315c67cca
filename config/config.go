package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Debug                    bool   `envconfig:"debug"`
	Port                     int    `envconfig:"port" default:"8000"`
	Env                      string `envconfig:"env"`
	PostgresHost             string `envconfig:"postgres_host"`
	PostgresPort             int    `envconfig:"postgres_port" default:"5432"`
	PostgresUser             string `envconfig:"postgres_user"`
	PostgresPassword         string `envconfig:"postgres_password"`
	PostgresDB               string `envconfig:"postgres_db"`
	JWTSecret                string `envconfig:"jwt_secret"`
	AccessTokenExpireMinutes int    `envconfig:"access_token_expire_minutes" default:"1440"`
	AccessControlAllowOrigin string `envconfig:"access_control_allow_origin"`
	BootstrapAdminEmail      string `envconfig:"bootstrap_admin_email"`
	BootstrapAdminPassword   string `envconfig:"bootstrap_admin_password"`
	SeedSampleData           bool   `envconfig:"seed_sample_data"`
	CatalogPath              string `envconfig:"catalog_path"`
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("civicsafety", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
