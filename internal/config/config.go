package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name           string   `envconfig:"APP_NAME" default:"Pantheres Finance"`
		ClubName       string   `envconfig:"CLUB_NAME" default:"Panthères de Fès"`
		Currency       string   `envconfig:"CURRENCY" default:"MAD"`
		Port           int      `envconfig:"PORT" default:"8080"`
		AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
		LoginPerMinute int      `envconfig:"LOGIN_RATE_PER_MINUTE" default:"10"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"pantheres"`
	}

	Auth struct {
		JWTSecret string        `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`
		TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"12h"`
	}

	// Season and due amounts mirror the parametres table of the previous
	// deployment; env wins so a test season can be configured locally.
	Season struct {
		Start          string `envconfig:"SEASON_START" default:"2025-09-01"`
		End            string `envconfig:"SEASON_END" default:"2026-06-30"`
		DurationMonths int    `envconfig:"SEASON_DURATION_MONTHS" default:"10"`
		CotisationDay  int    `envconfig:"COTISATION_DAY" default:"5"`
	}

	Cotisation struct {
		PlayerAmount       int64 `envconfig:"MONTANT_JOUEUR" default:"250"`
		OfficeAmount       int64 `envconfig:"MONTANT_BUREAU" default:"0"`
		PlayerOfficeAmount int64 `envconfig:"MONTANT_JOUEUR_BUREAU" default:"200"`
		ReserveFloor       int64 `envconfig:"FONDS_RESERVE" default:"0"`
	}

	Email struct {
		SendgridKey string `envconfig:"SENDGRID_API_KEY"`
		FromName    string `envconfig:"EMAIL_FROM_NAME" default:"Panthères de Fès"`
		FromAddress string `envconfig:"EMAIL_FROM" default:"tresorerie@pantheresdefes.ma"`
	}

	Cron struct {
		Secret string `envconfig:"CRON_SECRET"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// SeasonStart parses the configured season start date.
func (c *Config) SeasonStart() (time.Time, error) {
	return time.Parse(time.DateOnly, c.Season.Start)
}

// SeasonEnd parses the configured season end date.
func (c *Config) SeasonEnd() (time.Time, error) {
	return time.Parse(time.DateOnly, c.Season.End)
}

func Load() (*Config, error) {
	// A missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
