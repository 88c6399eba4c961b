package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultTeam is the canonical roster tracked for target and share
// reporting. Display casing is preserved for the UI; matching folds case.
var DefaultTeam = []string{
	"ashish johnjeyaraj", "Basavaraj Awati", "K SAI KOUSHIK", "Kaustubh SINGH",
	"Manoj KUMAR R", "Mohammed Misba RIZVI", "Nagaraj JOTHI",
	"Paluvadi Venkata SAI UJWALA", "Pranam M", "Rajath Y C", "Shachi JAIN",
	"Shikha SINHA", "Shreesha J", "Sukanya DODDAGOUDAR",
}

// DefaultEmailOverrides patches the first.last@domain derivation for the
// names whose mailbox does not follow the pattern.
var DefaultEmailOverrides = map[string]string{
	"k sai koushik":               "k.saikoushik@amadeus.com",
	"manoj kumar r":               "manoj.kumarr@amadeus.com",
	"mohammed misba rizvi":        "misba.rizvi@amadeus.com",
	"paluvadi venkata sai ujwala": "paluvadivenkata.saiujwala@amadeus.com",
	"kaustubh singh":              "kaustubh.singh@example.com",
}

type Config struct {
	API    APIConfig
	SMTP   SMTPConfig
	Roster RosterConfig
	Output OutputConfig

	Target     int
	ListenAddr string
	CacheTTL   time.Duration
	MonthsBack int
}

type APIConfig struct {
	Host               string
	FallbackIP         string
	BasePath           string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

type RosterConfig struct {
	Members        []string
	MailDomain     string
	EmailOverrides map[string]string
}

type OutputConfig struct {
	Directory string
	Formats   []string // json, html, csv, excel
}

// LoadFromEnv reads configuration from the environment, loading a .env file
// first when one is present.
func LoadFromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using system environment variables")
	}

	cfg := &Config{
		API: APIConfig{
			Host:               getEnvOrDefault("TEAMDASH_API_HOST", "dashproach.amadeus.net"),
			FallbackIP:         getEnvOrDefault("TEAMDASH_API_FALLBACK_IP", "10.57.52.6"),
			BasePath:           getEnvOrDefault("TEAMDASH_API_PATH", "/api/record/DAPPATC/teamactivity"),
			Timeout:            getEnvAsDuration("TEAMDASH_API_TIMEOUT", 20*time.Second),
			InsecureSkipVerify: getEnvAsBool("TEAMDASH_TLS_INSECURE", false),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("TEAMDASH_SMTP_HOST"),
			Port:     getEnvAsInt("TEAMDASH_SMTP_PORT", 587),
			Username: os.Getenv("TEAMDASH_SMTP_USER"),
			Password: os.Getenv("TEAMDASH_SMTP_PASSWORD"),
			Sender:   getEnvOrDefault("TEAMDASH_SENDER", "blr-atc@amadeus.com"),
		},
		Roster: RosterConfig{
			Members:        DefaultTeam,
			MailDomain:     getEnvOrDefault("TEAMDASH_MAIL_DOMAIN", "amadeus.com"),
			EmailOverrides: DefaultEmailOverrides,
		},
		Output: OutputConfig{
			Directory: getEnvOrDefault("TEAMDASH_OUTPUT_DIR", "reports"),
			Formats:   strings.Split(getEnvOrDefault("TEAMDASH_OUTPUT_FORMAT", "json,html,excel"), ","),
		},
		Target:     getEnvAsInt("TEAMDASH_TARGET", 15),
		ListenAddr: getEnvOrDefault("TEAMDASH_LISTEN", ":8080"),
		CacheTTL:   getEnvAsDuration("TEAMDASH_CACHE_TTL", 10*time.Minute),
		MonthsBack: getEnvAsInt("TEAMDASH_MONTHS", 2),
	}

	if rosterStr := os.Getenv("TEAMDASH_ROSTER"); rosterStr != "" {
		members := strings.Split(rosterStr, ",")
		for i := range members {
			members[i] = strings.TrimSpace(members[i])
		}
		cfg.Roster.Members = members
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.API.Host == "" {
		return fmt.Errorf("TEAMDASH_API_HOST is required")
	}
	if len(c.Roster.Members) == 0 {
		return fmt.Errorf("roster must not be empty")
	}
	if c.MonthsBack < 1 {
		return fmt.Errorf("TEAMDASH_MONTHS must be at least 1")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return duration
}
