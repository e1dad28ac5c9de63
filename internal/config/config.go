package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
	"github.com/joho/godotenv"
)

// DefaultOffices is the single office used when OFFICES is not set.
const DefaultOffices = "hq|Head Office|28.396897154550135|77.04149192330433|100"

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Storage    StorageConfig
	Attendance AttendanceConfig
	CORS       CORSConfig
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int32
	MinConns    int32
	AutoMigrate bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

type StorageConfig struct {
	Type     string
	BasePath string
	BaseURL  string
}

// AttendanceConfig holds the office registry and the local-day settings
type AttendanceConfig struct {
	Offices             []geo.Office
	DefaultRadiusMeters float64
	Timezone            string
	Location            *time.Location
	WeekStart           time.Weekday
	StatusResetInterval time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	// .env is optional; the environment wins when both are present
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := getEnvInt32("DB_MAX_CONNS", 25)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt32("DB_MIN_CONNS", 2)
	if err != nil {
		return nil, err
	}
	autoMigrate, err := strconv.ParseBool(getEnv("AUTO_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTO_MIGRATE: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        dbPort,
		User:        getEnv("DB_USER", "postgres"),
		Password:    getEnv("DB_PASSWORD", ""),
		Name:        getEnv("DB_NAME", "attendance"),
		SSLMode:     getEnv("DB_SSL_MODE", "disable"),
		MaxConns:    maxConns,
		MinConns:    minConns,
		AutoMigrate: autoMigrate,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "24h"),
	}

	// Storage configuration
	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", fmt.Sprintf("http://localhost:%d/uploads", appPort)),
	}

	// Attendance configuration
	radius, err := strconv.ParseFloat(getEnv("ATTENDANCE_RADIUS_METERS", strconv.Itoa(geo.DefaultThresholdMeters)), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_RADIUS_METERS: %w", err)
	}
	offices, err := ParseOffices(getEnv("OFFICES", DefaultOffices), radius)
	if err != nil {
		return nil, fmt.Errorf("invalid OFFICES: %w", err)
	}
	timezone := getEnv("OFFICE_TIMEZONE", "Asia/Kolkata")
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid OFFICE_TIMEZONE: %w", err)
	}
	weekStart, err := ParseWeekStart(getEnv("CALENDAR_WEEK_START", "sunday"))
	if err != nil {
		return nil, err
	}
	resetInterval, err := time.ParseDuration(getEnv("STATUS_RESET_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATUS_RESET_INTERVAL: %w", err)
	}

	config.Attendance = AttendanceConfig{
		Offices:             offices,
		DefaultRadiusMeters: radius,
		Timezone:            timezone,
		Location:            loc,
		WeekStart:           weekStart,
		StatusResetInterval: resetInterval,
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if d, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil || d <= 0 {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME must be a positive duration")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must not exceed DB_MAX_CONNS")
	}
	if c.Storage.Type != "local" {
		return fmt.Errorf("unsupported STORAGE_TYPE %q", c.Storage.Type)
	}
	if len(c.Attendance.Offices) == 0 {
		return fmt.Errorf("at least one office is required")
	}
	if c.Attendance.StatusResetInterval <= 0 {
		return fmt.Errorf("STATUS_RESET_INTERVAL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// ParseOffices reads "id|name|lat|lon[|radius]" entries separated by ";".
// Entries without a radius get defaultRadius.
func ParseOffices(raw string, defaultRadius float64) ([]geo.Office, error) {
	var offices []geo.Office
	seen := make(map[string]bool)

	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, "|")
		if len(parts) != 4 && len(parts) != 5 {
			return nil, fmt.Errorf("office %q: expected id|name|lat|lon[|radius]", entry)
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		id := parts[0]
		if id == "" {
			return nil, fmt.Errorf("office %q: id is required", entry)
		}
		if seen[id] {
			return nil, fmt.Errorf("office %q: duplicate id", id)
		}
		seen[id] = true

		lat, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, fmt.Errorf("office %q: invalid latitude: %w", id, err)
		}
		lon, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			return nil, fmt.Errorf("office %q: invalid longitude: %w", id, err)
		}
		location := geo.Coordinate{Latitude: lat, Longitude: lon}
		if !location.Valid() {
			return nil, fmt.Errorf("office %q: %w", id, geo.ErrInvalidCoordinate)
		}

		radius := defaultRadius
		if len(parts) == 5 && parts[4] != "" {
			radius, err = strconv.ParseFloat(parts[4], 64)
			if err != nil || radius <= 0 {
				return nil, fmt.Errorf("office %q: radius must be a positive number", id)
			}
		}

		name := parts[1]
		if name == "" {
			name = id
		}

		offices = append(offices, geo.Office{
			ID:           id,
			Name:         name,
			Location:     location,
			RadiusMeters: radius,
		})
	}

	if len(offices) == 0 {
		return nil, geo.ErrNoOffices
	}
	return offices, nil
}

// ParseWeekStart accepts "sunday" or "monday".
func ParseWeekStart(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	}
	return time.Sunday, fmt.Errorf("invalid CALENDAR_WEEK_START %q: must be sunday or monday", s)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt32(key string, fallback int32) (int32, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return int32(n), nil
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
