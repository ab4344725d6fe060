package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Sheets SheetsConfig
	Redis  RedisConfig
	Cache  CacheConfig
	CORS   CORSConfig
	Log    LogConfig
	Tables TablesConfig
	Rules  RulesConfig
}

// SheetsConfig locates the backing spreadsheet and its credentials.
type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsFile string
	CredentialsJSON string
	RequestTimeout  time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig tunes the short-lived table read cache.
type CacheConfig struct {
	TTL time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// TablesConfig names the worksheet tabs the service operates on.
type TablesConfig struct {
	Participants          string
	Staff                 string
	ParticipantAttendance string
	StaffAttendance       string
	Payments              string
	StaffBackup           string
	StaffBackupSummary    string
	Meta                  string
}

// RulesConfig carries the deployment constants of the business rules.
// The allowed day set differs between deployments, so it is configuration
// rather than a hardcoded weekday list; canonical save order is the
// configured order.
type RulesConfig struct {
	AllowedDays           []string
	PaymentPerDay         int
	BillingMonths         []string
	RolloverMonth         time.Month
	RolloverDay           int
	MorningFrameworkAlert []string
	TransportationOptions []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Sheets = SheetsConfig{
		SpreadsheetID:   v.GetString("SPREADSHEET_ID"),
		CredentialsFile: v.GetString("GOOGLE_CREDENTIALS_FILE"),
		CredentialsJSON: v.GetString("GOOGLE_CREDENTIALS_JSON"),
		RequestTimeout:  parseDuration(v.GetString("SHEETS_REQUEST_TIMEOUT"), 30*time.Second),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{
		TTL: parseDuration(v.GetString("CACHE_TTL"), 30*time.Second),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Tables = TablesConfig{
		Participants:          v.GetString("TABLE_PARTICIPANTS"),
		Staff:                 v.GetString("TABLE_STAFF"),
		ParticipantAttendance: v.GetString("TABLE_PARTICIPANT_ATTENDANCE"),
		StaffAttendance:       v.GetString("TABLE_STAFF_ATTENDANCE"),
		Payments:              v.GetString("TABLE_PAYMENTS"),
		StaffBackup:           v.GetString("TABLE_STAFF_BACKUP"),
		StaffBackupSummary:    v.GetString("TABLE_STAFF_BACKUP_SUMMARY"),
		Meta:                  v.GetString("TABLE_META"),
	}

	rolloverMonth := v.GetInt("ROLLOVER_MONTH")
	if rolloverMonth < 1 || rolloverMonth > 12 {
		rolloverMonth = 9
	}
	rolloverDay := v.GetInt("ROLLOVER_DAY")
	if rolloverDay < 1 || rolloverDay > 31 {
		rolloverDay = 1
	}

	cfg.Rules = RulesConfig{
		AllowedDays:           splitAndTrim(v.GetString("DAYS_ALLOWED")),
		PaymentPerDay:         v.GetInt("PAYMENT_PER_DAY"),
		BillingMonths:         splitAndTrim(v.GetString("BILLING_MONTHS")),
		RolloverMonth:         time.Month(rolloverMonth),
		RolloverDay:           rolloverDay,
		MorningFrameworkAlert: splitAndTrim(v.GetString("MORNING_FRAMEWORK_ALERT")),
		TransportationOptions: splitAndTrim(v.GetString("TRANSPORTATION_OPTIONS")),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("SPREADSHEET_ID", "")
	v.SetDefault("GOOGLE_CREDENTIALS_FILE", "")
	v.SetDefault("GOOGLE_CREDENTIALS_JSON", "")
	v.SetDefault("SHEETS_REQUEST_TIMEOUT", "30s")

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("CACHE_TTL", "30s")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("TABLE_PARTICIPANTS", "Participants")
	v.SetDefault("TABLE_STAFF", "Staff")
	v.SetDefault("TABLE_PARTICIPANT_ATTENDANCE", "Participant Attendance")
	v.SetDefault("TABLE_STAFF_ATTENDANCE", "Staff Attendance")
	v.SetDefault("TABLE_PAYMENTS", "Payments")
	v.SetDefault("TABLE_STAFF_BACKUP", "Staff Backup")
	v.SetDefault("TABLE_STAFF_BACKUP_SUMMARY", "Staff Backup Summary")
	v.SetDefault("TABLE_META", "__meta")

	v.SetDefault("DAYS_ALLOWED", "Monday,Tuesday,Wednesday")
	v.SetDefault("PAYMENT_PER_DAY", 80)
	v.SetDefault("BILLING_MONTHS", "November,December,January,February,March,April,May,June,July")
	v.SetDefault("ROLLOVER_MONTH", 9)
	v.SetDefault("ROLLOVER_DAY", 1)
	v.SetDefault("MORNING_FRAMEWORK_ALERT", "Shahar,Dekalim,Yesodot,Ilanot")
	v.SetDefault("TRANSPORTATION_OPTIONS", "Ofakim,Beer Sheva,Haloch,Hazor")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
