package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends
const (
	StoreSheets = "sheets"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Messaging providers
const (
	ProviderTwilio   = "twilio"
	ProviderWhatsApp = "whatsapp"
	ProviderLog      = "log"
)

// Config holds the application configuration
type Config struct {
	Port     string
	LogLevel string

	StoreBackend          string
	SQLitePath            string
	SpreadsheetID         string
	GoogleCredentialsFile string
	RangeRoster           string
	RangeRSVPs            string
	RangeInboundLog       string
	RangeOutboundLog      string
	RosterBetaOnly        bool

	MessagingProvider       string
	TwilioAccountSID        string
	TwilioAuthToken         string
	TwilioPhoneNumber       string
	TwilioValidateSignature bool
	PublicURL               string
	WhatsAppDataDir         string

	TeamName      string
	OrganizerName string
	Sport         string
	EventTime     string
	EventTimezone string
	EventWeekday  string
}

// LoadConfig loads configuration from a .env file if present, then
// environment variables or defaults
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StoreBackend:          strings.ToLower(getEnv("STORE_BACKEND", StoreSheets)),
		SQLitePath:            getEnv("SQLITE_PATH", "data/rsvp.db"),
		SpreadsheetID:         getEnv("SPREADSHEET_ID", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "google-creds.json"),
		RangeRoster:           getEnv("SPREADSHEET_RANGE_ROSTER", "Roster!A1:D"),
		RangeRSVPs:            getEnv("SPREADSHEET_RANGE_RSVPS", "RSVPs!A1:C"),
		RangeInboundLog:       getEnv("SPREADSHEET_RANGE_SMS_LOGS_RECEIVED", "SMS Logs Received!A1:C"),
		RangeOutboundLog:      getEnv("SPREADSHEET_RANGE_SMS_LOGS_SENT", "SMS Logs Sent!A1:C"),

		MessagingProvider: strings.ToLower(getEnv("MESSAGING_PROVIDER", ProviderTwilio)),
		TwilioAccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber: getEnv("TWILIO_PHONE_NUMBER", ""),
		PublicURL:         strings.TrimRight(getEnv("PUBLIC_URL", ""), "/"),
		WhatsAppDataDir:   getEnv("WHATSAPP_DATA_DIR", "data"),

		TeamName:      getEnv("TEAM_NAME", "team"),
		OrganizerName: getEnv("ORGANIZER_NAME", "the organizer"),
		Sport:         getEnv("SPORT", "soccer"),
		EventTime:     getEnv("EVENT_TIME", "8am"),
		EventTimezone: getEnv("EVENT_TIMEZONE", "America/New_York"),
		EventWeekday:  getEnv("EVENT_WEEKDAY", "Saturday"),
	}

	var err error
	if cfg.RosterBetaOnly, err = getBool("ROSTER_BETA_ONLY", false); err != nil {
		return nil, err
	}
	if cfg.TwilioValidateSignature, err = getBool("TWILIO_VALIDATE_SIGNATURE", false); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the selected backends have what they need
func (c *Config) Validate() error {
	var missing []string
	require := func(key, value string) {
		if value == "" {
			missing = append(missing, key)
		}
	}

	switch c.StoreBackend {
	case StoreSheets:
		require("SPREADSHEET_ID", c.SpreadsheetID)
		require("GOOGLE_CREDENTIALS_FILE", c.GoogleCredentialsFile)
	case StoreSQLite:
		require("SQLITE_PATH", c.SQLitePath)
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.MessagingProvider {
	case ProviderTwilio:
		require("TWILIO_ACCOUNT_SID", c.TwilioAccountSID)
		require("TWILIO_AUTH_TOKEN", c.TwilioAuthToken)
		require("TWILIO_PHONE_NUMBER", c.TwilioPhoneNumber)
		if c.TwilioValidateSignature {
			require("PUBLIC_URL", c.PublicURL)
		}
	case ProviderWhatsApp:
		require("WHATSAPP_DATA_DIR", c.WhatsAppDataDir)
	case ProviderLog:
	default:
		return fmt.Errorf("unknown MESSAGING_PROVIDER %q", c.MessagingProvider)
	}

	require("SPREADSHEET_RANGE_ROSTER", c.RangeRoster)
	require("SPREADSHEET_RANGE_RSVPS", c.RangeRSVPs)
	require("SPREADSHEET_RANGE_SMS_LOGS_RECEIVED", c.RangeInboundLog)
	require("SPREADSHEET_RANGE_SMS_LOGS_SENT", c.RangeOutboundLog)

	if len(missing) > 0 {
		return fmt.Errorf("missing configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}
