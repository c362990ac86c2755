package app

import (
	"context"
	"os"
	"strings"
	"time"

	"sales_ledger/internal/config"
	"sales_ledger/internal/notifications"
	"sales_ledger/internal/sheets"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupEnvironment loads .env file and configures zerolog output and log level.
// verbose forces debug logging regardless of LOGLEVEL.
func SetupEnvironment(verbose bool) {
	// Load .env file if it exists
	err := godotenv.Load()

	// Configure logging
	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	if verbose {
		levelStr = "debug"
	}
	zerolog.SetGlobalLevel(parseLevel(levelStr, os.Getenv("ENV") == "production"))

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

func parseLevel(levelStr string, production bool) zerolog.Level {
	switch levelStr {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	case "disabled":
		return zerolog.Disabled
	case "":
		// Default based on environment
		if production {
			return zerolog.WarnLevel
		}
		return zerolog.InfoLevel
	default:
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
		return zerolog.InfoLevel
	}
}

// InitializeSheetsClient creates the Google Sheets and Drive client.
func InitializeSheetsClient(ctx context.Context, settings *config.Settings) (*sheets.Client, error) {
	log.Debug().Str("credentials", settings.Sheets.CredentialsFile).Msg("Initializing sheets client")
	client, err := sheets.NewClient(ctx, settings.Sheets.CredentialsFile)
	if err != nil {
		return nil, err
	}
	log.Debug().Msg("Sheets client initialized successfully")
	return client, nil
}

// InitializeNotificationClient creates the notification client, or nil when
// notifications are disabled.
func InitializeNotificationClient(settings *config.Settings, rc config.ResilienceConfig) *notifications.Client {
	n := settings.Notify
	log.Debug().
		Bool("enabled", n.Enabled).
		Str("base_url", n.URL).
		Str("topic", n.Topic).
		Msg("Initializing notification client")

	if !n.Enabled {
		log.Debug().Msg("Notifications disabled")
		return nil
	}

	log.Info().Str("topic", n.Topic).Msg("Notifications enabled")
	return notifications.NewClient(n.URL, n.Topic, true, rc.Notify)
}
