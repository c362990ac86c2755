package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"sales_ledger/internal/ledger"

	"github.com/spf13/viper"
)

// ErrInvalidSettings wraps every validation failure so callers can tell a
// configuration problem from a runtime one.
var ErrInvalidSettings = errors.New("invalid configuration")

// Settings is the resolved configuration of one run.
type Settings struct {
	Sheets  SheetsSettings `mapstructure:"sheets"`
	Local   LocalSettings  `mapstructure:"local"`
	Columns ColumnSettings `mapstructure:"columns"`
	Ledger  LedgerSettings `mapstructure:"ledger"`
	Retry   RetrySettings  `mapstructure:"retry"`
	Notify  NotifySettings `mapstructure:"notify"`
	Audit   AuditSettings  `mapstructure:"audit"`
	DryRun  bool           `mapstructure:"dry_run"`
}

type SheetsSettings struct {
	FolderID          string `mapstructure:"folder_id"`
	StatisticsSheetID string `mapstructure:"statistics_sheet_id"`
	AccountSheetID    string `mapstructure:"account_sheet_id"`
	ProductSheetID    string `mapstructure:"product_sheet_id"`
	CredentialsFile   string `mapstructure:"credentials_file"`
	StatisticsRange   string `mapstructure:"statistics_range"`
	ProductRange      string `mapstructure:"product_range"`
	AccountRange      string `mapstructure:"account_range"`
}

type LocalSettings struct {
	Folder       string `mapstructure:"folder"`
	Output       string `mapstructure:"output"`
	AccountFile  string `mapstructure:"account_file"`
	ProductFile  string `mapstructure:"product_file"`
	ProductSheet string `mapstructure:"product_sheet"`
}

// ColumnSettings names the POS header cells.
type ColumnSettings struct {
	Descriptor string `mapstructure:"descriptor"`
	Time       string `mapstructure:"time"`
	UnitPrice  string `mapstructure:"unit_price"`
	Category   string `mapstructure:"category"`
	Quantity   string `mapstructure:"quantity"`
	Amount     string `mapstructure:"amount"`
	Invoice    string `mapstructure:"invoice"`
	Reason     string `mapstructure:"reason"`
}

type LedgerSettings struct {
	Era string `mapstructure:"era"`
}

type RetrySettings struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseDelay   time.Duration `mapstructure:"base_delay"`
	MaxDelay    time.Duration `mapstructure:"max_delay"`
}

type NotifySettings struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Topic   string `mapstructure:"topic"`
}

type AuditSettings struct {
	CSV string `mapstructure:"csv"`
}

// NewViper builds the viper instance with defaults, the optional settings
// file and LEDGER_* environment variables. An explicit configFile must exist;
// the default ledger.yaml is optional.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("ledger")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("LEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}

// Load unmarshals the resolved settings.
func Load(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sheets.folder_id", "")
	v.SetDefault("sheets.statistics_sheet_id", "")
	v.SetDefault("sheets.account_sheet_id", "")
	v.SetDefault("sheets.product_sheet_id", "")
	v.SetDefault("sheets.credentials_file", "credentials.json")
	v.SetDefault("sheets.statistics_range", "A2:AW")
	v.SetDefault("sheets.product_range", "Sheet2!A:C")
	v.SetDefault("sheets.account_range", "A:J")

	v.SetDefault("local.folder", "")
	v.SetDefault("local.output", "")
	v.SetDefault("local.account_file", "")
	v.SetDefault("local.product_file", "")
	v.SetDefault("local.product_sheet", "Sheet2")

	cols := ledger.DefaultColumns()
	v.SetDefault("columns.descriptor", cols.Descriptor)
	v.SetDefault("columns.time", cols.Time)
	v.SetDefault("columns.unit_price", cols.UnitPrice)
	v.SetDefault("columns.category", cols.Category)
	v.SetDefault("columns.quantity", cols.Quantity)
	v.SetDefault("columns.amount", cols.Amount)
	v.SetDefault("columns.invoice", cols.Invoice)
	v.SetDefault("columns.reason", cols.Reason)

	v.SetDefault("ledger.era", ledger.DefaultEra)

	v.SetDefault("retry.max_attempts", DefaultWriteRetry.MaxAttempts)
	v.SetDefault("retry.base_delay", DefaultWriteRetry.BaseDelay)
	v.SetDefault("retry.max_delay", DefaultWriteRetry.MaxDelay)

	v.SetDefault("notify.enabled", false)
	v.SetDefault("notify.url", "https://ntfy.sh")
	v.SetDefault("notify.topic", "sales-ledger")

	v.SetDefault("audit.csv", "")
	v.SetDefault("dry_run", false)
}

// Validate checks the settings shared by every mode.
func (s *Settings) Validate() error {
	if s.Retry.MaxAttempts < 1 {
		return invalid("retry.max_attempts must be at least 1, got %d", s.Retry.MaxAttempts)
	}
	if s.Retry.BaseDelay < 0 || s.Retry.MaxDelay < 0 {
		return invalid("retry delays must not be negative")
	}
	if strings.TrimSpace(s.Columns.Descriptor) == "" || strings.TrimSpace(s.Columns.Time) == "" {
		return invalid("columns.descriptor and columns.time are required")
	}
	if s.Notify.Enabled && (s.Notify.URL == "" || s.Notify.Topic == "") {
		return invalid("notify.url and notify.topic are required when notifications are enabled")
	}
	return nil
}

// ValidateSheets checks the settings of the Google Sheets mode.
func (s *Settings) ValidateSheets() error {
	if err := s.Validate(); err != nil {
		return err
	}
	required := []struct{ key, value string }{
		{"sheets.folder_id", s.Sheets.FolderID},
		{"sheets.statistics_sheet_id", s.Sheets.StatisticsSheetID},
		{"sheets.account_sheet_id", s.Sheets.AccountSheetID},
		{"sheets.product_sheet_id", s.Sheets.ProductSheetID},
		{"sheets.credentials_file", s.Sheets.CredentialsFile},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return invalid("%s is required", r.key)
		}
	}
	return nil
}

// ValidateLocal checks the settings of the local workbook mode.
func (s *Settings) ValidateLocal() error {
	if err := s.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(s.Local.Folder) == "" {
		return invalid("local.folder is required")
	}
	if strings.TrimSpace(s.Local.Output) == "" && !s.DryRun {
		return invalid("local.output is required")
	}
	return nil
}

// LedgerColumns converts the configured header names for the builder.
func (c ColumnSettings) LedgerColumns() ledger.Columns {
	return ledger.Columns{
		Descriptor: c.Descriptor,
		Time:       c.Time,
		UnitPrice:  c.UnitPrice,
		Category:   c.Category,
		Quantity:   c.Quantity,
		Amount:     c.Amount,
		Invoice:    c.Invoice,
		Reason:     c.Reason,
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSettings, fmt.Sprintf(format, args...))
}
