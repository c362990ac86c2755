package config

import (
	"time"

	"sales_ledger/internal/retry"
)

type ResilienceConfig struct {
	SinkWrite retry.Config
	Notify    retry.Config
}

// DefaultWriteRetry is three attempts, 5s then 10s apart.
var DefaultWriteRetry = retry.Config{
	MaxAttempts: 3,
	BaseDelay:   5 * time.Second,
	MaxDelay:    60 * time.Second,
}

var DefaultResilienceConfig = ResilienceConfig{
	SinkWrite: DefaultWriteRetry,
	Notify: retry.Config{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
		MaxDelay:    10 * time.Second,
		Timeout:     15 * time.Second,
	},
}

// Resilience applies the configured write retry to the defaults. transient
// classifies sink errors; notification posts keep their own predicate.
func (s *Settings) Resilience(transient func(error) bool) ResilienceConfig {
	rc := DefaultResilienceConfig
	rc.SinkWrite.MaxAttempts = s.Retry.MaxAttempts
	rc.SinkWrite.BaseDelay = s.Retry.BaseDelay
	rc.SinkWrite.MaxDelay = s.Retry.MaxDelay
	rc.SinkWrite.Retryable = transient
	return rc
}
