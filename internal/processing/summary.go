package processing

import (
	"fmt"
	"strings"
	"time"
)

// Summary describes one run.
type Summary struct {
	RunID               string
	Started             time.Time
	Finished            time.Time
	SheetsListed        int
	SheetsRead          int
	SheetsSkipped       int
	Skipped             []string
	Records             int
	SpecialVendorEvents int
	DryRun              bool
}

func (s Summary) Duration() time.Duration {
	if s.Finished.IsZero() {
		return 0
	}
	return s.Finished.Sub(s.Started)
}

// String renders the summary as a short multi-line message.
func (s Summary) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Sales ledger run %s\n", s.RunID))
	sb.WriteString(fmt.Sprintf("Sheets: %d read, %d skipped of %d\n", s.SheetsRead, s.SheetsSkipped, s.SheetsListed))
	sb.WriteString(fmt.Sprintf("Records: %d\n", s.Records))
	sb.WriteString(fmt.Sprintf("Special vendor uses: %d\n", s.SpecialVendorEvents))
	if len(s.Skipped) > 0 {
		sb.WriteString("Skipped: " + strings.Join(s.Skipped, ", ") + "\n")
	}
	if s.DryRun {
		sb.WriteString("Dry run, nothing written\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
