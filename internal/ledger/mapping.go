package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ReferenceSource yields the raw rows of a reference sheet, header included.
type ReferenceSource interface {
	ReadRows(ctx context.Context) ([][]string, error)
}

// Mappings holds the lookup tables built once per run.
type Mappings struct {
	// Products maps a normalized product name to its product code.
	Products map[string]string
	// Accounts maps a zero-padded vendor id to its voucher type.
	Accounts map[string]string
}

// ProductCode resolves a raw descriptor, falling back to a marker that
// carries the descriptor for manual follow-up.
func (m Mappings) ProductCode(raw string) string {
	if code, ok := m.Products[Normalize(raw)]; ok {
		return code
	}
	return fmt.Sprintf(productNotFoundFormat, raw)
}

// AccountVoucher returns the voucher type registered for a vendor code.
func (m Mappings) AccountVoucher(vendorCode string) string {
	if v, ok := m.Accounts[vendorCode]; ok {
		return v
	}
	return VoucherNotFound
}

const (
	productCodeColumn = 1 // B
	productNameColumn = 2 // C

	accountIDColumn      = 1 // B
	accountVoucherColumn = 9 // J
	accountMinColumns    = 10
)

// LoadProductMapping builds normalized name → product code from the product
// reference. Read failures degrade to an empty table.
func LoadProductMapping(ctx context.Context, src ReferenceSource, logger zerolog.Logger) map[string]string {
	mapping := make(map[string]string)

	rows, err := src.ReadRows(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load product codes; every product will be reported as not found")
		return mapping
	}

	for i, row := range skipHeader(rows) {
		code, okCode := cell(row, productCodeColumn)
		name, okName := cell(row, productNameColumn)
		if !okCode || !okName {
			continue
		}
		key := Normalize(name)
		mapping[key] = code

		if i < 5 {
			logger.Debug().
				Str("name", name).
				Str("key", key).
				Str("code", code).
				Msg("Product code sample")
		}
	}

	if code, ok := mapping[Normalize(ServiceFee)]; ok {
		logger.Debug().Str("code", code).Msg("Service fee product code found")
	} else {
		logger.Debug().Str("key", Normalize(ServiceFee)).Msg("Service fee product code missing")
	}

	logger.Info().Int("entries", len(mapping)).Msg("Loaded product codes")
	return mapping
}

// LoadAccountMapping builds vendor id → voucher type from the on-account
// reference. Read failures degrade to an empty table.
func LoadAccountMapping(ctx context.Context, src ReferenceSource, logger zerolog.Logger) map[string]string {
	mapping := make(map[string]string)

	rows, err := src.ReadRows(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load account vouchers; on-account vouchers will be reported as not found")
		return mapping
	}

	for _, row := range skipHeader(rows) {
		if len(row) < accountMinColumns {
			continue
		}
		id := strings.TrimSpace(row[accountIDColumn])
		if id == "" {
			continue
		}
		mapping[ZeroPad(id, vendorCodeWidth)] = strings.TrimSpace(row[accountVoucherColumn])
	}

	logger.Info().Int("entries", len(mapping)).Msg("Loaded account vouchers")
	return mapping
}

func skipHeader(rows [][]string) [][]string {
	if len(rows) == 0 {
		return nil
	}
	return rows[1:]
}

// cell returns the trimmed value at idx, reporting false for absent or blank cells.
func cell(row []string, idx int) (string, bool) {
	if idx >= len(row) {
		return "", false
	}
	v := strings.TrimSpace(row[idx])
	return v, v != ""
}
