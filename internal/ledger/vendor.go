package ledger

import (
	"strings"

	"sales_ledger/internal/table"
)

var specialVendorCodes = map[string]bool{
	"52": true,
	"53": true,
	"54": true,
	"55": true,
}

// IsSpecialVendor reports whether code is one of the reserved audit codes.
func IsSpecialVendor(code string) bool {
	return specialVendorCodes[strings.TrimSpace(code)]
}

// ResolveVendorCode keeps reserved codes verbatim and zero-pads the rest to
// six digits.
func ResolveVendorCode(raw string) string {
	code := strings.TrimSpace(raw)
	if IsSpecialVendor(code) {
		return code
	}
	return ZeroPad(code, vendorCodeWidth)
}

// defaultVendor is the sheet-level vendor resolution.
type defaultVendor struct {
	code string
	// lookupKey is empty when no on-account line was found.
	lookupKey string
	raw       string
}

// resolveDefaultVendor reads the vendor code from the first on-account line.
// It only looks when on-account was detected and the category column exists.
func resolveDefaultVendor(t *table.Table, cols Columns, methods MethodSet) defaultVendor {
	dv := defaultVendor{code: GeneralRetailVendor}
	if !methods.Has(PaymentOnAccount) || !t.HasColumn(cols.Category) {
		return dv
	}

	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		descriptor, ok := row.Get(cols.Descriptor)
		if !ok {
			continue
		}
		category, ok := row.Get(cols.Category)
		if !ok {
			continue
		}
		if strings.TrimSpace(descriptor) != OnAccountMarker {
			continue
		}
		dv.raw = strings.TrimSpace(category)
		dv.code = ResolveVendorCode(dv.raw)
		dv.lookupKey = dv.code
		return dv
	}
	return dv
}

var staticVouchers = map[PaymentMethod]string{
	PaymentCash:       VoucherCash,
	PaymentCreditCard: VoucherCreditCard,
	PaymentTransfer:   VoucherTransfer,
}

// SheetVoucherType returns the voucher type shared by the non-promotional
// lines of a sheet.
func SheetVoucherType(method PaymentMethod, lookupKey string, m Mappings) string {
	switch {
	case method == PaymentMixed:
		return VoucherMixed
	case method == PaymentOnAccount && lookupKey != "":
		return m.AccountVoucher(lookupKey)
	}
	if v, ok := staticVouchers[method]; ok {
		return v
	}
	return VoucherTransfer
}

// TaxCode derives the tax code from a voucher type.
func TaxCode(voucherType string) string {
	if voucherType == VoucherMixed || voucherType == VoucherCreditCard {
		return TaxCodeTaxable
	}
	return TaxCodeOther
}
