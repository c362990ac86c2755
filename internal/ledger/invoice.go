package ledger

import (
	"regexp"
	"strings"

	"sales_ledger/internal/table"

	"github.com/shopspring/decimal"
)

var (
	invoiceNumberPattern = regexp.MustCompile(`發票號:([\p{L}\p{N}_]+)`)
	invoiceAmountPattern = regexp.MustCompile(`發票金額:(\d+)`)
)

const zeroInvoiceMarker = "發票金額:0"

// Invoices is what a sheet's invoice-marker column yields.
type Invoices struct {
	// Numbers in sheet order; duplicates are kept.
	Numbers []string
	// Tax is the tax part of the summed invoice amounts, or "" when the
	// column is missing or carries no amount.
	Tax string
}

// ExtractInvoices scans the invoice column of every row.
func ExtractInvoices(t *table.Table, column string) Invoices {
	var inv Invoices
	if !t.HasColumn(column) {
		return inv
	}

	sum := decimal.Zero
	matched := false
	for i := 0; i < t.Len(); i++ {
		raw, ok := t.Row(i).Get(column)
		if !ok {
			continue
		}
		text := strings.TrimSpace(raw)

		if m := invoiceAmountPattern.FindStringSubmatch(text); m != nil {
			if amt, err := decimal.NewFromString(m[1]); err == nil {
				sum = sum.Add(amt)
				matched = true
			}
		}

		if strings.Contains(text, zeroInvoiceMarker) {
			continue
		}
		if m := invoiceNumberPattern.FindStringSubmatch(text); m != nil {
			inv.Numbers = append(inv.Numbers, m[1])
		}
	}

	if matched {
		inv.Tax = roundString(inclusiveTax(sum))
	}
	return inv
}

// SheetFields returns the invoice number and remark written on the first
// record of a sheet. Mixed-payment sheets list every number in the remark.
func (inv Invoices) SheetFields(method PaymentMethod) (number, remark string) {
	if method == PaymentMixed {
		return "", strings.Join(inv.Numbers, "_")
	}
	if len(inv.Numbers) > 0 {
		return inv.Numbers[0], ""
	}
	return "", ""
}
