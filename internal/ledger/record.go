package ledger

import (
	"path/filepath"
	"regexp"
)

// LedgerRecord is one normalized statistics line.
type LedgerRecord struct {
	SalesOrderID     string
	ProductCode      string
	SaleDate         string
	PaymentMethod    string
	VendorCode       string
	VoucherType      string
	Quantity         string
	TaxCode          string
	CashAmount       string
	CardAmount       string
	TotalAmount      string
	UntaxedUnitPrice string
	UntaxedAmount    string
	TaxAmount        string
	InvoiceNumber    string
	Remark           string
	SheetTotalTax    string
}

// HasSheetAggregates reports whether the record carries the sheet-level
// fields, which marks the start of a sheet in the destination table.
func (r LedgerRecord) HasSheetAggregates() bool {
	return r.TotalAmount != "" || r.InvoiceNumber != "" || r.Remark != "" || r.SheetTotalTax != ""
}

// SpecialVendorEvent records one use of a reserved vendor code.
type SpecialVendorEvent struct {
	Date       string `csv:"日期"`
	VendorCode string `csv:"客供商代號"`
	SheetName  string `csv:"銷貨單號"`
}

// SpecialVendorHeader is the header of the special vendor audit table.
var SpecialVendorHeader = []string{"日期", "客供商代號", "銷貨單號"}

// Row renders the event in SpecialVendorHeader order.
func (e SpecialVendorEvent) Row() []string {
	return []string{e.Date, e.VendorCode, e.SheetName}
}

// SpecialVendorTracker collects special vendor events across a run.
type SpecialVendorTracker struct {
	events []SpecialVendorEvent
}

// Record appends an event.
func (t *SpecialVendorTracker) Record(e SpecialVendorEvent) {
	t.events = append(t.events, e)
}

// Events returns the events in the order they were recorded.
func (t *SpecialVendorTracker) Events() []SpecialVendorEvent {
	return t.events
}

// Rows renders every event for the audit table.
func (t *SpecialVendorTracker) Rows() [][]string {
	rows := make([][]string, 0, len(t.events))
	for _, e := range t.events {
		rows = append(rows, e.Row())
	}
	return rows
}

var sheetDatePattern = regexp.MustCompile(`^.{4}(\d{2})(\d{2})`)

// SheetDate derives "era/MM/DD" from the four digits after the first four
// characters of a sheet name ("23210225002" → "114/02/25"). Names that do not
// match yield "".
func SheetDate(name, era string) string {
	m := sheetDatePattern.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return era + "/" + m[1] + "/" + m[2]
}

// SalesOrderID is the sheet name without its file extension.
func SalesOrderID(name string) string {
	ext := filepath.Ext(name)
	if ext == name {
		return name
	}
	return name[:len(name)-len(ext)]
}
