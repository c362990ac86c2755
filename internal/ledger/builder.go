package ledger

import (
	"errors"
	"fmt"
	"strings"

	"sales_ledger/internal/table"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ErrMissingColumns is returned for sheets without a descriptor or time column.
var ErrMissingColumns = errors.New("sheet is missing required columns")

var skipKeywords = func() map[string]bool {
	set := make(map[string]bool)
	for _, k := range []string{
		"現金", "MASTER", "VISA", OnAccountMarker, "Visa", "AE", "Master",
		"jcb", "匯款", "訂金", "銀聯",
	} {
		set[Normalize(k)] = true
	}
	return set
}()

// SheetContext is the per-sheet state computed before line iteration.
type SheetContext struct {
	Name          string
	Date          string
	SalesOrderID  string
	Methods       MethodSet
	PaymentMethod PaymentMethod
	DefaultVendor string
	// VoucherLookup is the account-mapping key, empty without an on-account line.
	VoucherLookup string
	VoucherType   string
	// Subtotal is the raw amount of the closing-subtotal line.
	Subtotal string
	Invoices Invoices
}

// Builder turns source sheets into ledger records.
type Builder struct {
	Mappings Mappings
	Columns  Columns
	Era      string
	Tracker  *SpecialVendorTracker
	Logger   zerolog.Logger
}

// NewBuilder returns a Builder with the default POS columns and era.
func NewBuilder(m Mappings, tracker *SpecialVendorTracker, logger zerolog.Logger) *Builder {
	return &Builder{
		Mappings: m,
		Columns:  DefaultColumns(),
		Era:      DefaultEra,
		Tracker:  tracker,
		Logger:   logger,
	}
}

// NewSheetContext classifies the sheet and resolves its defaults. A reserved
// vendor code on the on-account line is reported to the tracker here.
func (b *Builder) NewSheetContext(t *table.Table) SheetContext {
	cols := b.Columns
	sc := SheetContext{
		Name:         t.Name,
		Date:         SheetDate(t.Name, b.Era),
		SalesOrderID: SalesOrderID(t.Name),
	}

	var descriptors []string
	t.Each(func(r table.Row) {
		if v, ok := r.Get(cols.Descriptor); ok {
			descriptors = append(descriptors, strings.TrimSpace(v))
		}
	})
	sc.Methods = DetectPaymentMethods(descriptors)
	sc.PaymentMethod = ClassifyPayment(sc.Methods)

	dv := resolveDefaultVendor(t, cols, sc.Methods)
	sc.DefaultVendor = dv.code
	sc.VoucherLookup = dv.lookupKey
	if dv.lookupKey != "" && IsSpecialVendor(dv.raw) && b.Tracker != nil {
		b.Tracker.Record(SpecialVendorEvent{
			Date:       sc.Date,
			VendorCode: dv.raw,
			SheetName:  t.Name,
		})
	}
	sc.VoucherType = SheetVoucherType(sc.PaymentMethod, sc.VoucherLookup, b.Mappings)

	if t.HasColumn(cols.Amount) {
		for i := 0; i < t.Len(); i++ {
			row := t.Row(i)
			d, ok := row.Get(cols.Descriptor)
			if !ok || strings.TrimSpace(d) != SubtotalMarker {
				continue
			}
			if amt, ok := row.Get(cols.Amount); ok {
				sc.Subtotal = strings.TrimSpace(amt)
			}
			break
		}
	}

	sc.Invoices = ExtractInvoices(t, cols.Invoice)
	return sc
}

// line is the working state of one row while it passes the guards.
type line struct {
	row         table.Row
	descriptor  string
	serviceFee  bool
	promotional bool
	price       decimal.Decimal
	priceParsed bool
	vendor      string
}

// guard inspects a line in order; returning false rejects it.
type guard struct {
	name  string
	check func(b *Builder, sc *SheetContext, ln *line) bool
}

var lineGuards = []guard{
	{"descriptor_and_time", guardDescriptorAndTime},
	{"unit_price", guardUnitPrice},
}

func guardDescriptorAndTime(b *Builder, _ *SheetContext, ln *line) bool {
	descriptor, okD := ln.row.Get(b.Columns.Descriptor)
	timeValue, okT := ln.row.Get(b.Columns.Time)
	if !okD || !okT {
		return false
	}
	ln.descriptor = strings.TrimSpace(descriptor)
	if skipKeywords[Normalize(ln.descriptor)] {
		return false
	}
	return strings.TrimSpace(timeValue) != ""
}

// guardUnitPrice applies the price rules and the per-line vendor override.
// Lines without a price cell keep the sheet default vendor.
func guardUnitPrice(b *Builder, sc *SheetContext, ln *line) bool {
	ln.serviceFee = Normalize(ln.descriptor) == Normalize(ServiceFee)
	if reason, ok := ln.row.Get(b.Columns.Reason); ok {
		ln.promotional = strings.TrimSpace(reason) == PromotionalReason
	}

	raw, ok := ln.row.Get(b.Columns.UnitPrice)
	if !ok {
		return true
	}
	if strings.TrimSpace(strings.ReplaceAll(raw, ",", "")) == "" {
		return ln.serviceFee
	}
	price, ok := parseNumber(raw)
	if !ok {
		return ln.serviceFee
	}
	ln.price = price
	ln.priceParsed = true

	switch {
	case price.IsZero() && ln.promotional:
		ln.vendor = PromotionalVendor
	case price.IsZero():
		return ln.serviceFee
	case ln.promotional:
		ln.vendor = PromotionalVendor
	case sc.PaymentMethod == PaymentOnAccount:
		ln.vendor = sc.DefaultVendor
	default:
		ln.vendor = GeneralRetailVendor
	}
	return true
}

type sheetState int

const (
	pendingFirstRow sheetState = iota
	subsequent
)

// BuildSheet emits the records of one sheet. Only the first record carries
// the sheet-level aggregates.
func (b *Builder) BuildSheet(t *table.Table) ([]LedgerRecord, error) {
	if t.Empty() {
		return nil, nil
	}
	if !t.HasColumn(b.Columns.Descriptor) || !t.HasColumn(b.Columns.Time) {
		return nil, fmt.Errorf("%s: %w (%q, %q)", t.Name, ErrMissingColumns, b.Columns.Descriptor, b.Columns.Time)
	}

	sc := b.NewSheetContext(t)
	b.Logger.Debug().
		Str("sheet", t.Name).
		Str("payment_method", string(sc.PaymentMethod)).
		Str("vendor", sc.DefaultVendor).
		Str("voucher", sc.VoucherType).
		Int("invoices", len(sc.Invoices.Numbers)).
		Msg("Resolved sheet context")

	var records []LedgerRecord
	state := pendingFirstRow

rows:
	for i := 0; i < t.Len(); i++ {
		ln := &line{row: t.Row(i), vendor: sc.DefaultVendor}
		for _, g := range lineGuards {
			if !g.check(b, &sc, ln) {
				b.Logger.Debug().
					Str("sheet", t.Name).
					Int("row", i+2).
					Str("guard", g.name).
					Msg("Skipping line")
				continue rows
			}
		}

		rec := b.buildRecord(&sc, ln)
		if state == pendingFirstRow {
			b.fillSheetAggregates(&sc, &rec)
			state = subsequent
		}
		records = append(records, rec)
	}

	return records, nil
}

func (b *Builder) buildRecord(sc *SheetContext, ln *line) LedgerRecord {
	rec := LedgerRecord{
		SalesOrderID:  sc.SalesOrderID,
		ProductCode:   b.Mappings.ProductCode(ln.descriptor),
		SaleDate:      sc.Date,
		PaymentMethod: string(sc.PaymentMethod),
		VendorCode:    ln.vendor,
		VoucherType:   sc.VoucherType,
		Quantity:      b.quantity(ln),
	}
	if ln.promotional {
		rec.VoucherType = ""
	}
	rec.TaxCode = TaxCode(rec.VoucherType)

	var amount string
	if raw, ok := ln.row.Get(b.Columns.Amount); ok {
		amount = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	}
	switch sc.PaymentMethod {
	case PaymentCash:
		rec.CashAmount = amount
	case PaymentCreditCard:
		rec.CardAmount = amount
	}

	if ln.priceParsed {
		rec.UntaxedUnitPrice = roundString(ln.price)
	}
	if amt, ok := parseNumber(amount); ok {
		rec.UntaxedAmount = roundString(amt)
		rec.TaxAmount = roundString(inclusiveTax(amt))
	}
	return rec
}

func (b *Builder) quantity(ln *line) string {
	if ln.descriptor == ServiceFee {
		return "1"
	}
	raw, ok := ln.row.Get(b.Columns.Quantity)
	if !ok {
		return ""
	}
	q := strings.TrimSpace(raw)
	if q == "" {
		return ""
	}
	if d, ok := parseNumber(q); ok {
		return d.Truncate(0).String()
	}
	return q
}

func (b *Builder) fillSheetAggregates(sc *SheetContext, rec *LedgerRecord) {
	if total, ok := parseNumber(sc.Subtotal); ok {
		rec.TotalAmount = ZeroPad(roundString(total), totalAmountWidth)
	}
	rec.InvoiceNumber, rec.Remark = sc.Invoices.SheetFields(sc.PaymentMethod)
	rec.SheetTotalTax = sc.Invoices.Tax
}
