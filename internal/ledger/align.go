package ledger

// AlignedWidth is the number of columns (A..AW) in a statistics row.
const AlignedWidth = 49

// statisticsLayout places record fields at their destination column index.
var statisticsLayout = []struct {
	index int
	field func(LedgerRecord) string
}{
	{1, func(r LedgerRecord) string { return r.SalesOrderID }},      // B
	{2, func(r LedgerRecord) string { return r.VendorCode }},        // C
	{4, func(r LedgerRecord) string { return r.ProductCode }},       // E
	{5, func(r LedgerRecord) string { return r.Quantity }},          // F
	{6, func(r LedgerRecord) string { return r.SaleDate }},          // G
	{18, func(r LedgerRecord) string { return r.TaxCode }},          // S
	{21, func(r LedgerRecord) string { return r.TotalAmount }},      // V
	{22, func(r LedgerRecord) string { return r.SheetTotalTax }},    // W
	{25, func(r LedgerRecord) string { return r.VoucherType }},      // Z
	{26, func(r LedgerRecord) string { return r.UntaxedUnitPrice }}, // AA
	{27, func(r LedgerRecord) string { return r.UntaxedAmount }},    // AB
	{28, func(r LedgerRecord) string { return r.TaxAmount }},        // AC
	{36, func(r LedgerRecord) string { return r.InvoiceNumber }},    // AK
	{48, func(r LedgerRecord) string { return r.Remark }},           // AW
}

// Align maps a record onto the fixed statistics row layout.
func Align(r LedgerRecord) []string {
	row := make([]string, AlignedWidth)
	for _, col := range statisticsLayout {
		row[col.index] = col.field(r)
	}
	return row
}

// AlignAll aligns records in order.
func AlignAll(records []LedgerRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, Align(r))
	}
	return rows
}
