package ledger_test

import (
	"errors"
	"regexp"
	"strconv"
	"testing"

	"sales_ledger/internal/ledger"
	"sales_ledger/internal/table"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var posHeader = []string{"品　種", "時間", "單價", "類別", "數量", "金額", "發票", "贈送原因"}

func posSheet(name string, rows ...[]string) *table.Table {
	return table.New(name, append([][]string{posHeader}, rows...))
}

func newTestBuilder(m ledger.Mappings) (*ledger.Builder, *ledger.SpecialVendorTracker) {
	tracker := &ledger.SpecialVendorTracker{}
	return ledger.NewBuilder(m, tracker, zerolog.Nop()), tracker
}

func assertSheetInvariants(t *testing.T, records []ledger.LedgerRecord) {
	t.Helper()
	vendorShape := regexp.MustCompile(`^\d{6}$`)
	withAggregates := 0
	for i, r := range records {
		if r.HasSheetAggregates() {
			withAggregates++
			assert.Equal(t, 0, i, "sheet aggregates only on the first record")
		}
		assert.True(t, ledger.IsSpecialVendor(r.VendorCode) || vendorShape.MatchString(r.VendorCode),
			"vendor code %q", r.VendorCode)
		if r.VoucherType == "S994" || r.VoucherType == "S997" {
			assert.Equal(t, "2", r.TaxCode)
		} else {
			assert.Equal(t, "6", r.TaxCode)
		}
	}
	assert.LessOrEqual(t, withAggregates, 1)
}

func TestBuildSheetCashOnly(t *testing.T) {
	b, _ := newTestBuilder(ledger.Mappings{Products: map[string]string{"紅茶": "P001"}})
	sheet := posSheet("23210225002",
		[]string{"紅茶", "10:00", "50", "", "2", "100", "發票號:AA11111111 發票金額:100", ""},
		[]string{"綠茶", "10:05", "30", "", "1", "30", "", ""},
		[]string{"現金", "10:06", "", "", "", "130", "", ""},
		[]string{"結帳 小計", "", "", "", "", "130", "", ""},
	)

	records, err := b.BuildSheet(sheet)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assertSheetInvariants(t, records)

	first := records[0]
	assert.Equal(t, "23210225002", first.SalesOrderID)
	assert.Equal(t, "P001", first.ProductCode)
	assert.Equal(t, "114/02/25", first.SaleDate)
	assert.Equal(t, "現金", first.PaymentMethod)
	assert.Equal(t, "000999", first.VendorCode)
	assert.Equal(t, "S998", first.VoucherType)
	assert.Equal(t, "6", first.TaxCode)
	assert.Equal(t, "2", first.Quantity)
	assert.Equal(t, "100", first.CashAmount)
	assert.Equal(t, "", first.CardAmount)
	assert.Equal(t, "00000130", first.TotalAmount)
	assert.Equal(t, "50", first.UntaxedUnitPrice)
	assert.Equal(t, "100", first.UntaxedAmount)
	assert.Equal(t, "5", first.TaxAmount)
	assert.Equal(t, "AA11111111", first.InvoiceNumber)
	assert.Equal(t, "", first.Remark)
	assert.Equal(t, "5", first.SheetTotalTax)

	second := records[1]
	assert.Equal(t, "未查到此商品(綠茶)", second.ProductCode)
	assert.Equal(t, "30", second.CashAmount)
	assert.Equal(t, "1", second.TaxAmount)
	assert.False(t, second.HasSheetAggregates())

	for _, r := range records {
		assert.NotEmpty(t, r.CashAmount)
		assert.Empty(t, r.CardAmount)
	}
}

func TestBuildSheetSingleCardGroup(t *testing.T) {
	b, _ := newTestBuilder(ledger.Mappings{})
	sheet := posSheet("23210301001",
		[]string{"咖啡", "11:00", "80", "", "1", "80", "", ""},
		[]string{"VISA", "11:01", "", "", "", "40", "", ""},
		[]string{"MASTER", "11:02", "", "", "", "40", "", ""},
	)

	records, err := b.BuildSheet(sheet)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assertSheetInvariants(t, records)

	r := records[0]
	assert.Equal(t, "信用卡", r.PaymentMethod)
	assert.Equal(t, "S997", r.VoucherType)
	assert.Equal(t, "2", r.TaxCode)
	assert.Equal(t, "", r.CashAmount)
	assert.Equal(t, "80", r.CardAmount)
}

func TestBuildSheetMixedPayment(t *testing.T) {
	b, _ := newTestBuilder(ledger.Mappings{})
	sheet := posSheet("23210302001",
		[]string{"咖啡", "11:00", "50", "", "1", "50", "發票號:AA1 發票金額:50", ""},
		[]string{"蛋糕", "11:00", "55", "", "1", "55", "發票號:BB2 發票金額:55", ""},
		[]string{"現金", "11:01", "", "", "", "50", "", ""},
		[]string{"visa", "11:02", "", "", "", "55", "", ""},
	)

	records, err := b.BuildSheet(sheet)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assertSheetInvariants(t, records)

	for _, r := range records {
		assert.Equal(t, "多種", r.PaymentMethod)
		assert.Equal(t, "S994", r.VoucherType)
		assert.Equal(t, "2", r.TaxCode)
		assert.Empty(t, r.CashAmount)
		assert.Empty(t, r.CardAmount)
	}
	assert.Equal(t, "", records[0].InvoiceNumber)
	assert.Equal(t, "AA1_BB2", records[0].Remark)
	assert.Equal(t, "5", records[0].SheetTotalTax)
	assert.Equal(t, "", records[1].Remark)
}

func TestBuildSheetSpecialVendorOnAccount(t *testing.T) {
	b, tracker := newTestBuilder(ledger.Mappings{})
	sheet := posSheet("23210225002",
		[]string{"牛排", "12:00", "500", "", "1", "500", "", ""},
		[]string{"挂帳", "12:30", "", "52", "", "500", "", ""},
		[]string{"挂帳", "12:31", "", "53", "", "0", "", ""},
	)

	records, err := b.BuildSheet(sheet)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assertSheetInvariants(t, records)

	r := records[0]
	assert.Equal(t, "挂帳", r.PaymentMethod)
	assert.Equal(t, "52", r.VendorCode)
	assert.Equal(t, "未查到", r.VoucherType)
	assert.Equal(t, "6", r.TaxCode)

	assert.Equal(t, []ledger.SpecialVendorEvent{
		{Date: "114/02/25", VendorCode: "52", SheetName: "23210225002"},
	}, tracker.Events())
}

func TestBuildSheetOnAccountUsesAccountMapping(t *testing.T) {
	b, tracker := newTestBuilder(ledger.Mappings{Accounts: map[string]string{"001234": "S991"}})
	sheet := posSheet("23210226001",
		[]string{"牛排", "12:00", "500", "", "1", "500", "", ""},
		[]string{"沙拉", "12:00", "120", "", "1", "120", "", "公關品"},
		[]string{"挂帳", "12:30", "", "1234", "", "620", "", ""},
	)

	records, err := b.BuildSheet(sheet)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assertSheetInvariants(t, records)

	assert.Equal(t, "001234", records[0].VendorCode)
	assert.Equal(t, "S991", records[0].VoucherType)

	pr := records[1]
	assert.Equal(t, "000995", pr.VendorCode)
	assert.Equal(t, "", pr.VoucherType)
	assert.Equal(t, "6", pr.TaxCode)

	assert.Empty(t, tracker.Events())
}

func TestBuildSheetZeroPriceRules(t *testing.T) {
	b, _ := newTestBuilder(ledger.Mappings{})
	sheet := posSheet("23210227001",
		[]string{"小菜", "10:00", "0", "", "1", "0", "", ""},
		[]string{"小菜", "10:00", "0", "", "1", "0", "", "招待"},
		[]string{"公關酒", "10:01", "0", "", "1", "0", "", "公關品"},
		[]string{"[服務費]", "10:02", "0", "", "3", "10", "", ""},
		[]string{"[服務費]", "10:03", "", "", "", "10", "", ""},
		[]string{"[服務費]", "10:04", "n/a", "", "", "10", "", ""},
		[]string{"湯", "10:05", "", "", "1", "20", "", ""},
		[]string{"麵", "10:06", "abc", "", "1", "20", "", ""},
		[]string{"現金", "10:07", "", "", "", "30", "", ""},
	)

	records, err := b.BuildSheet(sheet)
	require.NoError(t, err)
	require.Len(t, records, 4)
	assertSheetInvariants(t, records)

	pr := records[0]
	assert.Equal(t, "000995", pr.VendorCode)
	assert.Equal(t, "", pr.VoucherType)
	assert.Equal(t, "0", pr.UntaxedUnitPrice)

	for _, fee := range records[1:] {
		assert.Equal(t, "1", fee.Quantity)
		assert.Equal(t, "000999", fee.VendorCode)
		assert.Equal(t, "S998", fee.VoucherType)
	}
	assert.Equal(t, "0", records[1].UntaxedUnitPrice)
	assert.Equal(t, "", records[2].UntaxedUnitPrice)
	assert.Equal(t, "", records[3].UntaxedUnitPrice)
}

func TestBuildSheetSkipsHeaderLikeRows(t *testing.T) {
	b, _ := newTestBuilder(ledger.Mappings{})
	sheet := posSheet("s",
		[]string{"Visa", "10:00", "10", "", "1", "10", "", ""},
		[]string{" jcb ", "10:00", "10", "", "1", "10", "", ""},
		[]string{"訂金", "10:00", "10", "", "1", "10", "", ""},
		[]string{"紅茶", "", "10", "", "1", "10", "", ""},
		[]string{"紅茶", "  ", "10", "", "1", "10", "", ""},
		[]string{"紅茶"},
		[]string{"奶茶", "10:00", "10", "", "1", "10", "", ""},
	)

	records, err := b.BuildSheet(sheet)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "未查到此商品(奶茶)", records[0].ProductCode)
}

func TestBuildSheetQuantityCoercion(t *testing.T) {
	b, _ := newTestBuilder(ledger.Mappings{})
	sheet := posSheet("s",
		[]string{"a", "10:00", "10", "", "2.0", "20", "", ""},
		[]string{"b", "10:00", "10", "", "1,000", "10000", "", ""},
		[]string{"c", "10:00", "10", "", "兩份", "20", "", ""},
		[]string{"d", "10:00", "10", "", "", "20", "", ""},
		[]string{"e", "10:00", "10.5", "", "3.9", "12.5", "", ""},
	)

	records, err := b.BuildSheet(sheet)
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.Equal(t, "2", records[0].Quantity)
	assert.Equal(t, "1000", records[1].Quantity)
	assert.Equal(t, "兩份", records[2].Quantity)
	assert.Equal(t, "", records[3].Quantity)
	assert.Equal(t, "3", records[4].Quantity)
	assert.Equal(t, "10", records[4].UntaxedUnitPrice, "half rounds to even")
	assert.Equal(t, "12", records[4].UntaxedAmount)
}

func TestBuildSheetNonNumericAmountLeavesFieldsEmpty(t *testing.T) {
	b, _ := newTestBuilder(ledger.Mappings{})
	sheet := posSheet("s",
		[]string{"a", "10:00", "10", "", "1", "免費", "", ""},
		[]string{"b", "10:00", "10", "", "1"},
	)

	records, err := b.BuildSheet(sheet)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Empty(t, r.UntaxedAmount)
		assert.Empty(t, r.TaxAmount)
	}
}

func TestBuildSheetSubtotalNotNumeric(t *testing.T) {
	b, _ := newTestBuilder(ledger.Mappings{})
	sheet := posSheet("s",
		[]string{"a", "10:00", "10", "", "1", "10", "", ""},
		[]string{"結帳 小計", "", "", "", "", "-", "", ""},
	)

	records, err := b.BuildSheet(sheet)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0].TotalAmount)
}

func TestBuildSheetMissingColumns(t *testing.T) {
	b, _ := newTestBuilder(ledger.Mappings{})
	sheet := table.New("broken", [][]string{{"品　種", "金額"}, {"a", "1"}})

	records, err := b.BuildSheet(sheet)
	assert.Nil(t, records)
	assert.True(t, errors.Is(err, ledger.ErrMissingColumns))
}

func TestBuildSheetEmpty(t *testing.T) {
	b, _ := newTestBuilder(ledger.Mappings{})
	records, err := b.BuildSheet(table.New("empty", nil))
	assert.NoError(t, err)
	assert.Empty(t, records)
}

func TestBuildSheetCashRoundTrip(t *testing.T) {
	b, _ := newTestBuilder(ledger.Mappings{})
	amounts := []string{"100", "1,250", "33", "0.4"}
	rows := [][]string{}
	for _, a := range amounts {
		rows = append(rows, []string{"品項", "09:00", "1", "", "1", a, "", ""})
	}
	rows = append(rows, []string{"現金", "09:10", "", "", "", "", "", ""})

	records, err := b.BuildSheet(posSheet("s", rows...))
	require.NoError(t, err)
	require.Len(t, records, len(amounts))

	var cash, raw float64
	for i, r := range records {
		v, err := strconv.ParseFloat(r.CashAmount, 64)
		require.NoError(t, err)
		cash += v
		w, _ := strconv.ParseFloat(r.UntaxedAmount, 64)
		assert.InDelta(t, v, w, 1, "record %d", i)
	}
	for _, a := range []float64{100, 1250, 33, 0.4} {
		raw += a
	}
	assert.InDelta(t, raw, cash, 0.0001)
}

func TestBuildSheetContextIsPerSheet(t *testing.T) {
	b, tracker := newTestBuilder(ledger.Mappings{})

	first, err := b.BuildSheet(posSheet("23210225001",
		[]string{"牛排", "12:00", "500", "", "1", "500", "", ""},
		[]string{"挂帳", "12:30", "", "54", "", "500", "", ""},
	))
	require.NoError(t, err)
	second, err := b.BuildSheet(posSheet("23210226001",
		[]string{"牛排", "12:00", "500", "", "1", "500", "", ""},
		[]string{"現金", "12:30", "", "", "", "500", "", ""},
	))
	require.NoError(t, err)

	assert.Equal(t, "54", first[0].VendorCode)
	assert.Equal(t, "000999", second[0].VendorCode)
	assert.Len(t, tracker.Events(), 1)
}
