package ledger

// PaymentMethod is the payment label written to every record of a sheet.
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "現金"
	PaymentOnAccount  PaymentMethod = "挂帳"
	PaymentCreditCard PaymentMethod = "信用卡"
	PaymentTransfer   PaymentMethod = "匯款"
	PaymentMixed      PaymentMethod = "多種"
)

// Descriptor markers found in POS sheets.
const (
	OnAccountMarker   = "挂帳"
	SubtotalMarker    = "結帳 小計"
	ServiceFee        = "[服務費]"
	PromotionalReason = "公關品"
)

// Vendor codes.
const (
	GeneralRetailVendor = "000999"
	PromotionalVendor   = "000995"
	vendorCodeWidth     = 6
)

// Voucher types and tax codes.
const (
	VoucherMixed      = "S994"
	VoucherCreditCard = "S997"
	VoucherCash       = "S998"
	VoucherTransfer   = "S996"
	VoucherNotFound   = "未查到"

	TaxCodeTaxable = "2"
	TaxCodeOther   = "6"
)

// DefaultEra is the calendar-era year prefixed to dates derived from sheet names.
const DefaultEra = "114"

const productNotFoundFormat = "未查到此商品(%s)"

const totalAmountWidth = 8

// Columns names the header cells the builder reads.
type Columns struct {
	Descriptor string
	Time       string
	UnitPrice  string
	Category   string
	Quantity   string
	Amount     string
	Invoice    string
	Reason     string
}

// DefaultColumns returns the header names used by the POS export.
func DefaultColumns() Columns {
	return Columns{
		Descriptor: "品　種",
		Time:       "時間",
		UnitPrice:  "單價",
		Category:   "類別",
		Quantity:   "數量",
		Amount:     "金額",
		Invoice:    "發票",
		Reason:     "贈送原因",
	}
}
