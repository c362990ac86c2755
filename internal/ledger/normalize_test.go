package ledger_test

import (
	"testing"

	"sales_ledger/internal/ledger"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ascii spaces and case", "  A （1）", "a(1)"},
		{"full width space", "品　種", "品種"},
		{"full width parens", "牛肉麵（大）", "牛肉麵(大)"},
		{"zero width marks", "紅\u200b茶\u200e\u202c", "紅茶"},
		{"service fee", "[服務費]", "[服務費]"},
		{"mixed case brand", "Visa", "visa"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ledger.Normalize(tt.input))
		})
	}
}

func TestNormalizeIsCaseAndWhitespaceInsensitive(t *testing.T) {
	assert.Equal(t, ledger.Normalize("a(1)"), ledger.Normalize("  A （1）"))
	assert.Equal(t, ledger.Normalize("MASTER"), ledger.Normalize(" master "))
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"  A （1）",
		"\u200b\tX",
		"\u200b 　Ｖｉｓａ\u202c",
		"İstanbul",
		"ΑΣ",
		"結帳 小計",
		"[服務費]",
		"  ",
		"（　）",
	}
	for _, in := range inputs {
		once := ledger.Normalize(in)
		assert.Equal(t, once, ledger.Normalize(once), "input %q", in)
	}
}
