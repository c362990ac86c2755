package ledger_test

import (
	"context"
	"errors"
	"testing"

	"sales_ledger/internal/ledger"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeReference struct {
	rows [][]string
	err  error
}

func (f fakeReference) ReadRows(context.Context) ([][]string, error) {
	return f.rows, f.err
}

func TestLoadProductMapping(t *testing.T) {
	src := fakeReference{rows: [][]string{
		{"序", "代號", "品名"},
		{"1", "P001", "紅茶"},
		{"2", "P002", " 紅　茶 "},
		{"3", "P003", "牛肉麵（大）"},
		{"4", "", "無代號"},
		{"5", "P005"},
		{"6", "S001", "[服務費]"},
	}}

	m := ledger.LoadProductMapping(context.Background(), src, zerolog.Nop())

	assert.Equal(t, map[string]string{
		"紅茶":      "P002",
		"牛肉麵(大)":  "P003",
		"[服務費]":   "S001",
	}, m)
}

func TestLoadProductMappingFailsSoft(t *testing.T) {
	m := ledger.LoadProductMapping(context.Background(), fakeReference{err: errors.New("boom")}, zerolog.Nop())
	assert.NotNil(t, m)
	assert.Empty(t, m)
}

func TestLoadAccountMapping(t *testing.T) {
	src := fakeReference{rows: [][]string{
		{"A", "帳號", "C", "D", "E", "F", "G", "H", "I", "傳票"},
		{"", "123", "", "", "", "", "", "", "", "S991"},
		{"", " 52 ", "", "", "", "", "", "", "", " S990 "},
		{"", "456", "", "", "", "", "", "", ""},
		{"", "", "", "", "", "", "", "", "", "S000"},
		{"", "123", "", "", "", "", "", "", "", "S992", "extra"},
	}}

	m := ledger.LoadAccountMapping(context.Background(), src, zerolog.Nop())

	assert.Equal(t, map[string]string{
		"000123": "S992",
		"000052": "S990",
	}, m)
}

func TestLoadAccountMappingFailsSoft(t *testing.T) {
	m := ledger.LoadAccountMapping(context.Background(), fakeReference{err: errors.New("unreachable")}, zerolog.Nop())
	assert.NotNil(t, m)
	assert.Empty(t, m)
}

func TestMappingsFallbacks(t *testing.T) {
	m := ledger.Mappings{
		Products: map[string]string{"紅茶": "P001"},
		Accounts: map[string]string{"000123": "S991"},
	}

	assert.Equal(t, "P001", m.ProductCode(" 紅 茶"))
	assert.Equal(t, "未查到此商品(綠茶)", m.ProductCode("綠茶"))
	assert.Equal(t, "S991", m.AccountVoucher("000123"))
	assert.Equal(t, "未查到", m.AccountVoucher("000999"))
}

func TestZeroPad(t *testing.T) {
	assert.Equal(t, "000052", ledger.ZeroPad("52", 6))
	assert.Equal(t, "000000", ledger.ZeroPad("", 6))
	assert.Equal(t, "1234567", ledger.ZeroPad("1234567", 6))
	assert.Equal(t, "-0000012", ledger.ZeroPad("-12", 8))
	assert.Equal(t, "00000130", ledger.ZeroPad("130", 8))
}
