package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"sales_ledger/internal/processing"
	"sales_ledger/internal/workbook"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeSheet(t *testing.T, path, sheet string, rows [][]string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		require.NoError(t, err)
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		require.NoError(t, f.SetSheetRow(sheet, cell, &values))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestLoadSettingsFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("LEDGER_LOCAL_FOLDER", "/from/env")
	t.Setenv("LEDGER_LOCAL_OUTPUT", "/from/env/out.xlsx")

	c := &cobra.Command{Use: "test"}
	c.Flags().String("folder", "", "")
	c.Flags().String("output", "", "")
	c.Flags().Bool("dry-run", false, "")
	require.NoError(t, c.Flags().Parse([]string{"--folder", "/from/flag", "--dry-run"}))

	settings, err := loadSettings(c, localBindings)
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", settings.Local.Folder)
	assert.Equal(t, "/from/env/out.xlsx", settings.Local.Output)
	assert.True(t, settings.DryRun)
	assert.Equal(t, "Sheet2", settings.Local.ProductSheet)
}

func TestLocalCommandEndToEnd(t *testing.T) {
	dir := t.TempDir()
	posDir := filepath.Join(dir, "pos")
	require.NoError(t, os.Mkdir(posDir, 0o755))

	writeSheet(t, filepath.Join(posDir, "23210225002.xlsx"), "Sheet1", [][]string{
		{"品　種", "時間", "單價", "類別", "數量", "金額", "發票", "贈送原因"},
		{"紅茶", "10:00", "50", "", "2", "100", "發票號:AA11111111 發票金額:100", ""},
		{"綠茶", "10:05", "30", "", "1", "30", "", ""},
		{"現金", "10:06", "", "", "", "130", "", ""},
	})
	productFile := filepath.Join(dir, "products.xlsx")
	writeSheet(t, productFile, "Sheet2", [][]string{
		{"序", "代號", "品名"},
		{"1", "P001", "紅茶"},
	})
	output := filepath.Join(dir, "out.xlsx")
	auditCSV := filepath.Join(dir, "special.csv")

	rootCmd.SetArgs([]string{
		"local",
		"--folder", posDir,
		"--output", output,
		"--product-file", productFile,
		"--audit-csv", auditCSV,
	})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()

	cells := map[string]string{
		"B2":  "23210225002",
		"C2":  "000999",
		"E2":  "P001",
		"G2":  "114/02/25",
		"Z2":  "S998",
		"AK2": "AA11111111",
		"E3":  "未查到此商品(綠茶)",
	}
	for cell, want := range cells {
		got, err := f.GetCellValue(workbook.StatisticsSheet, cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}

	header, err := f.GetCellValue(processing.SpecialVendorSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "日期", header)

	_, err = os.Stat(auditCSV)
	assert.NoError(t, err)
}
