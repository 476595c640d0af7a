package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func writeCheckWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "check.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

func TestCheckWorkbook_ReportsEveryBadRow(t *testing.T) {
	path := writeCheckWorkbook(t, [][]any{
		{"Service Date", "Submitted Procedure", "Provider NPI", "Provider Fees", "Allowed Fees", "Member Coinsurance", "Member Copay"},
		{"3/28/18 0:00", "D0180", "1497775530", "$100.00", "", "$0.00", "$0.00"},
		{},
		{"3/28/18 0:00", "D0210", "1497775530", "abc", "$10.00", "$0.00", "$0.00"},
		{"3/28/18 0:00", "D0220", "1497775530", "$150.00", "$100.00", "$25.00", "$10.00"},
	})

	rep, err := checkWorkbook(path, "")
	if err != nil {
		t.Fatalf("checkWorkbook: %v", err)
	}

	if rep.Items != 3 || rep.Valid != 1 {
		t.Errorf("Items=%d Valid=%d, want 3 and 1", rep.Items, rep.Valid)
	}
	if !rep.TotalNetFee.Equal(decimal.RequireFromString("85")) {
		t.Errorf("TotalNetFee = %s, want 85", rep.TotalNetFee)
	}
	if len(rep.SHA256) != 64 {
		t.Errorf("SHA256 = %q", rep.SHA256)
	}

	want := []string{
		"Missing required fields in data item 1: allowed_fees",
		"Invalid value or type for 'provider_fees' in Data item 3 (D0210 - 3/28/18 0:00).",
	}
	if len(rep.Problems) != len(want) {
		t.Fatalf("Problems = %q, want %d entries", rep.Problems, len(want))
	}
	for i, w := range want {
		if rep.Problems[i] != w {
			t.Errorf("Problems[%d] = %q, want %q", i, rep.Problems[i], w)
		}
	}
}

func TestCheckWorkbook_Clean(t *testing.T) {
	path := writeCheckWorkbook(t, [][]any{
		{"provider_fees", "allowed_fees", "member_coinsurance", "member_copay"},
		{"$1,250.00", "$200.00", "$0.00", "$10.00"},
	})

	rep, err := checkWorkbook(path, "")
	if err != nil {
		t.Fatalf("checkWorkbook: %v", err)
	}
	if len(rep.Problems) != 0 {
		t.Errorf("Problems = %q, want none", rep.Problems)
	}
	if !rep.TotalNetFee.Equal(decimal.RequireFromString("1060")) {
		t.Errorf("TotalNetFee = %s, want 1060", rep.TotalNetFee)
	}
}

func TestCheckWorkbook_Unreadable(t *testing.T) {
	_, err := checkWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"), "")
	if err == nil || !strings.Contains(err.Error(), "workbook") {
		t.Fatalf("err = %v, want a workbook error", err)
	}
}
