package reports

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestIsValidFormat(t *testing.T) {
	for _, valid := range []string{"json", "csv", "html", "xlsx"} {
		if !IsValidFormat(valid) {
			t.Fatalf("%s should be valid", valid)
		}
	}
	if IsValidFormat("pdf") || IsValidFormat("") {
		t.Fatalf("unexpected valid format")
	}
}

func TestTitleize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"fee_summary", "Fee Summary"},
		{"monthly_collection_trend", "Monthly Collection Trend"},
		{"name", "Name"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := titleize(tc.input); got != tc.want {
			t.Fatalf("titleize(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestSheetNameClipped(t *testing.T) {
	name := sheetName("a_very_long_section_name_that_exceeds_the_limit")
	if len(name) > 31 {
		t.Fatalf("sheet name too long: %q (%d chars)", name, len(name))
	}
	if sheetName("fee_summary") != "Fee Summary" {
		t.Fatalf("short names should pass through titleized")
	}
}

func TestCellString(t *testing.T) {
	if got := cellString(nil); got != "" {
		t.Fatalf("nil: %q", got)
	}
	if got := cellString("abc"); got != "abc" {
		t.Fatalf("string: %q", got)
	}
	if got := cellString(42.5); got != "42.5" {
		t.Fatalf("float: %q", got)
	}
	if got := cellString(int64(7)); got != "7" {
		t.Fatalf("int64: %q", got)
	}
}

func testDocument() Document {
	return Document{
		Name: "sample_report",
		Sections: []Section{
			{Name: "totals", Facts: []Fact{{"count", int64(2)}, {"amount", 350.0}}},
			{Name: "rows", Headers: []string{"name", "value"}, Rows: []map[string]interface{}{
				{"name": "first", "value": 1.5},
				{"name": "second", "value": 2.0},
			}},
		},
	}
}

func TestWriteDocumentJSON(t *testing.T) {
	dir := t.TempDir()
	if err := WriteDocument(dir, testDocument(), FormatJSON); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "sample_report.json"))
	if err != nil {
		t.Fatalf("report file missing: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, `"totals"`) || !strings.Contains(content, `"rows"`) {
		t.Fatalf("sections missing from output: %s", content)
	}
}

func TestWriteDocumentCSV(t *testing.T) {
	dir := t.TempDir()
	if err := WriteDocument(dir, testDocument(), FormatCSV); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Fact sections produce no CSV file.
	if _, err := os.Stat(filepath.Join(dir, "sample_report_totals.csv")); !os.IsNotExist(err) {
		t.Fatalf("fact section should not produce a csv file")
	}

	f, err := os.Open(filepath.Join(dir, "sample_report_rows.csv"))
	if err != nil {
		t.Fatalf("csv file missing: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("csv parse: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}
	if records[0][0] != "name" || records[0][1] != "value" {
		t.Fatalf("header row: %v", records[0])
	}
	if records[1][0] != "first" || records[1][1] != "1.5" {
		t.Fatalf("first data row: %v", records[1])
	}
}

func TestWriteDocumentXLSX(t *testing.T) {
	dir := t.TempDir()
	if err := WriteDocument(dir, testDocument(), FormatXLSX); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, "sample_report.xlsx"))
	if err != nil {
		t.Fatalf("xlsx file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("xlsx file is empty")
	}
}

func TestWriteDocumentUnknownFormat(t *testing.T) {
	if err := WriteDocument(t.TempDir(), testDocument(), "pdf"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestRenderHTML(t *testing.T) {
	now := time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)
	doc := Document{
		Name: "sample",
		Sections: []Section{
			{Name: "fee_summary", Facts: []Fact{{"total_amount", 100.0}}},
			{Name: "rows", Headers: []string{"name"}, Rows: []map[string]interface{}{
				{"name": "<script>alert(1)</script>"},
			}},
		},
	}

	page := RenderHTML(doc, now)
	if !strings.Contains(page, "<h2>Fee Summary</h2>") {
		t.Fatalf("section heading missing")
	}
	if !strings.Contains(page, "Generated on: 2026-08-28 09:30:00") {
		t.Fatalf("timestamp missing")
	}
	if strings.Contains(page, "<script>alert(1)</script>") {
		t.Fatalf("cell content not escaped")
	}
	if !strings.Contains(page, "&lt;script&gt;") {
		t.Fatalf("escaped content missing")
	}
}
