package reports

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Supported output formats
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatHTML = "html"
	FormatXLSX = "xlsx"
)

// IsValidFormat reports whether f is a supported output format.
func IsValidFormat(f string) bool {
	switch f {
	case FormatJSON, FormatCSV, FormatHTML, FormatXLSX:
		return true
	}
	return false
}

// WriteDocument writes doc into dir in the requested format. CSV output
// produces one file per list-shaped section; the other formats produce
// a single file named after the document.
func WriteDocument(dir string, doc Document, format string) error {
	switch format {
	case FormatJSON:
		return writeJSON(dir, doc)
	case FormatCSV:
		return writeCSV(dir, doc)
	case FormatHTML:
		return writeHTML(dir, doc)
	case FormatXLSX:
		return writeXLSX(dir, doc)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

func writeJSON(dir string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, doc.Name+".json"), data, 0o644)
}

func writeCSV(dir string, doc Document) error {
	for _, sec := range doc.Sections {
		if !sec.IsList() || len(sec.Rows) == 0 {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", doc.Name, sec.Name))
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		w := csv.NewWriter(f)
		if err := w.Write(sec.Headers); err != nil {
			f.Close()
			return err
		}
		for _, row := range sec.Rows {
			record := make([]string, len(sec.Headers))
			for i, h := range sec.Headers {
				record[i] = cellString(row[h])
			}
			if err := w.Write(record); err != nil {
				f.Close()
				return err
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

func writeHTML(dir string, doc Document) error {
	content := RenderHTML(doc, time.Now())
	return os.WriteFile(filepath.Join(dir, doc.Name+".html"), []byte(content), 0o644)
}

// RenderHTML builds a standalone HTML page with one table per section.
func RenderHTML(doc Document, now time.Time) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html>
<head>
<title>School Administration Report</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; }
.section { margin-bottom: 30px; }
.section h2 { color: #333; border-bottom: 2px solid #007bff; padding-bottom: 5px; }
table { border-collapse: collapse; width: 100%; margin-top: 10px; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
th { background-color: #f2f2f2; }
tr:nth-child(even) { background-color: #f9f9f9; }
</style>
</head>
<body>
<h1>School Administration Report</h1>
`)
	fmt.Fprintf(&b, "<p>Generated on: %s</p>\n", now.Format("2006-01-02 15:04:05"))

	for _, sec := range doc.Sections {
		fmt.Fprintf(&b, "<div class='section'><h2>%s</h2>", html.EscapeString(titleize(sec.Name)))
		if sec.IsList() {
			if len(sec.Rows) > 0 {
				b.WriteString("<table><thead><tr>")
				for _, h := range sec.Headers {
					fmt.Fprintf(&b, "<th>%s</th>", html.EscapeString(titleize(h)))
				}
				b.WriteString("</tr></thead><tbody>")
				for _, row := range sec.Rows {
					b.WriteString("<tr>")
					for _, h := range sec.Headers {
						fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(cellString(row[h])))
					}
					b.WriteString("</tr>")
				}
				b.WriteString("</tbody></table>")
			}
		} else {
			b.WriteString("<table><tbody>")
			for _, f := range sec.Facts {
				fmt.Fprintf(&b, "<tr><td><strong>%s</strong></td><td>%s</td></tr>",
					html.EscapeString(titleize(f.Key)), html.EscapeString(cellString(f.Value)))
			}
			b.WriteString("</tbody></table>")
		}
		b.WriteString("</div>\n")
	}
	b.WriteString("</body></html>\n")
	return b.String()
}

func writeXLSX(dir string, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sec := range doc.Sections {
		sheet := sheetName(sec.Name)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return err
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return err
			}
		}

		if sec.IsList() {
			for col, h := range sec.Headers {
				cell, err := excelize.CoordinatesToCellName(col+1, 1)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(sheet, cell, titleize(h)); err != nil {
					return err
				}
			}
			for rowIdx, row := range sec.Rows {
				for col, h := range sec.Headers {
					cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
					if err != nil {
						return err
					}
					if err := f.SetCellValue(sheet, cell, cellValue(row[h])); err != nil {
						return err
					}
				}
			}
		} else {
			for rowIdx, fact := range sec.Facts {
				keyCell, err := excelize.CoordinatesToCellName(1, rowIdx+1)
				if err != nil {
					return err
				}
				valCell, err := excelize.CoordinatesToCellName(2, rowIdx+1)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(sheet, keyCell, titleize(fact.Key)); err != nil {
					return err
				}
				if err := f.SetCellValue(sheet, valCell, cellValue(fact.Value)); err != nil {
					return err
				}
			}
		}
	}

	return f.SaveAs(filepath.Join(dir, doc.Name+".xlsx"))
}

// titleize turns a snake_case key into a display label.
func titleize(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// sheetName clips a section name to the 31-character sheet name limit.
func sheetName(s string) string {
	name := titleize(s)
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

func cellString(v interface{}) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// cellValue passes scalars through so spreadsheet cells keep their type.
func cellValue(v interface{}) interface{} {
	if v == nil {
		return ""
	}
	return v
}
