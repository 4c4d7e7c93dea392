// Package export renders entity lists into downloadable documents. Each
// entity has an explicit table builder (no reflection) and the writers are
// pure: empty input yields a valid, empty document rather than an error.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"strconv"
	"time"
)

type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// utf8BOM is prepended to CSV output so spreadsheet tools detect UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSV renders the table per RFC 4180 with a UTF-8 BOM prefix.
func CSV(table Table) []byte {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	writer := csv.NewWriter(&buf)
	_ = writer.Write(table.Headers)
	for _, row := range table.Rows {
		_ = writer.Write(row)
	}
	writer.Flush()
	return buf.Bytes()
}

// JSON renders the table rows as an array of header-keyed objects. Numeric
// identifiers and timestamps were already coerced to strings by the table
// builders, so 64-bit values survive consumers that parse into doubles.
func JSON(table Table) []byte {
	records := make([]map[string]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		record := make(map[string]string, len(table.Headers))
		for i, header := range table.Headers {
			if i < len(row) {
				record[header] = row[i]
			}
		}
		records = append(records, record)
	}

	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return []byte("[]")
	}
	return raw
}

// excelTmpl emits a SpreadsheetML-flavored HTML table that Excel opens as a
// worksheet. This is the legacy .xls HTML format, not a binary workbook.
var excelTmpl = template.Must(template.New("excel").Parse(`<html xmlns:o="urn:schemas-microsoft-com:office:office" xmlns:x="urn:schemas-microsoft-com:office:excel">
<head>
<meta charset="utf-8" />
<!--[if gte mso 9]><xml>
<x:ExcelWorkbook><x:ExcelWorksheets><x:ExcelWorksheet>
<x:Name>{{.Name}}</x:Name>
<x:WorksheetOptions><x:DisplayGridlines/></x:WorksheetOptions>
</x:ExcelWorksheet></x:ExcelWorksheets></x:ExcelWorkbook>
</xml><![endif]-->
</head>
<body>
<table border="1">
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}</tbody>
</table>
</body>
</html>
`))

func Excel(table Table) []byte {
	var buf bytes.Buffer
	if err := excelTmpl.Execute(&buf, table); err != nil {
		return []byte("<html><body><table></table></body></html>")
	}
	return buf.Bytes()
}

// printableTmpl renders a styled report document meant for the browser print
// dialog. Field values are auto-escaped by html/template.
var printableTmpl = template.Must(template.New("printable").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>{{.Name}}</title>
  <style>
    body { font-family: sans-serif; margin: 24px; }
    table { width: 100%; border-collapse: collapse; margin-top: 8px; }
    th, td { border: 1px solid #ddd; padding: 6px; font-size: 13px; }
    h2 { margin-bottom: 4px; }
  </style>
</head>
<body>
  <h2>{{.Name}}</h2>
  <table>
    <thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
    <tbody>{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}</tbody>
  </table>
</body>
</html>
`))

func PrintableHTML(table Table) []byte {
	var buf bytes.Buffer
	if err := printableTmpl.Execute(&buf, table); err != nil {
		return []byte("<!doctype html><html><body><p>Report rendering error.</p></body></html>")
	}
	return buf.Bytes()
}

// FileName builds a download name like leads-20260102-150405.csv.
func FileName(base string, ext string, at time.Time) string {
	return fmt.Sprintf("%s-%s.%s", base, at.UTC().Format("20060102-150405"), ext)
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func formatBool(v bool) string {
	return strconv.FormatBool(v)
}
