package excel

// RawRowData represents a row of raw data as header/value pairs
type RawRowData map[string]string

// ExcelData represents a raw table read from an Excel or CSV file
type ExcelData struct {
	Headers []string   // Column headers, trimmed
	Records [][]string // Data rows, aligned with Headers
}

// Row returns record i keyed by header
func (d *ExcelData) Row(i int) RawRowData {
	row := make(RawRowData, len(d.Headers))
	for j, h := range d.Headers {
		if j < len(d.Records[i]) {
			row[h] = d.Records[i][j]
		}
	}
	return row
}
