package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RowRecord maps a column header to the trimmed cell value for one row.
// Column order is carried by the owning Sheet's header list.
type RowRecord map[string]string

// Get returns the value of the given column, or "" when absent.
func (r RowRecord) Get(column string) string {
	return r[column]
}

// IsBlank reports whether every cell of the row is empty.
func (r RowRecord) IsBlank(headers []string) bool {
	for _, h := range headers {
		if r[h] != "" {
			return false
		}
	}
	return true
}

// Sheet is the parsed tabular content of an uploaded file: the header row
// plus the data rows in file order.
type Sheet struct {
	Headers []string
	Rows    []RowRecord
}

// SheetService parses uploaded CSV and Excel files. Parsing is deterministic:
// the mapping step and the execution step each re-parse the stored file and
// must see identical content.
type SheetService struct{}

func NewSheetService() *SheetService {
	return &SheetService{}
}

// Parse reads the first sheet/table of the file and returns trimmed headers
// and string-keyed rows. Blank cells default to "".
func (s *SheetService) Parse(filename string, data []byte) (*Sheet, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return s.parseCSV(data)
	case ".xlsx", ".xls":
		return s.parseExcel(data)
	}
	return nil, fmt.Errorf("%w: unsupported file type %s", ErrInvalidFile, filepath.Ext(filename))
}

func (s *SheetService) parseCSV(data []byte) (*Sheet, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV: %v", ErrInvalidFile, err)
	}

	return buildSheet(records)
}

func (s *SheetService) parseExcel(data []byte) (*Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open Excel file: %v", ErrInvalidFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: no sheets found in Excel file", ErrInvalidFile)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read rows: %v", ErrInvalidFile, err)
	}

	return buildSheet(rows)
}

// buildSheet turns raw records into a Sheet. Columns with a blank header are
// dropped; rows shorter than the header row are padded with "".
func buildSheet(records [][]string) (*Sheet, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: file has no header row", ErrInvalidFile)
	}

	var headers []string
	var indexes []int
	for i, cell := range records[0] {
		name := strings.TrimSpace(cell)
		if name == "" {
			continue
		}
		headers = append(headers, name)
		indexes = append(indexes, i)
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("%w: file has no column headers", ErrInvalidFile)
	}

	rows := make([]RowRecord, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(RowRecord, len(headers))
		for j, header := range headers {
			value := ""
			if idx := indexes[j]; idx < len(record) {
				value = strings.TrimSpace(record[idx])
			}
			row[header] = value
		}
		rows = append(rows, row)
	}

	return &Sheet{Headers: headers, Rows: rows}, nil
}
