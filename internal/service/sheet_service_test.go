package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	svc := NewSheetService()

	sheet, err := svc.Parse("contacts.csv", csvFile(
		" Email , Name ,",
		"jane@example.com,  Jane Doe  ,ignored",
		"short@example.com",
	))
	require.NoError(t, err)

	assert.Equal(t, []string{"Email", "Name"}, sheet.Headers, "headers are trimmed, blank-header columns dropped")
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "Jane Doe", sheet.Rows[0].Get("Name"), "cell values are trimmed")
	assert.Equal(t, "", sheet.Rows[1].Get("Name"), "short rows are padded with empty cells")
}

func TestParseCSVQuotedCells(t *testing.T) {
	svc := NewSheetService()

	sheet, err := svc.Parse("deals.csv", csvFile(
		"Title,Value",
		`"Big, ambitious deal","$12,500"`,
	))
	require.NoError(t, err)
	assert.Equal(t, "Big, ambitious deal", sheet.Rows[0].Get("Title"))
	assert.Equal(t, "$12,500", sheet.Rows[0].Get("Value"))
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Email", "Name"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"jane@example.com", "Jane Doe"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	sheet, err := NewSheetService().Parse("contacts.xlsx", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"Email", "Name"}, sheet.Headers)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "jane@example.com", sheet.Rows[0].Get("Email"))
}

func TestParseErrors(t *testing.T) {
	svc := NewSheetService()

	_, err := svc.Parse("contacts.pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, ErrInvalidFile)

	_, err = svc.Parse("contacts.csv", nil)
	assert.ErrorIs(t, err, ErrInvalidFile)

	_, err = svc.Parse("contacts.csv", csvFile(",,"))
	assert.ErrorIs(t, err, ErrInvalidFile)

	_, err = svc.Parse("contacts.xlsx", []byte("not a zip archive"))
	assert.ErrorIs(t, err, ErrInvalidFile)
}

func TestRowRecordIsBlank(t *testing.T) {
	headers := []string{"A", "B"}
	assert.True(t, RowRecord{"A": "", "B": ""}.IsBlank(headers))
	assert.False(t, RowRecord{"A": "", "B": "x"}.IsBlank(headers))
}
