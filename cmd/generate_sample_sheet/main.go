package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/xuri/excelize/v2"
)

// Generates sample spreadsheets for manual testing of the import pipeline.

var samples = map[string]struct {
	headers []string
	rows    [][]interface{}
}{
	"contacts": {
		headers: []string{"Email", "First Name", "Last Name", "Phone", "Company"},
		rows: [][]interface{}{
			{"jane.doe@example.com", "Jane", "Doe", "+1 555 0100", "Acme Corp"},
			{"bob.smith@example.com", "Bob", "Smith", "+1 555 0101", "Globex"},
			{"ana.garcia@example.com", "Ana", "Garcia", "", "Initech"},
		},
	},
	"leads": {
		headers: []string{"Lead Title", "Contact Email", "Contact Name", "Status", "Customer"},
		rows: [][]interface{}{
			{"Website redesign", "jane.doe@example.com", "Jane Doe", "NEW", "Acme Corp"},
			{"Annual support contract", "bob.smith@example.com", "Bob Smith", "CONTACTED", "Globex"},
			{"Cloud migration", "ana.garcia@example.com", "Ana Garcia", "", "Initech"},
		},
	},
	"opportunities": {
		headers: []string{"Opportunity Title", "Contact Email", "Stage", "Value", "Probability", "Close Date"},
		rows: [][]interface{}{
			{"Website redesign - Phase 1", "jane.doe@example.com", "Prospecting", "25,000", "40", "2026-10-01"},
			{"Support renewal 2026", "bob.smith@example.com", "Closed Won", "$12000.50", "100", "2026-09-15"},
			{"Migration pilot", "ana.garcia@example.com", "Closed Lost", "8000", "0", ""},
		},
	},
}

func main() {
	importType := flag.String("type", "contacts", "import type: contacts, leads or opportunities")
	output := flag.String("out", "", "output path (defaults to sample_<type>.xlsx)")
	flag.Parse()

	sample, ok := samples[*importType]
	if !ok {
		log.Fatalf("Unknown import type: %s", *importType)
	}

	path := *output
	if path == "" {
		path = fmt.Sprintf("sample_%s.xlsx", *importType)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	for i, header := range sample.headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	for rowIdx, row := range sample.rows {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	lastCol, _ := excelize.CoordinatesToCellName(len(sample.headers), 1)
	f.SetCellStyle(sheet, "A1", lastCol, headerStyle)

	if err := f.SaveAs(path); err != nil {
		log.Fatalf("Failed to save sample file: %v", err)
	}
	log.Printf("Wrote %s sample to %s", *importType, path)
}
