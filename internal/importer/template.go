package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	itemsSheet        = "Items"
	instructionsSheet = "Instructions"
)

// WriteTemplate writes an .xlsx import template with example rows and an
// instructions sheet.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", itemsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	rows := [][]string{
		{headerType, headerURL, headerActive, headerPosition},
		{"youtube", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "true", "1"},
		{"wordpress", "https://blog.example.com/2024/05/spring-collection", "false", ""},
	}
	if err := writeRows(f, itemsSheet, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(instructionsSheet); err != nil {
		return fmt.Errorf("create instructions sheet: %w", err)
	}
	instructions := [][]string{
		{"Column Descriptions:"},
		{""},
		{"type - Required. youtube or wordpress"},
		{"url - Required. Page or video URL (must start with http:// or https://, at most 500 characters)"},
		{"active - Optional. true/false/1/0/yes/no (default: true)"},
		{"position - Optional. Display position, zero or greater (default: appended after the last item)"},
		{""},
		{"Title, description and thumbnail are fetched from the URL on import."},
	}
	if err := writeRows(f, instructionsSheet, instructions); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]string) error {
	for r, row := range rows {
		for c, v := range row {
			cellName, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err = f.SetCellValue(sheet, cellName, v); err != nil {
				return fmt.Errorf("set %s!%s: %w", sheet, cellName, err)
			}
		}
	}
	return nil
}
