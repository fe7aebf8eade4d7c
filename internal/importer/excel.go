// Package importer reads feed items from .xlsx spreadsheets and writes the
// matching template.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jonesrussell/north-cloud/content-feed/internal/models"
	"github.com/jonesrussell/north-cloud/content-feed/internal/service"
	"github.com/xuri/excelize/v2"
)

const (
	headerType     = "type"
	headerURL      = "url"
	headerActive   = "active"
	headerPosition = "position"

	headerRowNumber = 1 // Excel rows are 1-based, header is row 1
)

// ItemRow represents a parsed row from the spreadsheet.
type ItemRow struct {
	Row      int // Excel row number (for error reporting)
	Type     string
	URL      string
	Active   *bool
	Position *int
}

// ImportError represents a problem with a specific row.
type ImportError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// columnMap holds the 0-based index of each known header, -1 when absent.
type columnMap struct {
	contentType int
	url         int
	active      int
	position    int
}

// ParseExcelFile reads the first sheet. Rows that fail to parse or validate
// are reported in the second result and left out of the first.
func ParseExcelFile(r io.Reader) ([]ItemRow, []ImportError) {
	rows, err := openExcelRows(r)
	if err != nil {
		return nil, []ImportError{{Row: 0, Error: err.Error()}}
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols := mapColumns(rows[0])
	if colErr := validateRequiredColumns(cols); colErr != nil {
		return nil, []ImportError{*colErr}
	}

	var (
		items     []ItemRow
		rowErrors []ImportError
	)
	for i, cells := range rows[1:] {
		rowNumber := headerRowNumber + i + 1
		if isBlank(cells) {
			continue
		}

		row, parseErr := parseRow(cells, cols, rowNumber)
		if parseErr == "" {
			parseErr = ValidateRow(row)
		}
		if parseErr != "" {
			rowErrors = append(rowErrors, ImportError{Row: rowNumber, Error: parseErr})
			continue
		}
		items = append(items, row)
	}

	return items, rowErrors
}

func openExcelRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return [][]string{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if rows == nil {
		rows = [][]string{}
	}
	return rows, nil
}

func mapColumns(header []string) columnMap {
	cols := columnMap{contentType: -1, url: -1, active: -1, position: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case headerType:
			cols.contentType = i
		case headerURL:
			cols.url = i
		case headerActive:
			cols.active = i
		case headerPosition:
			cols.position = i
		}
	}
	return cols
}

func validateRequiredColumns(cols columnMap) *ImportError {
	switch {
	case cols.contentType < 0 && cols.url < 0:
		return &ImportError{Row: headerRowNumber, Error: "missing required columns: type, url"}
	case cols.contentType < 0:
		return &ImportError{Row: headerRowNumber, Error: "missing required column: type"}
	case cols.url < 0:
		return &ImportError{Row: headerRowNumber, Error: "missing required column: url"}
	default:
		return nil
	}
}

func cell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseRow(cells []string, cols columnMap, rowNumber int) (ItemRow, string) {
	row := ItemRow{
		Row:  rowNumber,
		Type: cell(cells, cols.contentType),
		URL:  cell(cells, cols.url),
	}

	if raw := cell(cells, cols.active); raw != "" {
		active, ok := parseBool(raw)
		if !ok {
			return row, "active must be true/false/1/0/yes/no"
		}
		row.Active = &active
	}

	if raw := cell(cells, cols.position); raw != "" {
		position, err := strconv.Atoi(raw)
		if err != nil {
			return row, "position must be a whole number"
		}
		row.Position = &position
	}

	return row, ""
}

func parseBool(s string) (value, ok bool) {
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	default:
		return false, false
	}
}

// ValidateRow validates a single row and returns an error message or empty string.
func ValidateRow(row ItemRow) string {
	if row.Type == "" {
		return "type is required"
	}
	if _, err := models.ParseContentType(row.Type); err != nil {
		return "type must be one of: youtube, wordpress"
	}
	if row.URL == "" {
		return "url is required"
	}
	if !strings.HasPrefix(row.URL, "http://") && !strings.HasPrefix(row.URL, "https://") {
		return "url must start with http:// or https://"
	}
	if utf8.RuneCountInString(row.URL) > models.MaxURLLength {
		return fmt.Sprintf("url must not exceed %d characters", models.MaxURLLength)
	}
	if row.Position != nil && *row.Position < 0 {
		return "position must be zero or greater"
	}
	return ""
}

// ToInput converts a row to the workflow's create input.
func (r ItemRow) ToInput() service.ItemInput {
	return service.ItemInput{
		Type:     r.Type,
		URL:      r.URL,
		Active:   r.Active,
		Position: r.Position,
	}
}

// Creator is the part of the feed workflow an import needs.
type Creator interface {
	Create(ctx context.Context, in service.ItemInput) (*models.ContentItem, error)
}

// Result summarizes an import run.
type Result struct {
	Created []*models.ContentItem `json:"created"`
	Errors  []ImportError         `json:"errors"`
}

// Import creates every row in order, so rows without a position are appended
// in spreadsheet order. A failing row does not stop the rest.
func Import(ctx context.Context, creator Creator, rows []ItemRow) Result {
	var result Result
	for _, row := range rows {
		item, err := creator.Create(ctx, row.ToInput())
		if err != nil {
			result.Errors = append(result.Errors, ImportError{Row: row.Row, Error: importErrorMessage(err)})
			continue
		}
		result.Created = append(result.Created, item)
	}
	return result
}

func importErrorMessage(err error) string {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return strings.Join(verr.Errors, " ")
	}
	return err.Error()
}
