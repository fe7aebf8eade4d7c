package importer_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jonesrussell/north-cloud/content-feed/internal/importer"
	"github.com/jonesrussell/north-cloud/content-feed/internal/models"
	"github.com/jonesrussell/north-cloud/content-feed/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// createTestExcel creates an in-memory spreadsheet with the given header and rows.
func createTestExcel(t *testing.T, header []string, rows [][]string) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	sheetName := "Sheet1"

	all := append([][]string{header}, rows...)
	for rowIdx, row := range all {
		for colIdx, val := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheetName, cell, val))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

var defaultHeader = []string{"type", "url", "active", "position"}

func TestParseExcelFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		header         []string
		rows           [][]string
		wantRowCount   int
		wantErrorCount int
		wantErrorMsg   string
	}{
		{
			name: "valid file with two items",
			rows: [][]string{
				{"youtube", "https://youtu.be/dQw4w9WgXcQ", "true", "1"},
				{"WordPress", "https://blog.example.com/a", "no", ""},
			},
			wantRowCount: 2,
		},
		{
			name:           "unknown type",
			rows:           [][]string{{"vimeo", "https://vimeo.com/1", "", ""}},
			wantErrorCount: 1,
			wantErrorMsg:   "type must be one of",
		},
		{
			name:           "missing url",
			rows:           [][]string{{"youtube", "", "", ""}},
			wantErrorCount: 1,
			wantErrorMsg:   "url is required",
		},
		{
			name:           "bad scheme",
			rows:           [][]string{{"wordpress", "ftp://example.com/a", "", ""}},
			wantErrorCount: 1,
			wantErrorMsg:   "url must start with http",
		},
		{
			name:           "bad active flag",
			rows:           [][]string{{"wordpress", "https://example.com/a", "maybe", ""}},
			wantErrorCount: 1,
			wantErrorMsg:   "active must be",
		},
		{
			name:           "non numeric position",
			rows:           [][]string{{"wordpress", "https://example.com/a", "", "first"}},
			wantErrorCount: 1,
			wantErrorMsg:   "position must be a whole number",
		},
		{
			name:           "negative position",
			rows:           [][]string{{"wordpress", "https://example.com/a", "", "-1"}},
			wantErrorCount: 1,
			wantErrorMsg:   "position must be zero or greater",
		},
		{
			name: "valid and invalid rows mixed",
			rows: [][]string{
				{"youtube", "https://youtu.be/dQw4w9WgXcQ", "", ""},
				{"", "https://example.com/a", "", ""},
				{"wordpress", "https://example.com/b", "", ""},
			},
			wantRowCount:   2,
			wantErrorCount: 1,
			wantErrorMsg:   "type is required",
		},
		{
			name:           "missing url column",
			header:         []string{"type", "link"},
			rows:           [][]string{{"youtube", "https://youtu.be/dQw4w9WgXcQ"}},
			wantErrorCount: 1,
			wantErrorMsg:   "missing required column: url",
		},
		{
			name: "header only",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			header := tt.header
			if header == nil {
				header = defaultHeader
			}

			rows, rowErrors := importer.ParseExcelFile(createTestExcel(t, header, tt.rows))

			assert.Len(t, rows, tt.wantRowCount)
			require.Len(t, rowErrors, tt.wantErrorCount)
			if tt.wantErrorMsg != "" {
				assert.Contains(t, rowErrors[0].Error, tt.wantErrorMsg)
			}
		})
	}
}

func TestParseExcelFile_RowValues(t *testing.T) {
	t.Parallel()

	reader := createTestExcel(t, []string{"Position", "URL", "Type", "Active"}, [][]string{
		{"3", "https://youtu.be/dQw4w9WgXcQ", "youtube", "0"},
		{},
		{"", "https://blog.example.com/a", "wordpress", ""},
	})

	rows, rowErrors := importer.ParseExcelFile(reader)
	require.Empty(t, rowErrors)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Row)
	assert.Equal(t, "youtube", rows[0].Type)
	require.NotNil(t, rows[0].Active)
	assert.False(t, *rows[0].Active)
	require.NotNil(t, rows[0].Position)
	assert.Equal(t, 3, *rows[0].Position)

	assert.Equal(t, 4, rows[1].Row)
	assert.Nil(t, rows[1].Active)
	assert.Nil(t, rows[1].Position)
}

func TestParseExcelFile_NotASpreadsheet(t *testing.T) {
	t.Parallel()

	rows, rowErrors := importer.ParseExcelFile(strings.NewReader("type,url\nyoutube,https://youtu.be/x"))

	assert.Empty(t, rows)
	require.Len(t, rowErrors, 1)
	assert.Contains(t, rowErrors[0].Error, "open spreadsheet")
}

type fakeCreator struct {
	inputs []service.ItemInput
	fail   map[string]error
}

func (f *fakeCreator) Create(_ context.Context, in service.ItemInput) (*models.ContentItem, error) {
	f.inputs = append(f.inputs, in)
	if err := f.fail[in.URL]; err != nil {
		return nil, err
	}
	return &models.ContentItem{ID: int64(len(f.inputs)), URL: in.URL}, nil
}

func TestImport(t *testing.T) {
	t.Parallel()

	creator := &fakeCreator{fail: map[string]error{
		"https://example.com/dup": &service.ValidationError{Errors: []string{service.MsgURLTooLong}},
		"https://example.com/db":  errors.New("connection reset"),
	}}
	rows := []importer.ItemRow{
		{Row: 2, Type: "youtube", URL: "https://youtu.be/dQw4w9WgXcQ"},
		{Row: 3, Type: "wordpress", URL: "https://example.com/dup"},
		{Row: 4, Type: "wordpress", URL: "https://example.com/db"},
		{Row: 5, Type: "wordpress", URL: "https://example.com/ok"},
	}

	result := importer.Import(context.Background(), creator, rows)

	assert.Len(t, creator.inputs, 4)
	assert.Len(t, result.Created, 2)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, importer.ImportError{Row: 3, Error: service.MsgURLTooLong}, result.Errors[0])
	assert.Equal(t, importer.ImportError{Row: 4, Error: "connection reset"}, result.Errors[1])
}

func TestWriteTemplate_RoundTrips(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, importer.WriteTemplate(&buf))

	rows, rowErrors := importer.ParseExcelFile(bytes.NewReader(buf.Bytes()))

	assert.Empty(t, rowErrors)
	require.Len(t, rows, 2)
	assert.Equal(t, "youtube", rows[0].Type)
	assert.Equal(t, "wordpress", rows[1].Type)
}

func TestValidateRow_URLLengthCountsCharacters(t *testing.T) {
	t.Parallel()

	const prefix = "https://blog.example.com/"
	atLimit := prefix + strings.Repeat("é", models.MaxURLLength-len(prefix))
	require.Greater(t, len(atLimit), models.MaxURLLength)

	assert.Empty(t, importer.ValidateRow(importer.ItemRow{Type: "wordpress", URL: atLimit}))
	assert.Equal(t, "url must not exceed 500 characters",
		importer.ValidateRow(importer.ItemRow{Type: "wordpress", URL: atLimit + "é"}))
}
