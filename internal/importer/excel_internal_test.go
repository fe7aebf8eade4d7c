package importer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func Test_validateRequiredColumns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cols    columnMap
		wantMsg string
	}{
		{"both present", columnMap{contentType: 0, url: 1, active: -1, position: -1}, ""},
		{"missing both", columnMap{contentType: -1, url: -1}, "missing required columns"},
		{"missing type", columnMap{contentType: -1, url: 1}, "missing required column: type"},
		{"missing url", columnMap{contentType: 0, url: -1}, "missing required column: url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := validateRequiredColumns(tt.cols)
			if tt.wantMsg == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, headerRowNumber, got.Row)
			assert.Contains(t, got.Error, tt.wantMsg)
		})
	}
}

func Test_mapColumns(t *testing.T) {
	t.Parallel()

	cols := mapColumns([]string{" URL ", "notes", "Type"})

	assert.Equal(t, columnMap{contentType: 2, url: 0, active: -1, position: -1}, cols)
}

func Test_openExcelRows(t *testing.T) {
	t.Parallel()

	t.Run("invalid reader", func(t *testing.T) {
		t.Parallel()

		rows, err := openExcelRows(bytes.NewReader([]byte("not excel")))
		require.Error(t, err)
		assert.Nil(t, rows)
	})

	t.Run("empty sheet", func(t *testing.T) {
		t.Parallel()

		f := excelize.NewFile()
		var buf bytes.Buffer
		require.NoError(t, f.Write(&buf))

		rows, err := openExcelRows(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})
}

func Test_parseBool(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"true", "TRUE", "1", "yes"} {
		v, ok := parseBool(s)
		assert.True(t, ok, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"false", "0", "No"} {
		v, ok := parseBool(s)
		assert.True(t, ok, s)
		assert.False(t, v, s)
	}
	_, ok := parseBool("on")
	assert.False(t, ok)
}
