package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/okian/enow/internal/domain/impact"
	"github.com/okian/enow/internal/domain/table"
)

// Format names a table file encoding.
type Format string

// Supported table formats.
const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
)

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".tsv", ".tab":
		return FormatTSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ReadTable reads a table file with a header row. Columns whose cells are all
// numeric become metric columns, empty cells counting as zero; the rest, and
// the impact key columns, are kept as text.
func ReadTable(ctx context.Context, path string) (*table.Table, Format, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, "", err
	}

	var records [][]string
	switch format {
	case FormatXLSX:
		records, err = readWorkbook(path)
	default:
		comma := ','
		if format == FormatTSV {
			comma = '\t'
		}
		records, err = readDelimitedFile(path, comma)
	}
	if err != nil {
		return nil, format, err
	}
	if err := ctx.Err(); err != nil {
		return nil, format, err
	}

	t, err := parseRecords(records)
	if err != nil {
		return nil, format, fmt.Errorf("%s: %w", path, err)
	}
	return t, format, nil
}

func readDelimitedFile(path string, comma rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer func() { _ = f.Close() }()
	return readDelimited(f, comma)
}

func readDelimited(r io.Reader, comma rune) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return records, nil
}

// readWorkbook returns the rows of the first sheet.
func readWorkbook(path string) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, openError(path, err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s has no sheets", ErrParse, path)
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}
	return rows, nil
}

func openError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return fmt.Errorf("open %s: %w", path, err)
}

// parseRecords turns a header row plus data rows into a table. Columns with an
// empty header, such as a spreadsheet index, are dropped.
func parseRecords(records [][]string) (*table.Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header row", ErrParse)
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	var body [][]string
	for _, rec := range records[1:] {
		if !blank(rec) {
			body = append(body, rec)
		}
	}

	b := table.NewBuilder(len(body))
	kept := 0
	for col, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		kept++

		cells := make([]string, len(body))
		for i, rec := range body {
			if col < len(rec) {
				cells[i] = strings.TrimSpace(rec[col])
			}
		}

		if values, ok := numeric(cells); ok && !isKeyColumn(name) {
			b.Metric(name, values)
		} else {
			b.Keys(name, cells)
		}
	}
	if kept == 0 {
		return nil, fmt.Errorf("%w: header has no column names", ErrParse)
	}
	for i, rec := range body {
		if len(rec) > len(header) && !blank(rec[len(header):]) {
			return nil, fmt.Errorf("%w: row %d has %d fields, header has %d", ErrParse, i+2, len(rec), len(header))
		}
	}

	t, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return t, nil
}

func isKeyColumn(name string) bool {
	return name == impact.ColImpactType || name == impact.ColDestinationState
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// numeric parses every cell as a number. Thousands separators and a leading
// dollar sign are accepted; empty and NaN cells are zero.
func numeric(cells []string) ([]float64, bool) {
	out := make([]float64, len(cells))
	for i, c := range cells {
		if c == "" || strings.EqualFold(c, "nan") {
			continue
		}
		c = strings.ReplaceAll(strings.TrimPrefix(c, "$"), ",", "")
		v, err := strconv.ParseFloat(c, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
