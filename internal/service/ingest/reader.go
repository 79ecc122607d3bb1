package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/daycount"
	"github.com/extrame/xls"
	"github.com/parquet-go/parquet-go"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// NoLimit reads every data row.
const NoLimit = -1

var (
	ErrEmptySource = errors.New("source has no header row")
	ErrNoWorksheet = errors.New("no worksheet found")
)

const (
	timestampLayout   = "2006-01-02 15:04:05"
	parquetDateLayout = "2006-01-02"
)

var (
	csvDelimiters = []rune{',', ';', '\t', '|'}
	utf8BOM       = []byte{0xEF, 0xBB, 0xBF}
	parquetMagic  = []byte("PAR1")
)

// ReadTable reads a source into a RawTable. Workbooks prefer the sheet named
// sheet and fall back to the first one. limit caps the number of data rows;
// NoLimit reads all of them.
func ReadTable(src event.SourceFile, sheet string, limit int) (RawTable, error) {
	data, err := sourceBytes(src)
	if err != nil {
		return RawTable{}, err
	}

	switch ext := sourceExt(src); ext {
	case ".xlsx", ".xlsm":
		return readXLSX(data, sheet, limit)
	case ".xls":
		return readXLS(data, sheet, limit)
	case ".csv", ".txt":
		return readCSV(data, limit)
	case ".parquet":
		return readParquet(data, limit)
	default:
		if bytes.HasPrefix(data, parquetMagic) {
			return readParquet(data, limit)
		}
		if table, err := readXLSX(data, sheet, limit); err == nil {
			return table, nil
		}
		return readCSV(data, limit)
	}
}

func sourceBytes(src event.SourceFile) ([]byte, error) {
	if src.IsPayload() {
		return src.Data, nil
	}
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src.Path, err)
	}
	return data, nil
}

func sourceExt(src event.SourceFile) string {
	name := src.Name
	if name == "" {
		name = src.Path
	}
	return strings.ToLower(filepath.Ext(name))
}

// tableFromRows splits the header off rows and applies limit.
func tableFromRows(rows [][]string, limit int) (RawTable, error) {
	if len(rows) == 0 {
		return RawTable{}, ErrEmptySource
	}
	header := make([]string, len(rows[0]))
	for i, col := range rows[0] {
		header[i] = strings.TrimSpace(col)
	}

	body := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if limit >= 0 && len(body) >= limit {
			break
		}
		if isEmptyRow(row) {
			continue
		}
		body = append(body, row)
	}
	return RawTable{Columns: header, Rows: body}, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func readXLSX(data []byte, sheet string, limit int) (RawTable, error) {
	// raw values keep dates as serial numbers instead of locale formatted text
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{RawCellValue: true})
	if err != nil {
		return RawTable{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	name := pickSheet(f.GetSheetList(), sheet)
	if name == "" {
		return RawTable{}, ErrNoWorksheet
	}

	if limit >= 0 {
		rows, err := f.Rows(name)
		if err != nil {
			return RawTable{}, fmt.Errorf("failed to read sheet %s: %w", name, err)
		}
		defer func() { _ = rows.Close() }()

		var collected [][]string
		for rows.Next() && len(collected) <= limit {
			cols, err := rows.Columns()
			if err != nil {
				return RawTable{}, fmt.Errorf("failed to read sheet %s: %w", name, err)
			}
			collected = append(collected, cols)
		}
		return tableFromRows(collected, limit)
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return RawTable{}, fmt.Errorf("failed to read sheet %s: %w", name, err)
	}
	return tableFromRows(rows, limit)
}

func pickSheet(names []string, preferred string) string {
	for _, name := range names {
		if name == preferred {
			return name
		}
	}
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

func readXLS(data []byte, sheet string, limit int) (RawTable, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return RawTable{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	if workbook.NumSheets() == 0 {
		return RawTable{}, ErrNoWorksheet
	}

	ws := workbook.GetSheet(0)
	for i := 0; i < workbook.NumSheets(); i++ {
		if s := workbook.GetSheet(i); s != nil && s.Name == sheet {
			ws = s
			break
		}
	}
	if ws == nil {
		return RawTable{}, ErrNoWorksheet
	}

	var rows [][]string
	for i := 0; i <= int(ws.MaxRow); i++ {
		if limit >= 0 && len(rows) > limit {
			break
		}
		row := ws.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}
	return tableFromRows(rows, limit)
}

func readCSV(data []byte, limit int) (RawTable, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return RawTable{}, fmt.Errorf("failed to decode csv: %w", err)
		}
		data = decoded
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffDelimiter(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		if limit >= 0 && len(rows) > limit {
			break
		}
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return RawTable{}, fmt.Errorf("failed to parse csv: %w", err)
		}
		rows = append(rows, record)
	}
	return tableFromRows(rows, limit)
}

// sniffDelimiter picks the candidate delimiter found most often, outside
// quotes, in the header line.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}

	counts := make(map[rune]int, len(csvDelimiters))
	quoted := false
	for _, r := range string(line) {
		if r == '"' {
			quoted = !quoted
			continue
		}
		if !quoted {
			counts[r]++
		}
	}

	best, bestCount := ',', 0
	for _, d := range csvDelimiters {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}

func readParquet(data []byte, limit int) (RawTable, error) {
	f, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return RawTable{}, fmt.Errorf("failed to open parquet file: %w", err)
	}

	schema := f.Schema()
	paths := schema.Columns()
	header := make([]string, len(paths))
	leaves := make([]parquet.LeafColumn, len(paths))
	for i, path := range paths {
		header[i] = strings.Join(path, ".")
		leaf, _ := schema.Lookup(path...)
		leaves[i] = leaf
	}

	rows := [][]string{header}
	buf := make([]parquet.Row, 128)
	for _, rg := range f.RowGroups() {
		if err := readRowGroup(rg, leaves, buf, &rows, limit); err != nil {
			return RawTable{}, err
		}
		if limit >= 0 && len(rows) > limit {
			break
		}
	}
	return tableFromRows(rows, limit)
}

func readRowGroup(rg parquet.RowGroup, leaves []parquet.LeafColumn, buf []parquet.Row, rows *[][]string, limit int) error {
	reader := rg.Rows()
	defer func() { _ = reader.Close() }()

	for {
		n, err := reader.ReadRows(buf)
		for _, row := range buf[:n] {
			cells := make([]string, len(leaves))
			row.Range(func(col int, values []parquet.Value) bool {
				if col < len(cells) && len(values) > 0 {
					cells[col] = parquetCell(values[0], leaves[col])
				}
				return true
			})
			*rows = append(*rows, cells)
			if limit >= 0 && len(*rows) > limit {
				return nil
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}
}

// parquetCell renders a value as the text the normalizer expects. DATE and
// TIMESTAMP logical types become naive date-time text.
func parquetCell(v parquet.Value, leaf parquet.LeafColumn) string {
	if v.IsNull() {
		return ""
	}

	if leaf.Node != nil {
		if lt := leaf.Node.Type().LogicalType(); lt != nil {
			switch {
			case lt.Date != nil:
				return time.Unix(0, 0).UTC().AddDate(0, 0, int(v.Int32())).Format(parquetDateLayout)
			case lt.Timestamp != nil:
				t := parquetTimestamp(v.Int64(), lt.Timestamp.Unit.Millis != nil, lt.Timestamp.Unit.Micros != nil)
				if lt.Timestamp.IsAdjustedToUTC {
					t = daycount.Naive(t.In(daycount.Location))
				}
				return t.Format(timestampLayout)
			}
		}
	}

	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'f', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'f', -1, 64)
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	}
	return ""
}

func parquetTimestamp(value int64, millis, micros bool) time.Time {
	switch {
	case millis:
		return time.UnixMilli(value).UTC()
	case micros:
		return time.UnixMicro(value).UTC()
	default:
		return time.Unix(0, value).UTC()
	}
}
