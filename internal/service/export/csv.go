package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
)

// utf8BOM lets spreadsheet programs detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes the given columns of events as UTF-8 CSV with a BOM.
// Dates use dd/mm/yyyy.
func WriteCSV(w io.Writer, events []event.Event, columns []string) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, len(columns))
	for _, e := range events {
		for i, col := range columns {
			record[i] = cellText(e, col)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
