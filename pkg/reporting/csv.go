package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteJournal writes the session journal to path, choosing the format
// from the extension (.xlsx delegates to the Excel writer, anything
// else is CSV).
func WriteJournal(journal *Journal, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return writeJournalXLSX(journal, path)
	}
	return writeJournalCSV(journal, path)
}

func writeJournalCSV(journal *Journal, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(journalHeader()); err != nil {
		return err
	}

	for _, rec := range journal.Records() {
		row := []string{
			rec.Timestamp.Format("2006-01-02 15:04:05"),
			rec.Ticket,
			rec.Symbol,
			rec.Side,
			rec.Instruction,
			fmt.Sprintf("%.5f", rec.StopPrice),
			fmt.Sprintf("%.5f", rec.CurrentPrice),
			fmt.Sprintf("%.2f", rec.Profit),
			fmt.Sprintf("%v", rec.Executed),
			rec.Reason,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func journalHeader() []string {
	return []string{
		"Timestamp",
		"Ticket",
		"Symbol",
		"Side",
		"Instruction",
		"Stop_Price",
		"Current_Price",
		"Profit_$",
		"Executed",
		"Reason",
	}
}
