package reporting

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// writeJournalXLSX writes the session journal as a styled workbook with
// a decisions sheet and a summary sheet.
func writeJournalXLSX(journal *Journal, path string) error {
	fx := excelize.NewFile()
	defer fx.Close()

	const decisionsSheet = "Decisions"
	const summarySheet = "Summary"

	fx.SetSheetName(fx.GetSheetName(0), decisionsSheet)
	fx.NewSheet(summarySheet)

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF", Family: "Calibri"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2F5496"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	// Decisions sheet
	for col, h := range journalHeader() {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		fx.SetCellValue(decisionsSheet, cell, h)
		fx.SetCellStyle(decisionsSheet, cell, cell, headerStyle)
	}
	for i, rec := range journal.Records() {
		row := i + 2
		fx.SetCellValue(decisionsSheet, fmt.Sprintf("A%d", row), rec.Timestamp.Format("2006-01-02 15:04:05"))
		fx.SetCellValue(decisionsSheet, fmt.Sprintf("B%d", row), rec.Ticket)
		fx.SetCellValue(decisionsSheet, fmt.Sprintf("C%d", row), rec.Symbol)
		fx.SetCellValue(decisionsSheet, fmt.Sprintf("D%d", row), rec.Side)
		fx.SetCellValue(decisionsSheet, fmt.Sprintf("E%d", row), rec.Instruction)
		fx.SetCellValue(decisionsSheet, fmt.Sprintf("F%d", row), rec.StopPrice)
		fx.SetCellValue(decisionsSheet, fmt.Sprintf("G%d", row), rec.CurrentPrice)
		fx.SetCellValue(decisionsSheet, fmt.Sprintf("H%d", row), rec.Profit)
		fx.SetCellValue(decisionsSheet, fmt.Sprintf("I%d", row), rec.Executed)
		fx.SetCellValue(decisionsSheet, fmt.Sprintf("J%d", row), rec.Reason)
	}

	// Summary sheet
	s := journal.Summary()
	summaryRows := [][]interface{}{
		{"Started", s.Started.Format("2006-01-02 15:04:05")},
		{"Duration", s.Duration.String()},
		{"Decision cycles", s.Cycles},
		{"Stops moved", s.StopMoves},
		{"Stops removed", s.Removals},
		{"Final stop", s.FinalStop},
		{"Last seen profit", s.LastProfit},
	}
	for i, row := range summaryRows {
		fx.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+1), row[0])
		fx.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+1), row[1])
	}
	fx.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(summaryRows)), headerStyle)

	return fx.SaveAs(path)
}
