package reporting

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
)

// PrintSessionSummary renders the end-of-session report to the console
func PrintSessionSummary(journal *Journal) {
	s := journal.Summary()

	fmt.Println("\n📋 TRAILING SESSION SUMMARY")

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendRows([]table.Row{
		{"Started", s.Started.Format("2006-01-02 15:04:05")},
		{"Duration", s.Duration.Round(1e9)},
		{"Decision cycles", s.Cycles},
		{"Stops moved", s.StopMoves},
		{"Stops removed", s.Removals},
		{"Final stop", fmt.Sprintf("%.5f", s.FinalStop)},
		{"Last seen profit", fmt.Sprintf("%+.2f", s.LastProfit)},
	})
	t.SetStyle(table.StyleLight)
	t.Render()
}
