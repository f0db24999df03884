package reporting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleJournal() *Journal {
	j := NewJournal()
	now := time.Now()

	j.Record(DecisionRecord{
		Timestamp: now, Ticket: "EURUSD-BUY", Symbol: "EURUSD", Side: "LONG",
		Instruction: "NO_OP", CurrentPrice: 1.10100, Profit: 0.5,
		Reason: "waiting for profit",
	})
	j.Record(DecisionRecord{
		Timestamp: now.Add(5 * time.Second), Ticket: "EURUSD-BUY", Symbol: "EURUSD", Side: "LONG",
		Instruction: "SET_STOP", StopPrice: 1.10010, CurrentPrice: 1.10300, Profit: 30,
		Executed: true, Reason: "first protective stop",
	})
	j.Record(DecisionRecord{
		Timestamp: now.Add(10 * time.Second), Ticket: "EURUSD-BUY", Symbol: "EURUSD", Side: "LONG",
		Instruction: "SET_STOP", StopPrice: 1.10440, CurrentPrice: 1.10800, Profit: 80,
		Executed: true, Reason: "trailing",
	})
	return j
}

func TestJournal_Summary(t *testing.T) {
	s := sampleJournal().Summary()

	assert.Equal(t, 3, s.Cycles)
	assert.Equal(t, 2, s.StopMoves)
	assert.Equal(t, 0, s.Removals)
	assert.Equal(t, 1.10440, s.FinalStop)
	assert.Equal(t, 80.0, s.LastProfit)
}

func TestJournal_Summary_RemovalClearsFinalStop(t *testing.T) {
	j := sampleJournal()
	j.Record(DecisionRecord{
		Timestamp: time.Now(), Instruction: "REMOVE_STOP", Executed: true,
	})

	s := j.Summary()
	assert.Equal(t, 1, s.Removals)
	assert.Equal(t, 0.0, s.FinalStop)
}

func TestJournal_Summary_IgnoresUnexecuted(t *testing.T) {
	j := NewJournal()
	j.Record(DecisionRecord{Instruction: "SET_STOP", StopPrice: 1.5, Executed: false})

	s := j.Summary()
	assert.Equal(t, 0, s.StopMoves)
	assert.Equal(t, 0.0, s.FinalStop)
}

func TestJournal_RecordsReturnsCopy(t *testing.T) {
	j := sampleJournal()

	records := j.Records()
	records[0].Ticket = "mutated"

	assert.Equal(t, "EURUSD-BUY", j.Records()[0].Ticket)
}

func TestWriteJournal_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.csv")

	require.NoError(t, WriteJournal(sampleJournal(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Timestamp,Ticket,Symbol")
	assert.Contains(t, string(data), "SET_STOP")
	assert.Contains(t, string(data), "1.10440")
}

func TestWriteJournal_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.xlsx")

	require.NoError(t, WriteJournal(sampleJournal(), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWriteJournal_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "nested", "session.csv")

	require.NoError(t, WriteJournal(sampleJournal(), path))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
