package reporting

import (
	"sync"
	"time"
)

// DecisionRecord captures one engine decision and its outcome for the
// session journal.
type DecisionRecord struct {
	Timestamp    time.Time
	Ticket       string
	Symbol       string
	Side         string
	Instruction  string // NO_OP / SET_STOP / REMOVE_STOP
	StopPrice    float64
	CurrentPrice float64
	Profit       float64
	Executed     bool // whether the broker accepted the modification
	Reason       string
}

// Journal accumulates decision records over one trailing session.
// Safe for use from the poll goroutine plus the shutdown path.
type Journal struct {
	mu      sync.Mutex
	started time.Time
	records []DecisionRecord
}

// NewJournal creates an empty session journal
func NewJournal() *Journal {
	return &Journal{started: time.Now()}
}

// Record appends one decision to the journal
func (j *Journal) Record(rec DecisionRecord) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, rec)
}

// Records returns a copy of all recorded decisions
func (j *Journal) Records() []DecisionRecord {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]DecisionRecord, len(j.records))
	copy(out, j.records)
	return out
}

// SessionSummary aggregates a journal for the end-of-session report
type SessionSummary struct {
	Started    time.Time
	Duration   time.Duration
	Cycles     int
	StopMoves  int
	Removals   int
	FinalStop  float64
	LastProfit float64
}

// Summary computes the aggregate view of the session
func (j *Journal) Summary() SessionSummary {
	j.mu.Lock()
	defer j.mu.Unlock()

	s := SessionSummary{
		Started:  j.started,
		Duration: time.Since(j.started),
		Cycles:   len(j.records),
	}
	for _, rec := range j.records {
		if !rec.Executed {
			continue
		}
		switch rec.Instruction {
		case "SET_STOP":
			s.StopMoves++
			s.FinalStop = rec.StopPrice
		case "REMOVE_STOP":
			s.Removals++
			s.FinalStop = 0
		}
	}
	if len(j.records) > 0 {
		s.LastProfit = j.records[len(j.records)-1].Profit
	}
	return s
}
