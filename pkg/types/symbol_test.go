package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validMeta() *SymbolMetadata {
	return &SymbolMetadata{
		Symbol:       "EURUSD",
		Digits:       5,
		Point:        0.00001,
		ContractSize: 100000,
		MinStopUnits: 10,
	}
}

func TestSymbolMetadata_Validate(t *testing.T) {
	assert.NoError(t, validMeta().Validate())

	// Whole-number ticks quote with zero decimals and are valid
	wholeTick := validMeta()
	wholeTick.Digits = 0
	wholeTick.Point = 1
	assert.NoError(t, wholeTick.Validate())

	cases := []struct {
		name   string
		mutate func(*SymbolMetadata)
	}{
		{"negative digits", func(m *SymbolMetadata) { m.Digits = -1 }},
		{"zero point", func(m *SymbolMetadata) { m.Point = 0 }},
		{"zero contract size", func(m *SymbolMetadata) { m.ContractSize = 0 }},
		{"zero min stop", func(m *SymbolMetadata) { m.MinStopUnits = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			meta := validMeta()
			tc.mutate(meta)
			assert.Error(t, meta.Validate())
		})
	}
}

func TestSymbolMetadata_RoundPrice(t *testing.T) {
	meta := validMeta()

	assert.InDelta(t, 1.10440, meta.RoundPrice(1.104402), 1e-12)
	assert.InDelta(t, 1.10441, meta.RoundPrice(1.104407), 1e-12)

	meta.Digits = 2
	meta.Point = 0.01
	assert.InDelta(t, 50000.12, meta.RoundPrice(50000.123), 1e-9)
}

func TestSymbolMetadata_RoundPrice_CoarseTicks(t *testing.T) {
	// A half-point grid quotes one decimal, but 1.8 is not a quote
	half := &SymbolMetadata{Symbol: "X", Digits: 1, Point: 0.5, ContractSize: 1, MinStopUnits: 10}
	assert.InDelta(t, 1.5, half.RoundPrice(1.6), 1e-12)
	assert.InDelta(t, 2.0, half.RoundPrice(1.76), 1e-12)

	// Whole-number ticks land on the grid, not just on integers
	tens := &SymbolMetadata{Symbol: "Y", Digits: 0, Point: 10, ContractSize: 1, MinStopUnits: 10}
	assert.InDelta(t, 50000.0, tens.RoundPrice(50004.9), 1e-9)
	assert.InDelta(t, 50010.0, tens.RoundPrice(50005.0), 1e-9)
}

func TestSymbolMetadata_BrokerMinDistance(t *testing.T) {
	meta := validMeta()
	assert.InDelta(t, 0.00010, meta.BrokerMinDistance(), 1e-12)
}
