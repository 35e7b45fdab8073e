package gearbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testTable() *Table {
	return &Table{
		Ratios: map[int]float64{
			1: 3.626, 2: 2.188, 3: 1.541, 4: 1.213, 5: 1.000, 6: 0.767,
		},
		FinalDrive:        4.10,
		TireCircumference: 1.977,
	}
}

func TestTargetRPM(t *testing.T) {
	tbl := testTable()

	// 10 m/s in 3rd: 10 * 4.10 * 1.541 * 60 / 1.977
	assert.InDelta(t, 1916.6, tbl.TargetRPM(10, 3), 0.1)
}

func TestTargetRPM_NoValidTarget(t *testing.T) {
	tbl := testTable()

	tests := []struct {
		name  string
		speed float64
		gear  int
	}{
		{"gear zero", 10, 0},
		{"gear negative", 10, -1},
		{"gear above table", 10, 7},
		{"speed zero", 0, 3},
		{"speed negative", -2, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Zero(t, tbl.TargetRPM(tt.speed, tt.gear))
		})
	}
}

func TestMaxGear(t *testing.T) {
	assert.Equal(t, 6, testTable().MaxGear())
	assert.Equal(t, 0, (&Table{}).MaxGear())
}
