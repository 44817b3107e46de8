package main

import (
	"testing"

	"github.com/hipsterbrown/feetech-servo/feetech"
)

func TestBenchRange(t *testing.T) {
	tests := []struct {
		center   int
		min, max int
	}{
		{2048, 1024, 3072},
		{500, 0, 2048},    // shifted up off the low stop
		{4000, 2047, 4095}, // shifted down off the high stop
	}

	for _, tt := range tests {
		got := benchRange(3, tt.center)
		if got.ID != 3 || got.RangeMin != tt.min || got.RangeMax != tt.max {
			t.Errorf("benchRange(3, %d) = %+v, want %d-%d", tt.center, got, tt.min, tt.max)
		}
	}
}

func TestParseScale(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"1.0", 1.0, false},
		{" 0.95 ", 0.95, false},
		{"2", 2, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"2.5", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got, err := parseScale(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseScale(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseScale(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsBench(t *testing.T) {
	full := []feetech.FoundServo{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}, {ID: 6}}
	if !isBench(full) {
		t.Error("IDs 1-6 should be a bench")
	}
	if isBench(full[:5]) {
		t.Error("five servos should not be a bench")
	}
	dup := []feetech.FoundServo{{ID: 1}, {ID: 1}, {ID: 3}, {ID: 4}, {ID: 5}, {ID: 6}}
	if isBench(dup) {
		t.Error("duplicate IDs should not be a bench")
	}
}
