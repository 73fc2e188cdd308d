package contracts

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{"09:51", TimeOfDay{9, 51}, false},
		{"18:49", TimeOfDay{18, 49}, false},
		{"10:01", TimeOfDay{10, 1}, false},
		{"00:00", TimeOfDay{0, 0}, false},
		{"24:00", TimeOfDay{}, true},
		{"10:75", TimeOfDay{}, true},
		{"noon", TimeOfDay{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimeOfDay(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTimeOfDay_On(t *testing.T) {
	d := time.Date(2024, 3, 15, 23, 59, 58, 123, time.UTC)
	got := TimeOfDay{10, 1}.On(d)
	want := time.Date(2024, 3, 15, 10, 1, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("On() = %v, want %v", got, want)
	}
}

func TestRiskMetrics_MarshalNaNSharpe(t *testing.T) {
	m := RiskMetrics{Sharpe: math.NaN(), MeanPct: 1.5, StdPct: 0, MaxDrawdownPct: -2}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"sharpe":null`) {
		t.Errorf("NaN sharpe should marshal as null, got %s", data)
	}
}
