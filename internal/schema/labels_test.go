package schema

import (
	"context"
	"strings"
	"testing"
)

func TestParseHeader(t *testing.T) {
	tests := []struct {
		raw         string
		wantName    string
		wantDisplay string
		wantUnit    string
	}{
		{"CTD Temperature 1 [deg C]", "ctd_temperature_1", "CTD Temperature 1", "deg C"},
		{"Start Time [UTC]", "start_time", "Start Time", "UTC"},
		{"Cruise", "cruise", "Cruise", ""},
		{"Calculated Omega-C", "calculated_omega-c", "Calculated Omega-C", ""},
		{"Discrete pH [Total scale]", "discrete_ph", "Discrete pH", "Total scale"},
		{"Flourescence [mg/L]", "fluorescence", "Fluorescence", "mg/L"},
		{"CTD Fluorescense [ug/L]", "ctd_fluorescence", "CTD Fluorescence", "ug/L"},
		{"Bottom Depth at Start Positioning [m]", "bottom_depth_at_start_position", "Bottom Depth at Start Position", "m"},
		{"Discrete pHAnalysis Temperature [deg C]", "discrete_ph_analysis_temperature", "Discrete pH Analysis Temperature", "deg C"},
		{"  Station  ", "station", "Station", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, _, ok := ParseHeader(tt.raw)
			if !ok {
				t.Fatalf("ParseHeader(%q) ok = false", tt.raw)
			}
			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
			if got.DisplayName != tt.wantDisplay {
				t.Errorf("DisplayName = %q, want %q", got.DisplayName, tt.wantDisplay)
			}
			if got.Unit != tt.wantUnit {
				t.Errorf("Unit = %q, want %q", got.Unit, tt.wantUnit)
			}
			if got.Raw != tt.raw {
				t.Errorf("Raw = %q, want %q", got.Raw, tt.raw)
			}
		})
	}
}

func TestParseHeaderNameAndUnitProperty(t *testing.T) {
	names := []string{"CTD Oxygen", "Discrete Nitrate", "Calculated pCO2", "Cast"}
	units := []string{"mL/L", "uM", "uatm", "%", "deg C"}
	for _, n := range names {
		for _, u := range units {
			raw := n + " [" + u + "]"
			got, _, ok := ParseHeader(raw)
			if !ok {
				t.Fatalf("ParseHeader(%q) ok = false", raw)
			}
			if got.DisplayName != n || got.Unit != u {
				t.Errorf("ParseHeader(%q) = (%q, %q), want (%q, %q)", raw, got.DisplayName, got.Unit, n, u)
			}
		}
		got, _, _ := ParseHeader(n)
		if got.Unit != "" {
			t.Errorf("ParseHeader(%q).Unit = %q, want empty", n, got.Unit)
		}
	}
}

func TestParseHeaderNoMatch(t *testing.T) {
	for _, raw := range []string{"", "   ", "%%", "-- []"} {
		if _, _, ok := ParseHeader(raw); ok {
			t.Errorf("ParseHeader(%q) ok = true, want false", raw)
		}
	}
}

func TestParseLabelsDropsUnmatched(t *testing.T) {
	labels := ParseLabels(context.Background(), []string{"Cruise", "%%", "Station"})
	got := strings.Join(Names(labels), ",")
	if got != "cruise,station" {
		t.Errorf("Names(ParseLabels()) = %q, want %q", got, "cruise,station")
	}
}
