package schema

import "testing"

func TestCorrectName(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantFix Correction
	}{
		{"Flourescence", "Fluorescence", FluorescenceSpelling},
		{"CTD Fluorescense", "CTD Fluorescence", FluorescenceSpelling},
		{"ctd flourescence", "ctd fluorescence", FluorescenceSpelling},
		{"CTD FLOURESCENCE", "CTD FLUORESCENCE", FluorescenceSpelling},
		{"Bottom Depth at Start Positioning", StartPositionName, StartPosition},
		{"start positioning depth", StartPositionName, StartPosition},
		{"Discrete pHAnalysis Temperature", "Discrete pH Analysis Temperature", PHAnalysis},
		{"discrete phanalysis", "discrete pH Analysis", PHAnalysis},
		{"CTD Fluorescence", "CTD Fluorescence", NoCorrection},
		{"Cruise", "Cruise", NoCorrection},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, fix := CorrectName(tt.input)
			if got != tt.want {
				t.Errorf("CorrectName(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if fix != tt.wantFix {
				t.Errorf("CorrectName(%q) fix = %v, want %v", tt.input, fix, tt.wantFix)
			}
		})
	}
}

func TestCorrectNameIdempotent(t *testing.T) {
	inputs := []string{
		"Flourescence",
		"CTD Fluorescense",
		"Bottom Depth at Start Positioning",
		"Discrete pHAnalysis",
		"CTD Temperature 1",
		"Calculated Omega-A",
		"Start Time",
	}
	for _, in := range inputs {
		once, _ := CorrectName(in)
		twice, fix := CorrectName(once)
		if twice != once {
			t.Errorf("CorrectName(CorrectName(%q)) = %q, want %q", in, twice, once)
		}
		if fix != NoCorrection {
			t.Errorf("second CorrectName(%q) applied %v", once, fix)
		}
	}
}

func TestCanonical(t *testing.T) {
	if got := Canonical("CTD Temperature 1"); got != "ctd_temperature_1" {
		t.Errorf("Canonical() = %q, want ctd_temperature_1", got)
	}
}
