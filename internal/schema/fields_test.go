package schema

import (
	"strings"
	"testing"
)

func TestFieldPredicates(t *testing.T) {
	tests := []struct {
		name         string
		wantNumeric  bool
		wantProfile  bool
		wantDiscrete bool
		wantTime     bool
	}{
		{"ctd_temperature", true, true, false, false},
		{"ctd_temperature_1", true, false, false, false},
		{"ctd_temperature_flag", false, false, false, false},
		{"ctd_pressure", true, true, true, false},
		{"ctd_depth", true, false, false, false},
		{"ctd_latitude", true, false, false, false},
		{"ctd_beam_attenuation", true, false, false, false},
		{"ctd_oxygen_saturation", true, false, false, false},
		{"ctd_file", false, false, false, false},
		{"ctd_bottle_closure_time", false, false, false, true},
		{"discrete_oxygen", true, false, true, false},
		{"discrete_oxygen_flag", false, false, false, false},
		{"calculated_dic", true, false, true, false},
		{"cruise_id", false, true, true, false},
		{"date", false, true, true, false},
		{"area_rd", false, true, true, false},
		{"start_time", false, false, false, true},
		{"station", false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Describe(tt.name)
			if f.Numeric() != tt.wantNumeric {
				t.Errorf("Numeric() = %v, want %v", f.Numeric(), tt.wantNumeric)
			}
			if f.Profile() != tt.wantProfile {
				t.Errorf("Profile() = %v, want %v", f.Profile(), tt.wantProfile)
			}
			if f.Discrete() != tt.wantDiscrete {
				t.Errorf("Discrete() = %v, want %v", f.Discrete(), tt.wantDiscrete)
			}
			if f.IsTime() != tt.wantTime {
				t.Errorf("IsTime() = %v, want %v", f.IsTime(), tt.wantTime)
			}
		})
	}
}

func TestProfileDiscreteOverlapIsIdentifying(t *testing.T) {
	hm, err := DefaultHeaderMap()
	if err != nil {
		t.Fatal(err)
	}
	cat := hm.Catalog()
	shared := map[string]bool{CruiseID: true, Date: true, AreaRD: true, CTDPressure: true}
	for _, n := range cat.Names() {
		f := cat.Lookup(n)
		if f.Profile() && f.Discrete() && !shared[n] {
			t.Errorf("%q is in both projections", n)
		}
	}
}

func TestCatalogLookupUnknown(t *testing.T) {
	cat := NewCatalog([]string{"discrete_nitrate"})
	listed := make(map[string]bool)
	for _, n := range cat.Names() {
		listed[n] = true
	}
	if !listed["discrete_nitrate"] || !listed[CTDTemperature] {
		t.Errorf("Names() = %v, want header-map and derived fields", cat.Names())
	}
	if listed["discrete_mystery_flag"] {
		t.Error("Names() lists an unlisted name")
	}
	f := cat.Lookup("discrete_mystery_flag")
	if !f.Has(TagFlag) || f.Discrete() {
		t.Errorf("Lookup(unlisted) = %+v, want flag tag and not discrete", f)
	}
}

func TestDefaultHeaderMap(t *testing.T) {
	hm, err := DefaultHeaderMap()
	if err != nil {
		t.Fatalf("DefaultHeaderMap() error = %v", err)
	}
	expected := strings.Join(hm.ExpectedColumns(), ",")
	for _, want := range []string{"cruise", "station", "start_time", "ctd_temperature_1", "ctd_temperature_2", "discrete_chlorophyll", "calculated_pco2"} {
		if !strings.Contains(","+expected+",", ","+want+",") {
			t.Errorf("ExpectedColumns() missing %q", want)
		}
	}
	labels := hm.Labels()
	if labels[0].Name != "cruise" {
		t.Errorf("Labels()[0].Name = %q, want cruise", labels[0].Name)
	}
}

func TestReadHeaderMapDuplicate(t *testing.T) {
	_, err := ReadHeaderMap(strings.NewReader("summaryColumn\nCTD Fluorescence\nCTD Flourescence\n"))
	if err == nil {
		t.Error("ReadHeaderMap(duplicate canonical) error = nil, want error")
	}
}

func TestReadHeaderMapMissingColumn(t *testing.T) {
	_, err := ReadHeaderMap(strings.NewReader("header\nCruise\n"))
	if err == nil {
		t.Error("ReadHeaderMap(no summaryColumn) error = nil, want error")
	}
}
