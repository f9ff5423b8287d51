package registry

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	r, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if r.Len() == 0 {
		t.Fatal("Default() registry is empty")
	}

	c, ok := r.Get("AT-42")
	if !ok {
		t.Fatal("Get(AT-42) not found")
	}
	if c.ArrayRD != "RS" {
		t.Errorf("ArrayRD = %q, want %q", c.ArrayRD, "RS")
	}
	if !strings.HasPrefix(c.FolderURL, "https://") {
		t.Errorf("FolderURL = %q, want https URL", c.FolderURL)
	}

	if got, want := r.Arrays(), []string{"CE", "RS"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Arrays() = %v, want %v", got, want)
	}
}

func TestReadCSVOrder(t *testing.T) {
	src := "cruise_id,folder_url,array_rd\n" +
		"B,https://example.org/b,RS\n" +
		"A,https://example.org/a,CE\n"
	r, err := ReadCSV(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	all := r.All()
	if len(all) != 2 {
		t.Fatalf("All() len = %d, want 2", len(all))
	}
	if all[0].ID != "B" || all[1].ID != "A" {
		t.Errorf("All() order = [%s %s], want [B A]", all[0].ID, all[1].ID)
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		cruises []Cruise
		wantErr string
	}{
		{
			name:    "missing id",
			cruises: []Cruise{{FolderURL: "https://example.org/x", ArrayRD: "RS"}},
			wantErr: "ID failed \"required\"",
		},
		{
			name:    "bad url",
			cruises: []Cruise{{ID: "X", FolderURL: "not a url", ArrayRD: "RS"}},
			wantErr: "FolderURL failed \"url\"",
		},
		{
			name:    "lowercase array",
			cruises: []Cruise{{ID: "X", FolderURL: "https://example.org/x", ArrayRD: "rs"}},
			wantErr: "ArrayRD failed \"uppercase\"",
		},
		{
			name: "duplicate id",
			cruises: []Cruise{
				{ID: "X", FolderURL: "https://example.org/x", ArrayRD: "RS"},
				{ID: "X", FolderURL: "https://example.org/y", ArrayRD: "RS"},
			},
			wantErr: "duplicate cruise_id \"X\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cruises)
			if err == nil {
				t.Fatalf("New() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("New() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewAggregatesErrors(t *testing.T) {
	_, err := New([]Cruise{
		{ID: "", FolderURL: "https://example.org/x", ArrayRD: "RS"},
		{ID: "Y", FolderURL: "", ArrayRD: "RS"},
	})
	if err == nil {
		t.Fatal("New() expected error")
	}
	if got := strings.Count(err.Error(), "\n  - "); got != 2 {
		t.Errorf("New() reported %d failures, want 2: %v", got, err)
	}
}

func TestReadCSVMissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("cruise_id,folder_url\nX,https://example.org/x\n"))
	if err == nil || !strings.Contains(err.Error(), "array_rd") {
		t.Errorf("ReadCSV() error = %v, want missing array_rd", err)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source.yaml")
	doc := `cruises:
  - cruise_id: RR1713
    folder_url: https://example.org/rr1713
    array_rd: RS
  - cruise_id: SR1811
    folder_url: https://example.org/sr1811
    array_rd: CE
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
	c, ok := r.Get("SR1811")
	if !ok || c.ArrayRD != "CE" {
		t.Errorf("Get(SR1811) = %+v, %v, want array CE", c, ok)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load(.json) expected error")
	}
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	r, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	def, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(def.All(), r.All()) {
		t.Error("Load(\"\") differs from Default()")
	}
}
