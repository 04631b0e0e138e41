package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"stepline/internal/procgraph"
)

func testdataPath(name string) string {
	return filepath.Join("testdata", name)
}

func wantOverlay() Config {
	want := Default()
	want.StartMarker = "START"
	want.SkipNames = []string{procgraph.FourEyePrinciple, "annotation"}
	want.Layout.NameOffset = 4
	want.MaxSteps = 500
	want.Input.Delimiter = ","
	want.Input.Encoding = "UTF-8"
	want.Output.Format = FormatMarkdown
	want.Store = Store{Driver: DriverSQLite, Dir: "/var/lib/stepline"}
	return want
}

func TestLoadFromPath_Formats(t *testing.T) {
	for _, name := range []string{"stepline.yaml", "stepline.toml", "stepline.json"} {
		t.Run(name, func(t *testing.T) {
			got, err := LoadFromPath(testdataPath(name))
			if err != nil {
				t.Fatalf("LoadFromPath: %v", err)
			}
			if diff := cmp.Diff(wantOverlay(), got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_DetectsFromContent(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"json", `{"start_marker": "X"}`},
		{"toml", "start_marker = \"X\"\n"},
		{"toml table first", "[output]\nformat = \"ascii\"\n\n[layout]\nid_offset = 1\n"},
		{"yaml", "start_marker: X\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load([]byte(tt.data), ""); err != nil {
				t.Fatalf("Load: %v", err)
			}
		})
	}
}

func TestLoad_EmptyKeepsDefaults(t *testing.T) {
	got, err := Load(nil, ".yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_UnknownExtension(t *testing.T) {
	_, err := Load([]byte("a=b"), ".ini")
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestLoad_ParseError(t *testing.T) {
	if _, err := Load([]byte("{not json"), ".json"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadFromPath_Missing(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want os.ErrNotExist", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty marker", func(c *Config) { c.StartMarker = "" }},
		{"zero offset", func(c *Config) { c.Layout.TypeOffset = 0 }},
		{"negative max steps", func(c *Config) { c.MaxSteps = -1 }},
		{"long delimiter", func(c *Config) { c.Input.Delimiter = ";;" }},
		{"negative min bytes", func(c *Config) { c.Input.MinBytes = -5 }},
		{"no parallelism", func(c *Config) { c.Batch.Parallel = 0 }},
		{"unknown output", func(c *Config) { c.Output.Format = "xlsx" }},
		{"unknown driver", func(c *Config) { c.Store.Driver = "redis" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestCheckFormat(t *testing.T) {
	if err := CheckFormat(FormatCSV); err != nil {
		t.Errorf("CheckFormat(csv) = %v", err)
	}
	if err := CheckFormat("html"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("CheckFormat(html) = %v, want ErrUnknownFormat", err)
	}
}

func TestReadOptions(t *testing.T) {
	cfg := Default()
	cfg.Input.Delimiter = "\t"
	opts := cfg.ReadOptions()
	if opts.Delimiter != '\t' || opts.Encoding != "ISO-8859-1" {
		t.Errorf("ReadOptions() = %+v", opts)
	}
}
