/*
Copyright © 2024 the SWxSOC authors.
This file is part of the SWxSOC data tools.

The SWxSOC data tools are free software: you can redistribute them and/or
modify them under the terms of the GNU General Public License as published
by the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

The SWxSOC data tools are distributed in the hope that they will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with the SWxSOC data tools.  If not, see <http://www.gnu.org/licenses/>.
*/

package swxutil

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MissionName != "swxsoc" {
		t.Errorf("MissionName = %s", cfg.MissionName)
	}
	if cfg.FileExtension != ".cdf" {
		t.Errorf("FileExtension = %s", cfg.FileExtension)
	}
	if want := []string{"l0", "l1", "ql", "l2", "l3", "l4"}; !reflect.DeepEqual(cfg.ValidDataLevels, want) {
		t.Errorf("ValidDataLevels = %v", cfg.ValidDataLevels)
	}
	if cfg.DefaultTimeseriesKey != "Epoch" {
		t.Errorf("DefaultTimeseriesKey = %s", cfg.DefaultTimeseriesKey)
	}
	if want := []string{"eea", "nemisis", "merit", "spani"}; !reflect.DeepEqual(cfg.InstrumentNames(), want) {
		t.Errorf("InstrumentNames = %v", cfg.InstrumentNames())
	}
	if cfg.Telemetry.Enabled {
		t.Error("telemetry enabled by default")
	}
}

func TestConfigLookups(t *testing.T) {
	cfg := DefaultConfig()
	if inst, ok := cfg.Instrument("merit"); !ok || inst.ShortName != "mrt" {
		t.Errorf("Instrument(merit) = %+v, %v", inst, ok)
	}
	if inst, ok := cfg.InstrumentFromShortName("spn"); !ok || inst.Name != "spani" {
		t.Errorf("InstrumentFromShortName(spn) = %+v, %v", inst, ok)
	}
	if inst, ok := cfg.InstrumentFromTargetName("MAG"); !ok || inst.Name != "nemisis" {
		t.Errorf("InstrumentFromTargetName(MAG) = %+v, %v", inst, ok)
	}
	if _, ok := cfg.Instrument("mag"); ok {
		t.Error("Instrument(mag) should not resolve")
	}
	if !cfg.ValidLevel("ql") || cfg.ValidLevel("l9") {
		t.Error("ValidLevel")
	}
}

const testConfigYAML = `selected_mission: padre
missions_data:
  padre:
    file_extension: fits
    valid_data_levels: [l0, l1, l2]
    instruments:
      - name: meddea
        shortname: mda
        fullname: Measuring Directivity to Understand Electron Anisotropy
        targetname: MDA
      - name: sharp
        shortname: shp
        fullname: Solar HARd x-ray Polarimeter
        targetname: SHARP
    telemetry:
      enabled: true
      region: us-west-2
      database: padre-ops
      table: measurements
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, testConfigYAML))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MissionName != "padre" {
		t.Errorf("MissionName = %s", cfg.MissionName)
	}
	if cfg.FileExtension != ".fits" {
		t.Errorf("FileExtension = %s", cfg.FileExtension)
	}
	if want := []string{"l0", "l1", "l2"}; !reflect.DeepEqual(cfg.ValidDataLevels, want) {
		t.Errorf("ValidDataLevels = %v", cfg.ValidDataLevels)
	}
	if want := []string{"meddea", "sharp"}; !reflect.DeepEqual(cfg.InstrumentNames(), want) {
		t.Errorf("InstrumentNames = %v", cfg.InstrumentNames())
	}
	if inst, ok := cfg.InstrumentFromShortName("mda"); !ok || inst.TargetName != "MDA" {
		t.Errorf("InstrumentFromShortName(mda) = %+v, %v", inst, ok)
	}
	want := TelemetryConfig{Enabled: true, Region: "us-west-2", Database: "padre-ops", Table: "measurements"}
	if cfg.Telemetry != want {
		t.Errorf("Telemetry = %+v", cfg.Telemetry)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "selected_mission: swxsoc\n"))
	if err != nil {
		t.Fatal(err)
	}
	def := DefaultConfig()
	if !reflect.DeepEqual(cfg, def) {
		t.Errorf("got %+v, want %+v", cfg, def)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("SWXSOC_MISSION", "padre")
	contents := "selected_mission: swxsoc\n" + testConfigYAML[len("selected_mission: padre\n"):]
	cfg, err := LoadConfig(writeConfig(t, contents))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MissionName != "padre" {
		t.Errorf("MissionName = %s", cfg.MissionName)
	}
	if cfg.FileExtension != ".fits" {
		t.Errorf("FileExtension = %s", cfg.FileExtension)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/no/such/config.yaml"); err == nil {
		t.Error("expected error")
	}
}
