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

// Package swxutil holds the mission configuration, science file naming
// conventions and operational telemetry shared by the data tools.
package swxutil

import (
	"fmt"
	"strings"

	"github.com/lnashier/viper"
)

// Instrument describes one instrument of a mission.
type Instrument struct {
	Name       string
	ShortName  string
	FullName   string
	TargetName string
}

// Config is the mission configuration consumed by metadata derivations,
// filename handling and the data search client. It is constructed
// explicitly and passed to whoever needs it; there is no package-level
// configuration state.
type Config struct {
	MissionName     string
	FileExtension   string // with leading dot
	ValidDataLevels []string
	Instruments     []Instrument

	// DefaultTimeseriesKey names the epoch axis assumed when a dataset
	// does not declare one.
	DefaultTimeseriesKey string

	Telemetry TelemetryConfig
}

// TelemetryConfig selects the Amazon Timestream table that receives
// operational measurements. Telemetry is off unless Enabled is set.
type TelemetryConfig struct {
	Enabled  bool
	Region   string
	Database string
	Table    string
}

// DefaultConfig returns the built-in mission configuration.
func DefaultConfig() *Config {
	return &Config{
		MissionName:     "swxsoc",
		FileExtension:   ".cdf",
		ValidDataLevels: []string{"l0", "l1", "ql", "l2", "l3", "l4"},
		Instruments: []Instrument{
			{Name: "eea", ShortName: "eea", FullName: "Electron Electrostatic Analyzer", TargetName: "EEA"},
			{Name: "nemisis", ShortName: "nms", FullName: "Noise Eliminating Magnetometer Instrument in a Small Integrated System", TargetName: "MAG"},
			{Name: "merit", ShortName: "mrt", FullName: "Miniaturized Electron pRoton Telescope", TargetName: "MERIT"},
			{Name: "spani", ShortName: "spn", FullName: "Solar Probe Analyzer for Ions", TargetName: "SPANI"},
		},
		DefaultTimeseriesKey: "Epoch",
	}
}

// LoadConfig reads a mission configuration file of the form
//
//	selected_mission: swxsoc
//	missions_data:
//	  swxsoc:
//	    file_extension: cdf
//	    valid_data_levels: [l0, l1, ql, l2, l3, l4]
//	    instruments:
//	      - name: eea
//	        shortname: eea
//	        fullname: Electron Electrostatic Analyzer
//	        targetname: EEA
//
// The SWXSOC_MISSION environment variable overrides selected_mission.
// Missing keys fall back to the built-in defaults.
func LoadConfig(file string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType("yaml")
	if err := v.BindEnv("selected_mission", "SWXSOC_MISSION"); err != nil {
		return nil, fmt.Errorf("swxutil: binding mission environment override: %v", err)
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("swxutil: reading configuration %s: %v", file, err)
	}

	def := DefaultConfig()
	mission := v.GetString("selected_mission")
	if mission == "" {
		mission = def.MissionName
	}
	cfg := &Config{
		MissionName:          mission,
		FileExtension:        def.FileExtension,
		ValidDataLevels:      def.ValidDataLevels,
		DefaultTimeseriesKey: def.DefaultTimeseriesKey,
	}

	prefix := "missions_data." + mission + "."
	if ext := v.GetString(prefix + "file_extension"); ext != "" {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.FileExtension = ext
	}
	if levels := v.GetStringSlice(prefix + "valid_data_levels"); len(levels) > 0 {
		cfg.ValidDataLevels = levels
	}
	if key := v.GetString("general.default_timeseries_key"); key != "" {
		cfg.DefaultTimeseriesKey = key
	}
	if v.GetBool(prefix + "telemetry.enabled") {
		cfg.Telemetry = TelemetryConfig{
			Enabled:  true,
			Region:   v.GetString(prefix + "telemetry.region"),
			Database: v.GetString(prefix + "telemetry.database"),
			Table:    v.GetString(prefix + "telemetry.table"),
		}
	}

	var rawInstruments []map[string]interface{}
	if err := v.UnmarshalKey(prefix+"instruments", &rawInstruments); err != nil {
		return nil, fmt.Errorf("swxutil: parsing instruments for mission %s: %v", mission, err)
	}
	for _, ri := range rawInstruments {
		cfg.Instruments = append(cfg.Instruments, Instrument{
			Name:       str(ri["name"]),
			ShortName:  str(ri["shortname"]),
			FullName:   str(ri["fullname"]),
			TargetName: str(ri["targetname"]),
		})
	}
	if len(cfg.Instruments) == 0 && mission == def.MissionName {
		cfg.Instruments = def.Instruments
	}
	return cfg, nil
}

func str(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// InstrumentNames returns the instrument names in configuration order.
func (c *Config) InstrumentNames() []string {
	out := make([]string, len(c.Instruments))
	for i, inst := range c.Instruments {
		out[i] = inst.Name
	}
	return out
}

// Instrument looks up an instrument by name.
func (c *Config) Instrument(name string) (Instrument, bool) {
	for _, inst := range c.Instruments {
		if inst.Name == name {
			return inst, true
		}
	}
	return Instrument{}, false
}

// InstrumentFromShortName looks up an instrument by its short name.
func (c *Config) InstrumentFromShortName(short string) (Instrument, bool) {
	for _, inst := range c.Instruments {
		if inst.ShortName == short {
			return inst, true
		}
	}
	return Instrument{}, false
}

// InstrumentFromTargetName looks up an instrument by its target name.
func (c *Config) InstrumentFromTargetName(target string) (Instrument, bool) {
	for _, inst := range c.Instruments {
		if inst.TargetName == target {
			return inst, true
		}
	}
	return Instrument{}, false
}

// ValidLevel reports whether level is a recognized data level.
func (c *Config) ValidLevel(level string) bool {
	for _, l := range c.ValidDataLevels {
		if l == level {
			return true
		}
	}
	return false
}
