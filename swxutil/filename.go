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
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Science file time stamps. Raw packet files carry a day-of-year form.
const (
	TimeFormat   = "20060102T150405"
	TimeFormatL0 = "2006002-150405"
)

// Descriptor holds the properties encoded in a science filename.
type Descriptor struct {
	Instrument string
	Mode       string
	Test       bool
	Time       time.Time
	Level      string
	Version    string
	Descriptor string
}

// CreateScienceFilename returns a filename following the mission
// convention
//
//	{mission}_{inst}_{mode}_{level}{test}_{descriptor}_{time}_v{version}{ext}
//
// with empty optional fields collapsed. The format is only appropriate
// for data levels above l0. Mode and descriptor must not contain
// underscores, which separate the filename components.
func CreateScienceFilename(cfg *Config, instrument string, t time.Time, level, version, mode, descriptor string, test bool) (string, error) {
	inst, ok := cfg.Instrument(instrument)
	if !ok {
		return "", fmt.Errorf("swxutil: instrument %q is not recognized, must be one of %v", instrument, cfg.InstrumentNames())
	}
	validLevels := cfg.ValidDataLevels[1:]
	if !contains(validLevels, level) {
		return "", fmt.Errorf("swxutil: level %q is not recognized, must be one of %v", level, validLevels)
	}
	parts := strings.Split(version, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("swxutil: version %q is not formatted correctly, should be X.Y.Z", version)
	}
	for _, p := range parts {
		if _, err := strconv.Atoi(p); err != nil {
			return "", fmt.Errorf("swxutil: version %q is not all integers", version)
		}
	}
	if strings.Contains(mode, "_") || strings.Contains(descriptor, "_") {
		return "", fmt.Errorf("swxutil: the underscore symbol is not allowed in mode or descriptor")
	}
	testStr := ""
	if test {
		testStr = "test"
	}
	name := fmt.Sprintf("%s_%s_%s_%s%s_%s_%s_v%s",
		cfg.MissionName, inst.ShortName, mode, level, testStr, descriptor,
		t.UTC().Format(TimeFormat), version)
	name = strings.ReplaceAll(name, "__", "_")
	return name + cfg.FileExtension, nil
}

// ParseScienceFilename parses a science or raw packet filename back into
// its properties.
func ParseScienceFilename(cfg *Config, path string) (Descriptor, error) {
	var d Descriptor
	filename := filepath.Base(path)
	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filename, ext)
	parts := strings.Split(name, "_")

	if len(parts) < 4 || parts[0] != cfg.MissionName {
		return d, fmt.Errorf("swxutil: file %s not recognized: not a valid mission name", filename)
	}

	switch {
	case ext == ".bin":
		inst, ok := cfg.InstrumentFromTargetName(parts[1])
		if !ok {
			return d, fmt.Errorf("swxutil: file %s not recognized: not a valid target name", filename)
		}
		offset := 0
		if len(parts) > 5 {
			offset = 1
			d.Mode = parts[2]
		}
		if parts[2+offset] != cfg.ValidDataLevels[0] {
			return d, fmt.Errorf("swxutil: data level %s is not correct for this file extension", parts[2+offset])
		}
		d.Level = parts[2+offset]
		t, err := time.Parse(TimeFormatL0, parts[3+offset])
		if err != nil {
			return d, fmt.Errorf("swxutil: parsing time of %s: %v", filename, err)
		}
		d.Time = t
		d.Instrument = inst.Name
	case ext == cfg.FileExtension:
		inst, ok := cfg.InstrumentFromShortName(parts[1])
		if !ok {
			return d, fmt.Errorf("swxutil: file %s not recognized: not a valid instrument name", filename)
		}
		t, err := time.Parse(TimeFormat, parts[len(parts)-2])
		if err != nil {
			return d, fmt.Errorf("swxutil: parsing time of %s: %v", filename, err)
		}
		d.Time = t
		// Mode and descriptor are optional, so decide which components
		// are present from where the data level sits.
		levelAt := 2
		if len(parts[2]) < 2 || !contains(cfg.ValidDataLevels, strings.TrimSuffix(parts[2], "test")) {
			d.Mode = parts[2]
			levelAt = 3
		}
		d.Level = strings.TrimSuffix(parts[levelAt], "test")
		d.Test = strings.Contains(parts[levelAt], "test")
		if len(parts) == levelAt+4 {
			d.Descriptor = parts[levelAt+1]
		}
		d.Instrument = inst.Name
	default:
		return d, fmt.Errorf("swxutil: file extension %s not recognized", ext)
	}

	d.Version = strings.TrimPrefix(parts[len(parts)-1], "v")
	return d, nil
}

func contains(list []string, s string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}
