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

package swxsoc

import (
	"os"
	"path/filepath"
	"testing"
)

func defaultSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := LoadSchema(SchemaOptions{})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestLoadSchemaDefaults(t *testing.T) {
	s := defaultSchema(t)

	r, ok := s.GlobalRule("Logical_file_id")
	if !ok || !r.Derived || !r.Required || !r.Overwrite {
		t.Errorf("Logical_file_id rule = %+v, %v", r, ok)
	}
	r, ok = s.GlobalRule("Discipline")
	if !ok || r.Default != "Space Physics>Magnetospheric Science" {
		t.Errorf("Discipline rule = %+v, %v", r, ok)
	}
	r, ok = s.VariableRule("FILLVAL")
	if !ok || !r.Derived || r.DerivationFn != "fillval" {
		t.Errorf("FILLVAL rule = %+v, %v", r, ok)
	}
	r, ok = s.VariableRule("CNAMEi")
	if !ok || !r.Iterable {
		t.Errorf("CNAMEi rule = %+v, %v", r, ok)
	}
}

func TestSchemaClassAttributes(t *testing.T) {
	s := defaultSchema(t)
	data := s.ClassAttributes(string(ClassData))
	if !containsString(data, "DEPEND_0") {
		t.Error("data class missing DEPEND_0")
	}
	support := s.ClassAttributes(string(ClassSupport))
	if containsString(support, "DEPEND_0") {
		t.Error("support_data class should not list DEPEND_0")
	}
	epoch := s.ClassAttributes("epoch")
	for _, attr := range []string{"REFERENCE_POSITION", "RESOLUTION", "TIME_BASE", "TIME_SCALE"} {
		if !containsString(epoch, attr) {
			t.Errorf("epoch class missing %s", attr)
		}
	}
	spectra := s.ClassAttributes("spectra")
	if !containsString(spectra, "WCSAXES") || !containsString(spectra, "CDELTi") {
		t.Errorf("spectra class = %v", spectra)
	}
}

func TestSchemaTemplates(t *testing.T) {
	s := defaultSchema(t)

	tmpl := s.GlobalAttributeTemplate()
	// Required, underivable, undefaulted attributes appear as nil
	// placeholders.
	for _, name := range []string{"Descriptor", "Data_level", "Data_version", "TEXT"} {
		if !tmpl.Has(name) {
			t.Errorf("template missing %s", name)
		}
		if tmpl.Value(name) != nil {
			t.Errorf("template %s = %v, want nil", name, tmpl.Value(name))
		}
	}
	// Derivable and defaulted attributes stay out.
	for _, name := range []string{"Logical_file_id", "Discipline", "DOI"} {
		if tmpl.Has(name) {
			t.Errorf("template should not contain %s", name)
		}
	}

	mt := s.MeasurementAttributeTemplate()
	if !mt.Has("CATDESC") || !mt.Has("VAR_TYPE") {
		t.Errorf("measurement template = %v", mt.Keys())
	}
	if mt.Has("FILLVAL") {
		t.Error("measurement template should not contain derived FILLVAL")
	}
}

func TestLoadSchemaCustomLayer(t *testing.T) {
	dir := t.TempDir()
	layer := filepath.Join(dir, "layer.yaml")
	content := `
Custom_attr:
  description: Mission-specific attribute.
  default: xyz
  derived: false
  required: true
  overwrite: false
Discipline:
  description: Replaced entry.
  default: Space Physics>Heliospheric Science
  derived: false
  required: true
  overwrite: false
`
	if err := os.WriteFile(layer, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSchema(SchemaOptions{GlobalLayers: []string{layer}})
	if err != nil {
		t.Fatal(err)
	}
	if r, ok := s.GlobalRule("Custom_attr"); !ok || r.Default != "xyz" {
		t.Errorf("Custom_attr = %+v, %v", r, ok)
	}
	// A later layer replaces an earlier entry completely.
	if r, _ := s.GlobalRule("Discipline"); r.Default != "Space Physics>Heliospheric Science" {
		t.Errorf("Discipline default = %v", r.Default)
	}
}

func TestLoadSchemaUnknownDerivation(t *testing.T) {
	dir := t.TempDir()
	layer := filepath.Join(dir, "bad.yaml")
	content := `
Bad_attr:
  description: Refers to a derivation that does not exist.
  derived: true
  derivation_fn: no_such_fn
  required: false
  overwrite: false
`
	if err := os.WriteFile(layer, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadSchema(SchemaOptions{GlobalLayers: []string{layer}})
	if _, ok := err.(*SchemaLoadError); !ok {
		t.Errorf("err = %v, want SchemaLoadError", err)
	}
}

func TestVariableRuleForIterable(t *testing.T) {
	s := defaultSchema(t)
	r := s.variableRuleFor("CNAME2")
	if r == nil || !r.Iterable {
		t.Errorf("CNAME2 rule = %+v", r)
	}
	if s.variableRuleFor("NOPE7") != nil {
		t.Error("unknown attribute resolved a rule")
	}
}
