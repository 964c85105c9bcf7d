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
	"path/filepath"
	"reflect"
	"testing"
)

func TestSaveLoadFITS(t *testing.T) {
	ds := testDataSet(t)
	frame := NewCoordFrame(2)
	frame.CName[1] = "energy"
	frame.CUnit[1] = "keV"
	sv, err := NewSpectraVariable("flux", [][]float64{{1, 2}, {3, 4}, {5, 6}}, "ct", frame)
	if err != nil {
		t.Fatal(err)
	}
	sv.Meta().Set("VAR_TYPE", "data")
	sv.Meta().Set("CATDESC", "Particle flux")
	if err := ds.AddSpectra(sv); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "flux.fits")
	if err := ds.SaveFITS(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadFITS(path, ds.Schema())
	if err != nil {
		t.Fatal(err)
	}
	if got := loaded.Meta().Value("Descriptor"); got != "eea>Electron Electrostatic Analyzer" {
		t.Errorf("Descriptor = %v", got)
	}
	if len(loaded.Spectra()) != 1 {
		t.Fatalf("spectra = %d, want 1", len(loaded.Spectra()))
	}
	got := loaded.Spectra()[0]
	if got.Name() != "flux" {
		t.Errorf("name = %s", got.Name())
	}
	if got.Unit() != "ct" {
		t.Errorf("unit = %s", got.Unit())
	}
	if want := []int{3, 2}; !reflect.DeepEqual(got.Data().Shape, want) {
		t.Errorf("shape = %v, want %v", got.Data().Shape, want)
	}
	if want := []float64{1, 2, 3, 4, 5, 6}; !reflect.DeepEqual(got.Data().Data, want) {
		t.Errorf("data = %v, want %v", got.Data().Data, want)
	}
	f := got.Frame()
	if f == nil || f.NAxis != 2 {
		t.Fatalf("frame = %+v", f)
	}
	if f.CName[1] != "energy" || f.CUnit[1] != "keV" {
		t.Errorf("frame axis 2 = %s, %s", f.CName[1], f.CUnit[1])
	}
}

func TestFITSValidator(t *testing.T) {
	ds := testDataSet(t)
	sv, err := NewSpectraVariable("flux", [][]float64{{1, 2}, {3, 4}, {5, 6}}, "ct", nil)
	if err != nil {
		t.Fatal(err)
	}
	sv.Meta().Set("VAR_TYPE", "data")
	if err := ds.AddSpectra(sv); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "flux.fits")
	if err := ds.SaveFITS(path); err != nil {
		t.Fatal(err)
	}
	if errs := Validate(path); len(errs) != 0 {
		t.Errorf("findings = %v", errs)
	}
}

func TestFITSValidatorMissingFile(t *testing.T) {
	errs := Validate("/no/such/file.fits")
	if len(errs) != 1 || errs[0] != "Could not open FITS File at path: /no/such/file.fits" {
		t.Errorf("errs = %v", errs)
	}
}
