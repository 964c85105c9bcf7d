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
	"testing"
	"time"
)

func hasFinding(t *testing.T, errs []string, want string) {
	t.Helper()
	for _, e := range errs {
		if e == want {
			return
		}
	}
	t.Errorf("missing finding %q in:\n%v", want, errs)
}

func noFinding(t *testing.T, errs []string, notWant string) {
	t.Helper()
	for _, e := range errs {
		if e == notWant {
			t.Errorf("unexpected finding %q", notWant)
		}
	}
}

func TestValidateMissingFile(t *testing.T) {
	errs := Validate("/no/such/file.cdf")
	if len(errs) != 1 || errs[0] != "Could not open CDF File at path: /no/such/file.cdf" {
		t.Errorf("errs = %v", errs)
	}
}

func TestValidateMissingGlobals(t *testing.T) {
	ds := NewDataSet(defaultSchema(t))
	errs := NewCDFValidator(ds.Schema()).ValidateDataSet(ds)
	hasFinding(t, errs, "Required attribute (Descriptor) not present in global attributes.")
	hasFinding(t, errs, "Required attribute (Data_level) not present in global attributes.")
	// Defaulted attributes count as present.
	noFinding(t, errs, "Required attribute (Discipline) not present in global attributes.")
}

func TestValidateMissingVarType(t *testing.T) {
	ds := NewDataSet(defaultSchema(t))
	if err := ds.AddTimeSeries(NewTimeSeriesGroup("Epoch", testTimes(2))); err != nil {
		t.Fatal(err)
	}
	c, err := NewColumn("Bx", []float64{1, 2}, "nT")
	if err != nil {
		t.Fatal(err)
	}
	if err := ds.AddColumn(c); err != nil {
		t.Fatal(err)
	}
	errs := NewCDFValidator(ds.Schema()).ValidateDataSet(ds)
	hasFinding(t, errs, "Variable: Bx missing 'VAR_TYPE' attribute. Cannot Validate Variable.")
	// Without VAR_TYPE no further checks run for the variable.
	noFinding(t, errs, "Variable: Bx missing 'CATDESC' attribute.")
}

func TestValidateMissingAndAlternateAttributes(t *testing.T) {
	ds := NewDataSet(defaultSchema(t))
	if err := ds.AddTimeSeries(NewTimeSeriesGroup("Epoch", testTimes(2))); err != nil {
		t.Fatal(err)
	}
	c, err := NewColumn("Bx", []float64{1, 2}, "nT")
	if err != nil {
		t.Fatal(err)
	}
	c.Meta().Set("VAR_TYPE", "data")
	if err := ds.AddColumn(c); err != nil {
		t.Fatal(err)
	}
	errs := NewCDFValidator(ds.Schema()).ValidateDataSet(ds)
	hasFinding(t, errs, "Variable: Bx missing 'CATDESC' attribute.")
	hasFinding(t, errs, "Variable: Bx missing 'LABLAXIS' attribute. Alternative: LABL_PTR_1 not found.")
	hasFinding(t, errs, "Variable: Bx missing 'UNITS' attribute. Alternative: UNIT_PTR not found.")

	// Supplying the alternate satisfies the requirement.
	c.Meta().Set("LABL_PTR_1", "Bx_labels")
	errs = NewCDFValidator(ds.Schema()).ValidateDataSet(ds)
	noFinding(t, errs, "Variable: Bx missing 'LABLAXIS' attribute. Alternative: LABL_PTR_1 not found.")
}

func TestValidateValidValues(t *testing.T) {
	ds := NewDataSet(defaultSchema(t))
	if err := ds.AddTimeSeries(NewTimeSeriesGroup("Epoch", testTimes(2))); err != nil {
		t.Fatal(err)
	}
	c, err := NewColumn("Bx", []float64{1, 2}, "nT")
	if err != nil {
		t.Fatal(err)
	}
	c.Meta().Set("VAR_TYPE", "data")
	c.Meta().Set("DISPLAY_TYPE", "bad_display_type")
	if err := ds.AddColumn(c); err != nil {
		t.Fatal(err)
	}
	errs := NewCDFValidator(ds.Schema()).ValidateDataSet(ds)
	hasFinding(t, errs, "Variable: Bx Attribute 'DISPLAY_TYPE' not one of valid options. "+
		"Was bad_display_type, expected one of time_series time_series>noerrorbars spectrogram stack_plot image")
}

func TestValidateRangeMultiElement(t *testing.T) {
	ds := NewDataSet(defaultSchema(t))
	if err := ds.AddTimeSeries(NewTimeSeriesGroup("Epoch", testTimes(2))); err != nil {
		t.Fatal(err)
	}
	c, err := NewColumn("counts", [][]int{{1, 10}, {20, 30}}, "ct")
	if err != nil {
		t.Fatal(err)
	}
	c.Meta().Set("VAR_TYPE", "data")
	c.Meta().Set("VALIDMIN", []int{1, 20})
	if err := ds.AddColumn(c); err != nil {
		t.Fatal(err)
	}
	errs := NewCDFValidator(ds.Schema()).ValidateDataSet(ds)
	hasFinding(t, errs, "Value 10 at index [0 1] under VALIDMIN [ 1 20].")
}

func TestValidateRangeScalar(t *testing.T) {
	ds := NewDataSet(defaultSchema(t))
	v, err := NewSupportVariable("threshold", 1)
	if err != nil {
		t.Fatal(err)
	}
	v.Meta().Set("VALIDMIN", 2)
	if err := ds.AddSupport(v); err != nil {
		t.Fatal(err)
	}
	errs := NewCDFValidator(ds.Schema()).ValidateDataSet(ds)
	hasFinding(t, errs, "Value 1 under VALIDMIN 2.")
}

func TestValidateRangeFloatDomain(t *testing.T) {
	ds := NewDataSet(defaultSchema(t))
	if err := ds.AddTimeSeries(NewTimeSeriesGroup("Epoch", testTimes(3))); err != nil {
		t.Fatal(err)
	}
	c, err := NewColumn("temp", []float64{-100, 1, 2}, "K")
	if err != nil {
		t.Fatal(err)
	}
	c.Meta().Set("VAR_TYPE", "data")
	c.Meta().Set("VALIDMIN", 0)
	if err := ds.AddColumn(c); err != nil {
		t.Fatal(err)
	}
	errs := NewCDFValidator(ds.Schema()).ValidateDataSet(ds)
	// The integer bound is lifted into the variable's float domain.
	hasFinding(t, errs, "Value -100.0 at index 0 under VALIDMIN 0.0.")
}

func TestValidateRangeTime(t *testing.T) {
	ds := NewDataSet(defaultSchema(t))
	times := []time.Time{
		time.Date(2010, 1, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2010, 1, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2010, 1, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2010, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2010, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	g := NewTimeSeriesGroup("Epoch", times)
	g.TimeMeta().Set("VALIDMAX", time.Date(2010, 1, 31, 0, 0, 0, 0, time.UTC))
	if err := ds.AddTimeSeries(g); err != nil {
		t.Fatal(err)
	}
	errs := NewCDFValidator(ds.Schema()).ValidateDataSet(ds)
	hasFinding(t, errs, "Value 2010-02-01 00:00:00 at index 4 over VALIDMAX 2010-01-31 00:00:00.")
}

func TestValidateRangeFirstViolationOnly(t *testing.T) {
	ds := NewDataSet(defaultSchema(t))
	v, err := NewSupportVariable("cal", []float64{-5, -6, -7})
	if err != nil {
		t.Fatal(err)
	}
	v.Meta().Set("VALIDMIN", 0.0)
	if err := ds.AddSupport(v); err != nil {
		t.Fatal(err)
	}
	errs := NewCDFValidator(ds.Schema()).ValidateDataSet(ds)
	hasFinding(t, errs, "Value -5.0 at index 0 under VALIDMIN 0.0.")
	noFinding(t, errs, "Value -6.0 at index 1 under VALIDMIN 0.0.")
}

func TestValidateRangeFillExcluded(t *testing.T) {
	ds := NewDataSet(defaultSchema(t))
	v, err := NewSupportVariable("cal", []float64{-1e31, 5})
	if err != nil {
		t.Fatal(err)
	}
	v.Meta().Set("VALIDMIN", 0.0)
	v.Meta().Set("FILLVAL", -1e31)
	if err := ds.AddSupport(v); err != nil {
		t.Fatal(err)
	}
	errs := NewCDFValidator(ds.Schema()).ValidateDataSet(ds)
	noFinding(t, errs, "Value -1e+31 at index 0 under VALIDMIN 0.0.")
}

func TestValidateRangeDimensionErrors(t *testing.T) {
	ds := NewDataSet(defaultSchema(t))
	if err := ds.AddTimeSeries(NewTimeSeriesGroup("Epoch", testTimes(2))); err != nil {
		t.Fatal(err)
	}

	// A multi-element bound on a variable whose records are not 1-D.
	nd, err := NewSupportVariable("matrix", [][]int{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatal(err)
	}
	nd.Meta().Set("VALIDMIN", []int{1, 2})
	if err := ds.AddSupport(nd); err != nil {
		t.Fatal(err)
	}

	// A multi-element bound whose length does not match the records.
	c, err := NewColumn("counts", [][]int{{1, 2}, {3, 4}}, "ct")
	if err != nil {
		t.Fatal(err)
	}
	c.Meta().Set("VAR_TYPE", "data")
	c.Meta().Set("VALIDMIN", []int{1, 2, 3})
	if err := ds.AddColumn(c); err != nil {
		t.Fatal(err)
	}

	errs := NewCDFValidator(ds.Schema()).ValidateDataSet(ds)
	hasFinding(t, errs, "Multi-element VALIDMIN only valid with 1D variable.")
	hasFinding(t, errs, "VALIDMIN element count 3 does not match first data dimension size 2.")
}

func TestValidateRangeIncomparableTypes(t *testing.T) {
	ds := NewDataSet(defaultSchema(t))
	v, err := NewSupportVariable("counts", []int32{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	v.Meta().Set("VALIDMIN", "abc")
	if err := ds.AddSupport(v); err != nil {
		t.Fatal(err)
	}
	errs := NewCDFValidator(ds.Schema()).ValidateDataSet(ds)
	hasFinding(t, errs, "VALIDMIN type CDF_CHAR not comparable to variable type CDF_INT4.")
}

func TestValidateScale(t *testing.T) {
	ds := NewDataSet(defaultSchema(t))
	v, err := NewSupportVariable("cal", []int8{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	v.Meta().Set("SCALEMIN", -200)
	v.Meta().Set("SCALEMAX", []int{300, 320})
	if err := ds.AddSupport(v); err != nil {
		t.Fatal(err)
	}
	errs := NewCDFValidator(ds.Schema()).ValidateDataSet(ds)
	hasFinding(t, errs, "SCALEMIN (-200) outside valid data range (-128,127).")
	hasFinding(t, errs, "SCALEMAX ([300 320]) outside valid data range (-128,127).")
}

func TestValidateScaleOrdering(t *testing.T) {
	ds := NewDataSet(defaultSchema(t))
	v, err := NewSupportVariable("cal", []int8{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	v.Meta().Set("SCALEMIN", 10)
	v.Meta().Set("SCALEMAX", 5)
	if err := ds.AddSupport(v); err != nil {
		t.Fatal(err)
	}
	errs := NewCDFValidator(ds.Schema()).ValidateDataSet(ds)
	hasFinding(t, errs, "SCALEMIN > SCALEMAX.")

	// Equal bounds are fine.
	v.Meta().Set("SCALEMAX", 10)
	errs = NewCDFValidator(ds.Schema()).ValidateDataSet(ds)
	noFinding(t, errs, "SCALEMIN > SCALEMAX.")
}
