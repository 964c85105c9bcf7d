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
	"reflect"
	"testing"
	"time"
)

func TestInferTypes(t *testing.T) {
	tests := []struct {
		name string
		data interface{}
		want []Type
	}{
		{"strings", []string{"a", "bb"}, []Type{CHAR, UCHAR}},
		{"times", []time.Time{time.Unix(0, 0)}, []Type{TIMETT2000, EPOCH16, EPOCH}},
		{"int8", []int8{-1, 2}, []Type{BYTE, CHAR, INT1}},
		{"uint8", []uint8{0, 255}, []Type{UINT1, UCHAR}},
		{"int16", []int16{-300}, []Type{INT2}},
		{"uint16", []uint16{1}, []Type{UINT2}},
		{"int32", []int32{1}, []Type{INT4}},
		{"uint32", []uint32{1}, []Type{UINT4}},
		{"int64", []int64{1}, []Type{INT8}},
		{"float32", []float32{1.5}, []Type{FLOAT, REAL4}},
		{"float64 small", []float64{1.5, -2}, []Type{FLOAT, REAL4, DOUBLE, REAL8}},
		{"float64 large", []float64{1e40}, []Type{DOUBLE, REAL8}},
		{"float64 tiny", []float64{1e-40}, []Type{DOUBLE, REAL8}},
		{"float64 zero", []float64{0}, []Type{FLOAT, REAL4, DOUBLE, REAL8}},
		{"small ints", []int{1, 2, 100}, []Type{BYTE, INT1, UINT1, INT2, UINT2, INT4, UINT4, INT8, FLOAT, REAL4, DOUBLE, REAL8}},
		{"negative ints", []int{-1, 100}, []Type{BYTE, INT1, INT2, INT4, INT8, FLOAT, REAL4, DOUBLE, REAL8}},
		{"wide ints", []int{-1, 70000}, []Type{INT4, INT8, FLOAT, REAL4, DOUBLE, REAL8}},
		{"uint64 huge", []uint64{1 << 63}, []Type{FLOAT, REAL4, DOUBLE, REAL8}},
	}
	for _, test := range tests {
		inf, err := Infer(test.data, 0)
		if err != nil {
			t.Errorf("%s: %v", test.name, err)
			continue
		}
		if !reflect.DeepEqual(inf.Types, test.want) {
			t.Errorf("%s: types = %v, want %v", test.name, inf.Types, test.want)
		}
	}
}

func TestInferPriorCollapses(t *testing.T) {
	inf, err := Infer([]float64{1, 2, 3}, DOUBLE)
	if err != nil {
		t.Fatal(err)
	}
	if want := []Type{DOUBLE}; !reflect.DeepEqual(inf.Types, want) {
		t.Errorf("types = %v, want %v", inf.Types, want)
	}

	// A prior absent from the candidates does not collapse them.
	inf, err = Infer([]string{"x"}, DOUBLE)
	if err != nil {
		t.Fatal(err)
	}
	if want := []Type{CHAR, UCHAR}; !reflect.DeepEqual(inf.Types, want) {
		t.Errorf("types = %v, want %v", inf.Types, want)
	}
}

func TestInferElements(t *testing.T) {
	inf, err := Infer([]string{"ab", "cdef", "g"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if inf.Elements != 4 {
		t.Errorf("elements = %d, want 4", inf.Elements)
	}
	inf, err = Infer([]int32{1, 2}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if inf.Elements != 1 {
		t.Errorf("elements = %d, want 1", inf.Elements)
	}
}

func TestInferScalar(t *testing.T) {
	inf, err := Infer(3.5, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(inf.Dims) != 0 {
		t.Errorf("dims = %v, want none", inf.Dims)
	}
	if inf.Primary() != FLOAT {
		t.Errorf("primary = %s, want %s", inf.Primary(), FLOAT)
	}
}

func TestInferEmptyUntyped(t *testing.T) {
	_, err := Infer([]interface{}{}, 0)
	if _, ok := err.(*EmptyArrayTypeError); !ok {
		t.Errorf("err = %v, want EmptyArrayTypeError", err)
	}
}

func TestTypeNames(t *testing.T) {
	if TIMETT2000.String() != "CDF_TIME_TT2000" {
		t.Errorf("TIMETT2000.String() = %s", TIMETT2000)
	}
	got, ok := ParseType("CDF_INT4")
	if !ok || got != INT4 {
		t.Errorf("ParseType(CDF_INT4) = %v, %v", got, ok)
	}
	if _, ok := ParseType("CDF_NOPE"); ok {
		t.Error("ParseType accepted an unknown name")
	}
}

func TestTypeFillValues(t *testing.T) {
	tests := []struct {
		t    Type
		want interface{}
	}{
		{INT1, int64(-128)},
		{BYTE, int64(-128)},
		{INT2, int64(-32768)},
		{UINT2, uint64(65535)},
		{REAL4, -1e31},
		{DOUBLE, -1e31},
		{CHAR, " "},
		{TIMETT2000, ttFill},
	}
	for _, test := range tests {
		if got := test.t.FillValue(); !reflect.DeepEqual(got, test.want) {
			t.Errorf("%s: fill = %v, want %v", test.t, got, test.want)
		}
	}
}

func TestTypeMinMax(t *testing.T) {
	lo, hi, ok := INT2.MinMax()
	if !ok || lo != int64(-32768) || hi != int64(32767) {
		t.Errorf("INT2 range = %v, %v, %v", lo, hi, ok)
	}
	lo, hi, ok = UINT1.MinMax()
	if !ok || lo != uint64(0) || hi != uint64(255) {
		t.Errorf("UINT1 range = %v, %v, %v", lo, hi, ok)
	}
	if _, _, ok := CHAR.MinMax(); ok {
		t.Error("CHAR should have no ordered range")
	}
	lo, hi, ok = TIMETT2000.MinMax()
	if !ok || lo != timeMin || hi != timeMax {
		t.Errorf("time range = %v, %v, %v", lo, hi, ok)
	}
}
