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
	"math"
	"testing"
	"time"
)

func TestPyFloat(t *testing.T) {
	tests := []struct {
		f    float64
		want string
	}{
		{0, "0.0"},
		{1, "1.0"},
		{-5, "-5.0"},
		{0.5, "0.5"},
		{1e15, "1000000000000000.0"},
		{1e31, "1e+31"},
		{-1e31, "-1e+31"},
		{1e-5, "1e-05"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
		{math.NaN(), "nan"},
	}
	for _, test := range tests {
		if got := pyFloat(test.f); got != test.want {
			t.Errorf("pyFloat(%v) = %s, want %s", test.f, got, test.want)
		}
	}
}

func TestFormatScalar(t *testing.T) {
	tests := []struct {
		v    interface{}
		want string
	}{
		{int32(-7), "-7"},
		{uint64(9), "9"},
		{1.5, "1.5"},
		{true, "True"},
		{false, "False"},
		{"x", "x"},
		{time.Date(2010, 1, 31, 0, 0, 0, 0, time.UTC), "2010-01-31 00:00:00"},
	}
	for _, test := range tests {
		if got := formatScalar(test.v); got != test.want {
			t.Errorf("formatScalar(%v) = %s, want %s", test.v, got, test.want)
		}
	}
}

func TestFormatValueAligned(t *testing.T) {
	if got := formatValue([]int{1, 20}); got != "[ 1 20]" {
		t.Errorf("formatValue = %q", got)
	}
	if got := formatValue([]float64{1, -2.5}); got != "[ 1.0 -2.5]" {
		t.Errorf("formatValue = %q", got)
	}
}

func TestFormatIndex(t *testing.T) {
	if got := formatIndex([]int{5}, 3); got != "3" {
		t.Errorf("1-D index = %q", got)
	}
	if got := formatIndex([]int{2, 3}, 4); got != "[1 1]" {
		t.Errorf("2-D index = %q", got)
	}
}
