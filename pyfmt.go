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
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// pyFloat renders a float the way scientific tooling conventionally
// prints one: shortest decimal form with a trailing ".0" on whole
// numbers, switching to exponent notation outside [1e-4, 1e16).
func pyFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	if math.IsNaN(f) {
		return "nan"
	}
	af := math.Abs(f)
	if f != 0 && (af >= 1e16 || af < 1e-4) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// formatScalar renders a value for a diagnostic message: integers in
// decimal, floats via pyFloat, everything else via fmt.
func formatScalar(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return x
	case bool:
		if x {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(x)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return pyFloat(float64(x))
	case float64:
		return pyFloat(x)
	case time.Time:
		return pyTime(x)
	}
	return fmt.Sprintf("%v", v)
}

// pyTime renders a timestamp for diagnostics, dropping the fractional
// part when it is zero.
func pyTime(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond() == 0 {
		return t.Format("2006-01-02 15:04:05")
	}
	return t.Format("2006-01-02 15:04:05.000000")
}

// formatElements renders the elements of an array with a shared,
// right-aligned column width.
func formatElements(elems []string) string {
	width := 0
	for _, e := range elems {
		if len(e) > width {
			width = len(e)
		}
	}
	padded := make([]string, len(elems))
	for i, e := range elems {
		padded[i] = strings.Repeat(" ", width-len(e)) + e
	}
	return "[" + strings.Join(padded, " ") + "]"
}

// formatValue renders a scalar or array value for a diagnostic message.
// Arrays print bracketed with space-separated, width-aligned elements.
func formatValue(v interface{}) string {
	switch x := v.(type) {
	case []int:
		elems := make([]string, len(x))
		for i, e := range x {
			elems[i] = strconv.Itoa(e)
		}
		return formatElements(elems)
	case []int64:
		elems := make([]string, len(x))
		for i, e := range x {
			elems[i] = strconv.FormatInt(e, 10)
		}
		return formatElements(elems)
	case []uint64:
		elems := make([]string, len(x))
		for i, e := range x {
			elems[i] = strconv.FormatUint(e, 10)
		}
		return formatElements(elems)
	case []float64:
		elems := make([]string, len(x))
		for i, e := range x {
			elems[i] = pyFloat(e)
		}
		return formatElements(elems)
	case []string:
		elems := make([]string, len(x))
		for i, e := range x {
			elems[i] = strconv.Quote(e)
		}
		return formatElements(elems)
	case *Array:
		if x.IsScalar() {
			return formatValue(scalarOf(x))
		}
		return formatValue(x.Data)
	}
	return formatScalar(v)
}

// formatIndex renders a flat array index as a multi-dimensional index
// when the shape has more than one axis.
func formatIndex(shape []int, flat int) string {
	if len(shape) <= 1 {
		return strconv.Itoa(flat)
	}
	idx := make([]int, len(shape))
	for i := len(shape) - 1; i >= 0; i-- {
		idx[i] = flat % shape[i]
		flat /= shape[i]
	}
	elems := make([]string, len(idx))
	for i, e := range idx {
		elems[i] = strconv.Itoa(e)
	}
	return "[" + strings.Join(elems, " ") + "]"
}

// scalarOf unwraps a one-element array into its single value.
func scalarOf(a *Array) interface{} {
	switch d := a.Data.(type) {
	case []int:
		if len(d) == 1 {
			return d[0]
		}
	case []int64:
		if len(d) == 1 {
			return d[0]
		}
	case []uint64:
		if len(d) == 1 {
			return d[0]
		}
	case []float64:
		if len(d) == 1 {
			return d[0]
		}
	case []string:
		if len(d) == 1 {
			return d[0]
		}
	case []time.Time:
		if len(d) == 1 {
			return d[0]
		}
	}
	return a.Data
}
