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
	"time"
)

// Type is a CDF storage type code. The numeric values are fixed by the CDF
// format and must not be renumbered.
type Type int32

const (
	INT1       Type = 1
	INT2       Type = 2
	INT4       Type = 4
	INT8       Type = 8
	UINT1      Type = 11
	UINT2      Type = 12
	UINT4      Type = 14
	REAL4      Type = 21
	REAL8      Type = 22
	EPOCH      Type = 31
	EPOCH16    Type = 32
	TIMETT2000 Type = 33
	BYTE       Type = 41
	FLOAT      Type = 44
	DOUBLE     Type = 45
	CHAR       Type = 51
	UCHAR      Type = 52
)

var typeNames = map[Type]string{
	BYTE:       "CDF_BYTE",
	CHAR:       "CDF_CHAR",
	INT1:       "CDF_INT1",
	UCHAR:      "CDF_UCHAR",
	UINT1:      "CDF_UINT1",
	INT2:       "CDF_INT2",
	UINT2:      "CDF_UINT2",
	INT4:       "CDF_INT4",
	UINT4:      "CDF_UINT4",
	INT8:       "CDF_INT8",
	FLOAT:      "CDF_FLOAT",
	REAL4:      "CDF_REAL4",
	DOUBLE:     "CDF_DOUBLE",
	REAL8:      "CDF_REAL8",
	EPOCH:      "CDF_EPOCH",
	EPOCH16:    "CDF_EPOCH16",
	TIMETT2000: "CDF_TIME_TT2000",
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "CDF_UNKNOWN"
}

// ParseType returns the type with the given CDF name, such as "CDF_INT4".
func ParseType(name string) (Type, bool) {
	for t, n := range typeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// IsInteger reports whether t stores integer values. TIMETT2000 is backed
// by a 64-bit integer but is reported as a time type, not an integer.
func (t Type) IsInteger() bool {
	switch t {
	case INT1, INT2, INT4, INT8, UINT1, UINT2, UINT4, BYTE:
		return true
	}
	return false
}

func (t Type) IsFloat() bool {
	switch t {
	case REAL4, REAL8, FLOAT, DOUBLE:
		return true
	}
	return false
}

func (t Type) IsTime() bool {
	switch t {
	case EPOCH, EPOCH16, TIMETT2000:
		return true
	}
	return false
}

func (t Type) IsText() bool { return t == CHAR || t == UCHAR }

func (t Type) signed() bool {
	switch t {
	case INT1, INT2, INT4, INT8, BYTE:
		return true
	}
	return false
}

// intRange returns the representable range of an integer type.
func intRange(t Type) (min int64, max uint64, ok bool) {
	switch t {
	case INT1, BYTE:
		return math.MinInt8, math.MaxInt8, true
	case INT2:
		return math.MinInt16, math.MaxInt16, true
	case INT4:
		return math.MinInt32, math.MaxInt32, true
	case INT8:
		return math.MinInt64, math.MaxInt64, true
	case UINT1:
		return 0, math.MaxUint8, true
	case UINT2:
		return 0, math.MaxUint16, true
	case UINT4:
		return 0, math.MaxUint32, true
	}
	return 0, 0, false
}

// Time types share one fixed validity window.
var (
	timeMin = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	timeMax = time.Date(2250, 1, 1, 0, 0, 0, 0, time.UTC)
)

// MinMax returns the minimum and maximum value representable by t. Time
// types return time.Time bounds, integer types int64/uint64, float types
// float64. Text types have no ordered range and return ok=false.
func (t Type) MinMax() (min, max interface{}, ok bool) {
	if t.IsTime() {
		return timeMin, timeMax, true
	}
	if lo, hi, iok := intRange(t); iok {
		if t.signed() {
			return lo, int64(hi), true
		}
		return uint64(0), hi, true
	}
	switch t {
	case FLOAT, REAL4:
		return -math.MaxFloat32, math.MaxFloat32, true
	case DOUBLE, REAL8:
		return -math.MaxFloat64, math.MaxFloat64, true
	}
	return nil, nil, false
}

// ttFill is the far-future sentinel stored for missing TIMETT2000 samples.
var ttFill = time.Date(9999, 12, 31, 23, 59, 59, 999999000, time.UTC)

// FillValue returns the sentinel stored in place of missing samples of
// type t. Aliased types (BYTE/INT1, FLOAT/REAL4, DOUBLE/REAL8, EPOCH/REAL8,
// TIMETT2000/INT8) share identical fill values, except that TIMETT2000 is
// presented as its decoded timestamp.
func (t Type) FillValue() interface{} {
	switch t {
	case INT1, BYTE:
		return int64(math.MinInt8)
	case INT2:
		return int64(math.MinInt16)
	case INT4:
		return int64(math.MinInt32)
	case INT8:
		return int64(math.MinInt64)
	case UINT1:
		return uint64(math.MaxUint8)
	case UINT2:
		return uint64(math.MaxUint16)
	case UINT4:
		return uint64(math.MaxUint32)
	case REAL4, FLOAT, REAL8, DOUBLE, EPOCH:
		return -1e31
	case EPOCH16:
		return [2]float64{-1e31, -1e31}
	case CHAR, UCHAR:
		return " "
	case TIMETT2000:
		return ttFill
	}
	return nil
}
