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

// Inference is the result of storage type inference for one array.
type Inference struct {
	// Dims are the array dimensions, outside-in. Empty for scalars.
	Dims []int
	// Types are the storage types able to represent the data, preferred
	// first.
	Types []Type
	// Elements is the per-value element count: the byte length of the
	// longest string for text data, 1 otherwise.
	Elements int
}

// Primary returns the preferred storage type.
func (inf *Inference) Primary() Type { return inf.Types[0] }

// Infer determines the storage types able to represent data, in preference
// order: matching precision first, then integer before float, smallest
// first, signed first. Four-byte floats are preferred unless any nonzero
// magnitude falls outside (3e-39, 1.7e38), which forces eight bytes.
//
// A nonzero prior type that appears in the computed candidates collapses
// the list to just that type, so re-inferring already-typed data is stable.
//
// data may be an *Array, a typed slice, a nested slice, or a scalar.
// Ragged input fails with an IrregularArrayError and empty untyped input
// with an EmptyArrayTypeError.
func Infer(data interface{}, prior Type) (*Inference, error) {
	a, err := NewArray(data)
	if err != nil {
		return nil, err
	}
	inf := &Inference{Dims: a.Shape, Elements: 1}

	switch d := a.Data.(type) {
	case []string:
		inf.Types = []Type{CHAR, UCHAR}
		for _, s := range d {
			if n := len(s); n > inf.Elements {
				inf.Elements = n
			}
		}
	case []time.Time:
		inf.Types = []Type{TIMETT2000, EPOCH16, EPOCH}
	case []int8:
		inf.Types = []Type{BYTE, CHAR, INT1}
	case []uint8:
		inf.Types = []Type{UINT1, UCHAR}
	case []int16:
		inf.Types = []Type{INT2}
	case []uint16:
		inf.Types = []Type{UINT2}
	case []int32:
		inf.Types = []Type{INT4}
	case []uint32:
		inf.Types = []Type{UINT4}
	case []int64:
		inf.Types = []Type{INT8}
	case []float32:
		inf.Types = []Type{FLOAT, REAL4}
	case []float64:
		inf.Types = floatCandidates(d)
	case []int, []uint64:
		inf.Types = integerLadder(a)
	}

	if prior != 0 {
		for _, t := range inf.Types {
			if t == prior {
				inf.Types = []Type{prior}
				break
			}
		}
	}
	return inf, nil
}

// floatCandidates applies the single-versus-double precision window.
func floatCandidates(d []float64) []Type {
	needDouble := false
	for _, v := range d {
		if v == 0 {
			continue
		}
		av := math.Abs(v)
		if av > 1.7e38 || av < 3e-39 {
			needDouble = true
			break
		}
	}
	if needDouble {
		return []Type{DOUBLE, REAL8}
	}
	return []Type{FLOAT, REAL4, DOUBLE, REAL8}
}

// ladderCutoff is the exclusive upper bound and inclusive lower bound a
// type's range imposes on untyped integer data.
type ladderCutoff struct {
	t   Type
	max uint64 // keep when data max < max
	min int64  // keep when data min >= min (or data min >= 0)
}

var (
	signedLadder = []ladderCutoff{
		{BYTE, 1 << 7, -(1 << 7)},
		{INT1, 1 << 7, -(1 << 7)},
		{INT2, 1 << 15, -(1 << 15)},
		{INT4, 1 << 31, -(1 << 31)},
		{INT8, 1 << 63, math.MinInt64},
		{FLOAT, math.MaxUint64, math.MinInt64},
		{REAL4, math.MaxUint64, math.MinInt64},
		{DOUBLE, math.MaxUint64, math.MinInt64},
		{REAL8, math.MaxUint64, math.MinInt64},
	}
	unsignedLadder = []ladderCutoff{
		{BYTE, 1 << 7, -(1 << 7)},
		{INT1, 1 << 7, -(1 << 7)},
		{UINT1, 1 << 8, 0},
		{INT2, 1 << 15, -(1 << 15)},
		{UINT2, 1 << 16, 0},
		{INT4, 1 << 31, -(1 << 31)},
		{UINT4, 1 << 32, 0},
		{INT8, 1 << 63, math.MinInt64},
		{FLOAT, math.MaxUint64, math.MinInt64},
		{REAL4, math.MaxUint64, math.MinInt64},
		{DOUBLE, math.MaxUint64, math.MinInt64},
		{REAL8, math.MaxUint64, math.MinInt64},
	}
)

// integerLadder filters the fixed width ladder to the types whose range
// covers the data. Signed types come first at each width so negative
// capable types win ties; unsigned widths interleave when all data is
// non-negative.
func integerLadder(a *Array) []Type {
	min, max, hasNeg := a.intStats()
	ladder := unsignedLadder
	if hasNeg {
		ladder = signedLadder
	}
	var types []Type
	for _, c := range ladder {
		if c.max != math.MaxUint64 && max >= c.max {
			continue
		}
		if min < 0 && min < c.min {
			continue
		}
		types = append(types, c.t)
	}
	return types
}
