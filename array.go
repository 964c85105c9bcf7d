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
	"reflect"
	"time"

	"github.com/ctessum/sparse"
)

// Array is a regular N-dimensional array stored as a flat, row-major typed
// slice. A zero-length Shape denotes a scalar holding exactly one element.
//
// Data is one of []int8, []int16, []int32, []int64, []uint8, []uint16,
// []uint32, []uint64, []int, []float32, []float64, []string or []time.Time.
// []int and []uint64 mark untyped integer input whose storage type must be
// chosen from the value range; the other integer slices carry their width.
type Array struct {
	Shape []int
	Data  interface{}
}

// NewArray builds an Array from v, which may be a typed slice, a nested
// slice of slices, a []interface{} tree, or a scalar. Ragged input returns
// an IrregularArrayError; an empty []interface{} returns an
// EmptyArrayTypeError.
func NewArray(v interface{}) (*Array, error) {
	switch d := v.(type) {
	case *Array:
		return d, nil
	case []int8:
		return &Array{Shape: []int{len(d)}, Data: d}, nil
	case []int16:
		return &Array{Shape: []int{len(d)}, Data: d}, nil
	case []int32:
		return &Array{Shape: []int{len(d)}, Data: d}, nil
	case []int64:
		return &Array{Shape: []int{len(d)}, Data: d}, nil
	case []uint8:
		return &Array{Shape: []int{len(d)}, Data: d}, nil
	case []uint16:
		return &Array{Shape: []int{len(d)}, Data: d}, nil
	case []uint32:
		return &Array{Shape: []int{len(d)}, Data: d}, nil
	case []uint64:
		return &Array{Shape: []int{len(d)}, Data: d}, nil
	case []int:
		return &Array{Shape: []int{len(d)}, Data: d}, nil
	case []float32:
		return &Array{Shape: []int{len(d)}, Data: d}, nil
	case []float64:
		return &Array{Shape: []int{len(d)}, Data: d}, nil
	case []string:
		return &Array{Shape: []int{len(d)}, Data: d}, nil
	case []time.Time:
		return &Array{Shape: []int{len(d)}, Data: d}, nil
	case int:
		return &Array{Data: []int{d}}, nil
	case int8:
		return &Array{Data: []int8{d}}, nil
	case int16:
		return &Array{Data: []int16{d}}, nil
	case int32:
		return &Array{Data: []int32{d}}, nil
	case int64:
		return &Array{Data: []int64{d}}, nil
	case uint8:
		return &Array{Data: []uint8{d}}, nil
	case uint16:
		return &Array{Data: []uint16{d}}, nil
	case uint32:
		return &Array{Data: []uint32{d}}, nil
	case uint64:
		return &Array{Data: []uint64{d}}, nil
	case float32:
		return &Array{Data: []float32{d}}, nil
	case float64:
		return &Array{Data: []float64{d}}, nil
	case string:
		return &Array{Data: []string{d}}, nil
	case time.Time:
		return &Array{Data: []time.Time{d}}, nil
	}
	return newArrayReflect(v)
}

// NewArrayFromDense wraps a dense float array without copying.
func NewArrayFromDense(d *sparse.DenseArray) *Array {
	shape := make([]int, len(d.Shape))
	copy(shape, d.Shape)
	return &Array{Shape: shape, Data: d.Elements}
}

func newArrayReflect(v interface{}) (*Array, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return nil, &IrregularArrayError{Detail: fmt.Sprintf("unsupported value of type %T", v)}
	}
	var shape []int
	var leaves []interface{}
	if err := flattenValue(rv, 0, &shape, &leaves); err != nil {
		return nil, err
	}
	data, err := normalizeLeaves(leaves)
	if err != nil {
		return nil, err
	}
	return &Array{Shape: shape, Data: data}, nil
}

// flattenValue walks a nested slice depth-first, recording the shape from
// the first branch and requiring every sibling to match it.
func flattenValue(rv reflect.Value, depth int, shape *[]int, leaves *[]interface{}) error {
	if rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	isLeaf := rv.Kind() != reflect.Slice
	if rv.Kind() == reflect.String {
		isLeaf = true
	}
	if isLeaf {
		if depth != len(*shape) {
			return &IrregularArrayError{Detail: "mixed nesting depth"}
		}
		if !rv.IsValid() {
			return &IrregularArrayError{Detail: "nil element"}
		}
		*leaves = append(*leaves, rv.Interface())
		return nil
	}
	n := rv.Len()
	if depth == len(*shape) {
		*shape = append(*shape, n)
	} else if (*shape)[depth] != n {
		return &IrregularArrayError{Detail: fmt.Sprintf("sibling length %d does not match %d at depth %d", n, (*shape)[depth], depth)}
	}
	for i := 0; i < n; i++ {
		if err := flattenValue(rv.Index(i), depth+1, shape, leaves); err != nil {
			return err
		}
	}
	return nil
}

// normalizeLeaves picks a single carrier slice for dynamically-typed
// elements: integers stay untyped, any float widens everything to float64,
// strings and times must be homogeneous.
func normalizeLeaves(leaves []interface{}) (interface{}, error) {
	if len(leaves) == 0 {
		return nil, &EmptyArrayTypeError{}
	}
	var nInt, nFloat, nString, nTime int
	overflow := false
	for _, l := range leaves {
		switch x := l.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32:
			nInt++
		case uint64:
			nInt++
			if x > math.MaxInt64 {
				overflow = true
			}
		case float32, float64:
			nFloat++
		case string:
			nString++
		case time.Time:
			nTime++
		default:
			return nil, &IrregularArrayError{Detail: fmt.Sprintf("cannot convert element of type %T", l)}
		}
	}
	switch {
	case nTime == len(leaves):
		out := make([]time.Time, len(leaves))
		for i, l := range leaves {
			out[i] = l.(time.Time)
		}
		return out, nil
	case nString == len(leaves):
		out := make([]string, len(leaves))
		for i, l := range leaves {
			out[i] = l.(string)
		}
		return out, nil
	case nInt+nFloat == len(leaves) && nFloat > 0:
		out := make([]float64, len(leaves))
		for i, l := range leaves {
			out[i] = toFloat64(l)
		}
		return out, nil
	case nInt == len(leaves) && overflow:
		out := make([]uint64, len(leaves))
		for i, l := range leaves {
			u, ok := toUint64(l)
			if !ok {
				return nil, &IrregularArrayError{Detail: "negative value in unsigned array"}
			}
			out[i] = u
		}
		return out, nil
	case nInt == len(leaves):
		out := make([]int, len(leaves))
		for i, l := range leaves {
			out[i] = int(toInt64(l))
		}
		return out, nil
	}
	return nil, &IrregularArrayError{Detail: "mixed element kinds"}
}

func toFloat64(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case uint64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	}
	return float64(toInt64(v))
}

func toInt64(v interface{}) int64 {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	}
	return 0
}

func toUint64(v interface{}) (uint64, bool) {
	switch x := v.(type) {
	case uint64:
		return x, true
	case uint:
		return uint64(x), true
	case uint8:
		return uint64(x), true
	case uint16:
		return uint64(x), true
	case uint32:
		return uint64(x), true
	}
	i := toInt64(v)
	if i < 0 {
		return 0, false
	}
	return uint64(i), true
}

// IsScalar reports whether a holds a single dimensionless element.
func (a *Array) IsScalar() bool { return len(a.Shape) == 0 }

// Size returns the total element count.
func (a *Array) Size() int {
	n := 1
	for _, s := range a.Shape {
		n *= s
	}
	return n
}

// Len returns the length of the first (record) dimension, or 1 for a
// scalar.
func (a *Array) Len() int {
	if a.IsScalar() {
		return 1
	}
	return a.Shape[0]
}

// At returns the element at flat index i as an interface value.
func (a *Array) At(i int) interface{} {
	return reflect.ValueOf(a.Data).Index(i).Interface()
}

// MultiIndex converts a flat row-major index to a per-axis index tuple.
func (a *Array) MultiIndex(flat int) []int {
	idx := make([]int, len(a.Shape))
	for i := len(a.Shape) - 1; i >= 0; i-- {
		idx[i] = flat % a.Shape[i]
		flat /= a.Shape[i]
	}
	return idx
}

// Floats converts numeric or temporal data to float64 elements. Temporal
// data converts to nanoseconds since the Unix epoch. The second return is
// false for string data.
func (a *Array) Floats() ([]float64, bool) {
	switch d := a.Data.(type) {
	case []float64:
		return d, true
	case []float32:
		out := make([]float64, len(d))
		for i, x := range d {
			out[i] = float64(x)
		}
		return out, true
	case []time.Time:
		out := make([]float64, len(d))
		for i, x := range d {
			out[i] = float64(x.UnixNano())
		}
		return out, true
	case []string:
		return nil, false
	}
	rv := reflect.ValueOf(a.Data)
	out := make([]float64, rv.Len())
	for i := range out {
		out[i] = toFloat64(rv.Index(i).Interface())
	}
	return out, true
}

// Strings returns the string elements, or false if the data is not text.
func (a *Array) Strings() ([]string, bool) {
	d, ok := a.Data.([]string)
	return d, ok
}

// Times returns the temporal elements, or false if the data is not
// temporal.
func (a *Array) Times() ([]time.Time, bool) {
	d, ok := a.Data.([]time.Time)
	return d, ok
}

// Dense copies numeric data into a dense float array sharing a's shape.
func (a *Array) Dense() (*sparse.DenseArray, error) {
	f, ok := a.Floats()
	if !ok {
		return nil, fmt.Errorf("swxsoc: cannot convert %T data to a dense float array", a.Data)
	}
	shape := a.Shape
	if len(shape) == 0 {
		shape = []int{1}
	}
	d := sparse.ZerosDense(shape...)
	copy(d.Elements, f)
	return d, nil
}

// intStats scans integer data, reporting the signed minimum, the unsigned
// maximum of the non-negative values, and whether any negative value
// occurs.
func (a *Array) intStats() (min int64, max uint64, hasNeg bool) {
	rv := reflect.ValueOf(a.Data)
	for i := 0; i < rv.Len(); i++ {
		el := rv.Index(i).Interface()
		if u, isU64 := el.(uint64); isU64 {
			if u > max {
				max = u
			}
			s := int64(math.MaxInt64)
			if u <= math.MaxInt64 {
				s = int64(u)
			}
			if i == 0 || s < min {
				min = s
			}
			continue
		}
		s := toInt64(el)
		if s < 0 {
			hasNeg = true
		} else if uint64(s) > max {
			max = uint64(s)
		}
		if i == 0 || s < min {
			min = s
		}
	}
	return min, max, hasNeg
}
