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
	"path/filepath"
	"strings"
	"time"

	"github.com/gonum/floats"
)

// Validate checks the file at path against the default schema for its
// format, chosen by extension, and returns findings as human-readable
// messages. An empty slice means the file passed.
func Validate(path string) []string {
	if strings.EqualFold(filepath.Ext(path), ".fits") {
		return NewFITSValidator(nil).Validate(path)
	}
	return NewCDFValidator(nil).Validate(path)
}

// CDFValidator checks CDF files against an attribute schema.
type CDFValidator struct {
	schema *Schema
}

// NewCDFValidator builds a validator. A nil schema means the built-in
// defaults, which always load.
func NewCDFValidator(schema *Schema) *CDFValidator {
	if schema == nil {
		schema, _ = LoadSchema(SchemaOptions{})
	}
	return &CDFValidator{schema: schema}
}

// Validate loads the file and runs every check: required global
// attributes, per-variable required attributes and allowed values, valid
// range and scale range.
func (cv *CDFValidator) Validate(path string) []string {
	ds, err := LoadCDF(path, cv.schema)
	if err != nil {
		return []string{err.Error()}
	}
	return cv.ValidateDataSet(ds)
}

// ValidateDataSet runs the schema checks against an in-memory dataset.
func (cv *CDFValidator) ValidateDataSet(ds *DataSet) []string {
	var errs []string
	errs = append(errs, cv.globalErrors(ds)...)
	for _, name := range ds.VariableNames() {
		v, isTimeAxis, _ := ds.lookup(name)
		errs = append(errs, cv.variableErrors(ds, v, isTimeAxis)...)
	}
	return errs
}

func (cv *CDFValidator) globalErrors(ds *DataSet) []string {
	var errs []string
	for _, name := range cv.schema.GlobalNames() {
		rule := cv.schema.globalRules[name]
		if rule.Required && !ds.meta.HasValue(name) {
			errs = append(errs, fmt.Sprintf(
				"Required attribute (%s) not present in global attributes.", name))
		}
	}
	return errs
}

func (cv *CDFValidator) variableErrors(ds *DataSet, v Variable, isTimeAxis bool) []string {
	meta := v.Meta()
	if !meta.Has("VAR_TYPE") {
		return []string{fmt.Sprintf(
			"Variable: %s missing 'VAR_TYPE' attribute. Cannot Validate Variable.", v.Name())}
	}

	class, _ := meta.Value("VAR_TYPE").(string)
	applicable := cv.schema.ClassAttributes(class)
	if isTimeAxis {
		applicable = append(applicable, cv.schema.ClassAttributes("epoch")...)
	}
	if fc, ok := v.(FrameCarrier); ok && fc.Frame() != nil {
		applicable = append(applicable, cv.schema.ClassAttributes("spectra")...)
	}

	var errs []string
	for _, attr := range applicable {
		rule, ok := cv.schema.VariableRule(attr)
		if !ok {
			continue
		}
		errs = append(errs, cv.attributeErrors(v, attr, rule)...)
	}
	errs = append(errs, cv.validRange(ds, v)...)
	errs = append(errs, cv.validScale(ds, v)...)
	return errs
}

func (cv *CDFValidator) attributeErrors(v Variable, attr string, rule *AttributeRule) []string {
	meta := v.Meta()
	names := []string{attr}
	if rule.Iterable {
		if !meta.HasValue("WCSAXES") {
			return nil
		}
		naxes := int(toInt64(meta.Value("WCSAXES")))
		root := strings.TrimRight(attr, "i")
		names = names[:0]
		for axis := 1; axis <= naxes; axis++ {
			names = append(names, fmt.Sprintf("%s%d", root, axis))
		}
	}

	var errs []string
	for _, name := range names {
		if !meta.Has(name) {
			if !rule.Required {
				continue
			}
			if rule.Alternate != "" {
				if meta.Has(rule.Alternate) {
					continue
				}
				errs = append(errs, fmt.Sprintf(
					"Variable: %s missing '%s' attribute. Alternative: %s not found.",
					v.Name(), name, rule.Alternate))
				continue
			}
			errs = append(errs, fmt.Sprintf(
				"Variable: %s missing '%s' attribute.", v.Name(), name))
			continue
		}
		if len(rule.ValidValues) > 0 {
			val := meta.Value(name)
			found := false
			opts := make([]string, len(rule.ValidValues))
			for i, opt := range rule.ValidValues {
				opts[i] = formatScalar(opt)
				if formatScalar(val) == opts[i] {
					found = true
				}
			}
			if !found {
				errs = append(errs, fmt.Sprintf(
					"Variable: %s Attribute '%s' not one of valid options. Was %s, expected one of %s",
					v.Name(), name, formatScalar(val), strings.Join(opts, " ")))
			}
		}
	}
	return errs
}

// storageType resolves the variable's native storage type: a pinned load
// type if present, otherwise inferred from the data.
func (cv *CDFValidator) storageType(ds *DataSet, v Variable) Type {
	if t := ds.PriorType(v.Name()); t != 0 {
		return t
	}
	inf, err := Infer(v.Data(), 0)
	if err != nil || len(inf.Types) == 0 {
		return 0
	}
	return inf.Primary()
}

// boundSpec is one half of a range check: the attribute naming the bound
// and the comparison direction.
type boundSpec struct {
	attr  string
	under bool
}

// validRange checks every data element against VALIDMIN and VALIDMAX,
// excluding elements equal to the fill value.
func (cv *CDFValidator) validRange(ds *DataSet, v Variable) []string {
	return cv.boundErrors(ds, v,
		boundSpec{attr: "VALIDMIN", under: true},
		boundSpec{attr: "VALIDMAX", under: false})
}

func (cv *CDFValidator) boundErrors(ds *DataSet, v Variable, bounds ...boundSpec) []string {
	meta := v.Meta()
	vt := cv.storageType(ds, v)
	a := v.Data()

	var errs []string
	for _, b := range bounds {
		if !meta.Has(b.attr) {
			continue
		}
		bv := meta.Value(b.attr)

		if isTextValue(bv) != vt.IsText() {
			bt := CHAR
			if !isTextValue(bv) {
				bt = DOUBLE
			}
			errs = append(errs, fmt.Sprintf(
				"%s type %s not comparable to variable type %s.", b.attr, bt, vt))
			continue
		}
		if vt.IsText() {
			continue
		}

		bf, bn := boundFloats(bv)
		if bn > 1 {
			dims := recordDims(ds, v)
			if len(dims) != 1 {
				errs = append(errs, fmt.Sprintf(
					"Multi-element %s only valid with 1D variable.", b.attr))
				continue
			}
			if dims[0] != bn {
				errs = append(errs, fmt.Sprintf(
					"%s element count %d does not match first data dimension size %d.",
					b.attr, bn, dims[0]))
				continue
			}
		}

		data, ok := a.Floats()
		if !ok {
			continue
		}
		fill, hasFill := fillFloat(meta, vt)
		for i, val := range data {
			if hasFill && isclose(val, fill, vt.IsFloat()) {
				continue
			}
			bound := bf[0]
			if bn > 1 {
				bound = bf[i%bn]
			}
			if b.under && val < bound {
				errs = append(errs, rangeMessage(a, vt, i, "under", b.attr, bv))
				break
			}
			if !b.under && val > bound {
				errs = append(errs, rangeMessage(a, vt, i, "over", b.attr, bv))
				break
			}
		}
	}
	return errs
}

func rangeMessage(a *Array, vt Type, i int, dir, attr string, bound interface{}) string {
	val := displayDomain(a.At(i), vt)
	if a.IsScalar() {
		return fmt.Sprintf("Value %s %s %s %s.",
			formatScalar(val), dir, attr, formatValue(domainBound(bound, vt)))
	}
	return fmt.Sprintf("Value %s at index %s %s %s %s.",
		formatScalar(val), formatIndex(a.Shape, i), dir, attr,
		formatValue(domainBound(bound, vt)))
}

// validScale checks SCALEMIN and SCALEMAX for ordering and for fitting
// within the storage type's representable range.
func (cv *CDFValidator) validScale(ds *DataSet, v Variable) []string {
	meta := v.Meta()
	vt := cv.storageType(ds, v)
	if vt == 0 || vt.IsText() || vt.IsTime() {
		return nil
	}
	if !meta.Has("SCALEMIN") && !meta.Has("SCALEMAX") {
		return nil
	}

	lo, hi, ok := typeRangeFloats(vt)
	var errs []string
	var minf, maxf []float64
	for _, attr := range []string{"SCALEMIN", "SCALEMAX"} {
		if !meta.Has(attr) {
			continue
		}
		bv := meta.Value(attr)
		if isTextValue(bv) {
			errs = append(errs, fmt.Sprintf(
				"%s type %s not comparable to variable type %s.", attr, CHAR, vt))
			continue
		}
		bf, bn := boundFloats(bv)
		if bn > 1 {
			dims := recordDims(ds, v)
			if len(dims) != 1 {
				errs = append(errs, fmt.Sprintf(
					"Multi-element %s only valid with 1D variable.", attr))
				continue
			}
			if dims[0] != bn {
				errs = append(errs, fmt.Sprintf(
					"%s element count %d does not match first data dimension size %d.",
					attr, bn, dims[0]))
				continue
			}
		}
		if ok {
			for _, x := range bf {
				if x < lo || x > hi {
					errs = append(errs, fmt.Sprintf(
						"%s (%s) outside valid data range (%s,%s).",
						attr, formatValue(domainBound(bv, vt)),
						formatScalar(displayRangeVal(lo, vt)), formatScalar(displayRangeVal(hi, vt))))
					break
				}
			}
		}
		if attr == "SCALEMIN" {
			minf = bf
		} else {
			maxf = bf
		}
	}

	if len(minf) > 0 && len(maxf) > 0 && len(minf) == len(maxf) {
		for i := range minf {
			if minf[i] > maxf[i] {
				errs = append(errs, "SCALEMIN > SCALEMAX.")
				break
			}
		}
	}
	return errs
}

// typeRangeFloats returns the representable range of a storage type.
func typeRangeFloats(t Type) (float64, float64, bool) {
	if t.IsInteger() {
		lo, hi, ok := intRange(t)
		if !ok {
			return 0, 0, false
		}
		return float64(lo), float64(hi), true
	}
	if t.IsFloat() {
		mn, mx, ok := t.MinMax()
		if !ok {
			return 0, 0, false
		}
		return toFloat64(mn), toFloat64(mx), true
	}
	return 0, 0, false
}

// displayRangeVal renders a range endpoint in the storage type's domain.
func displayRangeVal(f float64, vt Type) interface{} {
	if vt.IsInteger() {
		if f >= 0 && f > math.MaxInt64 {
			return uint64(f)
		}
		return int64(f)
	}
	return f
}

// recordDims returns the per-record dimensions of a variable: the full
// shape for non-record-varying support variables, everything after the
// record axis otherwise.
func recordDims(ds *DataSet, v Variable) []int {
	if _, ok := v.(*SupportVariable); ok {
		return v.Data().Shape
	}
	shape := v.Data().Shape
	if len(shape) == 0 {
		return nil
	}
	return shape[1:]
}

// boundFloats converts a bound attribute to float elements.
func boundFloats(v interface{}) ([]float64, int) {
	switch x := v.(type) {
	case []int:
		out := make([]float64, len(x))
		for i, e := range x {
			out[i] = float64(e)
		}
		return out, len(out)
	case []int64:
		out := make([]float64, len(x))
		for i, e := range x {
			out[i] = float64(e)
		}
		return out, len(out)
	case []float64:
		out := make([]float64, len(x))
		copy(out, x)
		return out, len(out)
	case time.Time:
		return []float64{float64(x.UnixNano())}, 1
	}
	return []float64{toFloat64(v)}, 1
}

// fillFloat resolves a comparable fill value for range exclusion. A fill
// whose domain does not match the variable's is ignored.
func fillFloat(meta *Metadata, vt Type) (float64, bool) {
	if !meta.Has("FILLVAL") {
		return 0, false
	}
	fv := meta.Value("FILLVAL")
	if isTextValue(fv) != vt.IsText() {
		return 0, false
	}
	switch x := fv.(type) {
	case time.Time:
		return float64(x.UnixNano()), true
	case string:
		return 0, false
	}
	return toFloat64(fv), true
}

// isclose compares under the conventional relative/absolute tolerances
// for floats and exactly otherwise.
func isclose(a, b float64, float bool) bool {
	if a == b {
		return true
	}
	if !float {
		return false
	}
	return floats.EqualWithinAbsOrRel(a, b, 1e-8, 1e-5)
}

func isTextValue(v interface{}) bool {
	switch v.(type) {
	case string, []string:
		return true
	}
	return false
}

// displayDomain lifts a numeric value into the variable's domain for
// display: integers for integer types, floats for float types, times for
// temporal types.
func displayDomain(v interface{}, vt Type) interface{} {
	switch {
	case vt.IsFloat():
		switch v.(type) {
		case time.Time, string:
			return v
		}
		return toFloat64(v)
	case vt.IsTime():
		if f, ok := v.(float64); ok {
			return time.Unix(0, int64(f)).UTC()
		}
	}
	return v
}

// domainBound lifts a bound attribute into the variable's domain.
func domainBound(v interface{}, vt Type) interface{} {
	switch x := v.(type) {
	case []int, []int64, []float64, []uint64, time.Time:
		if fs, ok := x.([]int); ok && vt.IsFloat() {
			out := make([]float64, len(fs))
			for i, e := range fs {
				out[i] = float64(e)
			}
			return out
		}
		return v
	}
	return displayDomain(v, vt)
}
