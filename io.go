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
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ctessum/cdf"
)

// nativeTypeAttr records each variable's storage type in the container,
// which itself only distinguishes byte, char, short, int, float and
// double payloads.
const nativeTypeAttr = "CDF_DATA_TYPE"

// Save derives any remaining metadata, checks that every required global
// attribute is set, and writes the dataset into dir under its
// Logical_file_id. It returns the path written.
func (ds *DataSet) Save(dir string) (string, error) {
	if err := ds.DeriveMetadata(); err != nil {
		return "", err
	}
	if err := ds.CheckRequired(); err != nil {
		return "", err
	}
	id, ok := ds.meta.Value("Logical_file_id").(string)
	if !ok || id == "" {
		return "", &MissingRequiredAttributeError{Attribute: "Logical_file_id"}
	}
	path := filepath.Join(dir, id+ds.schema.cfg.FileExtension)
	if err := ds.SaveCDF(path); err != nil {
		return "", err
	}
	return path, nil
}

// SaveCDF writes the dataset to path in the NetCDF classic container.
// 64-bit integer and temporal payloads store as doubles with the native
// storage type recorded in a per-variable attribute, so a round trip
// restores them.
func (ds *DataSet) SaveCDF(path string) error {
	var dims []string
	var lengths []int
	addDim := func(name string, n int) {
		dims = append(dims, name)
		lengths = append(lengths, n)
	}

	type varPlan struct {
		v          Variable
		isTimeAxis bool
		t          Type
		elements   int
		dims       []string
	}
	var plans []*varPlan
	for _, name := range ds.VariableNames() {
		v, isTimeAxis, _ := ds.lookup(name)
		inf, err := Infer(v.Data(), ds.priors[name])
		if err != nil {
			return fmt.Errorf("swxsoc: writing %s: inferring type of variable %s: %w", path, name, err)
		}
		p := &varPlan{v: v, isTimeAxis: isTimeAxis, t: inf.Primary(), elements: inf.Elements}
		shape := v.Data().Shape
		for i, n := range shape {
			d := fmt.Sprintf("%s_dim%d", name, i)
			if i == 0 && isTimeAxis {
				d = name
			}
			addDim(d, n)
			p.dims = append(p.dims, d)
		}
		if p.t.IsText() {
			d := name + "_strlen"
			addDim(d, p.elements)
			p.dims = append(p.dims, d)
		}
		plans = append(plans, p)
	}

	h := cdf.NewHeader(dims, lengths)
	for _, p := range plans {
		name := p.v.Name()
		h.AddVariable(name, p.dims, containerZero(p.t))
		h.AddAttribute(name, nativeTypeAttr, p.t.String())
		p.v.Meta().Range(func(attr string, av AttributeValue) {
			if av.Value == nil {
				return
			}
			enc, ok := encodeAttribute(av.Value)
			if !ok {
				return
			}
			h.AddAttribute(name, attr, enc)
		})
	}
	ds.meta.Range(func(attr string, av AttributeValue) {
		if av.Value == nil {
			return
		}
		enc, ok := encodeAttribute(av.Value)
		if !ok {
			return
		}
		h.AddAttribute("", attr, enc)
	})

	h.Define()
	for _, err := range h.Check() {
		return fmt.Errorf("swxsoc: writing %s: building header: %v", path, err)
	}

	ff, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("swxsoc: writing %s: %v", path, err)
	}
	defer ff.Close()
	f, err := cdf.Create(ff, h)
	if err != nil {
		return fmt.Errorf("swxsoc: writing %s: %v", path, err)
	}
	for _, p := range plans {
		payload, err := containerValues(p.v.Data(), p.t, p.elements)
		if err != nil {
			return fmt.Errorf("swxsoc: writing %s: encoding variable %s: %v", path, p.v.Name(), err)
		}
		end := h.Lengths(p.v.Name())
		w := f.Writer(p.v.Name(), make([]int, len(end)), end)
		if _, err := w.Write(payload); err != nil {
			return fmt.Errorf("swxsoc: writing %s: writing variable %s: %v", path, p.v.Name(), err)
		}
	}
	return nil
}

// containerZero returns a zero value of the container type that stores
// native type t, for variable declaration.
func containerZero(t Type) interface{} {
	switch {
	case t.IsText():
		return ""
	case t.IsTime():
		return []float64{0}
	}
	switch t {
	case INT1, BYTE, UINT1:
		return []uint8{0}
	case INT2:
		return []int16{0}
	case UINT2, INT4:
		return []int32{0}
	case FLOAT, REAL4:
		return []float32{0}
	}
	// UINT4, INT8 and the 8-byte floats all store as doubles.
	return []float64{0}
}

// containerValues converts an array payload into the container
// representation matching containerZero(t).
func containerValues(a *Array, t Type, elements int) (interface{}, error) {
	switch {
	case t.IsText():
		ss, ok := a.Strings()
		if !ok {
			return nil, fmt.Errorf("type %s with non-text data %T", t, a.Data)
		}
		var b strings.Builder
		for _, s := range ss {
			if len(s) > elements {
				s = s[:elements]
			}
			b.WriteString(s)
			b.WriteString(strings.Repeat("\x00", elements-len(s)))
		}
		return b.String(), nil
	case t.IsTime():
		ts, ok := a.Times()
		if !ok {
			return nil, fmt.Errorf("type %s with non-temporal data %T", t, a.Data)
		}
		out := make([]float64, len(ts))
		for i, x := range ts {
			out[i] = float64(x.UnixNano())
		}
		return out, nil
	}
	fl, ok := a.Floats()
	if !ok {
		return nil, fmt.Errorf("type %s with non-numeric data %T", t, a.Data)
	}
	switch t {
	case INT1, BYTE, UINT1:
		out := make([]uint8, len(fl))
		for i, x := range fl {
			if t.signed() {
				out[i] = uint8(int8(x))
			} else {
				out[i] = uint8(x)
			}
		}
		return out, nil
	case INT2:
		out := make([]int16, len(fl))
		for i, x := range fl {
			out[i] = int16(x)
		}
		return out, nil
	case UINT2, INT4:
		out := make([]int32, len(fl))
		for i, x := range fl {
			out[i] = int32(x)
		}
		return out, nil
	case FLOAT, REAL4:
		out := make([]float32, len(fl))
		for i, x := range fl {
			out[i] = float32(x)
		}
		return out, nil
	}
	out := make([]float64, len(fl))
	copy(out, fl)
	return out, nil
}

// encodeAttribute converts a metadata value into one of the container's
// attribute payload types. Unencodable values are skipped.
func encodeAttribute(v interface{}) (interface{}, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		if x {
			return "true", true
		}
		return "false", true
	case int:
		return encodeInt(int64(x)), true
	case int8:
		return encodeInt(int64(x)), true
	case int16:
		return encodeInt(int64(x)), true
	case int32:
		return encodeInt(int64(x)), true
	case int64:
		return encodeInt(x), true
	case uint8:
		return encodeInt(int64(x)), true
	case uint16:
		return encodeInt(int64(x)), true
	case uint32:
		return encodeInt(int64(x)), true
	case uint64:
		if x > math.MaxInt64 {
			return []float64{float64(x)}, true
		}
		return encodeInt(int64(x)), true
	case float32:
		return []float32{x}, true
	case float64:
		return []float64{x}, true
	case [2]float64:
		return []float64{x[0], x[1]}, true
	case time.Time:
		return []float64{float64(x.UnixNano())}, true
	case []int:
		out := make([]float64, len(x))
		allSmall := true
		for i, e := range x {
			out[i] = float64(e)
			if e < math.MinInt32 || e > math.MaxInt32 {
				allSmall = false
			}
		}
		if allSmall {
			ints := make([]int32, len(x))
			for i, e := range x {
				ints[i] = int32(e)
			}
			return ints, true
		}
		return out, true
	case []int64:
		out := make([]float64, len(x))
		for i, e := range x {
			out[i] = float64(e)
		}
		return out, true
	case []uint64:
		out := make([]float64, len(x))
		for i, e := range x {
			out[i] = float64(e)
		}
		return out, true
	case []float64:
		return x, true
	case []float32:
		return x, true
	case []int32:
		return x, true
	case []string:
		return strings.Join(x, "\n"), true
	}
	return nil, false
}

func encodeInt(v int64) interface{} {
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		return []int32{int32(v)}
	}
	return []float64{float64(v)}
}

// decodeAttribute converts a container attribute payload back into a
// metadata value. Single-element numeric payloads unwrap to scalars.
func decodeAttribute(v interface{}) interface{} {
	switch x := v.(type) {
	case string:
		return x
	case []uint8:
		if len(x) == 1 {
			return int(x[0])
		}
		out := make([]int, len(x))
		for i, e := range x {
			out[i] = int(e)
		}
		return out
	case []int16:
		if len(x) == 1 {
			return int(x[0])
		}
		out := make([]int, len(x))
		for i, e := range x {
			out[i] = int(e)
		}
		return out
	case []int32:
		if len(x) == 1 {
			return int(x[0])
		}
		out := make([]int, len(x))
		for i, e := range x {
			out[i] = int(e)
		}
		return out
	case []float32:
		if len(x) == 1 {
			return float64(x[0])
		}
		out := make([]float64, len(x))
		for i, e := range x {
			out[i] = float64(e)
		}
		return out
	case []float64:
		if len(x) == 1 {
			return x[0]
		}
		return x
	}
	return v
}

// loadedVariable is one variable read back from a container, before the
// dataset structure is reassembled.
type loadedVariable struct {
	name  string
	t     Type
	shape []int
	data  interface{}
	meta  *Metadata
}

// LoadCDF reads a dataset from path, restoring each variable's native
// storage type, the group structure and all attributes.
func LoadCDF(path string, schema *Schema) (*DataSet, error) {
	ff, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Could not open CDF File at path: %s", path)
	}
	defer ff.Close()
	f, err := cdf.Open(ff)
	if err != nil {
		return nil, fmt.Errorf("Could not open CDF File at path: %s", path)
	}

	ds := NewDataSet(schema)
	for _, attr := range f.Header.Attributes("") {
		ds.meta.Set(attr, decodeAttribute(f.Header.GetAttribute("", attr)))
	}

	var loaded []*loadedVariable
	for _, name := range f.Header.Variables() {
		lv, err := readVariable(f, name)
		if err != nil {
			return nil, fmt.Errorf("swxsoc: reading %s: %v", path, err)
		}
		loaded = append(loaded, lv)
	}

	if err := assemble(ds, loaded); err != nil {
		return nil, fmt.Errorf("swxsoc: reading %s: %v", path, err)
	}
	return ds, nil
}

func readVariable(f *cdf.File, name string) (*loadedVariable, error) {
	lv := &loadedVariable{name: name, meta: NewMetadata()}
	for _, attr := range f.Header.Attributes(name) {
		val := decodeAttribute(f.Header.GetAttribute(name, attr))
		if attr == nativeTypeAttr {
			s, _ := val.(string)
			t, ok := ParseType(s)
			if !ok {
				return nil, fmt.Errorf("variable %s: unknown storage type %q", name, s)
			}
			lv.t = t
			continue
		}
		lv.meta.Set(attr, val)
	}

	r := f.Reader(name, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("variable %s: %v", name, err)
	}
	lv.shape = f.Header.Lengths(name)

	switch {
	case lv.t.IsText():
		raw, ok := buf.([]uint8)
		if !ok {
			return nil, fmt.Errorf("variable %s: text variable with %T payload", name, buf)
		}
		strlen := lv.shape[len(lv.shape)-1]
		lv.shape = lv.shape[:len(lv.shape)-1]
		n := len(raw) / strlen
		ss := make([]string, n)
		for i := 0; i < n; i++ {
			ss[i] = strings.TrimRight(string(raw[i*strlen:(i+1)*strlen]), "\x00")
		}
		lv.data = ss
	case lv.t.IsTime():
		ns, ok := buf.([]float64)
		if !ok {
			return nil, fmt.Errorf("variable %s: temporal variable with %T payload", name, buf)
		}
		ts := make([]time.Time, len(ns))
		for i, x := range ns {
			ts[i] = time.Unix(0, int64(x)).UTC()
		}
		lv.data = ts
		restoreTimeAttrs(lv.meta)
	default:
		lv.data = restoreNumeric(buf, lv.t)
	}
	return lv, nil
}

// restoreTimeAttrs converts the range and fill attributes of a temporal
// variable, stored as nanosecond doubles, back to times.
func restoreTimeAttrs(meta *Metadata) {
	for _, attr := range []string{"VALIDMIN", "VALIDMAX", "FILLVAL"} {
		if !meta.Has(attr) {
			continue
		}
		if ns, ok := meta.Value(attr).(float64); ok {
			meta.Set(attr, time.Unix(0, int64(ns)).UTC())
		}
	}
}

// restoreNumeric converts a container payload back to the native
// element type.
func restoreNumeric(buf interface{}, t Type) interface{} {
	switch x := buf.(type) {
	case []uint8:
		if t.signed() {
			out := make([]int8, len(x))
			for i, e := range x {
				out[i] = int8(e)
			}
			return out
		}
		return x
	case []int16:
		return x
	case []int32:
		if t == UINT2 {
			out := make([]uint16, len(x))
			for i, e := range x {
				out[i] = uint16(e)
			}
			return out
		}
		return x
	case []float32:
		return x
	case []float64:
		switch t {
		case UINT4:
			out := make([]uint32, len(x))
			for i, e := range x {
				out[i] = uint32(e)
			}
			return out
		case INT8:
			out := make([]int64, len(x))
			for i, e := range x {
				out[i] = int64(e)
			}
			return out
		}
		return x
	}
	return buf
}

// assemble rebuilds the dataset structure: temporal variables become
// epoch axes, record-varying data becomes columns (or spectra when a
// coordinate frame is present), everything else support variables.
func assemble(ds *DataSet, loaded []*loadedVariable) error {
	for _, lv := range loaded {
		if !lv.t.IsTime() {
			continue
		}
		ts, _ := lv.data.([]time.Time)
		g := NewTimeSeriesGroup(lv.name, ts)
		copyMeta(lv.meta, g.TimeMeta())
		if err := ds.AddTimeSeries(g); err != nil {
			return err
		}
		ds.SetPriorType(lv.name, lv.t)
	}
	for _, lv := range loaded {
		if lv.t.IsTime() {
			continue
		}
		if err := assembleVariable(ds, lv); err != nil {
			return err
		}
		ds.SetPriorType(lv.name, lv.t)
	}
	return nil
}

func assembleVariable(ds *DataSet, lv *loadedVariable) error {
	a, err := NewArray(lv.data)
	if err != nil {
		return err
	}
	a.Shape = lv.shape
	unit := ""
	if u, ok := lv.meta.Value("UNITS").(string); ok {
		unit = u
	}

	class := VariableClass("")
	if s, ok := lv.meta.Value("VAR_TYPE").(string); ok {
		class = VariableClass(s)
	}
	switch {
	case class == ClassSupport || class == ClassMetadata:
		v, err := NewSupportVariable(lv.name, a)
		if err != nil {
			return err
		}
		copyMeta(lv.meta, v.Meta())
		return ds.AddSupport(v)
	case lv.meta.HasValue("WCSAXES"):
		v, err := NewSpectraVariable(lv.name, a, unit, frameFromMeta(lv.meta))
		if err != nil {
			return err
		}
		copyMeta(lv.meta, v.Meta())
		return ds.AddSpectra(v)
	}
	c, err := NewColumn(lv.name, a, unit)
	if err != nil {
		return err
	}
	copyMeta(lv.meta, c.Meta())
	return ds.AddColumn(c)
}

// frameFromMeta rebuilds a coordinate frame from persisted per-axis
// attributes.
func frameFromMeta(meta *Metadata) *CoordFrame {
	naxis := int(toInt64(meta.Value("WCSAXES")))
	if naxis <= 0 {
		return nil
	}
	f := NewCoordFrame(naxis)
	if meta.Has("MJDREF") {
		f.MJDRef = toFloat64(meta.Value("MJDREF"))
	}
	if u, ok := meta.Value("TIMEUNIT").(string); ok {
		f.TimeUnit = u
	}
	if meta.Has("TIMEDEL") {
		f.TimeDel = toFloat64(meta.Value("TIMEDEL"))
	}
	for i := 0; i < naxis; i++ {
		if s, ok := meta.Value(fmt.Sprintf("CNAME%d", i+1)).(string); ok {
			f.CName[i] = s
		}
		if s, ok := meta.Value(fmt.Sprintf("CTYPE%d", i+1)).(string); ok {
			f.CType[i] = s
		}
		if s, ok := meta.Value(fmt.Sprintf("CUNIT%d", i+1)).(string); ok {
			f.CUnit[i] = s
		}
		if meta.Has(fmt.Sprintf("CRPIX%d", i+1)) {
			f.CRPix[i] = toFloat64(meta.Value(fmt.Sprintf("CRPIX%d", i+1)))
		}
		if meta.Has(fmt.Sprintf("CRVAL%d", i+1)) {
			f.CRVal[i] = toFloat64(meta.Value(fmt.Sprintf("CRVAL%d", i+1)))
		}
		if meta.Has(fmt.Sprintf("CDELT%d", i+1)) {
			f.CDelt[i] = toFloat64(meta.Value(fmt.Sprintf("CDELT%d", i+1)))
		}
	}
	return f
}

func copyMeta(src, dst *Metadata) {
	src.Range(func(name string, v AttributeValue) {
		dst.SetWithComment(name, v.Value, v.Comment)
	})
}
