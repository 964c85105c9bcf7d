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

	"github.com/swxsoc/swxsoc/swxutil"
)

// varContext carries one variable through a derivation pass.
type varContext struct {
	name       string
	v          Variable
	guess      Type
	isTimeAxis bool
	times      []time.Time
	groups     []*TimeSeriesGroup
	cfg        *swxutil.Config
}

// bindDerivations builds the static dispatch tables mapping derivation
// function names, as referenced by schema rules, to their
// implementations.
func (s *Schema) bindDerivations() {
	s.globalFns = map[string]func(*DataSet) (interface{}, error){
		"logical_file_id":            s.deriveLogicalFileID,
		"logical_source":             s.deriveLogicalSource,
		"logical_source_description": s.deriveLogicalSourceDescription,
		"data_type":                  s.deriveDataType,
		"generation_date":            s.deriveGenerationDate,
		"start_time":                 s.deriveStartTime,
		"module_version":             s.deriveModuleVersion,
	}
	s.varFns = map[string]func(*varContext) (interface{}, error){
		"depend_0":           s.deriveDepend0,
		"display_type":       s.deriveDisplayType,
		"fieldnam":           s.deriveFieldnam,
		"fillval":            s.deriveFillval,
		"format":             s.deriveFormat,
		"lablaxis":           s.deriveLablaxis,
		"si_conversion":      s.deriveSIConversion,
		"units":              s.deriveUnits,
		"validmin":           s.deriveValidmin,
		"validmax":           s.deriveValidmax,
		"reference_position": s.deriveReferencePosition,
		"resolution":         s.deriveResolution,
		"time_base":          s.deriveTimeBase,
		"time_scale":         s.deriveTimeScale,
		"wcs_naxis":          s.deriveFrameNAxis,
		"wcs_timeref":        s.deriveFrameTimeRef,
		"wcs_timeunit":       s.deriveFrameTimeUnit,
		"wcs_timedel":        s.deriveFrameTimeDel,
	}
	s.axisFns = map[string]func(*varContext, int) (interface{}, error){
		"cname": s.deriveAxisName,
		"ctype": s.deriveAxisType,
		"cunit": s.deriveAxisUnit,
		"crpix": s.deriveAxisRefPixel,
		"crval": s.deriveAxisRefValue,
		"cdelt": s.deriveAxisStep,
	}
}

// DeriveGlobalAttributes computes every derivable global attribute for
// the dataset, in schema order. Values already set on the dataset are
// reused verbatim by the individual derivations; whether a computed value
// replaces an existing one is the merger's decision, not made here.
func (s *Schema) DeriveGlobalAttributes(ds *DataSet) (*Metadata, error) {
	out := NewMetadata()
	for _, name := range s.globalNames {
		rule := s.globalRules[name]
		if !rule.Derived {
			continue
		}
		fn := s.globalFns[rule.DerivationFn]
		val, err := fn(ds)
		if err != nil {
			return nil, fmt.Errorf("swxsoc: deriving global attribute %s: %w", name, err)
		}
		out.Set(name, val)
	}
	return out, nil
}

// DeriveVariableAttributes computes every derivable attribute applicable
// to the variable: the rules scoped to its class, plus the epoch rules
// when it is a time axis, plus the coordinate frame rules when it carries
// a frame. priorTypes, when non-empty, bypasses type inference.
func (s *Schema) DeriveVariableAttributes(ds *DataSet, v Variable, isTimeAxis bool, priorTypes []Type) (*Metadata, error) {
	guessTypes := priorTypes
	if len(guessTypes) == 0 {
		inf, err := Infer(v.Data(), 0)
		if err != nil {
			return nil, fmt.Errorf("swxsoc: inferring type of variable %s: %w", v.Name(), err)
		}
		guessTypes = inf.Types
	}
	ctx := &varContext{
		name:       v.Name(),
		v:          v,
		guess:      guessTypes[0],
		isTimeAxis: isTimeAxis,
		groups:     ds.Groups(),
		cfg:        s.cfg,
	}
	if isTimeAxis {
		if t, ok := v.Data().Times(); ok {
			ctx.times = t
		}
	}

	class := ClassOf(v)
	var applicable []string
	switch class {
	case ClassData, ClassSupport, ClassMetadata:
		applicable = append(applicable, s.derivedIn(string(class))...)
	}
	if isTimeAxis {
		applicable = append(applicable, s.derivedIn("epoch")...)
	}
	if fc, ok := v.(FrameCarrier); ok && fc.Frame() != nil {
		applicable = append(applicable, s.derivedIn("spectra")...)
	}

	out := NewMetadata()
	for _, name := range applicable {
		rule := s.varRules[name]
		if rule.Iterable {
			root := strings.TrimRight(name, "i")
			naxes, err := s.frameAxisCount(ctx)
			if err != nil {
				return nil, err
			}
			fn := s.axisFns[rule.DerivationFn]
			for axis := 0; axis < naxes; axis++ {
				val, err := fn(ctx, axis)
				if err != nil {
					return nil, err
				}
				out.Set(fmt.Sprintf("%s%d", root, axis+1), val)
			}
			continue
		}
		fn := s.varFns[rule.DerivationFn]
		val, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		out.Set(name, val)
	}
	return out, nil
}

// derivedIn returns the derived attribute names scoped to a class, in
// schema order.
func (s *Schema) derivedIn(class string) []string {
	scoped := s.varClasses[class]
	var out []string
	for _, name := range s.varNames {
		if !containsString(scoped, name) {
			continue
		}
		if r := s.varRules[name]; r.Derived {
			out = append(out, name)
		}
	}
	return out
}

//
// Variable attribute derivations.
//

// epochKeyFor finds the single time series group whose epoch axis length
// matches the variable's record count.
func epochKeyFor(groups []*TimeSeriesGroup, v Variable) (string, error) {
	var matches []string
	for _, g := range groups {
		if g.Len() == v.Data().Len() {
			matches = append(matches, g.EpochKey())
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", &DerivationError{
			Attribute: "DEPEND_0",
			Variable:  v.Name(),
			Detail:    fmt.Sprintf("no epoch axis matches record count %d", v.Data().Len()),
		}
	}
	return "", &DerivationError{
		Attribute: "DEPEND_0",
		Variable:  v.Name(),
		Detail:    fmt.Sprintf("record count %d matches %d epoch axes", v.Data().Len(), len(matches)),
	}
}

func (s *Schema) deriveDepend0(ctx *varContext) (interface{}, error) {
	if len(ctx.groups) == 0 {
		return s.cfg.DefaultTimeseriesKey, nil
	}
	return epochKeyFor(ctx.groups, ctx.v)
}

func (s *Schema) deriveDisplayType(ctx *varContext) (interface{}, error) {
	return "time_series", nil
}

// deriveFieldnam names the field after the variable, except the time
// axis, which always carries the canonical epoch name.
func (s *Schema) deriveFieldnam(ctx *varContext) (interface{}, error) {
	if ctx.isTimeAxis {
		return s.cfg.DefaultTimeseriesKey, nil
	}
	return ctx.name, nil
}

func (s *Schema) deriveFillval(ctx *varContext) (interface{}, error) {
	fv := ctx.guess.FillValue()
	if fv == nil {
		return nil, &DerivationError{
			Attribute: "FILLVAL",
			Variable:  ctx.name,
			Detail:    fmt.Sprintf("no fill value for type %s", ctx.guess),
		}
	}
	return fv, nil
}

func (s *Schema) deriveFormat(ctx *varContext) (interface{}, error) {
	fmtStr, err := displayFormat(ctx.v, ctx.guess)
	if err != nil {
		return nil, &DerivationError{Attribute: "FORMAT", Variable: ctx.name, Detail: err.Error()}
	}
	return fmtStr, nil
}

// displayFormat chooses a FORTRAN-style display format for one sample of
// the variable. Integer widths come from the valid range when the
// metadata declares one and from the storage type's extremes otherwise;
// float decimal places come from the magnitude of the declared range;
// temporal types use fixed-width timestamp strings.
func displayFormat(v Variable, t Type) (string, error) {
	meta := v.Meta()
	switch {
	case t.IsInteger():
		var minval, maxval float64
		if meta.Has("VALIDMIN") {
			minval = toFloat64(meta.Value("VALIDMIN"))
		} else if !t.signed() {
			minval = 0
		} else {
			lo, _, _ := intRange(t)
			minval = float64(lo)
		}
		if meta.Has("VALIDMAX") {
			maxval = toFloat64(meta.Value("VALIDMAX"))
		} else {
			_, hi, _ := intRange(t)
			maxval = float64(hi)
		}
		if minval < 0 {
			// One extra column for the sign.
			return fmt.Sprintf("I%d", int(math.Log10(math.Max(math.Abs(maxval), math.Max(math.Abs(minval), 1))))+2), nil
		}
		width := 1
		if maxval != 0 {
			width = int(math.Log10(maxval))
		}
		return fmt.Sprintf("I%d", width+1), nil
	case t == TIMETT2000:
		return fmt.Sprintf("A%d", len("9999-12-31T23:59:59.999999999")), nil
	case t == EPOCH16:
		return fmt.Sprintf("A%d", len("31-Dec-9999 23:59:59.999.999.000.000")), nil
	case t == EPOCH:
		return fmt.Sprintf("A%d", len("31-Dec-9999 23:59:59.999")), nil
	case t.IsFloat():
		if !meta.Has("VALIDMIN") || !meta.Has("VALIDMAX") {
			return "G10.8E3", nil
		}
		minval := toFloat64(meta.Value("VALIDMIN"))
		maxval := toFloat64(meta.Value("VALIDMAX"))
		rng := maxval - minval
		ln := strconv.FormatInt(int64(maxval), 10)
		if len(strconv.FormatInt(int64(maxval), 10)) < len(strconv.FormatInt(int64(minval), 10)) {
			ln = strconv.FormatInt(int64(minval), 10)
		}
		switch {
		case rng < 0 || rng == 0:
			return "G10.8E3", nil
		case rng <= 11:
			return fmt.Sprintf("F%d.3", len(ln)+4), nil
		case rng <= 101:
			return fmt.Sprintf("F%d.2", len(ln)+3), nil
		case rng <= 1000:
			return fmt.Sprintf("F%d.1", len(ln)+2), nil
		}
		return "G10.8E3", nil
	case t.IsText():
		a := v.Data()
		if ss, ok := a.Strings(); ok && a.IsScalar() && len(ss) == 1 {
			return fmt.Sprintf("A%d", len(ss[0])), nil
		}
		return fmt.Sprintf("A%d", a.Len()), nil
	}
	return "", fmt.Errorf("no display format for type %s", t)
}

func (s *Schema) deriveLablaxis(ctx *varContext) (interface{}, error) {
	u, err := s.deriveUnits(ctx)
	if err != nil {
		return nil, err
	}
	return fmt.Sprintf("%s [%s]", ctx.name, u), nil
}

func (s *Schema) deriveSIConversion(ctx *varContext) (interface{}, error) {
	if ctx.isTimeAxis {
		return fmt.Sprintf("%e>%s", 1e-9, "s"), nil
	}
	if uc, ok := ctx.v.(UnitCarrier); ok && uc.Unit() != "" {
		if KnownUnit(uc.Unit()) {
			return SIConversion(uc.Unit()), nil
		}
		return fmt.Sprintf("1.0>%s", uc.Unit()), nil
	}
	return " > ", nil
}

func (s *Schema) deriveUnits(ctx *varContext) (interface{}, error) {
	if ctx.isTimeAxis {
		if ctx.guess == TIMETT2000 {
			return "ns", nil
		}
		return nil, &DerivationError{
			Attribute: "UNITS",
			Variable:  ctx.name,
			Detail:    fmt.Sprintf("no time units for type %s", ctx.guess),
		}
	}
	if uc, ok := ctx.v.(UnitCarrier); ok && uc.Unit() != "" {
		return uc.Unit(), nil
	}
	if ctx.v.Meta().HasValue("UNITS") {
		if u, ok := ctx.v.Meta().Value("UNITS").(string); ok {
			return u, nil
		}
	}
	return "", nil
}

func (s *Schema) deriveValidmin(ctx *varContext) (interface{}, error) {
	lo, _, ok := ctx.guess.MinMax()
	if !ok {
		return nil, &DerivationError{
			Attribute: "VALIDMIN",
			Variable:  ctx.name,
			Detail:    fmt.Sprintf("type %s has no ordered range", ctx.guess),
		}
	}
	return lo, nil
}

func (s *Schema) deriveValidmax(ctx *varContext) (interface{}, error) {
	_, hi, ok := ctx.guess.MinMax()
	if !ok {
		return nil, &DerivationError{
			Attribute: "VALIDMAX",
			Variable:  ctx.name,
			Detail:    fmt.Sprintf("type %s has no ordered range", ctx.guess),
		}
	}
	return hi, nil
}

func (s *Schema) deriveReferencePosition(ctx *varContext) (interface{}, error) {
	if ctx.guess == TIMETT2000 {
		return "rotating Earth geoid", nil
	}
	return nil, &DerivationError{
		Attribute: "REFERENCE_POSITION",
		Variable:  ctx.name,
		Detail:    fmt.Sprintf("no reference position for time type %s", ctx.guess),
	}
}

func (s *Schema) deriveResolution(ctx *varContext) (interface{}, error) {
	if len(ctx.times) < 2 {
		return nil, &DerivationError{
			Attribute: "RESOLUTION",
			Variable:  ctx.name,
			Detail:    fmt.Sprintf("need 2 samples to derive a resolution, found %d", len(ctx.times)),
		}
	}
	delta := ctx.times[1].Sub(ctx.times[0]).Seconds()
	return pyFloat(delta) + "s", nil
}

func (s *Schema) deriveTimeBase(ctx *varContext) (interface{}, error) {
	if ctx.guess == TIMETT2000 {
		return "J2000", nil
	}
	return nil, &DerivationError{
		Attribute: "TIME_BASE",
		Variable:  ctx.name,
		Detail:    fmt.Sprintf("no time base for time type %s", ctx.guess),
	}
}

func (s *Schema) deriveTimeScale(ctx *varContext) (interface{}, error) {
	if ctx.guess == TIMETT2000 {
		return "Terrestrial Time (TT)", nil
	}
	return nil, &DerivationError{
		Attribute: "TIME_SCALE",
		Variable:  ctx.name,
		Detail:    fmt.Sprintf("no time scale for time type %s", ctx.guess),
	}
}

//
// Coordinate frame derivations.
//

func frameOf(ctx *varContext) (*CoordFrame, error) {
	fc, ok := ctx.v.(FrameCarrier)
	if !ok || fc.Frame() == nil {
		return nil, &DerivationError{
			Attribute: "WCSAXES",
			Variable:  ctx.name,
			Detail:    "variable carries no coordinate frame",
		}
	}
	return fc.Frame(), nil
}

// frameAxisCount resolves the number of coordinate axes: an explicit
// WCSAXES attribute wins, otherwise the frame's own axis count.
func (s *Schema) frameAxisCount(ctx *varContext) (int, error) {
	if ctx.v.Meta().HasValue("WCSAXES") {
		return int(toInt64(ctx.v.Meta().Value("WCSAXES"))), nil
	}
	f, err := frameOf(ctx)
	if err != nil {
		return 0, err
	}
	return f.NAxis, nil
}

func (s *Schema) deriveFrameNAxis(ctx *varContext) (interface{}, error) {
	n, err := s.frameAxisCount(ctx)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Schema) deriveFrameTimeRef(ctx *varContext) (interface{}, error) {
	if ctx.v.Meta().HasValue("MJDREF") {
		return ctx.v.Meta().Value("MJDREF"), nil
	}
	f, err := frameOf(ctx)
	if err != nil {
		return nil, err
	}
	return f.MJDRef, nil
}

func (s *Schema) deriveFrameTimeUnit(ctx *varContext) (interface{}, error) {
	if ctx.v.Meta().HasValue("TIMEUNIT") {
		return ctx.v.Meta().Value("TIMEUNIT"), nil
	}
	f, err := frameOf(ctx)
	if err != nil {
		return nil, err
	}
	return f.TimeUnit, nil
}

func (s *Schema) deriveFrameTimeDel(ctx *varContext) (interface{}, error) {
	if ctx.v.Meta().HasValue("TIMEDEL") {
		return ctx.v.Meta().Value("TIMEDEL"), nil
	}
	f, err := frameOf(ctx)
	if err != nil {
		return nil, err
	}
	return f.TimeDel, nil
}

func axisRange(ctx *varContext, attr string, axis, have int) error {
	if axis >= have {
		return &DerivationError{
			Attribute: attr,
			Variable:  ctx.name,
			Detail:    fmt.Sprintf("axis %d out of range, frame has %d axes", axis, have),
		}
	}
	return nil
}

func (s *Schema) deriveAxisName(ctx *varContext, axis int) (interface{}, error) {
	f, err := frameOf(ctx)
	if err != nil {
		return nil, err
	}
	if err := axisRange(ctx, "CNAMEi", axis, len(f.CName)); err != nil {
		return nil, err
	}
	return f.CName[axis], nil
}

func (s *Schema) deriveAxisType(ctx *varContext, axis int) (interface{}, error) {
	f, err := frameOf(ctx)
	if err != nil {
		return nil, err
	}
	if err := axisRange(ctx, "CTYPEi", axis, len(f.CType)); err != nil {
		return nil, err
	}
	return f.CType[axis], nil
}

func (s *Schema) deriveAxisUnit(ctx *varContext, axis int) (interface{}, error) {
	f, err := frameOf(ctx)
	if err != nil {
		return nil, err
	}
	if err := axisRange(ctx, "CUNITi", axis, len(f.CUnit)); err != nil {
		return nil, err
	}
	return f.CUnit[axis], nil
}

func (s *Schema) deriveAxisRefPixel(ctx *varContext, axis int) (interface{}, error) {
	f, err := frameOf(ctx)
	if err != nil {
		return nil, err
	}
	if err := axisRange(ctx, "CRPIXi", axis, len(f.CRPix)); err != nil {
		return nil, err
	}
	return f.CRPix[axis], nil
}

func (s *Schema) deriveAxisRefValue(ctx *varContext, axis int) (interface{}, error) {
	f, err := frameOf(ctx)
	if err != nil {
		return nil, err
	}
	if err := axisRange(ctx, "CRVALi", axis, len(f.CRVal)); err != nil {
		return nil, err
	}
	return f.CRVal[axis], nil
}

func (s *Schema) deriveAxisStep(ctx *varContext, axis int) (interface{}, error) {
	f, err := frameOf(ctx)
	if err != nil {
		return nil, err
	}
	if err := axisRange(ctx, "CDELTi", axis, len(f.CDelt)); err != nil {
		return nil, err
	}
	return f.CDelt[axis], nil
}

//
// Global attribute derivations. Each reuses an explicitly-set value
// verbatim before recomputing from its parts.
//

func (s *Schema) metaString(ds *DataSet, name string) (string, bool) {
	if !ds.Meta().HasValue(name) {
		return "", false
	}
	v, ok := ds.Meta().Value(name).(string)
	return v, ok && v != ""
}

func (s *Schema) deriveLogicalFileID(ds *DataSet) (interface{}, error) {
	if v, ok := s.metaString(ds, "Logical_file_id"); ok {
		return v, nil
	}
	instrumentID := s.instrumentID(ds)
	if instrumentID == "" {
		return nil, &DerivationError{
			Attribute: "Logical_file_id",
			Detail:    "no Descriptor attribute to take the instrument from",
		}
	}
	inst, ok := s.cfg.Instrument(instrumentID)
	if !ok {
		if inst, ok = s.cfg.InstrumentFromShortName(instrumentID); !ok {
			return nil, &DerivationError{
				Attribute: "Logical_file_id",
				Detail:    fmt.Sprintf("instrument %q is not configured for mission %s", instrumentID, s.cfg.MissionName),
			}
		}
	}
	start, err := s.startTime(ds)
	if err != nil {
		return nil, err
	}
	name, err := swxutil.CreateScienceFilename(s.cfg, inst.Name, start,
		s.dataLevel(ds), s.version(ds), s.instrumentMode(ds), s.dataProductDescriptor(ds), false)
	if err != nil {
		return nil, &DerivationError{Attribute: "Logical_file_id", Detail: err.Error()}
	}
	return strings.TrimSuffix(name, s.cfg.FileExtension), nil
}

func (s *Schema) deriveLogicalSource(ds *DataSet) (interface{}, error) {
	if v, ok := s.metaString(ds, "Logical_source"); ok {
		return v, nil
	}
	dataType, err := s.deriveDataType(ds)
	if err != nil {
		return nil, err
	}
	short := strings.SplitN(dataType.(string), ">", 2)[0]
	return fmt.Sprintf("%s_%s_%s", s.spacecraftID(ds), s.instrumentID(ds), short), nil
}

func (s *Schema) deriveLogicalSourceDescription(ds *DataSet) (interface{}, error) {
	if v, ok := s.metaString(ds, "Logical_source_description"); ok {
		return v, nil
	}
	dataType, err := s.deriveDataType(ds)
	if err != nil {
		return nil, err
	}
	parts := strings.SplitN(dataType.(string), ">", 2)
	long := ""
	if len(parts) == 2 {
		long = parts[1]
	}
	return fmt.Sprintf("%s %s %s", s.spacecraftLongName(ds), s.instrumentLongName(ds), long), nil
}

func (s *Schema) deriveDataType(ds *DataSet) (interface{}, error) {
	if v, ok := s.metaString(ds, "Data_type"); ok {
		return v, nil
	}
	var shortParts, longParts []string
	if mode := s.instrumentMode(ds); mode != "" {
		shortParts = append(shortParts, mode)
		longParts = append(longParts, mode)
	}
	levelShort := s.dataLevel(ds)
	levelLong := s.dataLevelLongName(ds)
	if levelShort != "" && levelLong != "" {
		shortParts = append(shortParts, levelShort)
		longParts = append(longParts, levelLong)
	}
	if odpd := s.dataProductDescriptor(ds); odpd != "" {
		shortParts = append(shortParts, odpd)
		longParts = append(longParts, odpd)
	}
	return strings.Join(shortParts, "_") + ">" + strings.Join(longParts, " "), nil
}

func (s *Schema) deriveGenerationDate(ds *DataSet) (interface{}, error) {
	return time.Now().UTC().Format("2006-01-02"), nil
}

func (s *Schema) startTime(ds *DataSet) (time.Time, error) {
	groups := ds.Groups()
	if len(groups) == 0 || groups[0].Len() == 0 {
		return time.Time{}, &DerivationError{
			Attribute: "Start_time",
			Detail:    "dataset has no epoch samples",
		}
	}
	return groups[0].Times()[0], nil
}

func (s *Schema) deriveStartTime(ds *DataSet) (interface{}, error) {
	t, err := s.startTime(ds)
	if err != nil {
		return nil, err
	}
	return t.UTC().Format("2006-01-02T15:04:05.000"), nil
}

func (s *Schema) deriveModuleVersion(ds *DataSet) (interface{}, error) {
	if v, ok := s.metaString(ds, "SWxSOC_version"); ok {
		return v, nil
	}
	return Version, nil
}

// shortOf takes the part before ">" of a "short>Long Name" pair,
// lowercased.
func shortOf(v string) string {
	if i := strings.Index(v, ">"); i >= 0 {
		return strings.ToLower(v[:i])
	}
	return v
}

// longOf takes the part after ">" of a "short>Long Name" pair.
func longOf(v string) string {
	if i := strings.Index(v, ">"); i >= 0 {
		return v[i+1:]
	}
	return v
}

func (s *Schema) spacecraftID(ds *DataSet) string {
	if v, ok := s.metaString(ds, "Source_name"); ok {
		return shortOf(v)
	}
	return s.cfg.MissionName
}

func (s *Schema) spacecraftLongName(ds *DataSet) string {
	if v, ok := s.metaString(ds, "Source_name"); ok {
		return longOf(v)
	}
	return s.cfg.MissionName
}

func (s *Schema) instrumentID(ds *DataSet) string {
	if v, ok := s.metaString(ds, "Descriptor"); ok {
		return shortOf(v)
	}
	return ""
}

func (s *Schema) instrumentLongName(ds *DataSet) string {
	if v, ok := s.metaString(ds, "Descriptor"); ok {
		return longOf(v)
	}
	return ""
}

func (s *Schema) dataLevel(ds *DataSet) string {
	if v, ok := s.metaString(ds, "Data_level"); ok {
		return shortOf(v)
	}
	return ""
}

func (s *Schema) dataLevelLongName(ds *DataSet) string {
	if v, ok := s.metaString(ds, "Data_level"); ok {
		return longOf(v)
	}
	return ""
}

func (s *Schema) dataProductDescriptor(ds *DataSet) string {
	if v, ok := s.metaString(ds, "Data_product_descriptor"); ok {
		return v
	}
	return ""
}

func (s *Schema) version(ds *DataSet) string {
	if v, ok := s.metaString(ds, "Data_version"); ok {
		return strings.TrimPrefix(strings.ToLower(v), "v")
	}
	return ""
}

func (s *Schema) instrumentMode(ds *DataSet) string {
	if v, ok := s.metaString(ds, "Instrument_mode"); ok {
		return strings.ToLower(v)
	}
	return ""
}
