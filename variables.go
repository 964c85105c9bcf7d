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

import "time"

// Variable is the capability interface the schema engine reads. A
// variable exposes its name, its array payload and its attribute table.
// Variables with a physical unit additionally implement UnitCarrier and
// high-dimensional variables with per-axis calibration implement
// FrameCarrier.
type Variable interface {
	Name() string
	Data() *Array
	Meta() *Metadata
}

// UnitCarrier is a variable with a declared physical unit symbol.
type UnitCarrier interface {
	Unit() string
}

// FrameCarrier is a variable carrying a coordinate frame.
type FrameCarrier interface {
	Frame() *CoordFrame
}

// VariableClass partitions variables by their VAR_TYPE attribute.
type VariableClass string

const (
	ClassData     VariableClass = "data"
	ClassSupport  VariableClass = "support_data"
	ClassMetadata VariableClass = "metadata"
)

// ClassOf reads a variable's class from its VAR_TYPE attribute, defaulting
// to data when unset or empty.
func ClassOf(v Variable) VariableClass {
	meta := v.Meta()
	if !meta.HasValue("VAR_TYPE") {
		return ClassData
	}
	if s, ok := meta.Value("VAR_TYPE").(string); ok && s != "" {
		return VariableClass(s)
	}
	return ClassData
}

// Column is one record-varying measurement in a time series group.
type Column struct {
	name string
	data *Array
	unit string
	meta *Metadata
}

// NewColumn builds a record-varying measurement. data follows the
// NewArray conventions; unit may be empty.
func NewColumn(name string, data interface{}, unit string) (*Column, error) {
	a, err := NewArray(data)
	if err != nil {
		return nil, err
	}
	return &Column{name: name, data: a, unit: unit, meta: NewMetadata()}, nil
}

func (c *Column) Name() string    { return c.name }
func (c *Column) Data() *Array    { return c.data }
func (c *Column) Meta() *Metadata { return c.meta }
func (c *Column) Unit() string    { return c.unit }

// TimeSeriesGroup is one epoch axis and the columns recorded against it.
type TimeSeriesGroup struct {
	epochKey string
	times    []time.Time
	timeMeta *Metadata
	columns  []*Column
}

// NewTimeSeriesGroup builds a time series over the given epoch samples.
func NewTimeSeriesGroup(epochKey string, times []time.Time) *TimeSeriesGroup {
	ts := make([]time.Time, len(times))
	copy(ts, times)
	meta := NewMetadata()
	meta.Set("VAR_TYPE", string(ClassSupport))
	return &TimeSeriesGroup{epochKey: epochKey, times: ts, timeMeta: meta}
}

func (g *TimeSeriesGroup) EpochKey() string { return g.epochKey }

func (g *TimeSeriesGroup) Times() []time.Time { return g.times }

func (g *TimeSeriesGroup) TimeMeta() *Metadata { return g.timeMeta }

func (g *TimeSeriesGroup) Len() int { return len(g.times) }

// AddColumn appends a measurement whose record count must match the epoch
// axis.
func (g *TimeSeriesGroup) AddColumn(c *Column) error {
	if c.data.Len() != len(g.times) {
		return &IrregularArrayError{Detail: "column record count does not match epoch axis length"}
	}
	g.columns = append(g.columns, c)
	return nil
}

// Columns returns the measurements in insertion order.
func (g *TimeSeriesGroup) Columns() []*Column { return g.columns }

// Column returns the named measurement, or nil.
func (g *TimeSeriesGroup) Column(name string) *Column {
	for _, c := range g.columns {
		if c.name == name {
			return c
		}
	}
	return nil
}

// epochVariable presents a group's time axis through the Variable
// interface under the group's epoch key.
type epochVariable struct {
	group *TimeSeriesGroup
}

func (e *epochVariable) Name() string { return e.group.epochKey }

func (e *epochVariable) Data() *Array {
	a, _ := NewArray(e.group.times)
	return a
}

func (e *epochVariable) Meta() *Metadata { return e.group.timeMeta }

// SupportVariable is a non-record-varying named array.
type SupportVariable struct {
	name string
	data *Array
	meta *Metadata
}

func NewSupportVariable(name string, data interface{}) (*SupportVariable, error) {
	a, err := NewArray(data)
	if err != nil {
		return nil, err
	}
	meta := NewMetadata()
	// Text variables such as labels carry no measurement range, so they
	// belong to the metadata class rather than support_data.
	class := ClassSupport
	if _, ok := a.Strings(); ok {
		class = ClassMetadata
	}
	meta.Set("VAR_TYPE", string(class))
	return &SupportVariable{name: name, data: a, meta: meta}, nil
}

func (s *SupportVariable) Name() string    { return s.name }
func (s *SupportVariable) Data() *Array    { return s.data }
func (s *SupportVariable) Meta() *Metadata { return s.meta }

// SpectraVariable is a higher-dimensional measurement with an attached
// coordinate frame.
type SpectraVariable struct {
	name  string
	data  *Array
	unit  string
	meta  *Metadata
	frame *CoordFrame
}

func NewSpectraVariable(name string, data interface{}, unit string, frame *CoordFrame) (*SpectraVariable, error) {
	a, err := NewArray(data)
	if err != nil {
		return nil, err
	}
	if frame == nil {
		frame = NewCoordFrame(len(a.Shape))
	}
	return &SpectraVariable{name: name, data: a, unit: unit, meta: NewMetadata(), frame: frame}, nil
}

func (s *SpectraVariable) Name() string       { return s.name }
func (s *SpectraVariable) Data() *Array       { return s.data }
func (s *SpectraVariable) Meta() *Metadata    { return s.meta }
func (s *SpectraVariable) Unit() string       { return s.unit }
func (s *SpectraVariable) Frame() *CoordFrame { return s.frame }

// CoordFrame describes the per-axis calibration of a spectra variable:
// axis names, types, units, reference pixel, reference value and step.
type CoordFrame struct {
	NAxis    int
	CName    []string
	CType    []string
	CUnit    []string
	CRPix    []float64
	CRVal    []float64
	CDelt    []float64
	MJDRef   float64
	TimeUnit string
	TimeDel  float64
}

// Per-keyword defaults applied to axes without explicit calibration.
const (
	defaultCName = "NoName"
	defaultCType = "TEST"
	defaultCUnit = ""
)

// NewCoordFrame builds a frame with naxis axes, each seeded with the
// keyword defaults: reference pixel 0, reference value 1 and step 1.
func NewCoordFrame(naxis int) *CoordFrame {
	f := &CoordFrame{
		NAxis:    naxis,
		CName:    make([]string, naxis),
		CType:    make([]string, naxis),
		CUnit:    make([]string, naxis),
		CRPix:    make([]float64, naxis),
		CRVal:    make([]float64, naxis),
		CDelt:    make([]float64, naxis),
		TimeUnit: "s",
	}
	for i := 0; i < naxis; i++ {
		f.CName[i] = defaultCName
		f.CType[i] = defaultCType
		f.CUnit[i] = defaultCUnit
		f.CRPix[i] = 0
		f.CRVal[i] = 1
		f.CDelt[i] = 1
	}
	return f
}
