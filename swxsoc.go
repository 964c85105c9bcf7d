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

// Package swxsoc derives, validates and persists standard-compliant
// metadata for heliophysics time series measurements. A DataSet groups
// measurements by epoch axis, a Schema holds the layered attribute rules,
// and DeriveMetadata fills every derivable attribute the rules declare.
package swxsoc

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Version is the module version recorded in the SWxSOC_version global
// attribute of files this package writes.
const Version = "0.3.0"

// DataSet is a collection of time series groups, support variables and
// spectra variables with a shared global attribute table.
type DataSet struct {
	meta    *Metadata
	groups  []*TimeSeriesGroup
	support []*SupportVariable
	spectra []*SpectraVariable

	schema *Schema
	merger *Merger
	priors map[string]Type

	Log logrus.FieldLogger
}

// NewDataSet builds an empty dataset bound to a schema. The global
// attribute table starts with the schema's defaulted values plus nil
// placeholders for every attribute the caller must supply.
func NewDataSet(schema *Schema) *DataSet {
	meta := schema.GlobalAttributeTemplate()
	schema.DefaultGlobalAttributes().Range(func(name string, v AttributeValue) {
		meta.SetWithComment(name, v.Value, v.Comment)
	})
	return &DataSet{
		meta:   meta,
		schema: schema,
		merger: NewMerger(),
		priors: make(map[string]Type),
		Log:    logrus.StandardLogger(),
	}
}

// Meta returns the global attribute table.
func (ds *DataSet) Meta() *Metadata { return ds.meta }

// Schema returns the schema the dataset is bound to.
func (ds *DataSet) Schema() *Schema { return ds.schema }

// Groups returns the time series groups in insertion order.
func (ds *DataSet) Groups() []*TimeSeriesGroup { return ds.groups }

// Support returns the non-record-varying variables in insertion order.
func (ds *DataSet) Support() []*SupportVariable { return ds.support }

// Spectra returns the spectra variables in insertion order.
func (ds *DataSet) Spectra() []*SpectraVariable { return ds.spectra }

// Group returns the time series group with the given epoch key, or nil.
func (ds *DataSet) Group(epochKey string) *TimeSeriesGroup {
	for _, g := range ds.groups {
		if g.epochKey == epochKey {
			return g
		}
	}
	return nil
}

// AddTimeSeries registers a new epoch axis. Epoch keys must be unique
// across the dataset and must not collide with any variable name.
func (ds *DataSet) AddTimeSeries(g *TimeSeriesGroup) error {
	if g.Len() == 0 {
		return fmt.Errorf("swxsoc: time series %s has no epoch samples", g.epochKey)
	}
	if ds.hasName(g.epochKey) {
		return fmt.Errorf("swxsoc: duplicate variable name %s", g.epochKey)
	}
	ds.groups = append(ds.groups, g)
	return nil
}

// AddColumn attaches a measurement to the single time series group whose
// epoch axis length matches the column's record count.
func (ds *DataSet) AddColumn(c *Column) error {
	if ds.hasName(c.name) {
		return fmt.Errorf("swxsoc: duplicate variable name %s", c.name)
	}
	key, err := epochKeyFor(ds.groups, c)
	if err != nil {
		return err
	}
	return ds.Group(key).AddColumn(c)
}

// AddSupport registers a non-record-varying variable.
func (ds *DataSet) AddSupport(v *SupportVariable) error {
	if ds.hasName(v.name) {
		return fmt.Errorf("swxsoc: duplicate variable name %s", v.name)
	}
	ds.support = append(ds.support, v)
	return nil
}

// AddSpectra registers a spectra variable. Its record count must match
// exactly one epoch axis.
func (ds *DataSet) AddSpectra(v *SpectraVariable) error {
	if ds.hasName(v.name) {
		return fmt.Errorf("swxsoc: duplicate variable name %s", v.name)
	}
	if _, err := epochKeyFor(ds.groups, v); err != nil {
		return err
	}
	ds.spectra = append(ds.spectra, v)
	return nil
}

func (ds *DataSet) hasName(name string) bool {
	_, _, ok := ds.lookup(name)
	return ok
}

// Variable returns the named variable, searching epoch axes, columns,
// support and spectra variables.
func (ds *DataSet) Variable(name string) (Variable, bool) {
	v, _, ok := ds.lookup(name)
	return v, ok
}

// lookup finds a variable and whether it is a time axis.
func (ds *DataSet) lookup(name string) (Variable, bool, bool) {
	for _, g := range ds.groups {
		if g.epochKey == name {
			return &epochVariable{group: g}, true, true
		}
		if c := g.Column(name); c != nil {
			return c, false, true
		}
	}
	for _, v := range ds.support {
		if v.name == name {
			return v, false, true
		}
	}
	for _, v := range ds.spectra {
		if v.name == name {
			return v, false, true
		}
	}
	return nil, false, false
}

// VariableNames lists every variable in the dataset: each group's epoch
// axis followed by its columns, then support and spectra variables.
func (ds *DataSet) VariableNames() []string {
	var out []string
	for _, g := range ds.groups {
		out = append(out, g.epochKey)
		for _, c := range g.columns {
			out = append(out, c.name)
		}
	}
	for _, v := range ds.support {
		out = append(out, v.name)
	}
	for _, v := range ds.spectra {
		out = append(out, v.name)
	}
	return out
}

// SetPriorType pins a variable's storage type, collapsing later type
// inference to it. Loaders use this so a derive pass over loaded data
// reproduces the stored attributes.
func (ds *DataSet) SetPriorType(name string, t Type) {
	ds.priors[name] = t
}

// PriorType returns the pinned storage type for a variable, or 0.
func (ds *DataSet) PriorType(name string) Type { return ds.priors[name] }

// DeriveMetadata runs the full derivation pass: every derivable global
// attribute, then every derivable attribute of every variable. Computed
// values merge under the schema overwrite policy, so caller-supplied
// values survive unless the attribute's rule allows replacement.
func (ds *DataSet) DeriveMetadata() error {
	derived, err := ds.schema.DeriveGlobalAttributes(ds)
	if err != nil {
		return err
	}
	derived.Range(func(name string, v AttributeValue) {
		rule, _ := ds.schema.GlobalRule(name)
		ds.merger.Upsert(ds.meta, name, v.Value, v.Comment, rule)
	})

	for _, name := range ds.VariableNames() {
		if err := ds.deriveVariable(name); err != nil {
			return err
		}
	}
	return nil
}

func (ds *DataSet) deriveVariable(name string) error {
	v, isTimeAxis, ok := ds.lookup(name)
	if !ok {
		return fmt.Errorf("swxsoc: no variable named %s", name)
	}
	inf, err := Infer(v.Data(), ds.priors[name])
	if err != nil {
		return fmt.Errorf("swxsoc: inferring type of variable %s: %w", name, err)
	}
	derived, err := ds.schema.DeriveVariableAttributes(ds, v, isTimeAxis, inf.Types)
	if err != nil {
		return err
	}
	derived.Range(func(attr string, av AttributeValue) {
		ds.merger.Upsert(v.Meta(), attr, av.Value, av.Comment, ds.schema.variableRuleFor(attr))
	})
	return nil
}

// variableRuleFor resolves the rule behind a concrete attribute name,
// mapping per-axis names like CNAME2 back to their iterable rule.
func (s *Schema) variableRuleFor(name string) *AttributeRule {
	if r, ok := s.varRules[name]; ok {
		return r
	}
	root := strings.TrimRight(name, "0123456789")
	if r, ok := s.varRules[root+"i"]; ok && r.Iterable {
		return r
	}
	return nil
}

// CheckRequired reports the first required global attribute whose value
// is still unset. Writers call this before persisting.
func (ds *DataSet) CheckRequired() error {
	for _, name := range ds.schema.GlobalNames() {
		rule := ds.schema.globalRules[name]
		if !rule.Required {
			continue
		}
		if !ds.meta.HasValue(name) {
			return &MissingRequiredAttributeError{Attribute: name}
		}
	}
	return nil
}
