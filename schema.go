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
	_ "embed"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/swxsoc/swxsoc/swxutil"
)

//go:embed data/swxsoc_default_global_cdf_attrs_schema.yaml
var defaultGlobalSchemaYAML []byte

//go:embed data/swxsoc_default_variable_cdf_attrs_schema.yaml
var defaultVariableSchemaYAML []byte

// AttributeRule describes one global or per-variable attribute: whether
// it must be present, whether and how it is derived, whether a derived
// value may replace an existing one, its allowed values and an alternate
// attribute able to satisfy the same requirement. Iterable rules are
// replicated per coordinate axis under the name pattern {root}{axis+1}.
type AttributeRule struct {
	Description  string        `yaml:"description"`
	Default      interface{}   `yaml:"default"`
	Required     bool          `yaml:"required"`
	Derived      bool          `yaml:"derived"`
	Overwrite    bool          `yaml:"overwrite"`
	DerivationFn string        `yaml:"derivation_fn"`
	ValidValues  []interface{} `yaml:"valid_values"`
	Alternate    string        `yaml:"alternate"`
	Iterable     bool          `yaml:"iterable"`
}

// Schema holds the layered attribute rule tables and the derivation
// dispatch resolved from them. A Schema is immutable once loaded and safe
// for concurrent readers.
type Schema struct {
	cfg *swxutil.Config
	log logrus.FieldLogger

	globalNames []string
	globalRules map[string]*AttributeRule

	varNames   []string
	varRules   map[string]*AttributeRule
	varClasses map[string][]string

	globalFns map[string]func(*DataSet) (interface{}, error)
	varFns    map[string]func(*varContext) (interface{}, error)
	axisFns   map[string]func(*varContext, int) (interface{}, error)
}

// SchemaOptions configure layered schema loading. Layers are YAML files
// applied in order after the built-in defaults; a later layer's entry for
// an attribute replaces the earlier entry completely.
type SchemaOptions struct {
	Config         *swxutil.Config
	GlobalLayers   []string
	VariableLayers []string
	// NoDefaults skips the built-in default layers.
	NoDefaults bool
	Log        logrus.FieldLogger
}

// LoadSchema builds a schema from the default rule tables plus any custom
// layers. Every derived rule's derivation function is resolved here;
// unresolvable names, unreadable files and malformed YAML all fail with a
// SchemaLoadError.
func LoadSchema(opts SchemaOptions) (*Schema, error) {
	s := &Schema{
		cfg:         opts.Config,
		log:         opts.Log,
		globalRules: make(map[string]*AttributeRule),
		varRules:    make(map[string]*AttributeRule),
		varClasses:  make(map[string][]string),
	}
	if s.cfg == nil {
		s.cfg = swxutil.DefaultConfig()
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}

	if !opts.NoDefaults {
		if err := s.mergeGlobalLayer("builtin:global", defaultGlobalSchemaYAML); err != nil {
			return nil, err
		}
		if err := s.mergeVariableLayer("builtin:variable", defaultVariableSchemaYAML); err != nil {
			return nil, err
		}
	}
	for _, layer := range opts.GlobalLayers {
		buf, err := os.ReadFile(layer)
		if err != nil {
			return nil, &SchemaLoadError{Layer: layer, Err: err}
		}
		if err := s.mergeGlobalLayer(layer, buf); err != nil {
			return nil, err
		}
	}
	for _, layer := range opts.VariableLayers {
		buf, err := os.ReadFile(layer)
		if err != nil {
			return nil, &SchemaLoadError{Layer: layer, Err: err}
		}
		if err := s.mergeVariableLayer(layer, buf); err != nil {
			return nil, err
		}
	}

	s.bindDerivations()
	if err := s.resolveDerivations(); err != nil {
		return nil, err
	}
	return s, nil
}

// Config returns the mission configuration the schema derives identifier
// attributes from.
func (s *Schema) Config() *swxutil.Config { return s.cfg }

func (s *Schema) mergeGlobalLayer(name string, buf []byte) error {
	names, rules, err := parseRuleTable(buf)
	if err != nil {
		return &SchemaLoadError{Layer: name, Err: err}
	}
	for _, n := range names {
		if _, ok := s.globalRules[n]; !ok {
			s.globalNames = append(s.globalNames, n)
		}
		s.globalRules[n] = rules[n]
	}
	return nil
}

func (s *Schema) mergeVariableLayer(name string, buf []byte) error {
	var doc struct {
		AttributeKey map[string]*AttributeRule `yaml:"attribute_key"`
		Data         []string                  `yaml:"data"`
		SupportData  []string                  `yaml:"support_data"`
		Metadata     []string                  `yaml:"metadata"`
		Epoch        []string                  `yaml:"epoch"`
		Spectra      []string                  `yaml:"spectra"`
	}
	if err := yaml.Unmarshal(buf, &doc); err != nil {
		return &SchemaLoadError{Layer: name, Err: err}
	}
	names, err := orderedKeysUnder(buf, "attribute_key")
	if err != nil {
		return &SchemaLoadError{Layer: name, Err: err}
	}
	for _, n := range names {
		if _, ok := s.varRules[n]; !ok {
			s.varNames = append(s.varNames, n)
		}
		s.varRules[n] = doc.AttributeKey[n]
	}
	for class, list := range map[string][]string{
		string(ClassData):     doc.Data,
		string(ClassSupport):  doc.SupportData,
		string(ClassMetadata): doc.Metadata,
		"epoch":               doc.Epoch,
		"spectra":             doc.Spectra,
	} {
		for _, attr := range list {
			if !containsString(s.varClasses[class], attr) {
				s.varClasses[class] = append(s.varClasses[class], attr)
			}
		}
	}
	return nil
}

// parseRuleTable reads a flat name -> rule mapping, preserving the file's
// attribute order.
func parseRuleTable(buf []byte) ([]string, map[string]*AttributeRule, error) {
	var rules map[string]*AttributeRule
	if err := yaml.Unmarshal(buf, &rules); err != nil {
		return nil, nil, err
	}
	var ms yaml.MapSlice
	if err := yaml.Unmarshal(buf, &ms); err != nil {
		return nil, nil, err
	}
	names := make([]string, 0, len(ms))
	for _, item := range ms {
		key, ok := item.Key.(string)
		if !ok {
			return nil, nil, fmt.Errorf("non-string attribute name %v", item.Key)
		}
		if rules[key] == nil {
			return nil, nil, fmt.Errorf("attribute %s has no rule body", key)
		}
		names = append(names, key)
	}
	return names, rules, nil
}

// orderedKeysUnder returns the key order of a nested mapping.
func orderedKeysUnder(buf []byte, section string) ([]string, error) {
	var ms yaml.MapSlice
	if err := yaml.Unmarshal(buf, &ms); err != nil {
		return nil, err
	}
	for _, item := range ms {
		if key, ok := item.Key.(string); !ok || key != section {
			continue
		}
		inner, ok := item.Value.(yaml.MapSlice)
		if !ok {
			return nil, fmt.Errorf("section %s is not a mapping", section)
		}
		names := make([]string, 0, len(inner))
		for _, it := range inner {
			key, ok := it.Key.(string)
			if !ok {
				return nil, fmt.Errorf("non-string attribute name %v under %s", it.Key, section)
			}
			names = append(names, key)
		}
		return names, nil
	}
	return nil, fmt.Errorf("missing %s section", section)
}

// resolveDerivations checks every derived rule against the dispatch
// tables so unknown derivation names fail at load time, not at call time.
func (s *Schema) resolveDerivations() error {
	for _, n := range s.globalNames {
		r := s.globalRules[n]
		if !r.Derived {
			continue
		}
		if _, ok := s.globalFns[r.DerivationFn]; !ok {
			return &SchemaLoadError{
				Layer: "global attribute " + n,
				Err:   fmt.Errorf("unknown derivation function %q", r.DerivationFn),
			}
		}
	}
	for _, n := range s.varNames {
		r := s.varRules[n]
		if !r.Derived {
			continue
		}
		if r.Iterable {
			if _, ok := s.axisFns[r.DerivationFn]; !ok {
				return &SchemaLoadError{
					Layer: "variable attribute " + n,
					Err:   fmt.Errorf("unknown per-axis derivation function %q", r.DerivationFn),
				}
			}
			continue
		}
		if _, ok := s.varFns[r.DerivationFn]; !ok {
			return &SchemaLoadError{
				Layer: "variable attribute " + n,
				Err:   fmt.Errorf("unknown derivation function %q", r.DerivationFn),
			}
		}
	}
	return nil
}

// GlobalRule returns the rule for a global attribute.
func (s *Schema) GlobalRule(name string) (*AttributeRule, bool) {
	r, ok := s.globalRules[name]
	return r, ok
}

// VariableRule returns the rule for a variable attribute.
func (s *Schema) VariableRule(name string) (*AttributeRule, bool) {
	r, ok := s.varRules[name]
	return r, ok
}

// GlobalNames returns the global attribute names in schema order.
func (s *Schema) GlobalNames() []string {
	out := make([]string, len(s.globalNames))
	copy(out, s.globalNames)
	return out
}

// VariableNames returns the variable attribute names in schema order.
func (s *Schema) VariableNames() []string {
	out := make([]string, len(s.varNames))
	copy(out, s.varNames)
	return out
}

// ClassAttributes returns the attribute names applicable to a variable
// class ("data", "support_data", "metadata", "epoch" or "spectra").
func (s *Schema) ClassAttributes(class string) []string {
	out := make([]string, len(s.varClasses[class]))
	copy(out, s.varClasses[class])
	return out
}

// DefaultGlobalAttributes returns the globally-defaulted attribute values
// declared by the schema layers.
func (s *Schema) DefaultGlobalAttributes() *Metadata {
	out := NewMetadata()
	for _, n := range s.globalNames {
		if d := s.globalRules[n].Default; d != nil {
			out.Set(n, d)
		}
	}
	return out
}

// GlobalAttributeTemplate returns the global attributes a caller must
// supply before a dataset validates: required, not derivable, and not
// covered by a schema default. Every entry starts nil.
func (s *Schema) GlobalAttributeTemplate() *Metadata {
	out := NewMetadata()
	for _, n := range s.globalNames {
		r := s.globalRules[n]
		if r.Required && !r.Derived && r.Default == nil {
			out.Set(n, nil)
		}
	}
	return out
}

// MeasurementAttributeTemplate returns the variable attributes a caller
// must supply for each measurement. Every entry starts nil.
func (s *Schema) MeasurementAttributeTemplate() *Metadata {
	out := NewMetadata()
	for _, n := range s.varNames {
		r := s.varRules[n]
		if r.Required && !r.Derived {
			out.Set(n, nil)
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}
