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
	"reflect"

	"github.com/sirupsen/logrus"
)

// AttributeValue is a metadata value with an optional comment. Comments
// never participate in equality or overwrite decisions.
type AttributeValue struct {
	Value   interface{}
	Comment string
}

// Metadata is an insertion-ordered attribute table.
type Metadata struct {
	keys   []string
	values map[string]AttributeValue
}

func NewMetadata() *Metadata {
	return &Metadata{values: make(map[string]AttributeValue)}
}

// Set stores an attribute value, keeping any existing comment.
func (m *Metadata) Set(name string, value interface{}) {
	cur, ok := m.values[name]
	if !ok {
		m.keys = append(m.keys, name)
	}
	cur.Value = value
	m.values[name] = cur
}

// SetWithComment stores an attribute value and its comment.
func (m *Metadata) SetWithComment(name string, value interface{}, comment string) {
	if _, ok := m.values[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.values[name] = AttributeValue{Value: value, Comment: comment}
}

// Get returns the attribute entry and whether it is present.
func (m *Metadata) Get(name string) (AttributeValue, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Value returns the attribute's value, or nil when absent.
func (m *Metadata) Value(name string) interface{} {
	return m.values[name].Value
}

// Has reports whether the attribute is present, regardless of value.
func (m *Metadata) Has(name string) bool {
	_, ok := m.values[name]
	return ok
}

// HasValue reports whether the attribute is present with a usable value:
// nil, empty strings, numeric zero and false all count as unset, so
// derivations recompute them.
func (m *Metadata) HasValue(name string) bool {
	v, ok := m.values[name]
	if !ok || v.Value == nil {
		return false
	}
	switch x := v.Value.(type) {
	case string:
		return x != ""
	case bool:
		return x
	}
	rv := reflect.ValueOf(v.Value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	}
	return true
}

// Delete removes the attribute if present.
func (m *Metadata) Delete(name string) {
	if _, ok := m.values[name]; !ok {
		return
	}
	delete(m.values, name)
	for i, k := range m.keys {
		if k == name {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the attribute names in insertion order.
func (m *Metadata) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *Metadata) Len() int { return len(m.keys) }

// Range calls f for each attribute in insertion order.
func (m *Metadata) Range(f func(name string, v AttributeValue)) {
	for _, k := range m.keys {
		f(k, m.values[k])
	}
}

// Clone returns a deep copy of the table structure. Values are shared.
func (m *Metadata) Clone() *Metadata {
	out := NewMetadata()
	m.Range(func(name string, v AttributeValue) {
		out.SetWithComment(name, v.Value, v.Comment)
	})
	return out
}

// Merger applies the schema overwrite policy to metadata updates: an
// absent or nil attribute is always set; a present one is replaced only
// when its rule allows overwriting and the new value differs.
type Merger struct {
	Log logrus.FieldLogger
}

func NewMerger() *Merger { return &Merger{Log: logrus.StandardLogger()} }

// Upsert writes value into meta under the policy governed by rule. A nil
// rule behaves like overwrite=false.
func (mg *Merger) Upsert(meta *Metadata, name string, value interface{}, comment string, rule *AttributeRule) {
	cur, ok := meta.Get(name)
	if !ok || cur.Value == nil {
		meta.SetWithComment(name, value, comment)
		return
	}
	if rule != nil && rule.Overwrite && !reflect.DeepEqual(cur.Value, value) {
		mg.Log.WithFields(logrus.Fields{
			"attribute": name,
			"old":       cur.Value,
			"new":       value,
		}).Debug("overwriting metadata attribute")
		meta.Set(name, value)
	}
}
