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
	"testing"
)

func TestMetadataOrder(t *testing.T) {
	m := NewMetadata()
	m.Set("b", 1)
	m.Set("a", 2)
	m.Set("c", 3)
	m.Set("a", 4) // update keeps position
	if want := []string{"b", "a", "c"}; !reflect.DeepEqual(m.Keys(), want) {
		t.Errorf("keys = %v, want %v", m.Keys(), want)
	}
	if m.Value("a") != 4 {
		t.Errorf("a = %v, want 4", m.Value("a"))
	}
	m.Delete("a")
	if want := []string{"b", "c"}; !reflect.DeepEqual(m.Keys(), want) {
		t.Errorf("keys after delete = %v, want %v", m.Keys(), want)
	}
}

func TestMetadataHasValue(t *testing.T) {
	m := NewMetadata()
	m.Set("nil", nil)
	m.Set("empty", "")
	m.Set("zero", 0)
	m.Set("false", false)
	m.Set("s", "x")
	m.Set("n", 5)
	for _, name := range []string{"nil", "empty", "zero", "false"} {
		if m.HasValue(name) {
			t.Errorf("HasValue(%s) = true, want false", name)
		}
		if !m.Has(name) {
			t.Errorf("Has(%s) = false, want true", name)
		}
	}
	for _, name := range []string{"s", "n"} {
		if !m.HasValue(name) {
			t.Errorf("HasValue(%s) = false, want true", name)
		}
	}
}

func TestMetadataSetKeepsComment(t *testing.T) {
	m := NewMetadata()
	m.SetWithComment("a", 1, "note")
	m.Set("a", 2)
	v, _ := m.Get("a")
	if v.Value != 2 || v.Comment != "note" {
		t.Errorf("entry = %+v", v)
	}
}

func TestMergerUpsert(t *testing.T) {
	mg := NewMerger()
	m := NewMetadata()

	// Absent attributes are always set, regardless of the rule.
	mg.Upsert(m, "a", 1, "", &AttributeRule{})
	if m.Value("a") != 1 {
		t.Errorf("a = %v, want 1", m.Value("a"))
	}

	// Present values survive unless the rule allows overwriting.
	mg.Upsert(m, "a", 2, "", &AttributeRule{})
	if m.Value("a") != 1 {
		t.Errorf("a = %v, want 1 after non-overwrite upsert", m.Value("a"))
	}
	mg.Upsert(m, "a", 2, "", &AttributeRule{Overwrite: true})
	if m.Value("a") != 2 {
		t.Errorf("a = %v, want 2 after overwrite upsert", m.Value("a"))
	}

	// A nil value counts as absent.
	m.Set("b", nil)
	mg.Upsert(m, "b", 3, "", nil)
	if m.Value("b") != 3 {
		t.Errorf("b = %v, want 3", m.Value("b"))
	}
}
