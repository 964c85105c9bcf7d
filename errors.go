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

import "fmt"

// SchemaLoadError reports a malformed or unreadable schema layer. It is
// returned at schema construction time, before any derivation runs.
type SchemaLoadError struct {
	Layer string
	Err   error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("swxsoc: loading schema layer %s: %v", e.Layer, e.Err)
}

func (e *SchemaLoadError) Unwrap() error { return e.Err }

// IrregularArrayError reports ragged or otherwise malformed array input to
// type inference.
type IrregularArrayError struct {
	Detail string
}

func (e *IrregularArrayError) Error() string {
	return fmt.Sprintf("swxsoc: irregular array: %s", e.Detail)
}

// EmptyArrayTypeError reports an empty untyped array whose storage type
// cannot be determined.
type EmptyArrayTypeError struct{}

func (e *EmptyArrayTypeError) Error() string {
	return "swxsoc: cannot determine storage type of empty untyped array"
}

// DerivationError reports that a derivation routine could not produce a
// value from its context, for example an ambiguous time axis reference.
type DerivationError struct {
	Attribute string
	Variable  string
	Detail    string
}

func (e *DerivationError) Error() string {
	if e.Variable == "" {
		return fmt.Sprintf("swxsoc: deriving %s: %s", e.Attribute, e.Detail)
	}
	return fmt.Sprintf("swxsoc: deriving %s for variable %s: %s", e.Attribute, e.Variable, e.Detail)
}

// MissingRequiredAttributeError is raised when persisting a dataset whose
// required global attribute has no value. This is the one condition where
// the write path refuses to continue rather than recording a violation.
type MissingRequiredAttributeError struct {
	Attribute string
}

func (e *MissingRequiredAttributeError) Error() string {
	return fmt.Sprintf("swxsoc: required global attribute %s has no value", e.Attribute)
}
