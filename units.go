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

	"github.com/ctessum/unit"
)

// unitDef relates a unit symbol to its SI equivalent: the conversion
// factor carried by a unit.Unit and the SI symbol written into
// SI_CONVERSION strings.
type unitDef struct {
	si     *unit.Unit
	siName string
}

var (
	tesla  = unit.Dimensions{unit.MassDim: 1, unit.TimeDim: -2, unit.CurrentDim: -1}
	radian = unit.Dimensions{unit.AngleDim: 1}
)

var unitRegistry = map[string]unitDef{
	"m":      {unit.New(1, unit.Meter), "m"},
	"km":     {unit.New(1e3, unit.Meter), "m"},
	"cm":     {unit.New(1e-2, unit.Meter), "m"},
	"mm":     {unit.New(1e-3, unit.Meter), "m"},
	"um":     {unit.New(1e-6, unit.Meter), "m"},
	"nm":     {unit.New(1e-9, unit.Meter), "m"},
	"s":      {unit.New(1, unit.Second), "s"},
	"ms":     {unit.New(1e-3, unit.Second), "s"},
	"us":     {unit.New(1e-6, unit.Second), "s"},
	"ns":     {unit.New(1e-9, unit.Second), "s"},
	"min":    {unit.New(60, unit.Second), "s"},
	"h":      {unit.New(3600, unit.Second), "s"},
	"d":      {unit.New(86400, unit.Second), "s"},
	"kg":     {unit.New(1, unit.Kilogram), "kg"},
	"g":      {unit.New(1e-3, unit.Kilogram), "kg"},
	"K":      {unit.New(1, unit.Kelvin), "K"},
	"Hz":     {unit.New(1, unit.Herz), "Hz"},
	"kHz":    {unit.New(1e3, unit.Herz), "Hz"},
	"MHz":    {unit.New(1e6, unit.Herz), "Hz"},
	"J":      {unit.New(1, unit.Joule), "J"},
	"eV":     {unit.New(1.602176634e-19, unit.Joule), "J"},
	"keV":    {unit.New(1.602176634e-16, unit.Joule), "J"},
	"MeV":    {unit.New(1.602176634e-13, unit.Joule), "J"},
	"W":      {unit.New(1, unit.Watt), "W"},
	"Pa":     {unit.New(1, unit.Pascal), "Pa"},
	"m / s":  {unit.New(1, unit.MeterPerSecond), "m / s"},
	"km / s": {unit.New(1e3, unit.MeterPerSecond), "m / s"},
	"T":      {unit.New(1, tesla), "T"},
	"nT":     {unit.New(1e-9, tesla), "T"},
	"deg":    {unit.New(0.017453292519943295, radian), "rad"},
	"rad":    {unit.New(1, radian), "rad"},
	"ct":     {unit.New(1, unit.Dimless), "ct"},
	"":       {unit.New(1, unit.Dimless), ""},
}

// SIConversion returns the SI_CONVERSION string for a unit symbol: the
// factor converting one declared unit to its SI equivalent, the ">"
// separator, and the SI symbol. Unknown symbols fall back to a unity
// conversion onto themselves.
func SIConversion(symbol string) string {
	def, ok := unitRegistry[symbol]
	if !ok {
		return fmt.Sprintf("1.0>%s", symbol)
	}
	return fmt.Sprintf("%e>%s", def.si.Value(), def.siName)
}

// KnownUnit reports whether the registry can convert the symbol.
func KnownUnit(symbol string) bool {
	_, ok := unitRegistry[symbol]
	return ok
}

// UnitOf returns the SI-valued unit for a symbol, or nil when unknown.
func UnitOf(symbol string) *unit.Unit {
	def, ok := unitRegistry[symbol]
	if !ok {
		return nil
	}
	return def.si.Clone()
}
