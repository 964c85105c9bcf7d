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
	"os"
	"strings"

	"github.com/astrogo/fitsio"
)

// fitsGlobalKeys maps global attributes to the 8-character keywords used
// in FITS primary headers. Globals without a mapping do not persist in
// FITS output.
var fitsGlobalKeys = map[string]string{
	"Project":         "PROJECT",
	"Mission_group":   "MISSION",
	"Source_name":     "ORIGIN",
	"Descriptor":      "INSTRUME",
	"Data_level":      "DATALVL",
	"Data_version":    "DATAVER",
	"Generation_date": "DATE",
	"Logical_file_id": "FILENAME",
	"TEXT":            "OBS_DESC",
}

// SaveFITS writes the dataset's spectra variables to path as image
// extensions, one per variable, with the coordinate frame expressed as
// standard WCS keywords. Global attributes with a FITS keyword mapping
// go into the primary header.
func (ds *DataSet) SaveFITS(path string) error {
	if err := ds.DeriveMetadata(); err != nil {
		return err
	}
	if err := ds.CheckRequired(); err != nil {
		return err
	}

	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("swxsoc: writing %s: %v", path, err)
	}
	defer w.Close()
	f, err := fitsio.Create(w)
	if err != nil {
		return fmt.Errorf("swxsoc: writing %s: %v", path, err)
	}
	defer f.Close()

	primary := fitsio.NewImage(8, nil)
	defer primary.Close()
	var cards []fitsio.Card
	ds.meta.Range(func(name string, av AttributeValue) {
		key, ok := fitsGlobalKeys[name]
		if !ok || av.Value == nil {
			return
		}
		cards = append(cards, fitsio.Card{Name: key, Value: av.Value, Comment: av.Comment})
	})
	if err := primary.Header().Append(cards...); err != nil {
		return fmt.Errorf("swxsoc: writing %s: primary header: %v", path, err)
	}
	if err := f.Write(primary); err != nil {
		return fmt.Errorf("swxsoc: writing %s: primary HDU: %v", path, err)
	}

	for _, v := range ds.spectra {
		if err := writeSpectraHDU(f, v); err != nil {
			return fmt.Errorf("swxsoc: writing %s: %v", path, err)
		}
	}
	return nil
}

func writeSpectraHDU(f *fitsio.File, v *SpectraVariable) error {
	// FITS axes are in reverse (FORTRAN) order.
	shape := v.Data().Shape
	axes := make([]int, len(shape))
	for i, n := range shape {
		axes[len(shape)-1-i] = n
	}
	img := fitsio.NewImage(-64, axes)
	defer img.Close()

	cards := []fitsio.Card{
		{Name: "EXTNAME", Value: v.name, Comment: "variable name"},
	}
	if v.unit != "" {
		cards = append(cards, fitsio.Card{Name: "BUNIT", Value: v.unit, Comment: "physical unit"})
	}
	v.meta.Range(func(name string, av AttributeValue) {
		if av.Value == nil {
			return
		}
		key := strings.ToUpper(name)
		if len(key) > 8 {
			return
		}
		if val, ok := fitsCardValue(av.Value); ok {
			cards = append(cards, fitsio.Card{Name: key, Value: val, Comment: av.Comment})
		}
	})
	if err := img.Header().Append(cards...); err != nil {
		return fmt.Errorf("variable %s: header: %v", v.name, err)
	}

	data, ok := v.Data().Floats()
	if !ok {
		return fmt.Errorf("variable %s: non-numeric spectra payload %T", v.name, v.Data().Data)
	}
	if err := img.Write(&data); err != nil {
		return fmt.Errorf("variable %s: payload: %v", v.name, err)
	}
	return f.Write(img)
}

// fitsCardValue converts a metadata value to a FITS card value.
func fitsCardValue(v interface{}) (interface{}, bool) {
	switch x := v.(type) {
	case string, bool, int, float64:
		return x, true
	case int8:
		return int(x), true
	case int16:
		return int(x), true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case uint8:
		return int(x), true
	case uint16:
		return int(x), true
	case uint32:
		return int(x), true
	case float32:
		return float64(x), true
	}
	return nil, false
}

// LoadFITS reads spectra variables back from a FITS file written by
// SaveFITS.
func LoadFITS(path string, schema *Schema) (*DataSet, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Could not open FITS File at path: %s", path)
	}
	defer r.Close()
	f, err := fitsio.Open(r)
	if err != nil {
		return nil, fmt.Errorf("Could not open FITS File at path: %s", path)
	}
	defer f.Close()

	ds := NewDataSet(schema)
	for name, key := range fitsGlobalKeys {
		if card := f.HDU(0).Header().Get(key); card != nil {
			ds.meta.SetWithComment(name, card.Value, card.Comment)
		}
	}

	for i, hdu := range f.HDUs() {
		if i == 0 {
			continue
		}
		img, ok := hdu.(fitsio.Image)
		if !ok {
			continue
		}
		if err := readSpectraHDU(ds, img); err != nil {
			return nil, fmt.Errorf("swxsoc: reading %s: %v", path, err)
		}
	}
	return ds, nil
}

func readSpectraHDU(ds *DataSet, img fitsio.Image) error {
	hdr := img.Header()
	name := img.Name()
	axes := hdr.Axes()
	shape := make([]int, len(axes))
	for i, n := range axes {
		shape[len(axes)-1-i] = n
	}

	n := 0
	if len(axes) > 0 {
		n = 1
		for _, ax := range axes {
			n *= ax
		}
	}
	data := make([]float64, n)
	if err := img.Read(&data); err != nil {
		return fmt.Errorf("HDU %s: payload: %v", name, err)
	}
	a := &Array{Shape: shape, Data: data}

	unit := ""
	if card := hdr.Get("BUNIT"); card != nil {
		if s, ok := card.Value.(string); ok {
			unit = s
		}
	}

	meta := NewMetadata()
	for _, card := range hdr.Keys() {
		switch card {
		case "EXTNAME", "BUNIT", "SIMPLE", "BITPIX", "NAXIS", "XTENSION",
			"PCOUNT", "GCOUNT", "EXTEND":
			continue
		}
		if strings.HasPrefix(card, "NAXIS") {
			continue
		}
		if c := hdr.Get(card); c != nil {
			meta.SetWithComment(card, c.Value, c.Comment)
		}
	}

	v, err := NewSpectraVariable(name, a, unit, frameFromMeta(meta))
	if err != nil {
		return fmt.Errorf("HDU %s: %v", name, err)
	}
	copyMeta(meta, v.Meta())
	if len(ds.groups) == 0 {
		ds.spectra = append(ds.spectra, v)
		return nil
	}
	return ds.AddSpectra(v)
}

// FITSValidator checks FITS files for the keywords SWxSOC data products
// carry.
type FITSValidator struct {
	schema *Schema
}

func NewFITSValidator(schema *Schema) *FITSValidator {
	if schema == nil {
		schema, _ = LoadSchema(SchemaOptions{})
	}
	return &FITSValidator{schema: schema}
}

// Validate opens the file and checks each image extension for the
// variable type keyword and for WCS axis count consistency.
func (fv *FITSValidator) Validate(path string) []string {
	r, err := os.Open(path)
	if err != nil {
		return []string{fmt.Sprintf("Could not open FITS File at path: %s", path)}
	}
	defer r.Close()
	f, err := fitsio.Open(r)
	if err != nil {
		return []string{fmt.Sprintf("Could not open FITS File at path: %s", path)}
	}
	defer f.Close()

	var errs []string
	for i, hdu := range f.HDUs() {
		if i == 0 {
			continue
		}
		hdr := hdu.Header()
		name := hdu.Name()
		if hdr.Get("VAR_TYPE") == nil {
			errs = append(errs, fmt.Sprintf(
				"HDU: %s missing 'VAR_TYPE' keyword.", name))
		}
		if card := hdr.Get("WCSAXES"); card != nil {
			if n, ok := card.Value.(int); ok && n != len(hdr.Axes()) {
				errs = append(errs, fmt.Sprintf(
					"HDU: %s WCSAXES %d does not match axis count %d.",
					name, n, len(hdr.Axes())))
			}
		}
	}
	return errs
}
