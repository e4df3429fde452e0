// Package importer evaluates wheel designs listed in a spreadsheet, one
// wheel per row after a header row.
package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"Wheelcalc/internal/calc/buckling"
	"Wheelcalc/internal/calc/mass"
	"Wheelcalc/internal/calc/request"
	"Wheelcalc/internal/calc/stiffness"
	"Wheelcalc/internal/calc/validate"
	"Wheelcalc/internal/calc/wheelspec"

	"github.com/xuri/excelize/v2"
)

// Columns is the expected header. Density and tension columns may be blank.
var Columns = []string{
	"name",
	"rim_radius", "rim_area", "rim_I_rad", "rim_I_lat", "rim_J_tor",
	"rim_young_mod", "rim_shear_mod", "rim_density",
	"hub_diameter", "hub_width_ds", "hub_width_nds",
	"spokes_num", "spokes_num_cross", "spokes_diameter", "spokes_young_mod", "spokes_density",
	"spokes_tension",
}

const minColumns = 17

var (
	calcStiffness = stiffness.Calculate
	calcBuckling  = buckling.Calculate
	calcMass      = mass.Calculate
)

// Row is the outcome of one spreadsheet row. BucklingError is set when the
// stiffness and mass succeed but no buckling tension can be found.
type Row struct {
	Row           int               `json:"row"`
	Name          string            `json:"name"`
	Error         string            `json:"error,omitempty"`
	Stiffness     *stiffness.Result `json:"stiffness,omitempty"`
	Buckling      *buckling.Result  `json:"buckling_tension,omitempty"`
	BucklingError string            `json:"buckling_error,omitempty"`
	Mass          *mass.Result      `json:"mass,omitempty"`
	Wheel         *wheelspec.Wheel  `json:"wheel,omitempty"`
}

type Result struct {
	Count int   `json:"count"`
	Rows  []Row `json:"rows"`
}

// Import reads the first sheet of an xlsx workbook. Rows that cannot be
// parsed or evaluated carry their error; blank rows are skipped.
func Import(r io.Reader) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, validate.Errorf("Invalid file")
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0), excelize.Options{RawCellValue: true})
	if err != nil || len(rows) < 2 {
		return Result{}, validate.Errorf("Empty sheet")
	}

	out := Result{Rows: []Row{}}
	for i := 1; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		out.Rows = append(out.Rows, evaluate(i+1, rows[i]))
	}
	out.Count = len(out.Rows)
	return out, nil
}

func evaluate(n int, cells []string) Row {
	row := Row{Row: n}
	if len(cells) > 0 {
		row.Name = strings.TrimSpace(cells[0])
	}
	spec, err := ParseRow(cells)
	if err != nil {
		row.Error = err.Error()
		return row
	}
	row.Wheel = &spec
	w, err := spec.Build()
	if err != nil {
		row.Error = err.Error()
		return row
	}

	k, err := calcStiffness(w, stiffness.Input{})
	if err != nil {
		row.Error = request.Message(err)
		return row
	}
	row.Stiffness = &k
	m, err := calcMass(w, mass.Input{})
	if err != nil {
		row.Error = request.Message(err)
		return row
	}
	row.Mass = &m
	b, err := calcBuckling(w, buckling.Input{})
	if err != nil {
		row.BucklingError = request.Message(err)
		return row
	}
	row.Buckling = &b
	return row
}

// ParseRow maps one spreadsheet row onto the request form of a wheel.
func ParseRow(row []string) (wheelspec.Wheel, error) {
	if len(row) < minColumns {
		return wheelspec.Wheel{}, validate.Errorf("expected at least %d columns, got %d", minColumns, len(row))
	}
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var perr error
	num := func(i int) *float64 {
		s := cell(i)
		if s == "" {
			return nil
		}
		v, err := toFloat(s)
		if err != nil && perr == nil {
			perr = validate.Errorf("column %s: %q is not a number", Columns[i], s)
		}
		return &v
	}
	integer := func(i int) *int {
		v := num(i)
		if v == nil {
			return nil
		}
		n := int(*v)
		if float64(n) != *v && perr == nil {
			perr = validate.Errorf("column %s: %v is not an integer", Columns[i], *v)
		}
		return &n
	}

	spec := wheelspec.Wheel{
		Rim: &wheelspec.Rim{
			Radius:      num(1),
			SectionType: wheelspec.SectionGeneral,
			SectionParams: &wheelspec.SectionParams{
				Area: num(2),
				IRad: num(3),
				ILat: num(4),
				JTor: num(5),
			},
			YoungMod: num(6),
			ShearMod: num(7),
			Density:  num(8),
		},
		Hub: &wheelspec.Hub{
			Diameter: num(9),
			WidthDS:  num(10),
			WidthNDS: num(11),
		},
		Spokes: &wheelspec.Spokes{
			Num:      integer(12),
			NumCross: integer(13),
			Diameter: num(14),
			YoungMod: num(15),
			Density:  num(16),
			Tension:  num(17),
		},
	}
	if perr != nil {
		return wheelspec.Wheel{}, perr
	}
	return spec, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func toFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	return v, nil
}
