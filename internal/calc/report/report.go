// Package report renders a calculation request and its results as a PDF.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"Wheelcalc/internal/calc/plotting"
	"Wheelcalc/internal/calc/request"

	"github.com/phpdave11/gofpdf"
)

// Input is a calculation request with report metadata.
type Input struct {
	Project string `json:"project"`
	Author  string `json:"author"`
	Title   string `json:"title"`
	Notes   string `json:"notes"`
	request.Request
}

var summaryBlock = json.RawMessage(`{}`)

// Generate evaluates the request and returns the PDF. Stiffness, buckling
// and mass are always included.
func Generate(ctx context.Context, eval *request.Evaluator, in Input) ([]byte, error) {
	if in.Title == "" {
		in.Title = "Wheel Report"
	}
	req := in.Request
	if req.Stiffness == nil {
		req.Stiffness = summaryBlock
	}
	if req.BucklingTension == nil {
		req.BucklingTension = summaryBlock
	}
	if req.Mass == nil {
		req.Mass = summaryBlock
	}

	_, spec, err := request.ParseWheel(req.Wheel)
	if err != nil {
		return nil, err
	}
	res, err := eval.Evaluate(ctx, req)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, in.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", in.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", in.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Wheel: %s", spec.Describe()))
	pdf.Ln(10)

	section(pdf, "Stiffness")
	if b := res.Stiffness; b.OK() {
		row(pdf, "Radial", fmt.Sprintf("%.4g N/m", b.Result.RadialStiffness))
		row(pdf, "Lateral", fmt.Sprintf("%.4g N/m", b.Result.LateralStiffness))
		row(pdf, "Torsional", fmt.Sprintf("%.4g N/rad", b.Result.TorsionalStiffness))
	} else {
		row(pdf, "Error", b.Err)
	}

	section(pdf, "Buckling")
	if b := res.BucklingTension; b.OK() {
		row(pdf, "Approximation", string(b.Result.Approx))
		row(pdf, "Buckling tension", fmt.Sprintf("%.1f N", b.Result.BucklingTension))
		row(pdf, "Buckling mode", fmt.Sprintf("%d", b.Result.BucklingMode))
	} else {
		row(pdf, "Error", b.Err)
	}

	section(pdf, "Mass")
	if b := res.Mass; b.OK() {
		row(pdf, "Total mass", fmt.Sprintf("%.1f g", b.Result.Mass*1000))
		row(pdf, "Rim mass", fmt.Sprintf("%.1f g", b.Result.MassRim*1000))
		row(pdf, "Spoke mass", fmt.Sprintf("%.1f g", b.Result.MassSpokes*1000))
		row(pdf, "Rotational mass", fmt.Sprintf("%.1f g", b.Result.MassRotational*1000))
		row(pdf, "Inertia", fmt.Sprintf("%.4g kg m2", b.Result.Inertia))
		for _, w := range b.Result.Warnings {
			row(pdf, "Warning", w)
		}
	} else {
		row(pdf, "Error", b.Err)
	}

	if b := res.Tension; b != nil {
		section(pdf, "Spoke tension")
		if b.OK() {
			tensionTable(pdf, b.Result.Spokes, b.Result.TensionInitial, b.Result.TensionChange, b.Result.Tension)
			for _, w := range b.Result.Warnings {
				row(pdf, "Warning", w)
			}
		} else {
			row(pdf, "Error", b.Err)
		}
	}

	if b := res.Deformation; b != nil {
		section(pdf, "Deformation")
		if b.OK() {
			img, err := plotting.Deformation(b.Result)
			if err != nil {
				return nil, err
			}
			opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
			pdf.RegisterImageOptionsReader("deformation", opts, bytes.NewReader(img))
			pdf.ImageOptions("deformation", pdf.GetX(), pdf.GetY(), 170, 0, true, opts, 0, "")
		} else {
			row(pdf, "Error", b.Err)
		}
	}

	if strings.TrimSpace(in.Notes) != "" {
		section(pdf, "Notes")
		pdf.MultiCell(0, 6, in.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, title)
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
}

func row(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(50, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func tensionTable(pdf *gofpdf.Fpdf, spokes []int, initial, change, total []float64) {
	pdf.SetFont("Helvetica", "B", 10)
	for _, h := range []string{"Spoke", "Initial (N)", "Change (N)", "Tension (N)"} {
		pdf.CellFormat(40, 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for i, s := range spokes {
		pdf.CellFormat(40, 6, fmt.Sprintf("%d", s), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", initial[i]), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", change[i]), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", total[i]), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.SetFont("Helvetica", "", 11)
}
