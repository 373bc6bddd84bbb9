package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetSelection   = "Selection"
	SheetCalculation = "Calculation"
	SheetParameters  = "Parameters"
)

type sheetWriter struct {
	f      *excelize.File
	sheet  string
	row    int
	header int
	err    error
}

func (w *sheetWriter) write(values ...any) {
	if w.err != nil {
		return
	}
	w.row++
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, w.row)
		if err != nil {
			w.err = err
			return
		}
		if err := w.f.SetCellValue(w.sheet, cell, v); err != nil {
			w.err = err
			return
		}
	}
}

// title writes a bold row.
func (w *sheetWriter) title(values ...any) {
	w.write(values...)
	if w.err != nil {
		return
	}
	first, _ := excelize.CoordinatesToCellName(1, w.row)
	last, _ := excelize.CoordinatesToCellName(max(len(values), 1), w.row)
	w.err = w.f.SetCellStyle(w.sheet, first, last, w.header)
}

func (w *sheetWriter) blank() {
	w.row++
}

// WriteWorkbook writes the design as an xlsx workbook with the selection
// summary, the calculation trace and the input parameters.
func WriteWorkbook(out io.Writer, in Input) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := f.SetSheetName("Sheet1", SheetSelection); err != nil {
		return err
	}
	for _, name := range []string{SheetCalculation, SheetParameters} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	writers := []func(*sheetWriter){
		func(w *sheetWriter) { writeSelection(w, NewSelection(in)) },
		func(w *sheetWriter) { writeDetails(w, Details(in)) },
		func(w *sheetWriter) { writeParameters(w, in) },
	}
	for i, sheet := range []string{SheetSelection, SheetCalculation, SheetParameters} {
		w := &sheetWriter{f: f, sheet: sheet, header: header}
		writers[i](w)
		if w.err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", sheet, w.err)
		}
		if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "B", "B", 36); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	_, err = f.WriteTo(out)
	return err
}

func writeSelection(w *sheetWriter, s Selection) {
	w.title("Unit", "")
	w.write("model", s.Unit.Model)
	w.write("quote (10⁴ yuan)", s.Unit.Quote)
	w.write("dimensions (m)", s.Unit.Dimensions)
	w.write("weight", s.Unit.Weight)
	w.blank()

	w.title("Technical parameters", "")
	w.write("inlet/outlet pressure (MPaA)", s.Technical.Pressures)
	w.write("inlet/outlet temperature (°C)", s.Technical.Temperatures)
	w.write("flow rate (scmh)", s.Technical.FlowRate)
	w.write("efficiency", s.Technical.Efficiency)
	w.write("power output (kW)", s.Technical.PowerOutput)
	w.blank()

	w.title("Design", "")
	w.write("design type", s.DesignType)
	w.write("net power", s.NetPower)
	w.write("annual income (10⁴ yuan)", s.AnnualIncome)
	w.write("payback period", s.PaybackPeriod)

	if s.PowerSplit != nil {
		w.blank()
		w.title("Power split", "")
		w.write("first level", s.PowerSplit.FirstLevel)
		w.write("second level", s.PowerSplit.SecondLevel)
		w.write("total net power", s.PowerSplit.TotalNet)
		w.write("selection power", s.PowerSplit.SelectionPower)
	}
}

func writeDetails(w *sheetWriter, sections []Section) {
	for i, s := range sections {
		if i > 0 {
			w.blank()
		}
		w.title(fmt.Sprintf("%d. %s", i+1, s.Title), "")
		for _, r := range s.Rows {
			w.write(r.Label, r.Value)
		}
	}
}

func writeParameters(w *sheetWriter, in Input) {
	p := in.Parameters
	w.title("Parameter", "Value", "Unit")
	w.write("gas flow rate", p.GasFlowRate, "Nm³/h")
	w.write("inlet pressure", p.InletPressure, "MPaA")
	w.write("inlet temperature", p.InletTemperature, "°C")
	w.write("outlet pressure", p.OutletPressure, "MPaA")
	w.write("efficiency", p.Efficiency, "%")
	w.write("main power", in.MainPower(), "kW")
	for _, c := range p.GasComposition.Components() {
		w.write(c.ID, c.Percent, "mol%")
	}
}
