package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/littleRiceZhou/auto-aspen/internal/diagram"
	"github.com/littleRiceZhou/auto-aspen/internal/document"
	"github.com/littleRiceZhou/auto-aspen/internal/report"
	"github.com/spf13/cobra"
)

const rule = "───────────────────────────────────────────────────────────────"

// artifactFlags are the output options shared by calc and simulate.
type artifactFlags struct {
	showDiagram  bool
	imageFile    string
	workbookFile string
	templateFile string
	docxFile     string
	pdf          bool
	soffice      string
}

func (f *artifactFlags) register(c *cobra.Command) {
	c.Flags().BoolVar(&f.showDiagram, "diagram", false, "Show ASCII unit layout")
	c.Flags().StringVarP(&f.imageFile, "output", "o", "", "Export unit layout to file (png, svg, pdf)")
	c.Flags().StringVar(&f.workbookFile, "xlsx", "", "Write the design workbook to file")
	c.Flags().StringVar(&f.templateFile, "docx-template", "", "Word report template with {auto_aspen_N} placeholders")
	c.Flags().StringVar(&f.docxFile, "docx", "report.docx", "Filled Word report path")
	c.Flags().BoolVar(&f.pdf, "pdf", false, "Convert the Word report to PDF with LibreOffice")
	c.Flags().StringVar(&f.soffice, "soffice", "soffice", "LibreOffice binary")
}

func printHeading(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "     %s\n", title)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════════")
}

// printDesign writes the calculation trace and the selected unit.
func printDesign(out io.Writer, in report.Input) {
	for i, s := range report.Details(in) {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%d. %s:\n", i+1, strings.ToUpper(s.Title))
		fmt.Fprintln(out, rule)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, r := range s.Rows {
			fmt.Fprintf(w, "  %s:\t%s\n", r.Label, r.Value)
		}
		w.Flush()
	}
	fmt.Fprintln(out)

	sel := report.NewSelection(in)
	lines := []string{
		"Model:         " + sel.Unit.Model,
		"Design:        " + sel.DesignType,
		"Dimensions:    " + sel.Unit.Dimensions + " m",
		"Weight:        " + sel.Unit.Weight,
		"Net power:     " + sel.NetPower,
		"Income:        " + sel.AnnualIncome + " ×10⁴ yuan/a",
		"Payback:       " + sel.PaybackPeriod,
	}
	if sel.PowerSplit != nil {
		lines = append(lines,
			"1# turbine:    "+sel.PowerSplit.FirstLevel,
			"2# turbine:    "+sel.PowerSplit.SecondLevel)
	}
	fmt.Fprint(out, diagram.DrawSummaryBox("SELECTED UNIT", lines))

	v := in.Design.Validation
	if len(v.Warnings) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "WARNINGS:")
		fmt.Fprintln(out, rule)
		for _, msg := range v.Warnings {
			fmt.Fprintf(out, "  ⚠ %s\n", msg)
		}
	}
	fmt.Fprintln(out)
}

// writeArtifacts produces the files requested on the command line.
func writeArtifacts(cmd *cobra.Command, in report.Input, f artifactFlags) {
	layout := diagram.FromDesign(in.Design)

	if f.showDiagram {
		fmt.Println(diagram.DrawASCIILayout(layout))
	}

	if f.imageFile != "" {
		if err := diagram.ExportLayout(layout, f.imageFile); err != nil {
			fmt.Printf("Error exporting diagram: %v\n", err)
		} else {
			fmt.Printf("  Diagram exported to: %s\n", f.imageFile)
		}
	}

	if f.workbookFile != "" {
		if err := writeWorkbookFile(f.workbookFile, in); err != nil {
			fmt.Printf("Error writing workbook: %v\n", err)
		} else {
			fmt.Printf("  Workbook written to: %s\n", f.workbookFile)
		}
	}

	if f.templateFile != "" {
		docx := f.docxFile
		if docx == "" {
			docx = "report.docx"
		}
		if err := document.FillTemplate(f.templateFile, docx, report.Placeholders(in)); err != nil {
			fmt.Printf("Error filling template: %v\n", err)
			return
		}
		fmt.Printf("  Report written to: %s\n", docx)

		if f.pdf {
			pdf, err := document.ConvertToPDF(cmd.Context(), f.soffice, docx, filepath.Dir(docx))
			if err != nil {
				fmt.Printf("Error converting report: %v\n", err)
				return
			}
			fmt.Printf("  PDF written to: %s\n", pdf)
		}
	}
}

func writeWorkbookFile(path string, in report.Input) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteWorkbook(f, in); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
