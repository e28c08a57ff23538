// Package export writes the material and construction reports as an Excel
// workbook, the exchange format the building-physics side of a project
// actually opens.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/epaustria/idfkit/internal/library"
)

const (
	sheetMaterials     = "Materialien"
	sheetConstructions = "Konstruktionen"
	sheetValidation    = "Validierung"
)

var materialHeader = []string{
	"Name",
	"Dicke [m]",
	"Wärmeleitfähigkeit [W/mK]",
	"Dichte [kg/m³]",
	"Spez. Wärmekapazität [J/kgK]",
	"Wärmewiderstand [m²K/W]",
	"Thermische Trägheit [kJ/m²K]",
	"Solar Absorptionsgrad",
	"Kategorie",
}

var constructionHeader = []string{
	"Name",
	"Kategorie",
	"Anzahl Schichten",
	"Schichten",
	"U-Wert [W/m²K]",
	"OIB-konform",
	"Passivhaus-tauglich",
}

var validationHeader = []string{"Problem-Typ", "Details"}

// Workbook builds the export workbook: the material database, the
// construction report and, when issues exist, a validation sheet. The
// caller owns the returned file and must Close it.
func Workbook(lib *library.Library, issues []library.Issue) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", sheetMaterials); err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}
	if _, err := f.NewSheet(sheetConstructions); err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}

	if err := writeMaterials(f, lib, headerStyle); err != nil {
		return nil, err
	}
	if err := writeConstructions(f, lib, headerStyle); err != nil {
		return nil, err
	}
	if len(issues) > 0 {
		if err := writeValidation(f, issues, headerStyle); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// WriteFile builds the workbook and saves it at path.
func WriteFile(lib *library.Library, issues []library.Issue, path string) error {
	f, err := Workbook(lib, issues)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeMaterials(f *excelize.File, lib *library.Library, headerStyle int) error {
	if err := writeHeader(f, sheetMaterials, materialHeader, headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetMaterials, "A", "A", 36); err != nil {
		return err
	}

	for i, row := range lib.MaterialReport() {
		record := []any{
			row.Name,
			cell(row.Thickness),
			cell(row.Conductivity),
			cell(row.Density),
			cell(row.SpecificHeat),
			cell(row.Resistance),
			cell(row.Inertia),
			cell(row.SolarAbs),
			row.Category,
		}
		if err := writeRow(f, sheetMaterials, i+2, record); err != nil {
			return err
		}
	}
	return nil
}

func writeConstructions(f *excelize.File, lib *library.Library, headerStyle int) error {
	if err := writeHeader(f, sheetConstructions, constructionHeader, headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetConstructions, "A", "A", 36); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetConstructions, "D", "D", 60); err != nil {
		return err
	}

	for i, row := range lib.ConstructionReport() {
		var uValue any = "Fehler"
		if !math.IsNaN(row.UValue) {
			uValue = row.UValue
		}
		record := []any{
			row.Name,
			row.Category,
			row.LayerCount,
			strings.Join(row.Layers, " | "),
			uValue,
			row.OIBCompliant,
			row.PassivhausReady,
		}
		if err := writeRow(f, sheetConstructions, i+2, record); err != nil {
			return err
		}
	}
	return nil
}

func writeValidation(f *excelize.File, issues []library.Issue, headerStyle int) error {
	if _, err := f.NewSheet(sheetValidation); err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	if err := writeHeader(f, sheetValidation, validationHeader, headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetValidation, "B", "B", 80); err != nil {
		return err
	}

	for i, issue := range issues {
		if err := writeRow(f, sheetValidation, i+2, []any{issue.Code, issue.Detail}); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, header []string, style int) error {
	if err := writeRow(f, sheet, 1, toAny(header)); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("sheet %s: %w", sheet, err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("sheet %s: %w", sheet, err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		name, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, row, err)
		}
		if v == nil {
			continue
		}
		if err := f.SetCellValue(sheet, name, v); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, row, err)
		}
	}
	return nil
}

// cell maps NaN report values to empty cells.
func cell(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
