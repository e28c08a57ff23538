package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/epaustria/idfkit/internal/library"
)

func testLibrary() *library.Library {
	lib := library.New()
	lib.Materials["AT_Ziegel_25cm"] = library.Material{
		Name:             "AT_Ziegel_25cm",
		Thickness:        0.25,
		Conductivity:     0.44,
		Density:          1200,
		SpecificHeat:     1000,
		SolarAbsorptance: 0.7,
	}
	lib.NoMassR["AT_Daemmung_R4"] = 4.0
	lib.Constructions["AT_Außenwand_Test"] = library.Construction{
		Name:     "AT_Außenwand_Test",
		Layers:   []string{"AT_Ziegel_25cm", "AT_Daemmung_R4"},
		Category: library.CatExteriorWall,
	}
	return lib
}

func TestWorkbookSheets(t *testing.T) {
	lib := testLibrary()
	f, err := Workbook(lib, nil)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Equal(t, []string{"Materialien", "Konstruktionen"}, sheets, "no validation sheet for a clean library")
}

func TestWorkbookMaterialRows(t *testing.T) {
	lib := testLibrary()
	f, err := Workbook(lib, nil)
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue("Materialien", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Name", name)

	// Rows follow the report order: Mauerwerk before NoMass/AirGap.
	first, err := f.GetCellValue("Materialien", "A2")
	require.NoError(t, err)
	assert.Equal(t, "AT_Ziegel_25cm", first)

	second, err := f.GetCellValue("Materialien", "A3")
	require.NoError(t, err)
	assert.Equal(t, "AT_Daemmung_R4", second)

	// No-mass rows leave the volumetric columns empty.
	thickness, err := f.GetCellValue("Materialien", "B3")
	require.NoError(t, err)
	assert.Empty(t, thickness)

	resistance, err := f.GetCellValue("Materialien", "F3")
	require.NoError(t, err)
	assert.Equal(t, "4", resistance)
}

func TestWorkbookConstructionRow(t *testing.T) {
	lib := testLibrary()
	f, err := Workbook(lib, nil)
	require.NoError(t, err)
	defer f.Close()

	layers, err := f.GetCellValue("Konstruktionen", "D2")
	require.NoError(t, err)
	assert.Equal(t, "AT_Ziegel_25cm | AT_Daemmung_R4", layers)

	u, err := f.GetCellValue("Konstruktionen", "E2")
	require.NoError(t, err)
	assert.Equal(t, "0.211", u)

	oib, err := f.GetCellValue("Konstruktionen", "F2")
	require.NoError(t, err)
	assert.Equal(t, "Ja", oib)
}

func TestWorkbookValidationSheet(t *testing.T) {
	lib := testLibrary()
	lib.Constructions["kaputt"] = library.Construction{
		Name:     "kaputt",
		Layers:   []string{"Gibtsnicht"},
		Category: library.CatUnknown,
	}

	f, err := Workbook(lib, lib.Validate())
	require.NoError(t, err)
	defer f.Close()

	assert.Contains(t, f.GetSheetList(), "Validierung")

	code, err := f.GetCellValue("Validierung", "A2")
	require.NoError(t, err)
	assert.NotEmpty(t, code)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datenbank.xlsx")
	require.NoError(t, WriteFile(testLibrary(), nil, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Materialien")
}
