package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epaustria/idfkit/internal/zone"
)

func writeLayout(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layout.cue")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func TestLoadBuilding(t *testing.T) {
	path := writeLayout(t, `
building: {
	name: "EFH Salzburg"
	zones: [
		{
			name:     "Wohnzimmer"
			roomType: "wohnzimmer"
		},
		{
			name:       "Kueche"
			roomType:   "kueche"
			dimensions: [4, 3, 2.7]
			position: [0, 7, 0]
			windows: [{wall: "nord", width: 2.4, height: 1.4}]
		},
	]
}
`)

	b, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "EFH Salzburg", b.Name)
	require.Len(t, b.Zones, 2)

	wohn := b.Zones[0]
	assert.Equal(t, "Wohnzimmer", wohn.Name)
	assert.Equal(t, "wohnzimmer", wohn.RoomType)
	assert.Nil(t, wohn.Windows, "absent windows key inherits room defaults")
	assert.Equal(t, zone.Position{}, wohn.Position)

	kueche := b.Zones[1]
	assert.Equal(t, zone.Dimensions{Width: 4, Depth: 3, Height: 2.7}, kueche.Dimensions)
	assert.Equal(t, zone.Position{X: 0, Y: 7, Z: 0}, kueche.Position)
	require.Len(t, kueche.Windows, 1)
	assert.Equal(t, zone.Window{Wall: "nord", Width: 2.4, Height: 1.4, SillHeight: 0.8}, kueche.Windows[0])
}

func TestLoadExplicitEmptyWindows(t *testing.T) {
	path := writeLayout(t, `
building: {
	name: "Lager"
	zones: [{name: "Keller", roomType: "keller", windows: []}]
}
`)

	b, err := Load(path)
	require.NoError(t, err)
	require.Len(t, b.Zones, 1)
	require.NotNil(t, b.Zones[0].Windows)
	assert.Empty(t, b.Zones[0].Windows)
}

func TestLoadOverrides(t *testing.T) {
	path := writeLayout(t, `
building: {
	name: "Passivhaus"
	zones: [{
		name:          "Buero"
		roomType:      "buero"
		people:        3
		lightingPower: 450
		constructions: {exterior_wall: "AT_Außenwand_Passivhaus"}
	}]
}
`)

	b, err := Load(path)
	require.NoError(t, err)
	cfg := b.Zones[0]
	assert.Equal(t, 3.0, cfg.PeopleCount)
	assert.Equal(t, 450.0, cfg.LightingPower)
	assert.Equal(t, "AT_Außenwand_Passivhaus", cfg.Constructions["exterior_wall"])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)
	loadErr, ok := err.(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}

func TestLoadRejectsUnknownWall(t *testing.T) {
	path := writeLayout(t, `
building: {
	name: "Kaputt"
	zones: [{name: "Bad", roomType: "badezimmer", windows: [{wall: "oben", width: 1, height: 1}]}]
}
`)

	_, err := Load(path)
	require.Error(t, err)
	loadErr, ok := err.(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeSchema, loadErr.Code)
}

func TestLoadRejectsNonPositiveDimension(t *testing.T) {
	path := writeLayout(t, `
building: {
	name: "Kaputt"
	zones: [{name: "Bad", roomType: "badezimmer", dimensions: [0, 3, 2.7]}]
}
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsEmptyZoneList(t *testing.T) {
	path := writeLayout(t, `
building: {
	name: "Leer"
	zones: []
}
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadFeedsBuildBuilding(t *testing.T) {
	path := writeLayout(t, `
building: {
	name: "Zweizimmer"
	zones: [
		{name: "Wohnzimmer", roomType: "wohnzimmer", position: [0, 0, 0]},
		{name: "Kueche", roomType: "kueche", position: [0, 7, 0]},
	]
}
`)

	b, err := Load(path)
	require.NoError(t, err)

	file, err := zone.BuildBuilding(b.Zones)
	require.NoError(t, err)
	assert.Len(t, file.ByClass("Zone"), 2)
	_, ok := file.Find("Zone", "AT_Zone_Kueche")
	assert.True(t, ok)
}
