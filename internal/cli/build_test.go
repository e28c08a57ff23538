package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLayout = `
building: {
	name: "Testhaus Salzburg"
	zones: [
		{name: "Wohnzimmer", roomType: "wohnzimmer"},
		{name: "Kueche", roomType: "kueche", position: [12, 0, 0]},
	]
}
`

func writeLayout(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layout.cue")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuildFromLayout(t *testing.T) {
	layoutPath := writeLayout(t, sampleLayout)
	outPath := filepath.Join(t.TempDir(), "haus.idf")

	buf := &bytes.Buffer{}
	cmd := NewBuildCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{layoutPath, "-o", outPath})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Testhaus Salzburg", data["building"])
	assert.Len(t, data["zones"].([]interface{}), 2)

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "AT_Zone_Wohnzimmer")
	assert.Contains(t, string(content), "AT_Zone_Kueche")
}

func TestBuildMissingLayout(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewBuildCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "fehlt.cue")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "L001")
}

func TestBuildRejectsSchemaViolation(t *testing.T) {
	layoutPath := writeLayout(t, `
building: {
	name: "Kaputt"
	zones: [
		{name: "Bad", windows: [{wall: "oben", width: 1, height: 1}]},
	]
}
`)

	buf := &bytes.Buffer{}
	cmd := NewBuildCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{layoutPath})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "L003")
}
