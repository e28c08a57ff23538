package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCompliantLibrary(t *testing.T) {
	dir := writeResources(t, compliantLibrary)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--resources", dir})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "AT_Außenwand_WDVS_Standard")
	assert.Contains(t, output, "0.210")
	assert.Contains(t, output, "✓ All 1 constructions OIB-compliant")
}

func TestValidateViolationExitsWithFailure(t *testing.T) {
	dir := writeResources(t, violatingLibrary)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--resources", dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	output := buf.String()
	assert.Contains(t, output, "V101")
	assert.Contains(t, output, "✗ 1 violation(s)")
}

func TestValidateJSONCarriesIssues(t *testing.T) {
	dir := writeResources(t, violatingLibrary)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--resources", dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, false, data["valid"])
	issues := data["issues"].([]interface{})
	require.NotEmpty(t, issues)
	first := issues[0].(map[string]interface{})
	assert.Equal(t, "V101", first["code"])
}

func TestValidateMissingResourceDir(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--resources", "/nonexistent/resources"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
