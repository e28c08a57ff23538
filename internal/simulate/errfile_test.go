package simulate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleErrFile = `Program Version,EnergyPlus, Version 25.1.0-abc, YMD=2026.03.01 12:00,
   ** Warning ** Weather file location will be used rather than entered (IDF) Location object.
   **   ~~~   ** ..Location object=SALZBURG
   **   ~~~   ** ..Weather File Location=Salzburg AP AUT
   ** Warning ** GetSurfaceData: CAUTION -- Interzone surfaces are usually in pairs
   ** Severe  ** GetSurfaceData: Construction AT_Fantasiewand not found for surface AT_Zone_Bad_Wand_Nord
   **  Fatal  ** GetSurfaceData: Errors discovered, program terminates.
   ************* EnergyPlus Terminated--Fatal Error Detected. 2 Warning; 1 Severe Errors
`

func TestParseErrFile(t *testing.T) {
	summary, err := ParseErrFile(strings.NewReader(sampleErrFile))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Warnings)
	assert.Equal(t, 1, summary.Severes)
	assert.Equal(t, 1, summary.Fatals)
	assert.False(t, summary.Clean())
	require.Len(t, summary.Entries, 4)

	first := summary.Entries[0]
	assert.Equal(t, SeverityWarning, first.Severity)
	assert.Contains(t, first.Message, "Weather file location will be used")
	assert.Contains(t, first.Message, "..Location object=SALZBURG", "continuation lines are folded in")
	assert.Contains(t, first.Message, "..Weather File Location=Salzburg AP AUT")

	assert.Equal(t, SeveritySevere, summary.Entries[2].Severity)
	assert.Equal(t, SeverityFatal, summary.Entries[3].Severity)
}

func TestParseErrFileCleanRun(t *testing.T) {
	content := `Program Version,EnergyPlus, Version 25.1.0-abc,
   ** Warning ** Some harmless note
   ************* EnergyPlus Completed Successfully-- 1 Warning; 0 Severe Errors
`
	summary, err := ParseErrFile(strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Warnings)
	assert.True(t, summary.Clean())
}

func TestParseErrFileIgnoresLeadingContinuation(t *testing.T) {
	summary, err := ParseErrFile(strings.NewReader("   **   ~~~   ** orphan line\n"))
	require.NoError(t, err)
	assert.Empty(t, summary.Entries)
}

func TestParseErrFileEmpty(t *testing.T) {
	summary, err := ParseErrFile(strings.NewReader(""))
	require.NoError(t, err)
	assert.True(t, summary.Clean())
	assert.Empty(t, summary.Entries)
}
