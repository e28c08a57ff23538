package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// compliantLibrary is a WDVS wall that passes the OIB check (U ≈ 0.21).
const compliantLibrary = `
Material,
    AT_Putz_Innen_1.5cm, Smooth, 0.015, 0.70, 1400, 1000;
Material,
    AT_Ziegel_25cm, MediumRough, 0.25, 0.44, 800, 1000;
Material,
    AT_EPS_16cm, MediumSmooth, 0.16, 0.04, 18, 1450;
Material,
    AT_Putz_Aussen_0.5cm, MediumRough, 0.005, 0.80, 1800, 1000;
Construction,
    AT_Außenwand_WDVS_Standard,
    AT_Putz_Aussen_0.5cm,
    AT_EPS_16cm,
    AT_Ziegel_25cm,
    AT_Putz_Innen_1.5cm;
`

// violatingLibrary is a bare concrete wall far above the OIB limit.
const violatingLibrary = `
Material,
    AT_Beton_20cm, MediumRough, 0.20, 2.3, 2400, 1000;
Construction,
    AT_Außenwand_Beton,
    AT_Beton_20cm;
`

// writeResources writes an IDF resource tree into a temp dir.
func writeResources(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "materialien.idf"), []byte(content), 0o644))
	return dir
}
