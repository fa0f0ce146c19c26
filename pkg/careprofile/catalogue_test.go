package careprofile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuiltinLookupIgnoresCase(t *testing.T) {
	p, ok := Builtin().Lookup("  boston   FERN ")
	require.True(t, ok)
	assert.Equal(t, 3, p.WaterFrequencyDays)

	_, ok = Builtin().Lookup("triffid")
	assert.False(t, ok)

	var nilCat *Catalogue
	_, ok = nilCat.Lookup("pothos")
	assert.False(t, ok)
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.csv")
	body := "\uFEFFSpecies,Water Frequency Days,Light\nBoston fern,2,shade\nBad row,zero,\nHoya,10,bright\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	p, ok := c.Lookup("hoya")
	require.True(t, ok)
	assert.Equal(t, 10, p.WaterFrequencyDays)
	assert.Equal(t, "bright", p.Light)

	merged := Builtin().Merge(c)
	p, _ = merged.Lookup("Boston fern")
	assert.Equal(t, 2, p.WaterFrequencyDays, "file entries override builtin ones")
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"species", "water_frequency_days", "light"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"String of pearls", 12, "bright indirect"}))
	path := filepath.Join(t.TempDir(), "profiles.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	c, err := LoadFile(path)
	require.NoError(t, err)
	p, ok := c.Lookup("string of pearls")
	require.True(t, ok)
	assert.Equal(t, 12, p.WaterFrequencyDays)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	c, err = XLSXReader(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestHTMLRowsFirstTable(t *testing.T) {
	page := `<html><body>
<h1>Care guide</h1>
<table>
  <tr><th>Plant</th><th>Interval</th><th>Sun</th></tr>
  <tr><td>Bird of paradise</td><td> 6 </td><td>bright</td></tr>
  <tr><td>Air plant</td><td>n/a</td><td>bright</td></tr>
</table>
<table><tr><th>species</th><th>interval</th></tr><tr><td>ignored</td><td>1</td></tr></table>
</body></html>`
	rows, err := htmlRows(strings.NewReader(page))
	require.NoError(t, err)
	c, err := fromRows(rows)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
	p, ok := c.Lookup("Bird of Paradise")
	require.True(t, ok)
	assert.Equal(t, 6, p.WaterFrequencyDays)
	assert.Equal(t, "bright", p.Light)
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadFile(filepath.Join(dir, "profiles.json"))
	assert.ErrorContains(t, err, "unsupported")

	path := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,color\nfern,green\n"), 0o644))
	_, err = LoadFile(path)
	assert.ErrorContains(t, err, "missing required columns")

	_, err = htmlRows(strings.NewReader("<p>no table</p>"))
	assert.Error(t, err)
}
