package sector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectors_Canonical(t *testing.T) {
	s := Sectors()
	require.Len(t, s, 12)
	assert.Equal(t, "INDUSTRIAL PRODUCTS AND SERVICES", s[0])
	assert.Contains(t, s, "FINANCIAL SERVICES")
	assert.Contains(t, s, "PLANTATION")
}

func TestSectorFor_KnownCompany(t *testing.T) {
	s, ok := SectorFor("Datasonic Group Bhd")
	require.True(t, ok)
	assert.Equal(t, "INDUSTRIAL PRODUCTS AND SERVICES", s)

	s, ok = SectorFor("Agmo Holdings Bhd")
	require.True(t, ok)
	assert.Equal(t, "TECHNOLOGY", s)
}

func TestSectorFor_Unknown(t *testing.T) {
	_, ok := SectorFor("No Such Company Bhd")
	assert.False(t, ok)

	// Lookups are exact; no fuzzy matching on suffixes.
	_, ok = SectorFor("datasonic group bhd")
	assert.False(t, ok)
}

func TestCompaniesBySector(t *testing.T) {
	companies := CompaniesBySector("HEALTH CARE")
	require.NotEmpty(t, companies)
	assert.Contains(t, companies, "Cengild Medical Bhd")
	assert.Contains(t, companies, "Smile-Link Healthcare Global Bhd")
	assert.IsType(t, []string{}, companies)

	assert.Empty(t, CompaniesBySector("AGRICULTURE"))
}

func TestEveryCompanyMapsToCanonicalSector(t *testing.T) {
	canonical := make(map[string]bool)
	for _, s := range Sectors() {
		canonical[s] = true
	}
	for _, s := range Sectors() {
		for _, c := range CompaniesBySector(s) {
			got, ok := SectorFor(c)
			require.True(t, ok, c)
			assert.True(t, canonical[got], "%s mapped to non-canonical sector %q", c, got)
		}
	}
	assert.Greater(t, Count(), 150)
}
