package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `BIBLIOTHEQUE DES PRIX;;;;;;
Edition 2026;;;;;;
;;;;;;
Code;Designation;Unite;Minimum;Moyen;Maximum;Extra
03.1.0;GROS OEUVRE;;;;;
03.1.0.0;FONDATIONS;;;;;
03.1.0.0.001;Beton de proprete dose a 150 kg/m3;m3;95000;100000;105000;
03.1.0.2.001;Semelle beton arme;m3;120000.5;125000.4;130000;
03.1.0.2.001;Semelle beton arme;m3;1;2;3;
ABC;abc;u;1;2;3;
`

func TestParseCatalog(t *testing.T) {
	rows, err := ParseCatalog(strings.NewReader(testCatalog))
	require.NoError(t, err)

	t.Run("skips metadata lines and short designations", func(t *testing.T) {
		designations := make([]string, len(rows))
		for i, row := range rows {
			designations[i] = row.Designation
		}
		assert.Equal(t, []string{
			"GROS OEUVRE",
			"FONDATIONS",
			"Beton de proprete dose a 150 kg/m3",
			"Semelle beton arme",
		}, designations)
	})

	t.Run("deduplicates by designation and unit keeping the first", func(t *testing.T) {
		require.Len(t, rows, 4)
		assert.Equal(t, "120 000", rows[3].Prices.Minimum)
	})

	t.Run("formats prices for display", func(t *testing.T) {
		assert.Equal(t, "95 000", rows[2].Prices.Minimum)
		assert.Equal(t, "100 000", rows[2].Prices.Mean)
		assert.Equal(t, "105 000", rows[2].Prices.Maximum)
	})

	t.Run("missing prices become N/A", func(t *testing.T) {
		assert.Equal(t, "N/A", rows[0].Prices.Mean)
	})
}

func TestParseCatalogAppliesEntryValidation(t *testing.T) {
	// The parser drops exactly the rows core.ValidateEntry rejects: rune
	// length matters, not byte length.
	const catalog = `x;;;;;;
x;;;;;;
x;;;;;;
Code;Designation;Unite;Minimum;Moyen;Maximum;Extra
01.1.0.0.001;Mur;u;1;2;3;
01.1.0.0.002;Murs;u;1;2;3;
01.1.0.0.003;Dés;u;1;2;3;
`
	rows, err := ParseCatalog(strings.NewReader(catalog))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Murs", rows[0].Designation)
}

func TestParseCatalogEmptyFile(t *testing.T) {
	rows, err := ParseCatalog(strings.NewReader("only one line\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty is missing", "", "N/A"},
		{"plain integer", "1000", "1 000"},
		{"rounds decimals", "125000.5", "125 000"},
		{"rounds half up to even", "125001.5", "125 002"},
		{"large amount", "1234567", "1 234 567"},
		{"small amount unchanged", "950", "950"},
		{"spaces inside numbers are ignored", "1 250", "1 250"},
		{"non-numeric passes through", "sur devis", "sur devis"},
		{"negative amount", "-1234", "-1 234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatPrice(tt.raw))
		})
	}
}
