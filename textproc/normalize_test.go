package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Run("strips diacritics and lowers case", func(t *testing.T) {
		assert.Equal(t, "etancheite", Normalize("Étanchéité"))
		assert.Equal(t, "beton arme", Normalize("Béton Armé"))
		assert.Equal(t, "macon", Normalize("maçon"))
	})

	t.Run("idempotent", func(t *testing.T) {
		inputs := []string{"Étanchéité", "semelle BÉTON 20x40", "déjà normalisé", ""}
		for _, in := range inputs {
			once := Normalize(in)
			assert.Equal(t, once, Normalize(once))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", Normalize(""))
	})

	t.Run("keeps digits and punctuation", func(t *testing.T) {
		assert.Equal(t, "dose a 350 kg/m3", Normalize("Dosé à 350 kg/m3"))
	})
}
