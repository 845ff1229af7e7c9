package localization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arogyakrishi/internal/model"
)

func TestValidateLanguage(t *testing.T) {
	for _, code := range SupportedLanguages {
		got, err := ValidateLanguage(code)
		require.NoError(t, err)
		assert.Equal(t, code, got)
	}

	got, err := ValidateLanguage(" HI ")
	require.NoError(t, err)
	assert.Equal(t, "hi", got)

	got, err = ValidateLanguage("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, got)

	_, err = ValidateLanguage("fr")
	assert.ErrorIs(t, err, model.ErrUnsupportedLanguage)
}

func TestCatalog_Translations(t *testing.T) {
	c := MustLoad()

	assert.Equal(t, "టమాటా", c.CropName("Tomato", "te"))
	assert.Equal(t, "Tomato", c.CropName("Tomato", "en"))
	assert.Equal(t, "Okra", c.CropName("Okra", "hi"), "unknown crops pass through")

	assert.Equal(t, "टमाटर का पछेती झुलसा", c.DiseaseName("Tomato Late Blight", "hi"))
	assert.Equal(t, "Leaf Curl", c.DiseaseName("Leaf Curl", "te"))
}

func TestCatalog_RemediesFallBack(t *testing.T) {
	c := MustLoad()

	en := c.Remedies("Tomato Late Blight", "en")
	require.NotEmpty(t, en)
	assert.Contains(t, en[0], "mancozeb")

	// No Kannada remedies in the catalog, so English is used.
	assert.Equal(t, en, c.Remedies("Tomato Late Blight", "kn"))

	generic := c.Remedies("Unknown Wilt", "en")
	require.NotEmpty(t, generic)
	assert.Contains(t, generic[0], "extension officer")
}

func TestCatalog_RemediesAreCopies(t *testing.T) {
	c := MustLoad()
	r := c.Remedies("Rice Blast", "en")
	r[0] = "mutated"
	assert.NotEqual(t, "mutated", c.Remedies("Rice Blast", "en")[0])
}

func TestCatalog_NormalizeDisease(t *testing.T) {
	c := MustLoad()

	assert.Equal(t, "Rice Blast", c.NormalizeDisease("rice  blast"))
	assert.Equal(t, "Rice Blast", c.NormalizeDisease("వరి అగ్గి తెగులు"))
	assert.Equal(t, "Potato Late Blight", c.NormalizeDisease("आलू का पछेती झुलसा"))
	assert.Equal(t, "Mystery Spot", c.NormalizeDisease(" Mystery Spot "))
}

func TestParse_Rejects(t *testing.T) {
	_, err := Parse([]byte("diseases: ["))
	assert.Error(t, err)

	_, err = Parse([]byte("languages: [en]\n"))
	assert.Error(t, err)
}
