package textproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeForTTS_CollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "one two three", SanitizeForTTS("one \t two\n\nthree"))
}

func TestSanitizeForTTS_StripsMarkup(t *testing.T) {
	assert.Equal(t, "hello world", SanitizeForTTS("hello <b>world</b>"))
	assert.Equal(t, "text", SanitizeForTTS(`<div class="x">text</div>`))
}

func TestSanitizeForTTS_ReplacesURLs(t *testing.T) {
	got := SanitizeForTTS("voir https://example.com/article?id=1 pour plus")
	assert.Equal(t, "voir "+URLPlaceholder+" pour plus", got)

	got = SanitizeForTTS("http://a.fr et https://b.fr")
	assert.Equal(t, URLPlaceholder+" et "+URLPlaceholder, got)
}

func TestSanitizeForTTS_DropsUnsafeCharacters(t *testing.T) {
	assert.Equal(t, "prix 100 euros", SanitizeForTTS("prix 100€ euros"))
	assert.Equal(t, "a b", SanitizeForTTS("a💡 b"))
	// French accents survive the allow-list.
	assert.Equal(t, "déjà élevé, ça va!", SanitizeForTTS("déjà élevé, ça va!"))
}

func TestSanitizeForTTS_FixesSentenceSpacing(t *testing.T) {
	assert.Equal(t, "Fin. Début", SanitizeForTTS("Fin.Début"))
	assert.Equal(t, "Quoi? Oui! Non.", SanitizeForTTS("Quoi?Oui!Non."))
}

func TestSanitizeForTTS_EmptyInput(t *testing.T) {
	assert.Equal(t, "", SanitizeForTTS(""))
	assert.Equal(t, "", SanitizeForTTS("   \n\t  "))
}

func TestSanitizeForTTS_Idempotent(t *testing.T) {
	inputs := []string{
		"Un <p>paragraphe</p> avec https://lien.fr dedans.Et une suite!",
		"  déjà   propre. Texte élémentaire, n'est-ce pas?  ",
		"symbols @#$%^&* everywhere",
		strings.Repeat("Une phrase. ", 50),
	}
	for _, input := range inputs {
		once := SanitizeForTTS(input)
		assert.Equal(t, once, SanitizeForTTS(once), "sanitize must be idempotent for %q", input)
	}
}
