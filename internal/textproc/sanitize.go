// Package textproc prepares article text for speech synthesis: it scrubs the
// extracted prose down to a TTS-safe character set and splits it into
// provider-sized chunks.
package textproc

import (
	"regexp"
	"strings"
)

// URLPlaceholder is spoken in place of every absolute URL. The podcast is
// French, so the placeholder is too.
const URLPlaceholder = "lien disponible dans la description"

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	markupRe     = regexp.MustCompile(`<[^>]*>`)
	urlRe        = regexp.MustCompile(`https?://[^\s]+`)
	// Strict allow-list: word characters, whitespace, sentence punctuation
	// and the accented letters of French. Everything else is dropped.
	unsafeRe   = regexp.MustCompile(`[^\w\s.,!?;:()\-'"àâäéèêëïîôùûüÿçÀÂÄÉÈÊËÏÎÔÙÛÜŸÇ]`)
	sentenceRe = regexp.MustCompile(`([.!?])\s*([A-ZÀÂÄÉÈÊËÏÎÔÙÛÜŸÇ])`)
	paragraphRe = regexp.MustCompile(`\n{2,}`)
)

// SanitizeForTTS strips unsafe characters from extracted article text and
// normalizes whitespace and punctuation so the result reads well aloud.
// It is pure and idempotent: re-sanitizing sanitized text is a no-op.
func SanitizeForTTS(text string) string {
	cleaned := whitespaceRe.ReplaceAllString(text, " ")

	// Defense in depth: upstream extraction may leave markup residue.
	cleaned = markupRe.ReplaceAllString(cleaned, "")

	// URLs are replaced before character filtering; the filter would
	// otherwise mangle them into noise instead of removing them cleanly.
	cleaned = urlRe.ReplaceAllString(cleaned, URLPlaceholder)

	cleaned = unsafeRe.ReplaceAllString(cleaned, "")

	// A sentence mark glued to the next capital letter is an ingestion
	// artifact that hurts spoken prosody.
	cleaned = sentenceRe.ReplaceAllString(cleaned, "$1 $2")

	// Paragraph breaks become audible pauses.
	cleaned = paragraphRe.ReplaceAllString(cleaned, ". ")

	return strings.TrimSpace(cleaned)
}
