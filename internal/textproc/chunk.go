package textproc

import "strings"

// DefaultChunkBytes is a safe bound for Google's text:synthesize payload
// ceiling. ElevenLabs accepts a little more; see tts.MaxChunkBytes.
const DefaultChunkBytes = 4500

// SplitIntoChunks splits sanitized text into ordered chunks of at most
// maxBytes encoded bytes each. Bytes, not runes: accented characters take
// more than one. Splits fall on sentence boundaries, or word boundaries when
// a single sentence is too long. Concatenating the chunks with single spaces
// reproduces the whitespace-normalized word sequence of the input.
func SplitIntoChunks(text string, maxBytes int) []string {
	if maxBytes <= 0 {
		maxBytes = DefaultChunkBytes
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= maxBytes {
		return []string{text}
	}

	var chunks []string
	current := ""

	for _, sentence := range splitSentences(text) {
		combined := join(current, sentence)
		if len(combined) > maxBytes {
			if current != "" {
				chunks = append(chunks, strings.TrimSpace(current))
			}
			if len(sentence) > maxBytes {
				chunks, current = splitWords(chunks, sentence, maxBytes)
			} else {
				current = sentence
			}
		} else {
			current = combined
		}
	}

	if current != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}

	return chunks
}

// splitWords greedily packs the words of an oversized sentence. The final
// partial chunk is returned open so following sentences can join it.
func splitWords(chunks []string, sentence string, maxBytes int) ([]string, string) {
	current := ""
	for _, word := range strings.Fields(sentence) {
		combined := join(current, word)
		if len(combined) > maxBytes {
			if current != "" {
				chunks = append(chunks, strings.TrimSpace(current))
			}
			current = word
		} else {
			current = combined
		}
	}
	return chunks, current
}

// splitSentences cuts text after each `.`, `!` or `?` that is followed by
// whitespace. The whitespace run itself is consumed.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if i+1 < len(text) && isSpace(text[i+1]) {
				sentences = append(sentences, text[start:i+1])
				j := i + 1
				for j < len(text) && isSpace(text[j]) {
					j++
				}
				start = j
				i = j - 1
			}
		}
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}

func join(a, b string) string {
	if a == "" {
		return b
	}
	return a + " " + b
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
