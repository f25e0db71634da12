package report

import "unicode/utf8"

// MaxMessageLength is the chat platform's per-message character limit.
const MaxMessageLength = 2000

// Chunk slices text into consecutive segments of at most maxLength
// characters. Slicing is positional, not line aware; joining the segments
// gives back text exactly. A maxLength below 1 means MaxMessageLength.
func Chunk(text string, maxLength int) []string {
	if maxLength < 1 {
		maxLength = MaxMessageLength
	}
	var chunks []string
	start, count := 0, 0
	for i := 0; i < len(text); {
		if count == maxLength {
			chunks = append(chunks, text[start:i])
			start, count = i, 0
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
		count++
	}
	if start < len(text) {
		chunks = append(chunks, text[start:])
	}
	return chunks
}
